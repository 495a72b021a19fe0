// Package catalog holds the static product and FAQ data and the search
// engine that runs over it.
package catalog

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidEntry is returned when a loaded record breaks a catalog invariant.
var ErrInvalidEntry = errors.New("invalid catalog entry")

// NoDiscount is the discount text that means the product is not on offer.
const NoDiscount = "No discount"

// Entry is a product with its in-store location.
type Entry struct {
	ID           string          `json:"barcode"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Discount     string          `json:"discount,omitempty"`
	Availability string          `json:"availability,omitempty"`
	Aisle        int             `json:"aisle"`
	Shelf        string          `json:"shelf"`
	Description  string          `json:"description,omitempty"`
}

// HasDiscount reports whether the entry carries a real offer.
func (e Entry) HasDiscount() bool {
	d := strings.TrimSpace(e.Discount)
	return d != "" && !strings.EqualFold(d, NoDiscount)
}

// Location formats the aisle and shelf of the entry.
func (e Entry) Location() string {
	return fmt.Sprintf("Aisle %d, Shelf %s", e.Aisle, e.Shelf)
}

func (e Entry) validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return errors.Wrapf(ErrInvalidEntry, "product %q: empty name", e.ID)
	case e.Aisle <= 0:
		return errors.Wrapf(ErrInvalidEntry, "product %q: aisle must be positive", e.Name)
	case strings.TrimSpace(e.Shelf) == "":
		return errors.Wrapf(ErrInvalidEntry, "product %q: empty shelf", e.Name)
	case e.Price.IsNegative():
		return errors.Wrapf(ErrInvalidEntry, "product %q: negative price", e.Name)
	}
	return nil
}

// FAQ is a static question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f FAQ) validate() error {
	if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
		return errors.Wrapf(ErrInvalidEntry, "faq %q: question and answer are required", f.Question)
	}
	return nil
}

// Catalog is the immutable data set searched by the Engine.
type Catalog struct {
	Products []Entry
	FAQs     []FAQ
}

// New validates products and faqs and returns a Catalog holding copies.
func New(products []Entry, faqs []FAQ) (*Catalog, error) {
	for _, p := range products {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	for _, f := range faqs {
		if err := f.validate(); err != nil {
			return nil, err
		}
	}
	return &Catalog{
		Products: append([]Entry(nil), products...),
		FAQs:     append([]FAQ(nil), faqs...),
	}, nil
}
