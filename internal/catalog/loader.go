package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// file is the on-disk layout shared by the YAML and JSON formats.
type file struct {
	Products []record `yaml:"products" json:"products"`
	FAQs     []FAQ    `yaml:"faqs" json:"faqs"`
}

type record struct {
	Barcode      string `yaml:"barcode" json:"barcode"`
	Name         string `yaml:"name" json:"name"`
	Category     string `yaml:"category" json:"category"`
	Price        any    `yaml:"price" json:"price"`
	Discount     string `yaml:"discount" json:"discount"`
	Availability string `yaml:"availability" json:"availability"`
	Aisle        int    `yaml:"aisle" json:"aisle"`
	Shelf        string `yaml:"shelf" json:"shelf"`
	Description  string `yaml:"description" json:"description"`
}

// LoadFile reads a catalog from path; the format follows the extension.
func LoadFile(path string) (*Catalog, error) {
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	c, err := Load(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}

// Load decodes and validates a catalog.
func Load(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}

	var raw file
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, errors.Errorf("unknown catalog format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s catalog", format)
	}

	products := make([]Entry, 0, len(raw.Products))
	for _, rec := range raw.Products {
		price, err := parsePrice(rec.Price)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidEntry, "product %q: %v", rec.Name, err)
		}
		products = append(products, Entry{
			ID:           rec.Barcode,
			Name:         rec.Name,
			Category:     rec.Category,
			Price:        price,
			Discount:     rec.Discount,
			Availability: rec.Availability,
			Aisle:        rec.Aisle,
			Shelf:        rec.Shelf,
			Description:  rec.Description,
		})
	}

	return New(products, raw.FAQs)
}

func parsePrice(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case int:
		return decimal.NewFromInt(int64(p)), nil
	case int64:
		return decimal.NewFromInt(p), nil
	case float64:
		return decimal.NewFromFloat(p), nil
	case json.Number:
		return decimal.NewFromString(p.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(p))
	default:
		return decimal.Zero, fmt.Errorf("unsupported price %v", v)
	}
}
