package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avvvet/storebuddy-assistant/internal/matching"
)

// Kind distinguishes product results from FAQ answers.
type Kind string

const (
	KindProduct Kind = "product"
	KindFAQ     Kind = "faq"
)

// DefaultLimit caps the number of product results of one search.
const DefaultLimit = 5

// Result is one search hit. Results keep catalog order; there is no score.
type Result struct {
	Kind    Kind   `json:"type"`
	Content string `json:"content"`
	Product *Entry `json:"product,omitempty"`
	FAQ     *FAQ   `json:"faq,omitempty"`
}

// Engine searches a Catalog. It never mutates the catalog and is safe for
// concurrent use.
type Engine struct {
	products []indexedEntry
	faqs     []indexedFAQ
	limit    int
	currency string
}

type indexedEntry struct {
	entry       *Entry
	name        string
	category    string
	description string
	words       []string
}

type indexedFAQ struct {
	faq      *FAQ
	question string
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLimit sets the product result cap. Values below 1 are ignored.
func WithLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithCurrency sets the symbol printed before prices.
func WithCurrency(symbol string) EngineOption {
	return func(e *Engine) { e.currency = symbol }
}

// NewEngine precomputes the normalized fields of every catalog record.
func NewEngine(c *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{limit: DefaultLimit, currency: "₹"}
	for _, opt := range opts {
		opt(e)
	}

	e.products = make([]indexedEntry, len(c.Products))
	for i := range c.Products {
		p := &c.Products[i]
		e.products[i] = indexedEntry{
			entry:       p,
			name:        matching.Normalize(p.Name),
			category:    matching.Normalize(p.Category),
			description: matching.Normalize(p.Description),
			words:       searchableWords(p.Name, p.Category),
		}
	}

	e.faqs = make([]indexedFAQ, len(c.FAQs))
	for i := range c.FAQs {
		e.faqs[i] = indexedFAQ{faq: &c.FAQs[i], question: matching.Normalize(c.FAQs[i].Question)}
	}
	return e
}

// Search looks the query up in the FAQs first and, when no question
// matches, in the products. An FAQ hit is returned alone. Product hits keep
// catalog order and are capped at the engine limit. A blank query returns
// an empty slice without scanning.
func (e *Engine) Search(query string) []Result {
	q := matching.Normalize(query)
	if q == "" {
		return []Result{}
	}

	if f, ok := e.MatchFAQ(q); ok {
		return []Result{{Kind: KindFAQ, Content: f.Answer, FAQ: f}}
	}

	products := e.MatchProducts(q)
	results := make([]Result, 0, len(products))
	for _, p := range products {
		results = append(results, Result{Kind: KindProduct, Content: e.Describe(p), Product: p})
	}
	return results
}

// MatchFAQ returns the first FAQ whose question contains the query or is
// contained in it.
func (e *Engine) MatchFAQ(query string) (*FAQ, bool) {
	q := matching.Normalize(query)
	if q == "" {
		return nil, false
	}
	for _, f := range e.faqs {
		if strings.Contains(f.question, q) || strings.Contains(q, f.question) {
			return f.faq, true
		}
	}
	return nil, false
}

// MatchProducts returns up to the engine limit of products matching query.
func (e *Engine) MatchProducts(query string) []*Entry {
	q := matching.Normalize(query)
	if q == "" {
		return nil
	}
	cleaned := matching.Clean(q)
	terms := matching.Terms(cleaned)

	var out []*Entry
	for i := range e.products {
		if len(out) == e.limit {
			break
		}
		if e.products[i].matches(q, cleaned, terms) {
			out = append(out, e.products[i].entry)
		}
	}
	return out
}

func (p indexedEntry) matches(query, cleaned string, terms []string) bool {
	if p.fieldsContain(query) {
		return true
	}
	if cleaned != "" && p.fieldsContain(cleaned) {
		return true
	}
	for _, term := range terms {
		if strings.Contains(p.name, term) || strings.Contains(p.category, term) {
			return true
		}
		if matching.Similar(p.name, term) || matching.Similar(p.category, term) {
			return true
		}
		for _, w := range p.words {
			if matching.Similar(w, term) {
				return true
			}
		}
	}
	return false
}

// searchableWords returns the words of the given fields that are long
// enough to be compared with search terms.
func searchableWords(fields ...string) []string {
	var out []string
	for _, f := range fields {
		for _, w := range matching.Words(f) {
			if utf8.RuneCountInString(w) > matching.MinTermLength {
				out = append(out, w)
			}
		}
	}
	return out
}

func (p indexedEntry) fieldsContain(s string) bool {
	return strings.Contains(p.name, s) || strings.Contains(p.category, s) || strings.Contains(p.description, s)
}

// Describe formats the one-line summary of a product result.
func (e *Engine) Describe(p *Entry) string {
	s := fmt.Sprintf("%s — %s, price %s%s", p.Name, p.Location(), e.currency, p.Price.String())
	if p.HasDiscount() {
		s += fmt.Sprintf(" (%s)", p.Discount)
	}
	return s
}

// Size returns the number of products and FAQs indexed.
func (e *Engine) Size() (products, faqs int) {
	return len(e.products), len(e.faqs)
}
