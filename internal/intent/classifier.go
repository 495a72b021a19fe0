package intent

import (
	"github.com/go-faster/errors"

	"github.com/avvvet/storebuddy-assistant/internal/matching"
)

// Classifier evaluates the rule table in order; the first matching rule wins.
type Classifier struct {
	rules     []Rule
	responses map[string]string
}

// Option customises a Classifier.
type Option func(*config)

type config struct {
	greetingMaxLen int
	rules          []Rule
	templates      map[string]string
}

// WithGreetingMaxLen changes the greeting length threshold.
func WithGreetingMaxLen(n int) Option {
	return func(c *config) { c.greetingMaxLen = n }
}

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(c *config) { c.rules = rules }
}

// WithTemplate adds or overrides a response template.
func WithTemplate(name, source string) Option {
	return func(c *config) { c.templates[name] = source }
}

// NewClassifier renders the response templates for info and validates that
// every rule has a response.
func NewClassifier(info StoreInfo, opts ...Option) (*Classifier, error) {
	cfg := &config{
		greetingMaxLen: DefaultGreetingMaxLen,
		templates:      make(map[string]string, len(DefaultTemplates)),
	}
	for name, src := range DefaultTemplates {
		cfg.templates[name] = src
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rules == nil {
		cfg.rules = DefaultRules(cfg.greetingMaxLen)
	}

	responses, err := renderTemplates(cfg.templates, info)
	if err != nil {
		return nil, err
	}
	for _, r := range cfg.rules {
		if r.Match == nil {
			return nil, errors.Errorf("rule %q has no predicate", r.Name)
		}
		if _, ok := responses[r.Template]; !ok {
			return nil, errors.Errorf("rule %q refers to unknown template %q", r.Name, r.Template)
		}
	}

	return &Classifier{rules: cfg.rules, responses: responses}, nil
}

// Match returns the first rule satisfied by text.
func (c *Classifier) Match(text string) (Rule, bool) {
	normalized := matching.Normalize(text)
	if normalized == "" {
		return Rule{}, false
	}
	for _, r := range c.rules {
		if r.Match(normalized) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify returns the intent of text, or None.
func (c *Classifier) Classify(text string) Intent {
	if r, ok := c.Match(text); ok {
		return r.Intent
	}
	return None
}

// Respond classifies text and returns the canned reply of the matching rule.
// The reply is empty when the intent is None.
func (c *Classifier) Respond(text string) (Intent, string) {
	r, ok := c.Match(text)
	if !ok {
		return None, ""
	}
	return r.Intent, c.responses[r.Template]
}

// ResponseFor returns the general canned reply of an intent.
func (c *Classifier) ResponseFor(i Intent) (string, bool) {
	s, ok := c.responses[string(i)]
	return s, ok
}
