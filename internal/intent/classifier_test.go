package intent

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultStoreInfo(), opts...)
	require.NoError(t, err)
	return c
}

func TestClassifier_Classify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name  string
		input string
		want  Intent
	}{
		{"bare greeting", "hello", Greeting},
		{"greeting with punctuation", "Hey!", Greeting},
		{"greeting prefix", "hi there", Greeting},
		{"greeting suffix", "good morning hola", Greeting},
		{"long greeting falls through", "hello, can you tell me where the milk is located", None},
		{"greeting inside word", "hilsa fish", None},
		{"opening time", "What time do you open?", StoreHours},
		{"closing time", "when do you close", StoreHours},
		{"weekend", "are you open on sunday", StoreHours},
		{"schedule alone", "store timings", StoreHours},
		{"upi", "Do you take Google Pay?", Payment},
		{"card", "can I use a credit card", Payment},
		{"cash", "cash accepted", Payment},
		{"generic pay", "how can I pay", Payment},
		{"parking", "is there parking", Parking},
		{"keyword inside word", "sparkling water", Parking},
		{"carpark", "is there a carpark", Parking},
		{"prepay", "can i prepay online", Payment},
		{"non-refundable", "are these non-refundable", Returns},
		{"delivery", "do you deliver to my area", Delivery},
		{"shipping", "shipping charges", Delivery},
		{"returns", "what is your refund policy", Returns},
		{"exchange", "can I exchange a shirt", Returns},
		{"help", "I need support", Help},
		{"contact", "contact number", Help},
		{"product query", "where is the milk", None},
		{"empty", "", None},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.input))
		})
	}
}

func TestClassifier_WeekendBeforeSchedule(t *testing.T) {
	c := newTestClassifier(t)

	rule, ok := c.Match("weekend timings")
	require.True(t, ok)
	assert.Equal(t, "hours.weekend", rule.Name)

	rule, ok = c.Match("store timings")
	require.True(t, ok)
	assert.Equal(t, "hours.schedule", rule.Name)
}

func TestClassifier_PriorityOrder(t *testing.T) {
	c := newTestClassifier(t)

	// Store hours outrank payment; payment outranks parking and delivery.
	assert.Equal(t, StoreHours, c.Classify("what are the payment counter hours"))
	assert.Equal(t, Payment, c.Classify("can I pay for parking"))
	assert.Equal(t, Parking, c.Classify("parking for home delivery vans"))
	assert.Equal(t, Returns, c.Classify("return help"))
}

func TestClassifier_Respond(t *testing.T) {
	c := newTestClassifier(t)

	i, reply := c.Respond("when do you open")
	assert.Equal(t, StoreHours, i)
	assert.Contains(t, reply, "9:00 AM")

	i, reply = c.Respond("closing time?")
	assert.Equal(t, StoreHours, i)
	assert.Contains(t, reply, "10:00 PM")

	i, reply = c.Respond("do you accept paytm")
	assert.Equal(t, Payment, i)
	assert.Contains(t, reply, "UPI")

	i, reply = c.Respond("where are the apples")
	assert.Equal(t, None, i)
	assert.Empty(t, reply)
}

func TestClassifier_TemplatesUseStoreInfo(t *testing.T) {
	info := DefaultStoreInfo()
	info.Name = "CornerShop"
	info.DeliveryRadiusKm = 12
	info.FreeDeliveryAbove = decimal.RequireFromString("999.50")
	info.Currency = "$"

	c, err := NewClassifier(info)
	require.NoError(t, err)

	hours, ok := c.ResponseFor(StoreHours)
	require.True(t, ok)
	assert.Contains(t, hours, "CornerShop Store Hours")

	delivery, ok := c.ResponseFor(Delivery)
	require.True(t, ok)
	assert.Contains(t, delivery, "Within 12 km")
	assert.Contains(t, delivery, "$999.5")

	for _, i := range All {
		reply, ok := c.ResponseFor(i)
		assert.True(t, ok, "intent %s has no response", i)
		assert.NotEmpty(t, strings.TrimSpace(reply))
	}
}

func TestClassifier_GreetingThreshold(t *testing.T) {
	c := newTestClassifier(t, WithGreetingMaxLen(40))
	assert.Equal(t, Greeting, c.Classify("hello there my good friend"))

	strict := newTestClassifier(t, WithGreetingMaxLen(3))
	assert.Equal(t, None, strict.Classify("hello"))
	assert.Equal(t, Greeting, strict.Classify("hi"))
}

func TestClassifier_CustomRules(t *testing.T) {
	rules := append([]Rule{{
		Name:     "loyalty",
		Intent:   Help,
		Template: "HELP.loyalty",
		Match:    func(s string) bool { return strings.Contains(s, "loyalty") },
	}}, DefaultRules(DefaultGreetingMaxLen)...)

	c := newTestClassifier(t, WithRules(rules), WithTemplate("HELP.loyalty", "Ask {{.Name}} staff about points."))
	i, reply := c.Respond("loyalty card")
	assert.Equal(t, Help, i)
	assert.Equal(t, "Ask FreshMart staff about points.", reply)
}

func TestNewClassifier_RejectsUnknownTemplate(t *testing.T) {
	_, err := NewClassifier(DefaultStoreInfo(), WithRules([]Rule{{
		Name: "broken", Intent: Help, Template: "missing", Match: func(string) bool { return true },
	}}))
	assert.Error(t, err)
}

func TestDefaultRules_EachRuleIsolated(t *testing.T) {
	samples := map[string]string{
		"greeting":        "hey",
		"hours.opening":   "opening time",
		"hours.closing":   "shut when",
		"hours.weekend":   "saturday timing",
		"hours.schedule":  "schedule",
		"payment.upi":     "bhim",
		"payment.card":    "debit",
		"payment.cash":    "cash",
		"payment.general": "payment",
		"parking":         "park",
		"delivery":        "shipping",
		"returns":         "refund",
		"help":            "desk",
	}

	for _, r := range DefaultRules(DefaultGreetingMaxLen) {
		sample, ok := samples[r.Name]
		require.True(t, ok, "no sample for rule %s", r.Name)
		t.Run(r.Name, func(t *testing.T) {
			assert.True(t, r.Match(sample))
			assert.False(t, r.Match("bananas"))
		})
	}
}
