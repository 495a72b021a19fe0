package intent

import (
	"strings"
	"unicode/utf8"
)

// DefaultGreetingMaxLen is the length a message must stay below to be
// treated as a pure greeting.
const DefaultGreetingMaxLen = 20

// Greetings are the tokens recognised by the greeting rule.
var Greetings = []string{"hi", "hello", "hey", "hii", "hola", "namaste"}

// Predicate reports whether a normalized message satisfies a rule.
type Predicate func(text string) bool

// Rule binds a predicate to an intent and the name of its response template.
type Rule struct {
	Name     string
	Intent   Intent
	Match    Predicate
	Template string
}

// DefaultRules returns the rule table in evaluation order. Keywords match
// anywhere in the text, so "refund" also matches "non-refundable". Intents
// with several rules list the specific variants before the general one, so
// "weekend timings" is answered by the weekend rule rather than the general
// schedule.
func DefaultRules(greetingMaxLen int) []Rule {
	var (
		opening  = []string{"open", "start"}
		closing  = []string{"close", "closing", "shut"}
		timeWord = []string{"time", "when", "hour"}
		weekend  = []string{"weekend", "saturday", "sunday"}
	)

	return []Rule{
		{Name: "greeting", Intent: Greeting, Template: tmplGreeting, Match: IsGreeting(greetingMaxLen)},

		{Name: "hours.opening", Intent: StoreHours, Template: tmplOpening, Match: func(s string) bool {
			return hasAny(s, opening...) && hasAny(s, timeWord...)
		}},
		{Name: "hours.closing", Intent: StoreHours, Template: tmplClosing, Match: func(s string) bool {
			return hasAny(s, closing...) && hasAny(s, timeWord...)
		}},
		{Name: "hours.weekend", Intent: StoreHours, Template: tmplWeekend, Match: func(s string) bool {
			return hasAny(s, weekend...) && hasAny(s, "open", "timing", "hour")
		}},
		{Name: "hours.schedule", Intent: StoreHours, Template: string(StoreHours), Match: func(s string) bool {
			return hasAny(s, "timing", "hour", "schedule") || (hasAny(s, "time") && !hasAny(s, "what"))
		}},

		{Name: "payment.upi", Intent: Payment, Template: tmplUPI, Match: keywords("upi", "google pay", "gpay", "phonepe", "paytm", "bhim")},
		{Name: "payment.card", Intent: Payment, Template: tmplCard, Match: keywords("card", "credit", "debit")},
		{Name: "payment.cash", Intent: Payment, Template: tmplCash, Match: keywords("cash")},
		{Name: "payment.general", Intent: Payment, Template: string(Payment), Match: keywords("payment", "pay")},

		{Name: "parking", Intent: Parking, Template: string(Parking), Match: keywords("parking", "park")},
		{Name: "delivery", Intent: Delivery, Template: string(Delivery), Match: keywords("deliver", "shipping", "home delivery")},
		{Name: "returns", Intent: Returns, Template: string(Returns), Match: keywords("return", "refund", "exchange")},
		{Name: "help", Intent: Help, Template: string(Help), Match: keywords("help", "support", "staff", "desk", "contact")},
	}
}

// IsGreeting matches a message that is a greeting token on its own, or
// starts or ends with one as a whole word, while staying shorter than maxLen.
func IsGreeting(maxLen int) Predicate {
	return func(s string) bool {
		if utf8.RuneCountInString(s) >= maxLen {
			return false
		}
		for _, g := range Greetings {
			if s == g || strings.HasPrefix(s, g+" ") || strings.HasSuffix(s, " "+g) {
				return true
			}
		}
		return false
	}
}

func keywords(words ...string) Predicate {
	return func(s string) bool { return hasAny(s, words...) }
}

func hasAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
