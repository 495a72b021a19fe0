package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFallbackPrompt(t *testing.T) {
	p := BuildFallbackPrompt("FreshMart", `Any "organic" snacks?`)
	assert.Contains(t, p, "friendly FreshMart supermarket assistant")
	assert.Contains(t, p, `User asked: "Any "organic" snacks?"`)
	assert.Contains(t, p, "under 80 words")
}

func TestSummaries(t *testing.T) {
	assert.Equal(t, "✅ Yes, at the desk.", FAQSummary("Yes, at the desk."))
	assert.Equal(t, `I found 2 item(s) for "mens tshirt":`, ProductSummary(2, " mens tshirt "))
	assert.Contains(t, WelcomeMessage("CornerShop"), "CornerShop AI assistant")
}
