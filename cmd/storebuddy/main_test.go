package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("REDIS_URL", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("FALLBACK_PROVIDER", "anthropic")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--catalog", "../../data/catalog.yaml"))

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSearchCommand(t *testing.T) {
	out := runCLI(t, "", "search", "toothpaste")
	assert.Contains(t, out, "[product] Colgate Toothpaste 200g")
	assert.Contains(t, out, "Aisle")
}

func TestSearchCommand_JSON(t *testing.T) {
	out := runCLI(t, "", "search", "pharmacy", "--json")

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "faq", results[0]["type"])
}

func TestClassifyCommand(t *testing.T) {
	out := runCLI(t, "", "classify", "do", "you", "accept", "cash")
	assert.Contains(t, out, "PAYMENT (payment.cash)")

	out = runCLI(t, "", "classify", "any", "jokes")
	assert.Equal(t, "NONE\n", out)
}

func TestAskCommand(t *testing.T) {
	out := runCLI(t, "", "ask", "when", "do", "you", "close")
	assert.Contains(t, out, "10:00 PM")
}

func TestChatCommand(t *testing.T) {
	out := runCLI(t, "hello\n\nany jokes\nexit\nparking?\n", "chat")

	assert.Contains(t, out, "I'm your FreshMart AI assistant")
	assert.Contains(t, out, "How can I assist you today?")
	assert.Contains(t, out, "Could you tell me a bit more")
	assert.NotContains(t, out, "Free Parking")
}
