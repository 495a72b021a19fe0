package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Where Is MILK", "where is milk"},
		{"punctuation", "Hello, where is milk?!.", "hello where is milk"},
		{"trim", "   bread   ", "bread"},
		{"only punctuation", " ?!., ", ""},
		{"empty", "", ""},
		{"keeps hyphen", "T-Shirt", "t-shirt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello!", "  ,. ?", "Where is the Men Cotton T-Shirt located?",
		"ÄPFEL, bitte.", "a . b", "\tTabs\t", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "milk", Clean("where is the milk"))
	assert.Equal(t, "mens tshirt", Clean("mens tshirt"))
	assert.Equal(t, "bread", Clean("which aisle is bread located in"))
	assert.Equal(t, "", Clean("where is the"))
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"mens", "tshirt"}, Terms("mens tshirt"))
	assert.Equal(t, []string{"milk"}, Terms("of milk to go"))
	assert.Nil(t, Terms(""))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"men", "cotton", "tshirt"}, Words("Men Cotton T-Shirt"))
}
