package wordfreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeScenario(t *testing.T) {
	titles := []string{"El futuro del clima", "El futuro del trabajo", "Clima y futuro"}

	got := Analyze(titles, 2)
	assert.Equal(t, []WordCount{{Word: "futuro", Count: 3}}, got)

	counts := Count(titles)
	assert.Equal(t, 2, counts["clima"])
	assert.Equal(t, 2, counts["del"])
	assert.NotContains(t, counts, "el")
	assert.NotContains(t, counts, "y")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"punctuation stripped", []string{"Peace, at last!"}, []string{"peace", "last"}},
		{"short tokens dropped", []string{"A to be or not"}, []string{"not"}},
		{"quotes and dashes", []string{"“Climate” — the 'real' test"}, []string{"climate", "the", "real", "test"}},
		{"whitespace runs", []string{"  war\tand\n\npeace  "}, []string{"war", "and", "peace"}},
		{"runes not bytes", []string{"ñoño él"}, []string{"ñoño"}},
		{"titles joined", []string{"end", "start"}, []string{"end", "start"}},
		{"empty", []string{"", "  "}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeThresholdIsStrict(t *testing.T) {
	titles := []string{"war war", "war peace", "peace"}

	got := Analyze(titles, 2)
	assert.Equal(t, []WordCount{{Word: "war", Count: 3}}, got)

	assert.Empty(t, Analyze(titles, 3))
}

func TestAnalyzeOrdering(t *testing.T) {
	titles := []string{
		"zeta alpha mid mid",
		"zeta alpha mid mid",
		"zeta alpha beta",
	}

	got := Analyze(titles, 0)
	require.Len(t, got, 4)

	// ties on count fall back to alphabetical order
	assert.Equal(t, []WordCount{
		{Word: "mid", Count: 4},
		{Word: "alpha", Count: 3},
		{Word: "zeta", Count: 3},
		{Word: "beta", Count: 1},
	}, got)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	titles := []string{"one two three", "three two one", "two three four", "four four two"}

	first := Analyze(titles, 1)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Analyze(titles, 1))
	}
	assert.Equal(t, []string{"one two three", "three two one", "two three four", "four four two"}, titles)
}
