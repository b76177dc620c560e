package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpais-opinion/internal/scraper"
	"elpais-opinion/internal/wordfreq"
)

func TestPrintReport(t *testing.T) {
	r := &Report{
		ListingURL: "https://elpais.com/opinion/",
		SourceLang: "es",
		TargetLang: "en",
		Threshold:  2,
		Articles: []scraper.ArticleRecord{
			{URL: "https://elpais.com/opinion/a.html", Title: "Uno", Content: strings.Repeat("palabra ", 60), ImageURL: "https://cdn/x.jpg"},
		},
		TranslatedTitles: []string{"One"},
		TitleFallback:    []bool{false},
		RepeatedWords:    []wordfreq.WordCount{{Word: "one", Count: 3}},
	}

	var out bytes.Buffer
	require.NoError(t, PrintReport(&out, r, 20))
	text := out.String()

	assert.Contains(t, text, "SCRAPED ARTICLES (ES)")
	assert.Contains(t, text, "Title (ES): Uno")
	assert.Contains(t, text, "Content (ES): palabra palabra…")
	assert.Contains(t, text, "Cover image: https://cdn/x.jpg")
	assert.Contains(t, text, "TRANSLATED TITLES (ES -> EN)")
	assert.Contains(t, text, "Article 1 Title (EN): One\n")
	assert.Contains(t, text, "(more than 2 times)")
	assert.Contains(t, text, `"one" appears 3 times`)
}

func TestPrintReportEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintReport(&out, &Report{SourceLang: "es", TargetLang: "en", Threshold: 2}, 200))

	text := out.String()
	assert.Contains(t, text, "No articles found.")
	assert.NotContains(t, text, "\nTRANSLATED TITLES (")
	assert.Contains(t, text, "REPEATED WORDS IN TRANSLATED TITLES (more than 2 times)")
	assert.Contains(t, text, "  none\n")
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("closed pipe")
}

func TestPrintReportStopsOnWriteError(t *testing.T) {
	w := &failingWriter{}
	err := PrintReport(w, &Report{SourceLang: "es", TargetLang: "en"}, 200)
	assert.EqualError(t, err, "closed pipe")
	assert.Equal(t, 1, w.calls)
}
