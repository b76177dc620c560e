package app

import (
	"fmt"
	"io"
	"strings"

	"elpais-opinion/internal/normalize"
)

const notFound = "not found"

// PrintReport writes the human-readable run summary. Missing fields are
// spelled out as "not found".
func PrintReport(w io.Writer, r *Report, previewChars int) error {
	p := &printer{w: w}
	src := strings.ToUpper(r.SourceLang)
	dst := strings.ToUpper(r.TargetLang)

	p.printf("SCRAPED ARTICLES (%s) from %s\n", src, r.ListingURL)
	if len(r.Articles) == 0 {
		p.printf("\nNo articles found.\n")
	}
	for i, a := range r.Articles {
		p.printf("\nArticle %d: %s\n", i+1, a.URL)
		p.printf("  Title (%s): %s\n", src, orNotFound(a.Title))
		p.printf("  Content (%s): %s\n", src, orNotFound(normalize.TruncatePreview(a.Content, previewChars)))
		p.printf("  Cover image: %s\n", orNotFound(a.ImageURL))
	}

	if len(r.TranslatedTitles) > 0 {
		p.printf("\nTRANSLATED TITLES (%s -> %s)\n", src, dst)
		for i, t := range r.TranslatedTitles {
			marker := ""
			if i < len(r.TitleFallback) && r.TitleFallback[i] {
				marker = " [untranslated]"
			}
			p.printf("  Article %d Title (%s): %s%s\n", i+1, dst, orNotFound(t), marker)
		}
	}

	p.printf("\nREPEATED WORDS IN TRANSLATED TITLES (more than %d times)\n", r.Threshold)
	if len(r.RepeatedWords) == 0 {
		p.printf("  none\n")
	}
	for _, wc := range r.RepeatedWords {
		p.printf("  %q appears %d times\n", wc.Word, wc.Count)
	}

	return p.err
}

func orNotFound(s string) string {
	if s == "" {
		return notFound
	}
	return s
}

// printer keeps the first write error so the report reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
