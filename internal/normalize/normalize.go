package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

type Options struct {
	TrimNBSP       bool
	CollapseSpaces bool
}

type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// CleanText flattens element text to one line without stray whitespace.
func (n *Normalizer) CleanText(text string) string {
	if n.opts.TrimNBSP {
		text = strings.ReplaceAll(text, "\u00A0", " ")
	}

	if n.opts.CollapseSpaces {
		text = spaceRun.ReplaceAllString(text, " ")
	}

	return strings.TrimSpace(text)
}

// TruncatePreview cuts text to at most maxChars runes on a word boundary and
// marks the cut with "…".
func TruncatePreview(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}

	truncated := string(runes[:maxChars])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		return strings.TrimRight(truncated[:lastSpace], " ") + "…"
	}

	return truncated + "…"
}

// NormalizeURL trims the URL and drops its fragment.
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}

// ResolveURL makes ref absolute against base. Unparseable input is returned
// normalized but otherwise untouched.
func ResolveURL(base, ref string) string {
	ref = NormalizeURL(ref)
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return refURL.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
