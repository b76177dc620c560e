package scraper

// SelectorList is an ordered set of locators for one field. The first
// locator that matches anything wins; later ones are fallbacks, not extras.
type SelectorList []string

// LinkSet holds unique article URLs in first-seen order.
type LinkSet []string

// ArticleRecord is what one article page yields. Empty strings mean the
// field was not found.
type ArticleRecord struct {
	URL      string
	Title    string
	Content  string
	ImageURL string
}

// HasImage reports whether a cover image was found.
func (r ArticleRecord) HasImage() bool {
	return r.ImageURL != ""
}

type Selectors struct {
	ListingLinks       []SelectorList `yaml:"listing_links"`
	TitleSelectors     SelectorList   `yaml:"title_selectors"`
	ParagraphSelectors SelectorList   `yaml:"paragraph_selectors"`
	ImageSelectors     SelectorList   `yaml:"image_selectors"`
	ImageAttributes    []string       `yaml:"image_attributes"`
}

// DefaultSelectors covers the current elpais.com opinion markup plus the
// two older layouts still served for some sections.
func DefaultSelectors() *Selectors {
	return &Selectors{
		ListingLinks: []SelectorList{
			{"article h2 a"},
			{"article header h2.c_t a", "article .c_t a"},
			{"h2.c_t a", "div.b-d a[href*='/opinion/']"},
		},
		TitleSelectors: SelectorList{
			"article h1",
			"h1.a_t",
			"header.a_e h1",
			"main h1",
		},
		ParagraphSelectors: SelectorList{
			"[data-dtm-region='articulo_cuerpo'] p",
			"article .a_c p",
			"article p",
		},
		ImageSelectors: SelectorList{
			"figure img",
			"article img",
			"meta[property='og:image']",
		},
		ImageAttributes: []string{"src", "data-src", "content"},
	}
}
