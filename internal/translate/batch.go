package translate

import (
	"context"

	"elpais-opinion/internal/observability"
)

// Result lines up with the input titles position by position.
type Result struct {
	Texts []string
	// Fallback[i] is set when Texts[i] is the untranslated input.
	Fallback []bool
}

// Fallbacks counts positions that kept their original text.
func (r Result) Fallbacks() int {
	n := 0
	for _, f := range r.Fallback {
		if f {
			n++
		}
	}
	return n
}

// Batch translates titles strictly in sequence through a Pacer.
type Batch struct {
	translator Translator
	pacer      *Pacer
	logger     *observability.Logger
}

func NewBatch(translator Translator, pacer *Pacer, logger *observability.Logger) *Batch {
	return &Batch{
		translator: translator,
		pacer:      pacer,
		logger:     logger,
	}
}

// TranslateAll returns one text per title. Empty titles stay empty without
// a call; a failed call keeps the original title. If ctx ends, the titles
// not yet translated keep their originals and ctx's error is returned.
func (b *Batch) TranslateAll(ctx context.Context, titles []string, from, to string) (Result, error) {
	res := Result{
		Texts:    make([]string, len(titles)),
		Fallback: make([]bool, len(titles)),
	}

	for i, title := range titles {
		if title == "" {
			res.Texts[i] = ""
			continue
		}

		if err := ctx.Err(); err != nil {
			b.keepOriginals(&res, titles, i)
			return res, err
		}

		called := false
		err := b.pacer.Do(ctx, func(ctx context.Context) {
			called = true
			res.Texts[i], res.Fallback[i] = b.translateOne(ctx, i, title, from, to)
		})
		if err != nil {
			start := i + 1
			if !called {
				start = i
			}
			b.keepOriginals(&res, titles, start)
			return res, err
		}
	}

	b.logger.Info("Titles translated",
		"total", len(titles),
		"fallbacks", res.Fallbacks(),
		"from", from,
		"to", to,
	)
	return res, nil
}

func (b *Batch) translateOne(ctx context.Context, index int, title, from, to string) (string, bool) {
	translated, err := b.translator.Translate(ctx, title, from, to)
	if err != nil {
		b.logger.Warn("Translation failed, keeping original",
			"index", index,
			"title", title,
			"error", err,
		)
		return title, true
	}

	b.logger.Debug("Title translated", "index", index, "title", title, "translated", translated)
	return translated, false
}

func (b *Batch) keepOriginals(res *Result, titles []string, from int) {
	for j := from; j < len(titles); j++ {
		res.Texts[j] = titles[j]
		res.Fallback[j] = titles[j] != ""
	}
}
