package scraper

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSelectors reads a selectors YAML file. Missing image attributes fall
// back to the built-in ones.
func LoadSelectors(filePath string) (selectors *Selectors, err error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close selectors file: %w", closeErr))
		}
	}()

	var s Selectors
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if len(s.ImageAttributes) == 0 {
		s.ImageAttributes = DefaultSelectors().ImageAttributes
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// ResolveSelectors loads filePath, or returns the built-in selectors when it
// is empty.
func ResolveSelectors(filePath string) (*Selectors, error) {
	if filePath == "" {
		return DefaultSelectors(), nil
	}
	return LoadSelectors(filePath)
}

// Validate checks that every field has at least one locator.
func (s *Selectors) Validate() error {
	if len(s.ListingLinks) == 0 {
		return fmt.Errorf("listing_links is required")
	}
	for i, list := range s.ListingLinks {
		if len(list) == 0 {
			return fmt.Errorf("listing_links[%d] is empty", i)
		}
	}
	if len(s.TitleSelectors) == 0 {
		return fmt.Errorf("title_selectors is required")
	}
	if len(s.ParagraphSelectors) == 0 {
		return fmt.Errorf("paragraph_selectors is required")
	}
	if len(s.ImageSelectors) == 0 {
		return fmt.Errorf("image_selectors is required")
	}
	return nil
}
