// Package extract turns TractorGuru markup into raw listing candidates.
//
// Everything here is best-effort: the selectors approximate the site's
// current markup and return fewer (or zero) results when it changes, never
// an error. Path normalization, filtering and deduplication are the
// caller's job; this package only reports what it saw, in document order.
package extract

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Link is an anchor's visible text and raw href.
type Link struct {
	Text string
	Href string
}

// Card is a model listing candidate. Thumbnail and Price are empty when the
// candidate was a bare anchor or the container held none.
type Card struct {
	Name      string
	Href      string
	Thumbnail string
	Price     string
}

// Detail is what a model detail page yielded.
type Detail struct {
	Title  string
	Specs  *orderedmap.OrderedMap[string, string]
	Images []string
}

// Extractor recovers listing candidates from raw markup.
type Extractor interface {
	// BrandLinks returns anchors that look like links to brand pages.
	BrandLinks(markup string) []Link

	// ModelCards returns model listing candidates from a brand page.
	ModelCards(markup string) []Card

	// ModelDetail returns the title, spec table pairs and every image
	// source of a model page.
	ModelDetail(markup string) Detail
}
