package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Brand is a tractor manufacturer listed on the site.
type Brand struct {
	Name string `json:"name"`

	// Path is the normalized site-relative path of the brand page,
	// e.g. "/tractor-brands/mahindra". It is the brand's identity.
	Path string `json:"path"`

	URL string `json:"url"`
}

// Model is one entry of a brand's model listing. It refers back to its
// brand only through the path it was listed under.
type Model struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`

	// Thumbnail is an absolute image URL when the listing card had one.
	Thumbnail string `json:"thumbnail,omitempty"`

	// Price is the raw price snippet from the listing card, e.g. "₹ 6.20 Lakh".
	Price string `json:"price,omitempty"`
}

// ModelDetail is the scraped detail page of a single model.
type ModelDetail struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	URL   string `json:"url"`

	// Specs maps spec labels to values in document order. A label seen
	// twice keeps its first position and its last value.
	Specs *orderedmap.OrderedMap[string, string] `json:"specs"`

	// Images holds at most MaxImages absolute image URLs in document order.
	Images []string `json:"images"`
}

// MaxImages bounds ModelDetail.Images.
const MaxImages = 10

// NewSpecs returns an empty spec mapping.
func NewSpecs() *orderedmap.OrderedMap[string, string] {
	return orderedmap.New[string, string]()
}
