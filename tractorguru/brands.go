package tractorguru

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/tractorguru/models"
)

const brandsKey = "brands"

// minListingSize is the smallest page, in characters, accepted as a brand
// listing. Smaller responses are error or placeholder pages.
const minListingSize = 500

// brandListingPaths are tried in order until one yields a usable page.
var brandListingPaths = []string{
	"/tractor-brands",
	"/tractor-brand",
	"/tractor/brands",
}

// Brands returns every tractor brand listed on the site, in page order.
//
// Upstream failures are not errors here: when no listing page can be
// fetched the result is empty and nothing is cached, so the next call
// tries again. Only a cancelled ctx is reported.
func (c *Client) Brands(ctx context.Context) ([]models.Brand, error) {
	if brands, ok := c.brandCache.Get(brandsKey); ok {
		return slices.Clone(brands), nil
	}

	markup, ok := c.brandListing(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.logger.Warn("no brand listing page available", "candidates", brandListingPaths)
		return []models.Brand{}, nil
	}

	brands := []models.Brand{}
	seen := make(map[string]struct{})
	for _, link := range c.extractor.BrandLinks(markup) {
		if !validBrandName(link.Text) {
			continue
		}
		path, ok := c.toPath(link.Href)
		if !ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		brands = append(brands, models.Brand{
			Name: link.Text,
			Path: path,
			URL:  c.resolve(path),
		})
	}

	c.logger.Debug("brands extracted", "count", len(brands))
	c.brandCache.Set(brandsKey, brands)
	return slices.Clone(brands), nil
}

func (c *Client) brandListing(ctx context.Context) (string, bool) {
	for _, path := range brandListingPaths {
		if ctx.Err() != nil {
			return "", false
		}
		p, err := c.fetch(ctx, path)
		if err != nil {
			c.logger.Warn("brand listing fetch failed", "path", path, "error", err)
			continue
		}
		if utf8.RuneCountInString(p.markup) <= minListingSize {
			c.logger.Debug("brand listing too small", "path", path, "size", len(p.markup))
			continue
		}
		return p.markup, true
	}
	return "", false
}

func validBrandName(name string) bool {
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	return !strings.Contains(strings.ToLower(name), "http")
}
