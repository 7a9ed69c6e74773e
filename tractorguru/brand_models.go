package tractorguru

import (
	"context"
	"slices"

	"github.com/use-agent/tractorguru/models"
)

// BrandModels returns the models listed on a brand page. path may be a
// site path or an absolute URL on the site.
//
// Repeated links to the same model collapse into one entry that keeps
// the position of the first link and the fields of the last.
func (c *Client) BrandModels(ctx context.Context, path string) ([]models.Model, error) {
	brandPath, ok := c.SitePath(path)
	if !ok {
		return nil, ErrInvalidPath
	}
	if list, ok := c.modelCache.Get(brandPath); ok {
		return slices.Clone(list), nil
	}

	pg, err := c.fetch(ctx, brandPath)
	if err != nil {
		return nil, err
	}

	list := []models.Model{}
	index := make(map[string]int)
	for _, card := range c.extractor.ModelCards(pg.markup) {
		if card.Href == "" || card.Name == "" {
			continue
		}
		p, ok := c.toPath(card.Href)
		if !ok {
			continue
		}
		m := models.Model{
			Name:      card.Name,
			Path:      p,
			URL:       c.resolve(p),
			Thumbnail: absolute(pg.url, card.Thumbnail),
			Price:     card.Price,
		}
		if i, dup := index[p]; dup {
			list[i] = m
			continue
		}
		index[p] = len(list)
		list = append(list, m)
	}

	c.logger.Debug("brand models extracted", "brand", brandPath, "count", len(list))
	c.modelCache.Set(brandPath, list)
	return slices.Clone(list), nil
}
