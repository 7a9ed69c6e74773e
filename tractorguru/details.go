package tractorguru

import (
	"context"

	"github.com/use-agent/tractorguru/models"
)

// ModelDetails returns the title, spec table and images of a model page.
// The returned detail is shared with the cache and must not be modified.
func (c *Client) ModelDetails(ctx context.Context, path string) (*models.ModelDetail, error) {
	modelPath, ok := c.SitePath(path)
	if !ok {
		return nil, ErrInvalidPath
	}
	if detail, ok := c.detailCache.Get(modelPath); ok {
		return detail, nil
	}

	pg, err := c.fetch(ctx, modelPath)
	if err != nil {
		return nil, err
	}

	raw := c.extractor.ModelDetail(pg.markup)
	detail := &models.ModelDetail{
		Title:  raw.Title,
		Path:   modelPath,
		URL:    c.resolve(modelPath),
		Specs:  raw.Specs,
		Images: make([]string, 0, min(len(raw.Images), models.MaxImages)),
	}
	if detail.Specs == nil {
		detail.Specs = models.NewSpecs()
	}
	for _, src := range raw.Images {
		if len(detail.Images) == models.MaxImages {
			break
		}
		detail.Images = append(detail.Images, absolute(pg.url, src))
	}

	c.logger.Debug("model details extracted",
		"model", modelPath,
		"specs", detail.Specs.Len(),
		"images", len(detail.Images),
	)
	c.detailCache.Set(modelPath, detail)
	return detail, nil
}
