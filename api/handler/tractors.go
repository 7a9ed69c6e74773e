package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/tractorguru/models"
)

// Brands returns a handler for GET /api/v1/brands.
func Brands(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.available(c) {
			return
		}

		brands, err := d.Catalog.Brands(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.BrandsResponse{
			Success: true,
			Brands:  brands,
			Total:   len(brands),
		})
	}
}

// Models returns a handler for GET /api/v1/models?path=<brand path>.
func Models(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.available(c) {
			return
		}
		path, ok := requirePath(c)
		if !ok {
			return
		}

		list, err := d.Catalog.BrandModels(c.Request.Context(), path)
		if err != nil {
			slog.Warn("brand models failed", "path", path, "error", err)
			respondError(c, err)
			return
		}

		brandPath, _ := d.Catalog.SitePath(path)
		c.JSON(http.StatusOK, models.ModelsResponse{
			Success:   true,
			BrandPath: brandPath,
			Models:    list,
			Total:     len(list),
		})
	}
}

// Model returns a handler for GET /api/v1/model?path=<model path>.
func Model(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.available(c) {
			return
		}
		path, ok := requirePath(c)
		if !ok {
			return
		}

		detail, err := d.Catalog.ModelDetails(c.Request.Context(), path)
		if err != nil {
			slog.Warn("model details failed", "path", path, "error", err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ModelDetailResponse{
			Success: true,
			Model:   detail,
		})
	}
}
