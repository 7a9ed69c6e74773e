package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/tractorguru/models"
	"github.com/use-agent/tractorguru/tractorguru"
)

// Catalog is the read side of the scraping client used by the handlers.
// *tractorguru.Client implements it.
type Catalog interface {
	Brands(ctx context.Context) ([]models.Brand, error)
	BrandModels(ctx context.Context, path string) ([]models.Model, error)
	ModelDetails(ctx context.Context, path string) (*models.ModelDetail, error)
	SitePath(input string) (string, bool)
	Stats() models.CacheStats
}

// Deps carries what every data handler needs. InitErr is set when the
// client could not be built; Catalog is nil in that case.
type Deps struct {
	Catalog Catalog
	InitErr error
}

// available writes a 503 and reports false when there is no usable client.
func (d Deps) available(c *gin.Context) bool {
	if d.InitErr == nil && d.Catalog != nil {
		return true
	}
	msg := "scraping client is not initialized"
	if d.InitErr != nil {
		msg = d.InitErr.Error()
	}
	respondError(c, models.NewAPIError(models.ErrCodeUnavailable, msg, d.InitErr))
	return false
}

// requirePath reads the non-blank ?path= query parameter.
func requirePath(c *gin.Context) (string, bool) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		respondError(c, models.NewAPIError(models.ErrCodeInvalidInput, `query parameter "path" is required`, nil))
		return "", false
	}
	return path, true
}

// respondError maps an error to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	c.JSON(mapErrorToStatus(apiErr), models.ErrorResponse{
		Success: false,
		Error:   apiErr.ToDetail(),
	})
}

func toAPIError(err error) *models.APIError {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var initErr *tractorguru.InitializationError
	var fetchErr *tractorguru.FetchError
	switch {
	case errors.Is(err, tractorguru.ErrInvalidPath):
		return models.NewAPIError(models.ErrCodeInvalidInput, err.Error(), err)
	case errors.As(err, &initErr):
		return models.NewAPIError(models.ErrCodeUnavailable, err.Error(), err)
	case errors.As(err, &fetchErr):
		return models.NewAPIError(models.ErrCodeUpstream, err.Error(), err)
	default:
		return models.NewAPIError(models.ErrCodeInternal, err.Error(), err)
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.APIError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnavailable:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
