package models

import "time"

// BrandsResponse is the response for GET /api/v1/brands.
type BrandsResponse struct {
	Success bool         `json:"success"`
	Brands  []Brand      `json:"brands"`
	Total   int          `json:"total"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ModelsResponse is the response for GET /api/v1/models.
type ModelsResponse struct {
	Success bool `json:"success"`

	// BrandPath is the normalized brand path the listing was read from.
	BrandPath string       `json:"brand_path"`
	Models    []Model      `json:"models"`
	Total     int          `json:"total"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// ModelDetailResponse is the response for GET /api/v1/model.
type ModelDetailResponse struct {
	Success bool         `json:"success"`
	Model   *ModelDetail `json:"model,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string      `json:"status"` // "healthy" or "unavailable"
	Timestamp time.Time   `json:"timestamp"`
	Uptime    string      `json:"uptime"`
	Cache     *CacheStats `json:"cache,omitempty"`
	Version   string      `json:"version"`
	Error     string      `json:"error,omitempty"`
}

// CacheStats reports how many live entries each cache holds.
type CacheStats struct {
	Pages   int `json:"pages"`
	Brands  int `json:"brands"`
	Models  int `json:"models"`
	Details int `json:"details"`
}
