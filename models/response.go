package models

// SearchResponse is the response for GET /api/v1/search.
type SearchResponse struct {
	// Success indicates whether the search completed without a fatal error.
	// Partial extraction (some sites empty) still counts as success.
	Success bool `json:"success"`

	// Count is len(Results).
	Count int `json:"count"`

	// Results is the merged, ordered listing set.
	Results []Product `json:"results"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching disabled).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ExtractionMs is the time spent driving the browser across all sites.
	ExtractionMs int64 `json:"extraction_ms"`
}

// SitesResponse is the response for GET /api/v1/sites.
type SitesResponse struct {
	Sites []string `json:"sites"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Adapters int    `json:"adapters"`
	Version  string `json:"version"`
}
