package model

// SourceID identifies one of the two metrics endpoints.
type SourceID string

const (
	// SourceA is the operations dashboard endpoint (narrative and log-style fields).
	SourceA SourceID = "a"
	// SourceB is the GDPR statistics endpoint (counters).
	SourceB SourceID = "b"
)

// Endpoint paths, relative to a source base URL.
const (
	SourceAPath = "/api/gdpr/ops/dashboard/metrics"
	SourceBPath = "/api/gdpr/metrics"
)

// FetchState is the outcome of one fetch against a source.
type FetchState string

const (
	FetchPending FetchState = "pending"
	FetchSuccess FetchState = "success"
	FetchFailed  FetchState = "failed"
)

// MetricSource describes one endpoint for the duration of a pass.
type MetricSource struct {
	ID      SourceID   `json:"id"`
	BaseURL string     `json:"base_url"`
	Path    string     `json:"path"`
	State   FetchState `json:"state"`
}

// URL returns the full endpoint URL.
func (s MetricSource) URL() string {
	return s.BaseURL + s.Path
}
