package model

import "time"

// Snapshot is what a pass publishes to the presentation layer.
// View is nil when the pass failed; Error is empty when it succeeded.
type Snapshot struct {
	PassID     string                  `json:"pass_id"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	View       *View                   `json:"view"`
	Error      string                  `json:"error,omitempty"`
	Sources    map[SourceID]FetchState `json:"sources,omitempty"`
}

// OK reports whether the snapshot carries a view.
func (s *Snapshot) OK() bool {
	return s != nil && s.View != nil && s.Error == ""
}
