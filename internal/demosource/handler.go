package demosource

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/playok/compliancemon/internal/model"
)

// SecurityAlerts is the fixed alert list of the demo backend.
var SecurityAlerts = []string{
	"Rate limiting active - 100 req/min limit",
	"Bot detection enabled",
	"Security headers configured",
}

// RetentionStatus is the demo retention policy status.
const RetentionStatus = "Compliant - 30 day retention policy active"

// Server serves the two demo metrics endpoints.
type Server struct {
	data  *Data
	now   func() time.Time
	downA atomic.Bool
	downB atomic.Bool
}

// NewServer creates a demo server over data (DefaultData when nil).
func NewServer(data *Data) *Server {
	if data == nil {
		data = DefaultData()
	}
	return &Server{data: data, now: time.Now}
}

// SetDown makes the endpoint of src answer 503 until reset.
func (s *Server) SetDown(src model.SourceID, down bool) {
	switch src {
	case model.SourceA:
		s.downA.Store(down)
	case model.SourceB:
		s.downB.Store(down)
	}
}

// Handler returns the HTTP handler with both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+model.SourceBPath, s.metrics)
	mux.HandleFunc("GET "+model.SourceAPath, s.dashboardMetrics)
	return mux
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	if s.downB.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, s.stats())
}

func (s *Server) stats() Stats {
	st := s.data.Stats()
	st.LastUpdated = s.now().Format(time.RFC3339)
	return st
}

func (s *Server) dashboardMetrics(w http.ResponseWriter, r *http.Request) {
	if s.downA.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
		return
	}
	st := s.stats()
	now := s.now()

	body := map[string]any{}
	raw, _ := json.Marshal(st)
	json.Unmarshal(raw, &body)

	body["active_consents"] = st.ConsentsActive
	body["pending_requests"] = st.ExportsRequested - st.ExportsCompleted
	body["recent_audits"] = s.data.RecentAudits(5)
	body["security_alerts"] = SecurityAlerts
	body["data_retention_status"] = RetentionStatus
	body["system_status"] = "Operational"
	body["last_backup"] = now.Add(-6 * time.Hour).Format(time.RFC3339)
	body["next_compliance_check"] = now.Add(18 * time.Hour).Format(time.RFC3339)

	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
