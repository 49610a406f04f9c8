package api

import (
	"net/http"

	"github.com/playok/compliancemon/internal/config"
)

type settingsAPI struct {
	cfg       *config.Config
	refresher Refresher
}

// list reports the effective, read-only settings.
func (a *settingsAPI) list(w http.ResponseWriter, r *http.Request) {
	m := make(map[string]string)
	if a.cfg != nil {
		m["source_a"] = a.cfg.SourceABase()
		m["source_b"] = a.cfg.SourceBBase()
		m["base_path"] = a.cfg.BasePath
		m["fetch_timeout"] = a.cfg.FetchTimeout.String()
	}
	if a.refresher != nil {
		m["refresh_interval"] = a.refresher.Interval().String()
	}
	writeJSON(w, http.StatusOK, m)
}
