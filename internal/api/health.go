package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func metricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type healthAPI struct {
	board     Snapshots
	refresher Refresher
}

func (a *healthAPI) healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if a.refresher != nil {
		resp["scheduler"] = a.refresher.State()
	}
	if snap := a.board.Current(); snap != nil {
		resp["last_pass"] = snap.PassID
		resp["last_pass_ok"] = snap.OK()
		resp["finished_at"] = snap.FinishedAt
	}
	writeJSON(w, http.StatusOK, resp)
}
