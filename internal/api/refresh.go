package api

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type refreshAPI struct {
	refresher Refresher
	limiter   *rate.Limiter
	log       logrus.FieldLogger
}

// refresh runs a pass outside the schedule and returns its snapshot.
func (a *refreshAPI) refresh(w http.ResponseWriter, r *http.Request) {
	if a.refresher == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "refresh unavailable"})
		return
	}
	if !a.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "refresh throttled"})
		return
	}

	snap := a.refresher.RunOnce(r.Context())
	a.log.WithField("pass", snap.PassID).Info("manual refresh")
	writeJSON(w, http.StatusOK, snap)
}
