package api

import (
	"net/http"

	"github.com/playok/compliancemon/internal/dashboard"
)

type viewAPI struct {
	board Snapshots
}

// view returns the raw current snapshot. Before the first pass it reports loading.
func (a *viewAPI) view(w http.ResponseWriter, r *http.Request) {
	snap := a.board.Current()
	if snap == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"loading": true})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *viewAPI) panel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Build(a.board.Current()))
}
