package dashboard

import (
	"time"

	"github.com/playok/compliancemon/internal/model"
)

// Placeholders shown for empty lists.
const (
	NoRecentAudits   = "No recent audits"
	NoSecurityAlerts = "No security alerts"
)

// Tile is one named metric on the dashboard.
type Tile struct {
	Field string `json:"field"`
	Title string `json:"title"`
	Value string `json:"value"`
	Known bool   `json:"known"`
}

// List is one named list section.
type List struct {
	Field       string   `json:"field"`
	Title       string   `json:"title"`
	Items       []string `json:"items"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Panel is the presentation model for one snapshot. When Error is set the
// tiles and lists are omitted and the error indicator is shown instead.
type Panel struct {
	Title     string    `json:"title"`
	PassID    string    `json:"pass_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Error     string    `json:"error,omitempty"`
	Loading   bool      `json:"loading,omitempty"`
	Tiles     []Tile    `json:"tiles"`
	Lists     []List    `json:"lists"`
}

var tileTitles = map[string]string{
	model.FieldComplianceScore:     "Compliance Score",
	model.FieldActiveConsents:      "Active Consents",
	model.FieldExpiredConsents:     "Expired Consents",
	model.FieldExportsRequested:    "Export Requests",
	model.FieldExportsCompleted:    "Completed Exports",
	model.FieldDeletionsRequested:  "Deletion Requests",
	model.FieldDeletionsCompleted:  "Completed Deletions",
	model.FieldBreachNotified:      "Breach Notified",
	model.FieldAuditLogsCount:      "Audit Logs",
	model.FieldDPORequests:         "DPO Requests",
	model.FieldDPOResolved:         "DPO Resolved",
	model.FieldDataRetentionStatus: "Data Retention",
}

// Title of the dashboard page.
const Title = "GDPR Compliance Dashboard"

// Build renders snap into a panel. A nil snapshot means no pass has
// finished yet.
func Build(snap *model.Snapshot) Panel {
	p := Panel{Title: Title, Tiles: []Tile{}, Lists: []List{}}
	if snap == nil {
		p.Loading = true
		return p
	}
	p.PassID = snap.PassID
	p.UpdatedAt = snap.FinishedAt
	if !snap.OK() {
		p.Error = snap.Error
		if p.Error == "" {
			p.Error = "no view available"
		}
		return p
	}

	v := snap.View
	for _, f := range model.ScalarFields {
		s := v.Scalar(f)
		p.Tiles = append(p.Tiles, Tile{
			Field: f,
			Title: tileTitles[f],
			Value: s.String(),
			Known: s.IsKnown(),
		})
	}
	p.Lists = append(p.Lists,
		newList(model.FieldRecentAudits, "Recent Audits", v.RecentAudits, NoRecentAudits),
		newList(model.FieldSecurityAlerts, "Security Alerts", v.SecurityAlerts, NoSecurityAlerts),
	)
	return p
}

func newList(field, title string, items []string, empty string) List {
	l := List{Field: field, Title: title, Items: items}
	if l.Items == nil {
		l.Items = []string{}
	}
	if len(l.Items) == 0 {
		l.Placeholder = empty
	}
	return l
}
