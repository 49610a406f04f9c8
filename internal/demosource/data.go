package demosource

import (
	"fmt"
	"math"
	"sort"
)

// User is a demo data subject.
type User struct {
	ID        int
	Email     string
	Name      string
	CreatedAt string
}

// Consent is a recorded consent decision.
type Consent struct {
	ID        int
	UserID    int
	Type      string
	Accepted  bool
	CreatedAt string
}

// Request is an export or deletion request.
type Request struct {
	ID          int
	UserID      int
	Status      string
	RequestedAt string
}

// AuditLog is one audit trail entry.
type AuditLog struct {
	ID        int
	UserID    int
	Action    string
	Details   string
	Timestamp string
}

// Data is the demo data set the endpoints compute their metrics from.
type Data struct {
	Users     []User
	Consents  []Consent
	Exports   []Request
	Deletions []Request
	AuditLogs []AuditLog
}

// DefaultData returns the built-in demo data set.
func DefaultData() *Data {
	return &Data{
		Users: []User{
			{ID: 1, Email: "user1@demo.com", Name: "Demo User 1", CreatedAt: "2024-01-01"},
			{ID: 2, Email: "user2@demo.com", Name: "Demo User 2", CreatedAt: "2024-01-15"},
			{ID: 3, Email: "user3@demo.com", Name: "Demo User 3", CreatedAt: "2024-02-01"},
		},
		Consents: []Consent{
			{ID: 1, UserID: 1, Type: "marketing", Accepted: true, CreatedAt: "2024-01-01"},
			{ID: 2, UserID: 1, Type: "analytics", Accepted: true, CreatedAt: "2024-01-01"},
			{ID: 3, UserID: 2, Type: "marketing", Accepted: false, CreatedAt: "2024-01-15"},
			{ID: 4, UserID: 3, Type: "analytics", Accepted: true, CreatedAt: "2024-02-01"},
		},
		Exports: []Request{
			{ID: 1, UserID: 1, Status: "completed", RequestedAt: "2024-01-05"},
			{ID: 2, UserID: 2, Status: "pending", RequestedAt: "2024-01-20"},
		},
		Deletions: []Request{
			{ID: 1, UserID: 3, Status: "completed", RequestedAt: "2024-02-05"},
		},
		AuditLogs: []AuditLog{
			{ID: 1, UserID: 1, Action: "consent_given", Details: "Marketing consent", Timestamp: "2024-01-01T10:00:00"},
			{ID: 2, UserID: 1, Action: "data_export", Details: "Full data export", Timestamp: "2024-01-05T14:30:00"},
			{ID: 3, UserID: 2, Action: "consent_revoked", Details: "Marketing consent revoked", Timestamp: "2024-01-15T09:15:00"},
			{ID: 4, UserID: 3, Action: "account_deletion", Details: "Full account deletion", Timestamp: "2024-02-05T16:45:00"},
		},
	}
}

// Stats are the counters served by the GDPR statistics endpoint.
type Stats struct {
	ComplianceScore    int                `json:"compliance_score"`
	ConsentsActive     int                `json:"consents_active"`
	ConsentsExpired    int                `json:"consents_expired"`
	ExportsRequested   int                `json:"exports_requested"`
	ExportsCompleted   int                `json:"exports_completed"`
	DeletionsRequested int                `json:"deletions_requested"`
	DeletionsCompleted int                `json:"deletions_completed"`
	BreachNotified     int                `json:"breach_notified"`
	AuditLogsCount     int                `json:"audit_logs_count"`
	DPORequests        int                `json:"dpo_requests"`
	DPOResolved        int                `json:"dpo_resolved"`
	TotalUsers         int                `json:"total_users"`
	ComplianceFactors  map[string]float64 `json:"compliance_factors"`
	LastUpdated        string             `json:"last_updated"`
}

// Stats computes the counters and the compliance score.
func (d *Data) Stats() Stats {
	s := Stats{
		ExportsRequested:   len(d.Exports),
		ExportsCompleted:   countStatus(d.Exports, "completed"),
		DeletionsRequested: len(d.Deletions),
		DeletionsCompleted: countStatus(d.Deletions, "completed"),
		TotalUsers:         len(d.Users),
		AuditLogsCount:     len(d.AuditLogs),
	}
	for _, c := range d.Consents {
		if c.Accepted {
			s.ConsentsActive++
		} else {
			s.ConsentsExpired++
		}
	}

	s.ComplianceFactors = map[string]float64{
		"consent_coverage":      ratio(s.ConsentsActive, s.TotalUsers),
		"data_requests_handled": handled(s.ExportsCompleted, s.ExportsRequested),
		"deletions_handled":     handled(s.DeletionsCompleted, s.DeletionsRequested),
		"audit_completeness":    ratio(s.AuditLogsCount, s.TotalUsers*2),
	}
	var sum float64
	for _, f := range s.ComplianceFactors {
		sum += f
	}
	s.ComplianceScore = int(sum / float64(len(s.ComplianceFactors)))
	return s
}

// RecentAudits returns up to n audit lines, newest first.
func (d *Data) RecentAudits(n int) []string {
	logs := make([]AuditLog, len(d.AuditLogs))
	copy(logs, d.AuditLogs)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp > logs[j].Timestamp })
	if len(logs) > n {
		logs = logs[:n]
	}
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		day := l.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}
		out = append(out, fmt.Sprintf("%s - User %d - %s", l.Action, l.UserID, day))
	}
	return out
}

// ratio is part/whole as a percentage capped at 100.
func ratio(part, whole int) float64 {
	return math.Min(100, float64(part)/math.Max(float64(whole), 1)*100)
}

// handled is like ratio but counts an empty queue as fully handled.
func handled(done, requested int) float64 {
	if requested == 0 {
		return 100
	}
	return ratio(done, requested)
}

func countStatus(reqs []Request, status string) int {
	n := 0
	for _, r := range reqs {
		if r.Status == status {
			n++
		}
	}
	return n
}
