package model

// View is the reconciled metrics snapshot produced by one pass.
// Every scalar is either known or unknown and both lists are non-nil.
type View struct {
	ComplianceScore     Scalar `json:"compliance_score"`
	ActiveConsents      Scalar `json:"active_consents"`
	ExpiredConsents     Scalar `json:"expired_consents"`
	ExportsRequested    Scalar `json:"exports_requested"`
	ExportsCompleted    Scalar `json:"exports_completed"`
	DeletionsRequested  Scalar `json:"deletions_requested"`
	DeletionsCompleted  Scalar `json:"deletions_completed"`
	BreachNotified      Scalar `json:"breach_notified"`
	AuditLogsCount      Scalar `json:"audit_logs_count"`
	DPORequests         Scalar `json:"dpo_requests"`
	DPOResolved         Scalar `json:"dpo_resolved"`
	DataRetentionStatus Scalar `json:"data_retention_status"`

	RecentAudits   []string `json:"recent_audits"`
	SecurityAlerts []string `json:"security_alerts"`
}

// NewView returns a view with every scalar unknown and empty lists.
func NewView() *View {
	return &View{
		RecentAudits:   []string{},
		SecurityAlerts: []string{},
	}
}

// Field names of the view, in tile order.
const (
	FieldComplianceScore     = "compliance_score"
	FieldActiveConsents      = "active_consents"
	FieldExpiredConsents     = "expired_consents"
	FieldExportsRequested    = "exports_requested"
	FieldExportsCompleted    = "exports_completed"
	FieldDeletionsRequested  = "deletions_requested"
	FieldDeletionsCompleted  = "deletions_completed"
	FieldBreachNotified      = "breach_notified"
	FieldAuditLogsCount      = "audit_logs_count"
	FieldDPORequests         = "dpo_requests"
	FieldDPOResolved         = "dpo_resolved"
	FieldDataRetentionStatus = "data_retention_status"
	FieldRecentAudits        = "recent_audits"
	FieldSecurityAlerts      = "security_alerts"
)

// ScalarFields lists the scalar field names in tile order.
var ScalarFields = []string{
	FieldComplianceScore,
	FieldActiveConsents,
	FieldExpiredConsents,
	FieldExportsRequested,
	FieldExportsCompleted,
	FieldDeletionsRequested,
	FieldDeletionsCompleted,
	FieldBreachNotified,
	FieldAuditLogsCount,
	FieldDPORequests,
	FieldDPOResolved,
	FieldDataRetentionStatus,
}

// ScalarRef returns a pointer to the named scalar field, or nil.
func (v *View) ScalarRef(field string) *Scalar {
	switch field {
	case FieldComplianceScore:
		return &v.ComplianceScore
	case FieldActiveConsents:
		return &v.ActiveConsents
	case FieldExpiredConsents:
		return &v.ExpiredConsents
	case FieldExportsRequested:
		return &v.ExportsRequested
	case FieldExportsCompleted:
		return &v.ExportsCompleted
	case FieldDeletionsRequested:
		return &v.DeletionsRequested
	case FieldDeletionsCompleted:
		return &v.DeletionsCompleted
	case FieldBreachNotified:
		return &v.BreachNotified
	case FieldAuditLogsCount:
		return &v.AuditLogsCount
	case FieldDPORequests:
		return &v.DPORequests
	case FieldDPOResolved:
		return &v.DPOResolved
	case FieldDataRetentionStatus:
		return &v.DataRetentionStatus
	}
	return nil
}

// Scalar returns the named scalar; unknown names yield Unknown.
func (v *View) Scalar(field string) Scalar {
	if ref := v.ScalarRef(field); ref != nil {
		return *ref
	}
	return Unknown()
}

// ListRef returns a pointer to the named list field, or nil.
func (v *View) ListRef(field string) *[]string {
	switch field {
	case FieldRecentAudits:
		return &v.RecentAudits
	case FieldSecurityAlerts:
		return &v.SecurityAlerts
	}
	return nil
}

// UnknownCount returns how many scalar fields no source supplied.
func (v *View) UnknownCount() int {
	n := 0
	for _, f := range ScalarFields {
		if !v.Scalar(f).IsKnown() {
			n++
		}
	}
	return n
}
