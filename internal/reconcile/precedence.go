package reconcile

import (
	"encoding/json"
	"strconv"

	"github.com/playok/compliancemon/internal/model"
)

// lookup resolves one candidate value for an output field.
type lookup struct {
	Source model.SourceID
	Key    string
	// Length, when set, yields the length of the list at Key instead of its value.
	Length bool
}

func fromA(key string) lookup { return lookup{Source: model.SourceA, Key: key} }
func fromB(key string) lookup { return lookup{Source: model.SourceB, Key: key} }
func lenOfA(key string) lookup {
	return lookup{Source: model.SourceA, Key: key, Length: true}
}

// Rule lists the candidates for one output field, highest precedence first.
type Rule struct {
	Field string
	From  []lookup
}

// Precedence is the field resolution table. Source A is authoritative for
// narrative fields (audits, alerts, retention, score); source B for counters,
// with source A as fallback where B has no equivalent counter.
var Precedence = []Rule{
	{Field: model.FieldComplianceScore, From: []lookup{fromA("compliance_score")}},
	{Field: model.FieldActiveConsents, From: []lookup{fromB("consents_active"), fromA("active_consents")}},
	{Field: model.FieldExpiredConsents, From: []lookup{fromB("consents_expired")}},
	{Field: model.FieldExportsRequested, From: []lookup{fromB("exports_requested")}},
	{Field: model.FieldExportsCompleted, From: []lookup{fromB("exports_completed")}},
	{Field: model.FieldDeletionsRequested, From: []lookup{fromB("deletions_requested"), fromA("pending_requests")}},
	{Field: model.FieldDeletionsCompleted, From: []lookup{fromB("deletions_completed")}},
	{Field: model.FieldBreachNotified, From: []lookup{fromB("breach_notified")}},
	{Field: model.FieldAuditLogsCount, From: []lookup{fromB("audit_logs_count"), lenOfA("recent_audits")}},
	{Field: model.FieldDPORequests, From: []lookup{fromB("dpo_requests")}},
	{Field: model.FieldDPOResolved, From: []lookup{fromB("dpo_resolved")}},
	{Field: model.FieldDataRetentionStatus, From: []lookup{fromA("data_retention_status")}},
}

// ListPrecedence resolves the two list fields.
var ListPrecedence = []Rule{
	{Field: model.FieldRecentAudits, From: []lookup{fromA("recent_audits")}},
	{Field: model.FieldSecurityAlerts, From: []lookup{fromA("security_alerts")}},
}

func (l lookup) scalar(payloads map[model.SourceID]model.RawPayload) (model.Scalar, bool) {
	p := payloads[l.Source]
	if l.Length {
		items, ok := p.List(l.Key)
		if !ok {
			return model.Unknown(), false
		}
		return model.Known(json.Number(strconv.Itoa(len(items)))), true
	}
	return p.Scalar(l.Key)
}

func (l lookup) list(payloads map[model.SourceID]model.RawPayload) ([]string, bool) {
	return payloads[l.Source].List(l.Key)
}
