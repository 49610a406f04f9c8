package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playok/compliancemon/internal/model"
)

func num(s string) model.Scalar { return model.Known(json.Number(s)) }

func TestMerge_BothEmpty(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b model.RawPayload
	}{
		{name: "empty maps", a: model.EmptyPayload(), b: model.EmptyPayload()},
		{name: "nil maps", a: nil, b: nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := Merge(tc.a, tc.b)
			for _, f := range model.ScalarFields {
				assert.False(t, v.Scalar(f).IsKnown(), f)
			}
			assert.Equal(t, []string{}, v.RecentAudits)
			assert.Equal(t, []string{}, v.SecurityAlerts)
			assert.Equal(t, len(model.ScalarFields), v.UnknownCount())
		})
	}
}

func TestMerge_Scenario(t *testing.T) {
	a := model.RawPayload{
		"compliance_score": json.Number("87"),
		"recent_audits":    []any{"login ok"},
		"security_alerts":  []any{},
	}
	b := model.RawPayload{
		"consents_active":     json.Number("120"),
		"consents_expired":    json.Number("4"),
		"deletions_requested": json.Number("2"),
	}

	v := Merge(a, b)

	assert.Equal(t, num("87"), v.ComplianceScore)
	assert.Equal(t, num("120"), v.ActiveConsents)
	assert.Equal(t, num("4"), v.ExpiredConsents)
	assert.Equal(t, num("2"), v.DeletionsRequested)
	assert.Equal(t, []string{"login ok"}, v.RecentAudits)
	assert.Equal(t, []string{}, v.SecurityAlerts)
	// B has no audit_logs_count, so the length of A's recent_audits is used.
	assert.Equal(t, num("1"), v.AuditLogsCount)
	assert.False(t, v.ExportsRequested.IsKnown())
	assert.False(t, v.DataRetentionStatus.IsKnown())
}

func TestMerge_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		a, b  model.RawPayload
		field string
		want  model.Scalar
	}{
		{
			name:  "active consents from B only",
			a:     model.EmptyPayload(),
			b:     model.RawPayload{"consents_active": json.Number("5")},
			field: model.FieldActiveConsents,
			want:  num("5"),
		},
		{
			name:  "active consents prefers B over A",
			a:     model.RawPayload{"active_consents": json.Number("9")},
			b:     model.RawPayload{"consents_active": json.Number("5")},
			field: model.FieldActiveConsents,
			want:  num("5"),
		},
		{
			name:  "active consents falls back to A",
			a:     model.RawPayload{"active_consents": json.Number("9")},
			b:     model.EmptyPayload(),
			field: model.FieldActiveConsents,
			want:  num("9"),
		},
		{
			name:  "null in B counts as absent",
			a:     model.RawPayload{"active_consents": json.Number("9")},
			b:     model.RawPayload{"consents_active": nil},
			field: model.FieldActiveConsents,
			want:  num("9"),
		},
		{
			name:  "zero in B is a value",
			a:     model.RawPayload{"active_consents": json.Number("9")},
			b:     model.RawPayload{"consents_active": json.Number("0")},
			field: model.FieldActiveConsents,
			want:  num("0"),
		},
		{
			name:  "deletions requested falls back to pending requests",
			a:     model.RawPayload{"pending_requests": json.Number("3")},
			b:     model.EmptyPayload(),
			field: model.FieldDeletionsRequested,
			want:  num("3"),
		},
		{
			name:  "audit logs count from recent audits length",
			a:     model.RawPayload{"recent_audits": []any{"x", "y"}},
			b:     model.EmptyPayload(),
			field: model.FieldAuditLogsCount,
			want:  num("2"),
		},
		{
			name:  "audit logs count from empty recent audits",
			a:     model.RawPayload{"recent_audits": []any{}},
			b:     model.EmptyPayload(),
			field: model.FieldAuditLogsCount,
			want:  num("0"),
		},
		{
			name:  "audit logs count prefers B",
			a:     model.RawPayload{"recent_audits": []any{"x", "y"}},
			b:     model.RawPayload{"audit_logs_count": json.Number("40")},
			field: model.FieldAuditLogsCount,
			want:  num("40"),
		},
		{
			name:  "compliance score ignores B",
			a:     model.EmptyPayload(),
			b:     model.RawPayload{"compliance_score": json.Number("70")},
			field: model.FieldComplianceScore,
			want:  model.Unknown(),
		},
		{
			name:  "retention status is a string",
			a:     model.RawPayload{"data_retention_status": "Compliant - 30 day retention policy active"},
			b:     model.EmptyPayload(),
			field: model.FieldDataRetentionStatus,
			want:  model.Known("Compliant - 30 day retention policy active"),
		},
		{
			name:  "object value is not a scalar",
			a:     model.RawPayload{"compliance_score": map[string]any{"x": 1}},
			b:     model.EmptyPayload(),
			field: model.FieldComplianceScore,
			want:  model.Unknown(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Merge(tt.a, tt.b)
			assert.Equal(t, tt.want, v.Scalar(tt.field))
		})
	}
}

func TestMerge_Lists(t *testing.T) {
	a := model.RawPayload{
		"recent_audits":   "not a list",
		"security_alerts": []any{"Bot detection enabled", json.Number("3"), map[string]any{"k": "v"}},
	}
	b := model.RawPayload{"recent_audits": []any{"from b"}}

	v := Merge(a, b)

	assert.Equal(t, []string{}, v.RecentAudits)
	assert.Equal(t, []string{"Bot detection enabled", "3", `{"k":"v"}`}, v.SecurityAlerts)
	assert.False(t, v.AuditLogsCount.IsKnown())
}

func TestMerge_Idempotent(t *testing.T) {
	a := model.RawPayload{
		"compliance_score":      json.Number("87.5"),
		"recent_audits":         []any{"consent_given - User 1 - 2024-01-01"},
		"security_alerts":       []any{"Rate limiting active - 100 req/min limit"},
		"data_retention_status": "Compliant",
	}
	b := model.RawPayload{
		"consents_active":  json.Number("3"),
		"audit_logs_count": json.Number("4"),
		"breach_notified":  json.Number("0"),
	}

	first, err := json.Marshal(Merge(a, b))
	require.NoError(t, err)
	second, err := json.Marshal(Merge(a, b))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMerge_EveryScalarResolved(t *testing.T) {
	// Every combination of presence for each source key must yield a fully
	// resolved view with non-nil lists.
	keysA := []string{"compliance_score", "active_consents", "pending_requests", "data_retention_status", "recent_audits", "security_alerts"}
	keysB := []string{"consents_active", "consents_expired", "exports_requested", "exports_completed",
		"deletions_requested", "deletions_completed", "breach_notified", "audit_logs_count", "dpo_requests", "dpo_resolved"}

	for mask := 0; mask < 1<<len(keysA); mask++ {
		a := model.RawPayload{}
		for i, k := range keysA {
			if mask&(1<<i) == 0 {
				continue
			}
			if k == "recent_audits" || k == "security_alerts" {
				a[k] = []any{"entry"}
			} else {
				a[k] = json.Number("1")
			}
		}
		for _, b := range []model.RawPayload{{}, fullB(keysB)} {
			v := Merge(a, b)
			require.NotNil(t, v.RecentAudits)
			require.NotNil(t, v.SecurityAlerts)
			data, err := json.Marshal(v)
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			for _, f := range model.ScalarFields {
				_, present := decoded[f]
				assert.True(t, present, f)
			}
		}
	}
}

func fullB(keys []string) model.RawPayload {
	p := model.RawPayload{}
	for _, k := range keys {
		p[k] = json.Number("2")
	}
	return p
}
