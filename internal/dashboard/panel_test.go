package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playok/compliancemon/internal/model"
)

func TestBuild_Loading(t *testing.T) {
	p := Build(nil)
	assert.True(t, p.Loading)
	assert.Empty(t, p.Tiles)
}

func TestBuild_Error(t *testing.T) {
	p := Build(&model.Snapshot{PassID: "x", Error: "Failed to load metrics. Please check backend/API."})

	assert.Equal(t, "Failed to load metrics. Please check backend/API.", p.Error)
	assert.Empty(t, p.Tiles)
	assert.Empty(t, p.Lists)
}

func TestBuild_TilesAndPlaceholders(t *testing.T) {
	v := model.NewView()
	v.ComplianceScore = model.Known(json.Number("87"))
	v.DataRetentionStatus = model.Known("Compliant")
	v.RecentAudits = []string{"login ok"}

	p := Build(&model.Snapshot{PassID: "p", View: v})

	require.Len(t, p.Tiles, 12)
	assert.Equal(t, Tile{Field: "compliance_score", Title: "Compliance Score", Value: "87", Known: true}, p.Tiles[0])
	assert.Equal(t, Tile{Field: "active_consents", Title: "Active Consents", Value: "-", Known: false}, p.Tiles[1])
	assert.Equal(t, "Data Retention", p.Tiles[11].Title)
	assert.Equal(t, "Compliant", p.Tiles[11].Value)

	require.Len(t, p.Lists, 2)
	assert.Equal(t, []string{"login ok"}, p.Lists[0].Items)
	assert.Empty(t, p.Lists[0].Placeholder)
	assert.Equal(t, []string{}, p.Lists[1].Items)
	assert.Equal(t, NoSecurityAlerts, p.Lists[1].Placeholder)
}

func TestBuild_EveryTileHasTitle(t *testing.T) {
	p := Build(&model.Snapshot{View: model.NewView()})
	for _, tile := range p.Tiles {
		assert.NotEmpty(t, tile.Title, tile.Field)
	}
}
