package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playok/compliancemon/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_EmptySlot(t *testing.T) {
	s := openTemp(t)

	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := openTemp(t)

	v := model.NewView()
	v.ComplianceScore = model.Known(json.Number("87"))
	v.RecentAudits = []string{"login ok"}
	first := &model.Snapshot{PassID: "first", View: v, FinishedAt: time.Unix(100, 0).UTC()}
	second := &model.Snapshot{PassID: "second", View: model.NewView(), FinishedAt: time.Unix(200, 0).UTC()}

	require.NoError(t, s.SaveSnapshot(first))
	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "first", got.PassID)
	assert.Equal(t, "87", got.View.ComplianceScore.String())
	assert.Equal(t, []string{"login ok"}, got.View.RecentAudits)

	require.NoError(t, s.SaveSnapshot(second))
	got, err = s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "second", got.PassID)
	assert.False(t, got.View.ComplianceScore.IsKnown())
	assert.Equal(t, []string{}, got.View.SecurityAlerts)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM current_view").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestStore_ReopenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot(&model.Snapshot{PassID: "kept", View: model.NewView()}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "kept", got.PassID)

	require.NoError(t, s.ClearSnapshot())
	got, err = s.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, got)
}
