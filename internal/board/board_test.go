package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playok/compliancemon/internal/model"
)

func TestBoard_PublishReplacesSnapshot(t *testing.T) {
	b := New()
	assert.Nil(t, b.Current())

	var seen []string
	b.Subscribe(func(s *model.Snapshot) { seen = append(seen, s.PassID) })

	first := &model.Snapshot{PassID: "1", View: model.NewView()}
	second := &model.Snapshot{PassID: "2", Error: "boom"}
	b.Publish(first)
	b.Publish(second)
	b.Publish(nil)

	assert.Same(t, second, b.Current())
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestBoard_RestoreOnlySeedsEmptyBoard(t *testing.T) {
	b := New()
	called := false
	b.Subscribe(func(*model.Snapshot) { called = true })

	restored := &model.Snapshot{PassID: "old", View: model.NewView()}
	b.Restore(restored)
	assert.Same(t, restored, b.Current())
	assert.False(t, called)

	live := &model.Snapshot{PassID: "live", View: model.NewView()}
	b.Publish(live)
	b.Restore(&model.Snapshot{PassID: "older"})
	assert.Same(t, live, b.Current())
}
