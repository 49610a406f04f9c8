package board

import (
	"sync"
	"sync/atomic"

	"github.com/playok/compliancemon/internal/model"
)

// Subscriber is called with each snapshot after it becomes current.
type Subscriber func(snap *model.Snapshot)

// Board is the single current-snapshot slot the presentation layer reads.
// Each Publish replaces the snapshot wholesale; readers never observe a
// partially updated view.
type Board struct {
	current atomic.Pointer[model.Snapshot]

	mu   sync.RWMutex
	subs []Subscriber
}

// New creates an empty board.
func New() *Board {
	return &Board{}
}

// Current returns the latest snapshot, or nil before the first publish.
func (b *Board) Current() *model.Snapshot {
	return b.current.Load()
}

// Publish makes snap current and notifies subscribers.
func (b *Board) Publish(snap *model.Snapshot) {
	if snap == nil {
		return
	}
	b.current.Store(snap)

	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Restore sets the current snapshot without notifying subscribers.
// Used to seed the board from the persisted slot at startup.
func (b *Board) Restore(snap *model.Snapshot) {
	if snap == nil {
		return
	}
	b.current.CompareAndSwap(nil, snap)
}

// Subscribe registers fn for future publishes.
func (b *Board) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}
