package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/source"
)

func fixed(id model.SourceID, p model.RawPayload) source.Fetcher {
	return source.Func{ID: id, Fn: func(context.Context) (model.RawPayload, error) { return p, nil }}
}

func failing(id model.SourceID) source.Fetcher {
	return source.Func{ID: id, Fn: func(context.Context) (model.RawPayload, error) {
		return nil, errors.New("connection refused")
	}}
}

type panicFetcher struct{ id model.SourceID }

func (p panicFetcher) Source() model.SourceID           { return p.id }
func (p panicFetcher) Fetch(context.Context) source.Result { panic("fetch exploded") }

func TestReconciler_BothFail(t *testing.T) {
	r := New(failing(model.SourceA), failing(model.SourceB), nil)

	out, err := r.Run(context.Background(), "p1")

	require.NoError(t, err)
	require.NotNil(t, out.View)
	assert.Equal(t, len(model.ScalarFields), out.View.UnknownCount())
	assert.Equal(t, []string{}, out.View.RecentAudits)
	assert.Equal(t, []string{}, out.View.SecurityAlerts)
	assert.Equal(t, model.FetchFailed, out.Sources[model.SourceA])
	assert.Equal(t, model.FetchFailed, out.Sources[model.SourceB])
}

func TestReconciler_OneFails(t *testing.T) {
	b := model.RawPayload{"consents_active": json.Number("5")}
	r := New(failing(model.SourceA), fixed(model.SourceB, b), nil)

	v, err := r.Reconcile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.Known(json.Number("5")), v.ActiveConsents)
}

func TestReconciler_PanickingFetcherIsAbsorbed(t *testing.T) {
	b := model.RawPayload{"dpo_requests": json.Number("1")}
	r := New(panicFetcher{id: model.SourceA}, fixed(model.SourceB, b), nil)

	out, err := r.Run(context.Background(), "p2")

	require.NoError(t, err)
	assert.Equal(t, model.FetchFailed, out.Sources[model.SourceA])
	assert.Equal(t, model.Known(json.Number("1")), out.View.DPORequests)
}

func TestReconciler_FetchesConcurrently(t *testing.T) {
	var inFlight, peak int32
	slow := func(id model.SourceID) source.Fetcher {
		return source.Func{ID: id, Fn: func(context.Context) (model.RawPayload, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return model.EmptyPayload(), nil
		}}
	}
	r := New(slow(model.SourceA), slow(model.SourceB), nil)

	_, err := r.Reconcile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&peak))
}

func TestReconciler_MergePanicIsReconciliationFailure(t *testing.T) {
	r := New(fixed(model.SourceA, model.EmptyPayload()), fixed(model.SourceB, model.EmptyPayload()), nil)
	r.merge = func(a, b model.RawPayload) *model.View { panic("bad merge") }

	out, err := r.Run(context.Background(), "p3")

	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "p3", rerr.PassID)
	assert.Contains(t, err.Error(), "bad merge")
	assert.Nil(t, out.View)
	assert.Equal(t, model.FetchSuccess, out.Sources[model.SourceA])
}
