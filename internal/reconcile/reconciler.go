package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/source"
)

// Outcome is the result of one reconciliation.
type Outcome struct {
	View    *model.View
	Sources map[model.SourceID]model.FetchState
}

// Reconciler fetches both sources concurrently and merges them.
type Reconciler struct {
	a, b  source.Fetcher
	log   logrus.FieldLogger
	merge func(a, b model.RawPayload) *model.View
}

// New creates a reconciler over the two source fetchers.
func New(a, b source.Fetcher, logger logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		a:     a,
		b:     b,
		log:   logging.Component(logger, "reconcile"),
		merge: Merge,
	}
}

// Reconcile runs one fetch-and-merge and returns the view.
func (r *Reconciler) Reconcile(ctx context.Context) (*model.View, error) {
	out, err := r.Run(ctx, "")
	return out.View, err
}

// Run fetches both sources, waits for both to settle, then merges.
// Source failures are absorbed as empty payloads; only an unexpected
// failure in the merge step returns an *Error.
func (r *Reconciler) Run(ctx context.Context, passID string) (out Outcome, err error) {
	var ra, rb source.Result

	var g errgroup.Group
	g.Go(func() error {
		ra = fetchSafely(ctx, r.a)
		return nil
	})
	g.Go(func() error {
		rb = fetchSafely(ctx, r.b)
		return nil
	})
	g.Wait()

	out.Sources = map[model.SourceID]model.FetchState{
		ra.Source: ra.State,
		rb.Source: rb.State,
	}

	defer func() {
		if rec := recover(); rec != nil {
			out.View = nil
			err = &Error{PassID: passID, Cause: fmt.Errorf("merge panic: %v", rec)}
			r.log.WithField("pass_id", passID).WithError(err).Error("reconciliation failed")
		}
	}()

	out.View = r.merge(ra.Payload, rb.Payload)
	r.log.WithFields(logrus.Fields{
		"pass_id":  passID,
		"source_a": ra.State,
		"source_b": rb.State,
		"unknown":  out.View.UnknownCount(),
	}).Debug("reconciled")
	return out, nil
}

// fetchSafely runs f and turns a panic into a failed, empty result.
func fetchSafely(ctx context.Context, f source.Fetcher) (res source.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = source.Result{Source: f.Source(), Payload: model.EmptyPayload(), State: model.FetchFailed}
		}
	}()
	res = f.Fetch(ctx)
	if res.Payload == nil {
		res.Payload = model.EmptyPayload()
	}
	if res.Source == "" {
		res.Source = f.Source()
	}
	return res
}
