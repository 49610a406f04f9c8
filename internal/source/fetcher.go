package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/telemetry"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// Result is the outcome of one fetch. Payload is never nil.
type Result struct {
	Source  model.SourceID
	Payload model.RawPayload
	State   model.FetchState
}

// Fetcher performs one best-effort fetch against a metrics endpoint.
// Implementations never fail: any problem yields an empty payload.
type Fetcher interface {
	// Source returns the endpoint this fetcher reads.
	Source() model.SourceID
	// Fetch issues one request and returns whatever the endpoint supplied.
	Fetch(ctx context.Context) Result
}

// Config configures an HTTPFetcher.
type Config struct {
	Source model.MetricSource
	// Client is the HTTP client to use (default: a client without timeout).
	Client *http.Client
	// Timeout bounds a single fetch when > 0.
	Timeout time.Duration
	Logger  logrus.FieldLogger
	Metrics *telemetry.Metrics
}

// HTTPFetcher fetches a JSON object from one endpoint with a GET request.
type HTTPFetcher struct {
	src     model.MetricSource
	client  *http.Client
	timeout time.Duration
	log     logrus.FieldLogger
	metrics *telemetry.Metrics
}

// New creates an HTTPFetcher.
func New(cfg Config) *HTTPFetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{
		src:     cfg.Source,
		client:  client,
		timeout: cfg.Timeout,
		log:     logging.Component(cfg.Logger, "source").WithField("source", string(cfg.Source.ID)),
		metrics: cfg.Metrics,
	}
}

// NewSourceA returns a fetcher for the operations dashboard endpoint under baseURL.
func NewSourceA(baseURL string, cfg Config) *HTTPFetcher {
	cfg.Source = model.MetricSource{ID: model.SourceA, BaseURL: baseURL, Path: model.SourceAPath, State: model.FetchPending}
	return New(cfg)
}

// NewSourceB returns a fetcher for the GDPR statistics endpoint under baseURL.
func NewSourceB(baseURL string, cfg Config) *HTTPFetcher {
	cfg.Source = model.MetricSource{ID: model.SourceB, BaseURL: baseURL, Path: model.SourceBPath, State: model.FetchPending}
	return New(cfg)
}

// Source implements Fetcher.
func (f *HTTPFetcher) Source() model.SourceID { return f.src.ID }

// Endpoint returns the endpoint description.
func (f *HTTPFetcher) Endpoint() model.MetricSource { return f.src }

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context) Result {
	payload, err := f.get(ctx)
	if err != nil {
		f.log.WithError(err).Debug("source unavailable, using empty payload")
		f.count("failed")
		return Result{Source: f.src.ID, Payload: model.EmptyPayload(), State: model.FetchFailed}
	}
	f.count("success")
	return Result{Source: f.src.ID, Payload: payload, State: model.FetchSuccess}
}

func (f *HTTPFetcher) get(ctx context.Context) (model.RawPayload, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.src.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", f.src.URL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: f.src.URL(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return Decode(body)
}

func (f *HTTPFetcher) count(result string) {
	if f.metrics == nil {
		return
	}
	f.metrics.SourceFetches.WithLabelValues(string(f.src.ID), result).Inc()
}

// Decode parses a JSON object into a payload, keeping numbers exact.
func Decode(body []byte) (model.RawPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if payload == nil {
		return nil, ErrNotObject
	}
	return model.RawPayload(payload), nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// ErrNotObject is returned by Decode for a JSON null body.
var ErrNotObject = &DecodeError{"payload is not a JSON object"}

// DecodeError describes a body that is not a usable payload.
type DecodeError struct {
	msg string
}

func (e *DecodeError) Error() string { return e.msg }

// Func adapts a function to the Fetcher interface.
type Func struct {
	ID model.SourceID
	Fn func(ctx context.Context) (model.RawPayload, error)
}

// Source implements Fetcher.
func (f Func) Source() model.SourceID { return f.ID }

// Fetch implements Fetcher. Errors and panics become an empty payload.
func (f Func) Fetch(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Source: f.ID, Payload: model.EmptyPayload(), State: model.FetchFailed}
		}
	}()
	payload, err := f.Fn(ctx)
	if err != nil || payload == nil {
		return Result{Source: f.ID, Payload: model.EmptyPayload(), State: model.FetchFailed}
	}
	return Result{Source: f.ID, Payload: payload, State: model.FetchSuccess}
}
