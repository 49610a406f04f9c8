package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	m.Register(reg)

	m.Passes.WithLabelValues("ok").Inc()
	m.SourceFetches.WithLabelValues("a", "failed").Inc()
	m.UnknownFields.Set(3)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UnknownFields))

	assert.Panics(t, func() { m.Register(reg) })
}
