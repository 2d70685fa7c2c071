package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	m.ScoreWrites.Add(3)
	m.PhotoUploads.WithLabelValues("ok").Inc()
	m.LiveViewers.Inc()
	m.LiveViewers.Inc()
	m.LiveViewers.Dec()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.ScoreWrites))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PhotoUploads.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LiveViewers))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["golfclub_score_cells_written_total"])
	assert.True(t, names["golfclub_live_viewers"])
	assert.True(t, names["go_goroutines"])
}

func TestNew_Independent(t *testing.T) {
	// each call has its own registry, so registering twice never panics
	a, b := New(), New()
	a.ScoreWrites.Inc()
	assert.Zero(t, testutil.ToFloat64(b.ScoreWrites))
}
