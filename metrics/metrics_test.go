package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(runsTotal.WithLabelValues("probe"))
	beforeErr := testutil.ToFloat64(runErrors.WithLabelValues("probe"))

	ObserveRun("probe", time.Millisecond, nil)
	ObserveRun("probe", time.Millisecond, errors.New("boom"))

	assert.Equal(t, before+2, testutil.ToFloat64(runsTotal.WithLabelValues("probe")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(runErrors.WithLabelValues("probe")))
}

func TestCountersIgnoreNonPositive(t *testing.T) {
	gates := testutil.ToFloat64(gatesApplied)
	shots := testutil.ToFloat64(shotsTotal)

	AddGates(0)
	AddGates(-3)
	AddShots(0)
	AddGates(5)
	AddShots(7)

	assert.Equal(t, gates+5, testutil.ToFloat64(gatesApplied))
	assert.Equal(t, shots+7, testutil.ToFloat64(shotsTotal))
}

func TestCacheEvent(t *testing.T) {
	before := testutil.ToFloat64(cacheEvents.WithLabelValues("hit"))
	CacheEvent("hit")
	assert.Equal(t, before+1, testutil.ToFloat64(cacheEvents.WithLabelValues("hit")))
}

func TestRegistryExposesCollectors(t *testing.T) {
	CacheEvent("miss")
	AddShots(1)
	AddGates(1)
	ObserveRun("probe", time.Microsecond, nil)

	families, err := Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{
		"qtermsim_runs_total",
		"qtermsim_gates_applied_total",
		"qtermsim_cache_events_total",
		"qtermsim_shots_total",
		"qtermsim_run_duration_seconds",
	} {
		assert.Contains(t, joined, want)
	}
}
