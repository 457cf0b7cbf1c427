package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bond-tc-sim/internal/sim"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ sim.Observer = (*Metrics)(nil)

func TestObserveRun(t *testing.T) {
	m := NewMetrics("")
	m.ObserveRun(100, 10, 7, 20*time.Millisecond)
	m.ObserveRun(50, 10, 0, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.PathsSimulated))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.DaysSimulated))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.FloorEvents))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestRecordRequestAndErrors(t *testing.T) {
	m := NewMetrics("test")
	m.RecordRequest("POST", "/api/v1/simulations", "200", time.Millisecond)
	m.RecordRequest("POST", "/api/v1/simulations", "200", time.Millisecond)
	m.RecordRequest("POST", "/api/v1/simulations", "400", time.Millisecond)
	m.RecordRunError("invalid_config")
	m.SetStoredRuns(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/simulations", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/simulations", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunErrors.WithLabelValues("invalid_config")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StoredRuns))
}

func TestInstancesDoNotCollide(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")
	a.RunsTotal.Inc()
	assert.Zero(t, testutil.ToFloat64(b.RunsTotal))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics("")
	m.ObserveRun(1, 1, 0, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tcsim_sim_runs_total 1")
}
