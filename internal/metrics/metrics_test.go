package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgetgen/pkg/genservice/cache"
	"github.com/goliatone/go-widgetgen/pkg/session"
)

func TestMetrics_RecordsControllerEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveGenerate(session.OutcomeSuccess, 2*time.Second)
	m.ObserveEdit(session.OutcomeFailure, time.Second)
	m.ObserveEdit(session.OutcomeFailure, time.Second)
	m.EditPending(1)
	m.EditPending(1)
	m.EditPending(-1)
	m.Submitted()
	m.CacheLookup(cache.LookupHit)
	m.SessionsActive(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generateTotal.WithLabelValues(session.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.editTotal.WithLabelValues(session.OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.editsPending))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(cache.LookupHit)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsActive))
}

func TestMetrics_HTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("/api/examples", "GET", 200, 10*time.Millisecond)
	m.ObserveHTTP("", "GET", 404, time.Millisecond)

	expected := `
# HELP widgetgen_http_requests_total HTTP requests by route, method and status.
# TYPE widgetgen_http_requests_total counter
widgetgen_http_requests_total{method="GET",route="/api/examples",status="200"} 1
widgetgen_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "widgetgen_http_requests_total"))
}

func TestNew_PerRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
