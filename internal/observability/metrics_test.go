package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest(http.MethodGet, "/api/articles", http.StatusOK, 12*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/articles", http.StatusOK, 3*time.Millisecond)
	m.RecordWrite("article", "create")
	m.RecordMirrorFailure("index")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/articles", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contentWrites.WithLabelValues("article", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorFailures.WithLabelValues("index")))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordWrite("tag", "delete")
		m.RecordMirrorFailure("remove")
	})
}
