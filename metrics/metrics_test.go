package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/kova98/feedhook/enums"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEntry(t *testing.T) {
	m := New()

	m.ObserveEntry("anime", enums.OutcomeDispatched)
	m.ObserveEntry("anime", enums.OutcomeDispatched)
	m.ObserveEntry("anime", enums.OutcomeSkippedKeyword)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entries.WithLabelValues("anime", "dispatched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entries.WithLabelValues("anime", "skipped_keyword")))
}

func TestObserveScan(t *testing.T) {
	m := New()

	m.ObserveScan("anime", nil)
	m.ObserveScan("anime", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("anime", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("anime", "error")))
}

func TestObserveDispatch(t *testing.T) {
	m := New()

	m.ObserveDispatch("anime", 20*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.dispatch))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveEntry("anime", enums.OutcomeFailed)
		m.ObserveScan("anime", nil)
		m.ObserveDispatch("anime", time.Second)
	})
}
