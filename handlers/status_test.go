package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kova98/feedhook/enums"
	"github.com/kova98/feedhook/metrics"
	"github.com/kova98/feedhook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoard []models.ScanSummary

func (b fakeBoard) Summaries() []models.ScanSummary { return b }

func serve(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetStatus(t *testing.T) {
	board := fakeBoard{{Feed: "anime", Seen: 3, Dispatched: 1, Skipped: map[enums.Outcome]int{enums.OutcomeSkippedDate: 2}}}
	mux := NewStatusMux(NewStatusHandler(board), nil)

	rec := serve(t, mux, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Len(t, res.Feeds, 1)
	assert.Equal(t, "anime", res.Feeds[0].Feed)
	assert.Equal(t, 1, res.Feeds[0].Dispatched)
	assert.Equal(t, 2, res.Feeds[0].Skipped[enums.OutcomeSkippedDate])
}

func TestGetHealth(t *testing.T) {
	healthy := NewStatusMux(NewStatusHandler(fakeBoard{{Feed: "anime"}}), nil)
	assert.Equal(t, http.StatusOK, serve(t, healthy, "/healthz").Code)

	empty := NewStatusMux(NewStatusHandler(fakeBoard{}), nil)
	assert.Equal(t, http.StatusOK, serve(t, empty, "/healthz").Code)

	degraded := NewStatusMux(NewStatusHandler(fakeBoard{{Feed: "anime"}, {Feed: "games", Error: "fetch feed: timeout"}}), nil)
	rec := serve(t, degraded, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var res healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, []string{"games"}, res.FailingFeeds)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.ObserveEntry("anime", enums.OutcomeDispatched)
	mux := NewStatusMux(NewStatusHandler(fakeBoard{}), m.Registry)

	rec := serve(t, mux, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `feedhook_entries_total{feed="anime",outcome="dispatched"} 1`))
}

func TestUnknownPath(t *testing.T) {
	mux := NewStatusMux(NewStatusHandler(fakeBoard{}), nil)

	rec := serve(t, mux, "/feeds")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "not found: /feeds", res.Error)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	mux := NewStatusMux(NewStatusHandler(fakeBoard{}), nil)

	assert.Equal(t, http.StatusNotFound, serve(t, mux, "/metrics").Code)
}
