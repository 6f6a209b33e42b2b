package handlers

import (
	"net/http"

	"github.com/kova98/feedhook/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StatusBoard interface {
	Summaries() []models.ScanSummary
}

type StatusHandler struct {
	board StatusBoard
}

func NewStatusHandler(board StatusBoard) *StatusHandler {
	return &StatusHandler{board}
}

type statusResponse struct {
	Feeds []models.ScanSummary `json:"feeds"`
}

type healthResponse struct {
	Status       string   `json:"status"`
	FailingFeeds []string `json:"failingFeeds,omitempty"`
}

func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) Result {
	return Ok(statusResponse{Feeds: h.board.Summaries()})
}

// GetHealth fails when the latest scan of any feed aborted.
func (h *StatusHandler) GetHealth(w http.ResponseWriter, r *http.Request) Result {
	var failing []string
	for _, s := range h.board.Summaries() {
		if s.Error != "" {
			failing = append(failing, s.Feed)
		}
	}
	if len(failing) > 0 {
		return Unavailable(healthResponse{Status: "degraded", FailingFeeds: failing})
	}
	return Ok(healthResponse{Status: "ok"})
}

func (h *StatusHandler) NotFound(w http.ResponseWriter, r *http.Request) Result {
	return Result{Code: http.StatusNotFound, Body: ErrorResponse{Error: "not found: " + r.URL.Path}}
}

func NewStatusMux(h *StatusHandler, registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", Public(h.NotFound))
	mux.HandleFunc("GET /status", Public(h.GetStatus))
	mux.HandleFunc("GET /healthz", Public(h.GetHealth))
	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return mux
}
