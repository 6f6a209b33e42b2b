package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Code int
	Body interface{}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Unavailable(body interface{}) Result {
	return Result{
		Code: http.StatusServiceUnavailable,
		Body: body,
	}
}

// Public wraps a Handler with request logging and JSON encoding.
func Public(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}
