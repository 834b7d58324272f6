package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/CSCSoftware/evolution-mcp/metrics"
)

var errInvalidJSON = errors.New("invalid JSON")

type eventResponse struct {
	Success bool   `json:"success"`
	Event   string `json:"event"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
			h.Set("Access-Control-Allow-Headers", req)
		} else {
			h.Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	metrics.WebhookRejected.WithLabelValues("not_found").Inc()
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
}

func (s *Server) requirePrefix(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, s.path) {
			notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warn("failed to read webhook body", "error", err)
		metrics.WebhookRejected.WithLabelValues("invalid_json").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	event, data, err := decodeEnvelope(body)
	if err != nil {
		s.logger.Warn("failed to process webhook", "error", err, "bytes", len(body))
		metrics.WebhookRejected.WithLabelValues("invalid_json").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	s.logger.Info("webhook event received", "event", event)
	s.store.Add(event, data)

	metrics.WebhookEvents.WithLabelValues(event).Inc()
	metrics.StoredMessages.Set(float64(s.store.Count()))

	writeJSON(w, http.StatusOK, eventResponse{Success: true, Event: event})
}

// decodeEnvelope splits a webhook body into its event name and data. A
// missing or empty event becomes "unknown"; a missing or falsy data field
// means the whole body is the data.
func decodeEnvelope(body []byte) (string, json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) || bytes.Equal(body, []byte("null")) {
		return "", nil, errInvalidJSON
	}

	event := "unknown"
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// valid JSON, but not an object
		return event, json.RawMessage(body), nil
	}

	if raw, ok := fields["event"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil && name != "" {
			event = name
		}
	}

	data := json.RawMessage(body)
	if raw, ok := fields["data"]; ok && !falsy(raw) {
		data = raw
	}
	return event, data, nil
}

func falsy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0", `""`:
		return true
	}
	return false
}
