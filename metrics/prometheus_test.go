package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Init()

	WebhookEvents.WithLabelValues("messages.upsert").Inc()
	WebhookRejected.WithLabelValues("not_found").Inc()
	GatewayRequests.WithLabelValues("GET", "200").Inc()
	StoredMessages.Set(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `webhook_events_total{event="messages.upsert"} 1`)
	assert.Contains(t, out, `webhook_rejected_total{reason="not_found"} 1`)
	assert.Contains(t, out, `gateway_requests_total{method="GET",status="200"} 1`)
	assert.Contains(t, out, "webhook_stored_messages 3")
}
