package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSCSoftware/evolution-mcp/config"
	"github.com/CSCSoftware/evolution-mcp/evolution"
	"github.com/CSCSoftware/evolution-mcp/store"
	"github.com/CSCSoftware/evolution-mcp/webhook"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type gatewayCall struct {
	Pattern string
	Body    map[string]any
}

type harness struct {
	session *mcp.ClientSession
	store   *store.Store
	webhook *webhook.Server

	mu    sync.Mutex
	calls []gatewayCall
}

// route is a canned gateway reply for a "METHOD /path" pattern.
type route struct {
	status int
	body   string
}

func newHarness(t *testing.T, routes map[string]route) *harness {
	t.Helper()
	h := &harness{}

	mux := http.NewServeMux()
	for pattern, rt := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			call := gatewayCall{Pattern: pattern}
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &call.Body)
			}
			h.mu.Lock()
			h.calls = append(h.calls, call)
			h.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rt.status)
			_, _ = io.WriteString(w, rt.body)
		})
	}
	gateway := httptest.NewServer(mux)
	t.Cleanup(gateway.Close)

	cfg := config.Default()
	cfg.Evolution.BaseURL = gateway.URL
	cfg.Evolution.Instance = "inst"
	cfg.Webhook.Port = 0

	client := evolution.NewClient(cfg.Evolution, evolution.Options{})
	h.store = store.New(store.Options{})
	h.webhook = webhook.New(h.store, webhook.Options{Path: cfg.Webhook.Path})
	t.Cleanup(func() { _ = h.webhook.Stop(context.Background()) })

	srv := NewServer(cfg, client, h.store, h.webhook, nil)

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Close()
	})

	h.session = cs
	return h
}

func (h *harness) call(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	assert.False(t, res.IsError)
	return tc.Text
}

func (h *harness) gatewayCalls() []gatewayCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]gatewayCall(nil), h.calls...)
}

func (h *harness) read(t *testing.T, uri string) string {
	t.Helper()
	res, err := h.session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	return res.Contents[0].Text
}

func TestToolsRegistered(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"get_api_status", "get_instance_status", "connect_instance", "set_presence",
		"logout_instance", "restart_instance", "send_text_message", "send_media",
		"send_audio", "send_sticker", "send_location", "send_contact", "send_poll",
		"send_reaction", "check_whatsapp_number", "mark_message_as_read", "archive_chat",
		"delete_message_for_everyone", "update_profile_name", "update_profile_status",
		"create_group", "add_group_participants", "start_webhook_listener",
		"stop_webhook_listener", "configure_evolution_webhook", "get_webhook_config",
		"get_incoming_messages", "get_unread_messages", "clear_stored_messages",
		"get_webhook_status",
	} {
		assert.Contains(t, names, want)
	}
}

func TestGetAPIStatus(t *testing.T) {
	h := newHarness(t, map[string]route{
		"GET /{$}": {http.StatusOK, `{"status":200,"message":"Welcome","version":"2.2.3"}`},
	})

	assert.Equal(t, "Evolution API v2.2.3 is running. Status: 200", h.call(t, "get_api_status", nil))
}

func TestGetInstanceStatus(t *testing.T) {
	h := newHarness(t, map[string]route{
		"GET /instance/connectionState/inst": {http.StatusOK, `{"instance":{"instanceName":"inst","state":"open"}}`},
	})

	assert.Equal(t, "Instance status: open", h.call(t, "get_instance_status", nil))
}

func TestSendText(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /message/sendText/inst": {http.StatusCreated, `{"key":{"id":"3EB0ABC","remoteJid":"5511999999999@s.whatsapp.net","fromMe":true}}`},
	})

	text := h.call(t, "send_text_message", map[string]any{
		"number":   "5511999999999",
		"text":     "hello",
		"presence": "composing",
	})
	assert.Equal(t, "Message sent: 3EB0ABC", text)

	calls := h.gatewayCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "hello", calls[0].Body["text"])
	assert.Equal(t, map[string]any{"presence": "composing"}, calls[0].Body["options"])
}

func TestSendTextValidation(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, "Invalid input: text is required.", h.call(t, "send_text_message", map[string]any{
		"number": "5511999999999",
		"text":   "",
	}))
	assert.Equal(t, "Invalid input: presence must be one of composing, recording, paused.", h.call(t, "send_text_message", map[string]any{
		"number":   "5511999999999",
		"text":     "hi",
		"presence": "dancing",
	}))
	assert.Empty(t, h.gatewayCalls())
}

func TestGatewayFailureIsText(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /message/sendText/inst": {http.StatusInternalServerError, `{"error":"boom"}`},
	})

	text := h.call(t, "send_text_message", map[string]any{"number": "5511", "text": "hi"})
	assert.Equal(t, `Failed to send message: evolution api POST /message/sendText/inst: 500 Internal Server Error: {"error":"boom"}`, text)
}

func TestSendMediaValidation(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /message/media/inst": {http.StatusCreated, `{"key":{"id":"M1"}}`},
	})

	assert.Equal(t, "Invalid input: media_type must be one of image, document, video, audio.", h.call(t, "send_media", map[string]any{
		"number":     "5511",
		"url":        "https://example.com/a.png",
		"media_type": "gif",
	}))
	assert.Equal(t, "Invalid input: url must be an http(s) URL.", h.call(t, "send_media", map[string]any{
		"number":     "5511",
		"url":        "not a url",
		"media_type": "image",
	}))
	assert.Equal(t, "Media sent.", h.call(t, "send_media", map[string]any{
		"number":     "5511",
		"url":        "https://example.com/a.png",
		"media_type": "image",
		"caption":    "look",
	}))

	calls := h.gatewayCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"url":       "https://example.com/a.png",
		"caption":   "look",
		"mediaType": "image",
	}, calls[0].Body["media"])
}

func TestSendPollNeedsTwoOptions(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, "Invalid input: options needs at least 2 entries.", h.call(t, "send_poll", map[string]any{
		"number":  "5511",
		"name":    "Lunch?",
		"options": []string{"yes"},
	}))
}

func TestCheckWhatsAppNumber(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /chat/whatsappNumbers/inst": {http.StatusOK, `[{"jid":"5511999999999@s.whatsapp.net","exists":true,"number":"5511999999999"}]`},
	})

	assert.Equal(t, "The number 5511999999999 is a valid WhatsApp number.", h.call(t, "check_whatsapp_number", map[string]any{"phone": "5511999999999"}))
}

func TestArchiveChat(t *testing.T) {
	h := newHarness(t, map[string]route{
		"PUT /chat/archiveChat/inst": {http.StatusOK, `{}`},
	})

	assert.Equal(t, "Chat archived.", h.call(t, "archive_chat", map[string]any{"number": "5511"}))
	assert.Equal(t, "Chat unarchived.", h.call(t, "archive_chat", map[string]any{"number": "5511", "archive": false}))

	calls := h.gatewayCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "archive", calls[0].Body["action"])
	assert.Equal(t, "unarchive", calls[1].Body["action"])
}

func TestGroupTools(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /group/create/inst":            {http.StatusCreated, `{"id":"120363@g.us","subject":"Team"}`},
		"PUT /group/updateGroupMembers/inst": {http.StatusOK, `{}`},
	})

	assert.Equal(t, `Group "Team" created. ID: 120363@g.us`, h.call(t, "create_group", map[string]any{
		"subject":      "Team",
		"participants": []string{"5511", "5512"},
	}))
	assert.Equal(t, "2 participant(s) added to the group.", h.call(t, "add_group_participants", map[string]any{
		"group_id":     "120363@g.us",
		"participants": []string{"5513", "5514"},
	}))

	calls := h.gatewayCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "add", calls[1].Body["action"])
	assert.Equal(t, "120363@g.us", calls[1].Body["groupJid"])
}

func TestWebhookListenerTools(t *testing.T) {
	h := newHarness(t, map[string]route{
		"POST /webhook/set/inst": {http.StatusCreated, `{}`},
	})

	assert.Equal(t, "Webhook listener is not running.", h.call(t, "stop_webhook_listener", nil))
	assert.Contains(t, h.call(t, "get_webhook_status", nil), "Local listener: stopped")

	text := h.call(t, "start_webhook_listener", nil)
	require.True(t, strings.HasPrefix(text, "Webhook listener started at http://localhost:"), text)
	l := h.webhook.Listener()
	require.NotNil(t, l)

	again := h.call(t, "start_webhook_listener", nil)
	assert.Contains(t, again, "already running on port")
	assert.Same(t, l, h.webhook.Listener())

	body := `{"event":"messages.upsert","data":{"key":{"id":"A1","remoteJid":"5511999999999@s.whatsapp.net","fromMe":false},"pushName":"Ana","message":{"conversation":"oi"}}}`
	resp, err := http.Post(strings.Replace(l.URL(), "localhost", "127.0.0.1", 1), "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := h.call(t, "get_webhook_status", nil)
	assert.Contains(t, status, "Local listener: running")
	assert.Contains(t, status, "Stored messages: 1")
	assert.Contains(t, status, "Webhook URL: "+l.URL())

	configured := h.call(t, "configure_evolution_webhook", nil)
	assert.Contains(t, configured, "URL: "+l.URL())
	assert.Contains(t, configured, "Events: messages.upsert, messages.update, send.message, connection.update")
	calls := h.gatewayCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, l.URL(), calls[0].Body["url"])
	assert.Equal(t, true, calls[0].Body["enabled"])

	assert.Equal(t, "Webhook listener stopped.", h.call(t, "stop_webhook_listener", nil))
	assert.False(t, h.webhook.Running())
	assert.Equal(t, "Invalid input: webhook_url is required when the local listener is not running.", h.call(t, "configure_evolution_webhook", nil))
}

func TestConfigureWebhookRejectsUnknownEvent(t *testing.T) {
	h := newHarness(t, nil)

	text := h.call(t, "configure_evolution_webhook", map[string]any{
		"webhook_url": "http://example.com/webhook",
		"events":      []string{"messages.upsert", "typing.start"},
	})
	assert.True(t, strings.HasPrefix(text, "Invalid input: events must be one of"), text)
	assert.Empty(t, h.gatewayCalls())
}

func TestGetWebhookConfig(t *testing.T) {
	h := newHarness(t, map[string]route{
		"GET /webhook/find/inst": {http.StatusOK, `{"url":"","enabled":false}`},
	})

	assert.Equal(t, "Current webhook configuration:\n\nURL: Not configured\nEnabled: false\nEvents: None", h.call(t, "get_webhook_config", nil))
}

func TestIncomingMessages(t *testing.T) {
	h := newHarness(t, nil)

	assert.True(t, strings.HasPrefix(h.call(t, "get_incoming_messages", nil), "No messages received yet."))

	h.store.Add("messages.upsert", json.RawMessage(`{"key":{"id":"A1","remoteJid":"5511999999999@s.whatsapp.net","fromMe":false},"pushName":"Ana","message":{"conversation":"oi"}}`))
	h.store.Add("send.message", json.RawMessage(`{"key":{"id":"A2","remoteJid":"5511888888888@s.whatsapp.net","fromMe":true},"message":{"imageMessage":{"caption":"pic"}}}`))
	h.store.Add("messages.upsert", json.RawMessage(`{"key":{"id":"A3","remoteJid":"120363025@g.us","fromMe":false},"message":{"extendedTextMessage":{"text":"hey all"}}}`))

	recent := h.call(t, "get_incoming_messages", map[string]any{"limit": 2})
	assert.True(t, strings.HasPrefix(recent, "Recent messages (2):"), recent)
	assert.Contains(t, recent, "← Received - 120363025 (group)\n   hey all")
	assert.Contains(t, recent, "→ Sent - 5511888888888\n   [Image] pic")
	assert.NotContains(t, recent, "oi")

	filtered := h.call(t, "get_incoming_messages", map[string]any{"from_number": "5511999999999"})
	assert.True(t, strings.HasPrefix(filtered, "Recent messages (1):"), filtered)
	assert.Contains(t, filtered, "5511999999999\n   oi")

	unread := h.call(t, "get_unread_messages", nil)
	assert.True(t, strings.HasPrefix(unread, "Received messages (2):"), unread)
	assert.Contains(t, unread, "Ana (5511999999999)\n   oi")
	assert.Contains(t, unread, "Unknown (120363025 (group))")
	assert.NotContains(t, unread, "pic")

	assert.Equal(t, "Invalid input: limit must be between 1 and 50.", h.call(t, "get_incoming_messages", map[string]any{"limit": 51}))

	assert.Equal(t, "3 messages removed from the store.", h.call(t, "clear_stored_messages", nil))
	assert.Equal(t, 0, h.store.Count())
	assert.Equal(t, "No messages received from other users.", h.call(t, "get_unread_messages", nil))
}

func TestResources(t *testing.T) {
	h := newHarness(t, map[string]route{
		"GET /group/fetchAllGroups/inst":        {http.StatusOK, `{"data":[{"id":"1@g.us","subject":"Team","participants":[{"id":"a"},{"id":"b"}]}]}`},
		"POST /chat/contacts/inst":              {http.StatusOK, `[{"id":"5511999999999@c.us","pushName":"Ana"},{"id":"5511888888888@s.whatsapp.net"}]`},
		"POST /profile/fetchProfile/inst":       {http.StatusOK, `{"name":"Bot","status":""}`},
		"GET /profile/fetchPrivacySettings/inst": {http.StatusInternalServerError, `oops`},
	})

	assert.Equal(t, "Available groups (1):\n- Team (2 members)", h.read(t, "groups://list"))
	assert.Equal(t, "Available contacts (2):\n- Ana: 5511999999999\n- No name: 5511888888888", h.read(t, "contacts://list"))
	assert.Equal(t, "Profile information:\n- Name: Bot\n- Status: Not set", h.read(t, "profile://info"))
	assert.True(t, strings.HasPrefix(h.read(t, "privacy://settings"), "Failed to fetch privacy: evolution api GET"))
}

func TestMessageTimestampFormat(t *testing.T) {
	h := newHarness(t, nil)
	h.store.Add("messages.upsert", json.RawMessage(`{"key":{"id":"T1","remoteJid":"5511@s.whatsapp.net"},"message":{"conversation":"x"}}`))

	msgs := h.store.GetRecent(1, "")
	require.Len(t, msgs, 1)
	want := "[" + msgs[0].Timestamp.Format(time.TimeOnly) + "]"
	assert.Contains(t, h.call(t, "get_incoming_messages", nil), want)
}
