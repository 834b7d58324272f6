package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/CSCSoftware/evolution-mcp/evolution"
	"github.com/CSCSoftware/evolution-mcp/metrics"
	"github.com/CSCSoftware/evolution-mcp/store"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultMessageLimit = 10
	maxMessageLimit     = 50
)

func (s *Server) registerWebhookTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_webhook_listener",
		Description: "Start the local HTTP listener that receives webhook events from the Evolution API.",
	}, s.handleStartWebhook)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stop_webhook_listener",
		Description: "Stop the local webhook listener.",
	}, s.handleStopWebhook)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "configure_evolution_webhook",
		Description: "Point the Evolution API webhook at a URL. Defaults to the running local listener and the message and connection events.",
	}, s.handleConfigureWebhook)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_webhook_config",
		Description: "Show the webhook configuration currently set on the Evolution API.",
	}, s.handleGetWebhookConfig)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_incoming_messages",
		Description: "List the most recent messages received by the webhook listener, newest first, optionally filtered by phone number.",
	}, s.handleGetIncomingMessages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_unread_messages",
		Description: "List recent incoming messages sent by other users, newest first.",
	}, s.handleGetUnreadMessages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_stored_messages",
		Description: "Remove all messages stored by the webhook listener.",
	}, s.handleClearMessages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_webhook_status",
		Description: "Report whether the webhook listener is running and how many messages are stored.",
	}, s.handleGetWebhookStatus)
}

type startWebhookInput struct {
	Port int `json:"port,omitempty" jsonschema:"Port for the webhook listener (default from WEBHOOK_PORT, 3001)"`
}

type configureWebhookInput struct {
	WebhookURL string   `json:"webhook_url,omitempty" jsonschema:"Webhook URL (e.g. http://your-server:3001/webhook); defaults to the running local listener"`
	Enabled    *bool    `json:"enabled,omitempty" jsonschema:"Enable or disable the webhook (default true)"`
	Events     []string `json:"events,omitempty" jsonschema:"Events to subscribe to (default messages.upsert, messages.update, send.message, connection.update)"`
}

type getIncomingMessagesInput struct {
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of messages, 1 to 50 (default 10)"`
	FromNumber string `json:"from_number,omitempty" jsonschema:"Only messages whose chat JID contains this number"`
}

type getUnreadMessagesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of messages, 1 to 50 (default 10)"`
}

// messageLimit applies the default for an absent limit and rejects values
// outside [1, maxMessageLimit].
func messageLimit(limit int) (int, *mcp.CallToolResult) {
	if limit == 0 {
		return defaultMessageLimit, nil
	}
	if limit < 1 || limit > maxMessageLimit {
		return 0, textResult(fmt.Sprintf("Invalid input: limit must be between 1 and %d.", maxMessageLimit))
	}
	return limit, nil
}

func (s *Server) handleStartWebhook(_ context.Context, _ *mcp.CallToolRequest, input startWebhookInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "start_webhook_listener", "port", input.Port)

	if l := s.webhook.Listener(); l != nil {
		return textResult(fmt.Sprintf("Webhook listener already running on port %d", l.Port())), nil, nil
	}

	port := input.Port
	if port == 0 {
		port = s.cfg.Webhook.Port
	}
	if port < 0 || port > 65535 {
		return textResult("Invalid input: port must be between 1 and 65535."), nil, nil
	}

	l, err := s.webhook.Start(port)
	if err != nil {
		return s.failure("start_webhook_listener", "Failed to start webhook listener", err), nil, nil
	}
	return textResult(fmt.Sprintf("Webhook listener started at %s\n\nNow configure the webhook on the Evolution API with configure_evolution_webhook.", l.URL())), nil, nil
}

func (s *Server) handleStopWebhook(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "stop_webhook_listener")

	if !s.webhook.Running() {
		return textResult("Webhook listener is not running."), nil, nil
	}
	if err := s.webhook.Stop(ctx); err != nil {
		return s.failure("stop_webhook_listener", "Failed to stop webhook listener", err), nil, nil
	}
	return textResult("Webhook listener stopped."), nil, nil
}

func (s *Server) handleConfigureWebhook(ctx context.Context, _ *mcp.CallToolRequest, input configureWebhookInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "configure_evolution_webhook", "url", input.WebhookURL)

	target := input.WebhookURL
	if target == "" {
		l := s.webhook.Listener()
		if l == nil {
			return textResult("Invalid input: webhook_url is required when the local listener is not running."), nil, nil
		}
		target = l.URL()
	}
	if res := requireURL("webhook_url", target); res != nil {
		return res, nil, nil
	}

	events := input.Events
	if len(events) == 0 {
		events = slices.Clone(evolution.DefaultWebhookEvents)
	}
	for _, e := range events {
		if res := requireOneOf("events", e, evolution.WebhookEvents); res != nil {
			return res, nil, nil
		}
	}

	enabled := input.Enabled == nil || *input.Enabled
	_, err := s.client.SetWebhook(ctx, evolution.WebhookConfig{
		URL:     target,
		Enabled: enabled,
		Events:  events,
	})
	if err != nil {
		return s.failure("configure_evolution_webhook", "Failed to configure webhook", err), nil, nil
	}
	return textResult(fmt.Sprintf("Webhook configured.\n\nURL: %s\nEnabled: %t\nEvents: %s", target, enabled, strings.Join(events, ", "))), nil, nil
}

func (s *Server) handleGetWebhookConfig(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_webhook_config")

	cfg, err := s.client.GetWebhook(ctx)
	if err != nil {
		return s.failure("get_webhook_config", "Failed to fetch webhook configuration", err), nil, nil
	}
	target := cfg.URL
	if target == "" {
		target = "Not configured"
	}
	events := "None"
	if len(cfg.Events) > 0 {
		events = strings.Join(cfg.Events, ", ")
	}
	return textResult(fmt.Sprintf("Current webhook configuration:\n\nURL: %s\nEnabled: %t\nEvents: %s", target, cfg.Enabled, events)), nil, nil
}

func (s *Server) handleGetIncomingMessages(_ context.Context, _ *mcp.CallToolRequest, input getIncomingMessagesInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_incoming_messages", "limit", input.Limit, "from_number", input.FromNumber)

	limit, res := messageLimit(input.Limit)
	if res != nil {
		return res, nil, nil
	}

	msgs := s.store.GetRecent(limit, input.FromNumber)
	if len(msgs) == 0 {
		return textResult("No messages received yet.\n\nMake sure that:\n" +
			"1. The webhook listener is running (start_webhook_listener)\n" +
			"2. The webhook is configured on the Evolution API (configure_evolution_webhook)"), nil, nil
	}

	lines := make([]string, len(msgs))
	for i, m := range msgs {
		direction := "← Received"
		if m.Data.FromMe {
			direction = "→ Sent"
		}
		lines[i] = fmt.Sprintf("%d. [%s] %s - %s\n   %s",
			i+1, m.Timestamp.Format("15:04:05"), direction, store.FormatNumber(m.Data.RemoteJID), m.Text())
	}
	return textResult(fmt.Sprintf("Recent messages (%d):\n\n%s", len(msgs), strings.Join(lines, "\n\n"))), nil, nil
}

func (s *Server) handleGetUnreadMessages(_ context.Context, _ *mcp.CallToolRequest, input getUnreadMessagesInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_unread_messages", "limit", input.Limit)

	limit, res := messageLimit(input.Limit)
	if res != nil {
		return res, nil, nil
	}

	msgs := s.store.GetUnread(limit)
	if len(msgs) == 0 {
		return textResult("No messages received from other users."), nil, nil
	}

	lines := make([]string, len(msgs))
	for i, m := range msgs {
		name := m.Data.PushName
		if name == "" {
			name = "Unknown"
		}
		lines[i] = fmt.Sprintf("%d. [%s] %s (%s)\n   %s",
			i+1, m.Timestamp.Format("15:04:05"), name, store.FormatNumber(m.Data.RemoteJID), m.Text())
	}
	return textResult(fmt.Sprintf("Received messages (%d):\n\n%s", len(msgs), strings.Join(lines, "\n\n"))), nil, nil
}

func (s *Server) handleClearMessages(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "clear_stored_messages")

	n := s.store.Count()
	s.store.Clear()
	metrics.StoredMessages.Set(0)
	return textResult(fmt.Sprintf("%d messages removed from the store.", n)), nil, nil
}

func (s *Server) handleGetWebhookStatus(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_webhook_status")

	l := s.webhook.Listener()
	state := "stopped"
	if l != nil {
		state = "running"
	}

	var b strings.Builder
	b.WriteString("Webhook status:\n\n")
	fmt.Fprintf(&b, "Local listener: %s\n", state)
	fmt.Fprintf(&b, "Stored messages: %d\n", s.store.Count())
	if l != nil {
		fmt.Fprintf(&b, "Webhook URL: %s", l.URL())
	}
	return textResult(b.String()), nil, nil
}
