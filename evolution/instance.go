package evolution

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetApiInfo returns the gateway version banner.
func (c *Client) GetApiInfo(ctx context.Context) (*ApiInfo, error) {
	var info ApiInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetInstanceStatus returns the connection state of the configured instance.
func (c *Client) GetInstanceStatus(ctx context.Context) (*InstanceStatus, error) {
	var status InstanceStatus
	if err := c.do(ctx, http.MethodGet, c.instancePath("/instance/connectionState"), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ConnectInstance asks the gateway for a pairing code and QR payload.
func (c *Client) ConnectInstance(ctx context.Context) (*ConnectInfo, error) {
	var info ConnectInfo
	if err := c.do(ctx, http.MethodGet, c.instancePath("/instance/connect"), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) CreateInstance(ctx context.Context, req CreateInstanceRequest) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/instance/create", req)
}

func (c *Client) DeleteInstance(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, c.instancePath("/instance/delete"), nil)
}

func (c *Client) RestartInstance(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/instance/restart"), nil)
}

// SetPresence sets the global presence of the instance.
func (c *Client) SetPresence(ctx context.Context, presence string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/instance/presence"), map[string]string{"presence": presence})
}

func (c *Client) Logout(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, c.instancePath("/instance/logout"), nil)
}

// SetWebhook points the gateway's event delivery at cfg.URL.
func (c *Client) SetWebhook(ctx context.Context, cfg WebhookConfig) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/webhook/set"), cfg)
}

// GetWebhook returns the current webhook configuration. Some gateway
// versions wrap it in a "webhook" object.
func (c *Client) GetWebhook(ctx context.Context) (*WebhookConfig, error) {
	var resp struct {
		WebhookConfig
		Webhook *WebhookConfig `json:"webhook"`
	}
	if err := c.do(ctx, http.MethodGet, c.instancePath("/webhook/find"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.URL == "" && resp.Webhook != nil {
		return resp.Webhook, nil
	}
	return &resp.WebhookConfig, nil
}

func (c *Client) SetSettings(ctx context.Context, settings InstanceSettings) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/settings/set"), settings)
}

func (c *Client) GetSettings(ctx context.Context) (*InstanceSettings, error) {
	var settings InstanceSettings
	if err := c.do(ctx, http.MethodGet, c.instancePath("/settings/find"), nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
