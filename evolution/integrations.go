package evolution

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) SetTypebot(ctx context.Context, cfg TypebotConfig) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/typebot/set"), cfg)
}

// StartTypebot starts the configured Typebot flow for number.
func (c *Client) StartTypebot(ctx context.Context, number string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/typebot/start"), map[string]string{"number": number})
}

func (c *Client) FindTypebot(ctx context.Context) (*TypebotConfig, error) {
	var cfg TypebotConfig
	if err := c.do(ctx, http.MethodGet, c.instancePath("/typebot/find"), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) ChangeTypebotStatus(ctx context.Context, enabled bool) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/typebot/changeStatus"), map[string]bool{"enabled": enabled})
}

func (c *Client) SetChatwoot(ctx context.Context, cfg ChatwootConfig) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/chatwoot/set"), cfg)
}

func (c *Client) FindChatwoot(ctx context.Context) (*ChatwootConfig, error) {
	var cfg ChatwootConfig
	if err := c.do(ctx, http.MethodGet, c.instancePath("/chatwoot/find"), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
