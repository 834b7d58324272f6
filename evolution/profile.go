package evolution

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) FetchBusinessProfile(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/profile/fetchBusinessProfile"), nil)
}

func (c *Client) FetchProfile(ctx context.Context) (*ProfileInfo, error) {
	var profile ProfileInfo
	if err := c.do(ctx, http.MethodPost, c.instancePath("/profile/fetchProfile"), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfileName(ctx context.Context, name string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/profile/updateProfileName"), map[string]string{"name": name})
}

func (c *Client) UpdateProfileStatus(ctx context.Context, status string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/profile/updateProfileStatus"), map[string]string{"status": status})
}

func (c *Client) UpdateProfilePicture(ctx context.Context, pictureURL string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/profile/updateProfilePicture"), map[string]string{"url": pictureURL})
}

func (c *Client) RemoveProfilePicture(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, c.instancePath("/profile/removeProfilePicture"), nil)
}

func (c *Client) FetchPrivacySettings(ctx context.Context) (*PrivacySettings, error) {
	var settings PrivacySettings
	if err := c.do(ctx, http.MethodGet, c.instancePath("/profile/fetchPrivacySettings"), nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdatePrivacySettings sends only the non-empty fields of settings.
func (c *Client) UpdatePrivacySettings(ctx context.Context, settings PrivacySettings) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/profile/updatePrivacySettings"), settings)
}
