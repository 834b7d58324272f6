package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CheckNumbers reports which of the given numbers are registered on WhatsApp.
func (c *Client) CheckNumbers(ctx context.Context, numbers ...string) ([]NumberCheck, error) {
	raw, err := c.raw(ctx, http.MethodPost, c.instancePath("/chat/whatsappNumbers"), map[string][]string{"numbers": numbers})
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Numbers []NumberCheck `json:"numbers"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode number check: %w", err)
		}
		return wrapped.Numbers, nil
	}
	return decodeList[NumberCheck](raw)
}

func (c *Client) MarkMessageAsRead(ctx context.Context, messageID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/chat/markMessageAsRead"), map[string]string{"messageId": messageID})
}

// ArchiveChat archives or unarchives the chat with number.
func (c *Client) ArchiveChat(ctx context.Context, number string, archive bool) (json.RawMessage, error) {
	action := "archive"
	if !archive {
		action = "unarchive"
	}
	return c.raw(ctx, http.MethodPut, c.instancePath("/chat/archiveChat"), map[string]any{
		"phone":   number,
		"action":  action,
		"archive": archive,
	})
}

func (c *Client) DeleteMessageForEveryone(ctx context.Context, messageID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, c.instancePath("/chat/deleteMessageForEveryone", messageID), nil)
}

// SendPresence shows a presence (typing, recording...) in one chat.
func (c *Client) SendPresence(ctx context.Context, presence, chatJID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/chat/presence"), map[string]string{
		"presence": presence,
		"chatJid":  chatJID,
	})
}

// FetchProfilePictureURL returns the profile picture URL of a number.
func (c *Client) FetchProfilePictureURL(ctx context.Context, number string) (string, error) {
	var resp struct {
		WUID              string `json:"wuid"`
		ProfilePictureURL string `json:"profilePictureUrl"`
	}
	if err := c.do(ctx, http.MethodPost, c.instancePath("/chat/fetchProfilePictureUrl"), map[string]string{"number": number}, &resp); err != nil {
		return "", err
	}
	return resp.ProfilePictureURL, nil
}

func (c *Client) FetchContacts(ctx context.Context) ([]Contact, error) {
	raw, err := c.raw(ctx, http.MethodPost, c.instancePath("/chat/contacts"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Contact](raw)
}

// FindMessages searches stored messages on the gateway, optionally in one chat.
func (c *Client) FindMessages(ctx context.Context, query, chatID string) (json.RawMessage, error) {
	body := map[string]string{"query": query}
	if chatID != "" {
		body["chatId"] = chatID
	}
	return c.raw(ctx, http.MethodPost, c.instancePath("/chat/findMessages"), body)
}

func (c *Client) FindStatusMessages(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/chat/findStatusMessages"), nil)
}

// UpdateMessage edits the text of a sent message.
func (c *Client) UpdateMessage(ctx context.Context, messageID, text string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/chat/updateMessage"), map[string]string{
		"messageId": messageID,
		"text":      text,
	})
}

func (c *Client) FetchChats(ctx context.Context) ([]Chat, error) {
	raw, err := c.raw(ctx, http.MethodGet, c.instancePath("/chat/findChats"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Chat](raw)
}
