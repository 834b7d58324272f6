package evolution

import (
	"context"
	"net/http"
)

func (c *Client) send(ctx context.Context, endpoint string, req any) (*SendMessageResponse, error) {
	var resp SendMessageResponse
	if err := c.do(ctx, http.MethodPost, c.instancePath("/message/"+endpoint), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, req SendTextRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "sendText", req)
}

func (c *Client) SendTemplate(ctx context.Context, req SendTemplateRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "template", req)
}

// SendStatus posts a status (story) update.
func (c *Client) SendStatus(ctx context.Context, req SendStatusRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "status", req)
}

// SendMedia sends an image, video, audio or document by URL.
func (c *Client) SendMedia(ctx context.Context, req SendMediaRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "media", req)
}

func (c *Client) SendAudio(ctx context.Context, req SendAudioRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "audio", req)
}

func (c *Client) SendSticker(ctx context.Context, req SendStickerRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "sticker", req)
}

func (c *Client) SendLocation(ctx context.Context, req SendLocationRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "location", req)
}

func (c *Client) SendContact(ctx context.Context, req SendContactRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "contact", req)
}

func (c *Client) SendReaction(ctx context.Context, req SendReactionRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "reaction", req)
}

func (c *Client) SendPoll(ctx context.Context, req SendPollRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "poll", req)
}

func (c *Client) SendList(ctx context.Context, req SendListRequest) (*SendMessageResponse, error) {
	return c.send(ctx, "list", req)
}
