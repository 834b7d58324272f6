package mcp

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/CSCSoftware/evolution-mcp/evolution"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all gateway and webhook tools.
func (s *Server) registerTools() {
	// === Instance ===

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_api_status",
		Description: "Check that the Evolution API gateway is reachable and report its version.",
	}, s.handleGetAPIStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_instance_status",
		Description: "Get the WhatsApp connection state of the configured instance.",
	}, s.handleGetInstanceStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "connect_instance",
		Description: "Request a pairing code and QR code for an instance that is not logged in.",
	}, s.handleConnectInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_presence",
		Description: "Set the global presence of the instance (available, unavailable, composing, recording, paused).",
	}, s.handleSetPresence)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "logout_instance",
		Description: "Log the instance out of WhatsApp.",
	}, s.handleLogoutInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "restart_instance",
		Description: "Restart the instance on the gateway.",
	}, s.handleRestartInstance)

	// === Messages ===

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_text_message",
		Description: "Send a WhatsApp text message. The number is in international format without + (e.g. 5511999999999) or a group JID.",
	}, s.handleSendText)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_media",
		Description: "Send an image, video, audio or document from a public URL.",
	}, s.handleSendMedia)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_audio",
		Description: "Send an audio file from a public URL, optionally as a voice note.",
	}, s.handleSendAudio)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_sticker",
		Description: "Send a sticker from a public URL.",
	}, s.handleSendSticker)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_location",
		Description: "Send a location pin.",
	}, s.handleSendLocation)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_contact",
		Description: "Send a contact card.",
	}, s.handleSendContact)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_poll",
		Description: "Send a poll with at least two options.",
	}, s.handleSendPoll)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_reaction",
		Description: "React to a message with an emoji. An empty reaction removes the previous one.",
	}, s.handleSendReaction)

	// === Chat ===

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "check_whatsapp_number",
		Description: "Check whether a phone number is registered on WhatsApp.",
	}, s.handleCheckNumber)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_message_as_read",
		Description: "Mark a message as read.",
	}, s.handleMarkMessageAsRead)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "archive_chat",
		Description: "Archive or unarchive a chat.",
	}, s.handleArchiveChat)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_message_for_everyone",
		Description: "Delete a sent message for every participant of the chat.",
	}, s.handleDeleteMessage)

	// === Profile ===

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile_name",
		Description: "Change the display name of the instance profile.",
	}, s.handleUpdateProfileName)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile_status",
		Description: "Change the status (about) text of the instance profile.",
	}, s.handleUpdateProfileStatus)

	// === Groups ===

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_group",
		Description: "Create a WhatsApp group with the given participants.",
	}, s.handleCreateGroup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_group_participants",
		Description: "Add participants to an existing group.",
	}, s.handleAddGroupParticipants)

	s.registerWebhookTools()
}

// --- Input types ---

type emptyInput struct{}

type setPresenceInput struct {
	Presence string `json:"presence" jsonschema:"One of available, unavailable, composing, recording, paused"`
}

type sendTextInput struct {
	Number          string `json:"number" jsonschema:"Recipient number in international format (e.g. 5511999999999) or group JID"`
	Text            string `json:"text" jsonschema:"The message text to send"`
	Delay           int    `json:"delay,omitempty" jsonschema:"Delay before sending, in milliseconds"`
	Presence        string `json:"presence,omitempty" jsonschema:"Presence to show while sending: composing, recording or paused"`
	QuotedMessageID string `json:"quoted_message_id,omitempty" jsonschema:"ID of a message to quote"`
}

type sendMediaInput struct {
	Number    string `json:"number" jsonschema:"Recipient number in international format or group JID"`
	URL       string `json:"url" jsonschema:"Public URL of the media"`
	MediaType string `json:"media_type" jsonschema:"One of image, document, video, audio"`
	Caption   string `json:"caption,omitempty" jsonschema:"Caption shown with the media"`
	FileName  string `json:"file_name,omitempty" jsonschema:"File name, used for documents"`
}

type sendAudioInput struct {
	Number string `json:"number" jsonschema:"Recipient number in international format or group JID"`
	URL    string `json:"url" jsonschema:"Public URL of the audio file"`
	PTT    bool   `json:"ptt,omitempty" jsonschema:"Send as a voice note (push to talk)"`
}

type sendStickerInput struct {
	Number string `json:"number" jsonschema:"Recipient number in international format or group JID"`
	URL    string `json:"url" jsonschema:"Public URL of the sticker image"`
}

type sendLocationInput struct {
	Number  string  `json:"number" jsonschema:"Recipient number in international format or group JID"`
	Lat     float64 `json:"lat" jsonschema:"Latitude"`
	Lng     float64 `json:"lng" jsonschema:"Longitude"`
	Title   string  `json:"title,omitempty" jsonschema:"Name of the place"`
	Address string  `json:"address,omitempty" jsonschema:"Address of the place"`
}

type sendContactInput struct {
	Number      string `json:"number" jsonschema:"Recipient number in international format or group JID"`
	FullName    string `json:"full_name" jsonschema:"Full name of the contact"`
	WUID        string `json:"wuid" jsonschema:"WhatsApp ID of the contact"`
	PhoneNumber string `json:"phone_number" jsonschema:"Phone number of the contact"`
}

type sendPollInput struct {
	Number         string   `json:"number" jsonschema:"Recipient number in international format or group JID"`
	Name           string   `json:"name" jsonschema:"The poll question"`
	Options        []string `json:"options" jsonschema:"Answer options (at least two)"`
	MultipleChoice bool     `json:"multiple_choice,omitempty" jsonschema:"Allow selecting more than one option"`
}

type sendReactionInput struct {
	RemoteJID string `json:"remote_jid" jsonschema:"JID of the chat containing the message"`
	MessageID string `json:"message_id" jsonschema:"ID of the message to react to"`
	FromMe    bool   `json:"from_me,omitempty" jsonschema:"Whether the message was sent by this instance"`
	Reaction  string `json:"reaction,omitempty" jsonschema:"Emoji to react with; empty removes the reaction"`
}

type checkNumberInput struct {
	Phone string `json:"phone" jsonschema:"Number to check in international format (e.g. 5511999999999)"`
}

type messageIDInput struct {
	MessageID string `json:"message_id" jsonschema:"ID of the message"`
}

type archiveChatInput struct {
	Number  string `json:"number" jsonschema:"Number of the chat in international format"`
	Archive *bool  `json:"archive,omitempty" jsonschema:"True to archive, false to unarchive (default true)"`
}

type updateProfileNameInput struct {
	Name string `json:"name" jsonschema:"New profile name"`
}

type updateProfileStatusInput struct {
	Status string `json:"status" jsonschema:"New profile status text"`
}

type createGroupInput struct {
	Subject      string   `json:"subject" jsonschema:"Name of the group"`
	Participants []string `json:"participants" jsonschema:"Participant numbers in international format"`
	Description  string   `json:"description,omitempty" jsonschema:"Description of the group"`
}

type addGroupParticipantsInput struct {
	GroupID      string   `json:"group_id" jsonschema:"JID of the group"`
	Participants []string `json:"participants" jsonschema:"Participant numbers in international format"`
}

// --- Validation ---

type param struct {
	name  string
	value string
}

// requireParams returns a validation result for the first empty parameter.
func requireParams(params ...param) *mcp.CallToolResult {
	for _, p := range params {
		if strings.TrimSpace(p.value) == "" {
			return textResult(fmt.Sprintf("Invalid input: %s is required.", p.name))
		}
	}
	return nil
}

func requireOneOf(name, value string, allowed []string) *mcp.CallToolResult {
	if !slices.Contains(allowed, value) {
		return textResult(fmt.Sprintf("Invalid input: %s must be one of %s.", name, strings.Join(allowed, ", ")))
	}
	return nil
}

func requireURL(name, value string) *mcp.CallToolResult {
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return textResult(fmt.Sprintf("Invalid input: %s must be an http(s) URL.", name))
	}
	return nil
}

func requireList(name string, values []string, minLen int) *mcp.CallToolResult {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	if n < minLen {
		return textResult(fmt.Sprintf("Invalid input: %s needs at least %d entries.", name, minLen))
	}
	return nil
}

// --- Instance handlers ---

func (s *Server) handleGetAPIStatus(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_api_status")

	info, err := s.client.GetApiInfo(ctx)
	if err != nil {
		return s.failure("get_api_status", "Failed to reach Evolution API", err), nil, nil
	}
	return textResult(fmt.Sprintf("Evolution API v%s is running. Status: %d", info.Version, info.Status)), nil, nil
}

func (s *Server) handleGetInstanceStatus(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "get_instance_status")

	status, err := s.client.GetInstanceStatus(ctx)
	if err != nil {
		return s.failure("get_instance_status", "Failed to check instance status", err), nil, nil
	}
	state := status.ConnectionState()
	if state == "" {
		state = "unknown"
	}
	return textResult(fmt.Sprintf("Instance status: %s", state)), nil, nil
}

func (s *Server) handleConnectInstance(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "connect_instance")

	info, err := s.client.ConnectInstance(ctx)
	if err != nil {
		return s.failure("connect_instance", "Failed to connect instance", err), nil, nil
	}
	if info.PairingCode == "" && info.Code == "" {
		return textResult("No pairing data returned; the instance may already be connected."), nil, nil
	}

	var b strings.Builder
	b.WriteString("Pairing data for instance " + s.client.Instance() + ":\n")
	if info.PairingCode != "" {
		fmt.Fprintf(&b, "\nPairing code: %s", info.PairingCode)
	}
	if info.Code != "" {
		fmt.Fprintf(&b, "\nQR code: %s", info.Code)
	}
	return textResult(b.String()), nil, nil
}

func (s *Server) handleSetPresence(ctx context.Context, _ *mcp.CallToolRequest, input setPresenceInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "set_presence", "presence", input.Presence)

	if res := requireOneOf("presence", input.Presence, evolution.Presences); res != nil {
		return res, nil, nil
	}
	if _, err := s.client.SetPresence(ctx, input.Presence); err != nil {
		return s.failure("set_presence", "Failed to set presence", err), nil, nil
	}
	return textResult(fmt.Sprintf("Presence set to %q.", input.Presence)), nil, nil
}

func (s *Server) handleLogoutInstance(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "logout_instance")

	if _, err := s.client.Logout(ctx); err != nil {
		return s.failure("logout_instance", "Failed to log out instance", err), nil, nil
	}
	return textResult("Instance logged out."), nil, nil
}

func (s *Server) handleRestartInstance(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "restart_instance")

	if _, err := s.client.RestartInstance(ctx); err != nil {
		return s.failure("restart_instance", "Failed to restart instance", err), nil, nil
	}
	return textResult("Instance restarted."), nil, nil
}

// --- Message handlers ---

func (s *Server) handleSendText(ctx context.Context, _ *mcp.CallToolRequest, input sendTextInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_text_message", "number", input.Number)

	if res := requireParams(param{"number", input.Number}, param{"text", input.Text}); res != nil {
		return res, nil, nil
	}
	if input.Presence != "" {
		if res := requireOneOf("presence", input.Presence, []string{"composing", "recording", "paused"}); res != nil {
			return res, nil, nil
		}
	}

	req := evolution.SendTextRequest{Number: input.Number, Text: input.Text}
	if input.Delay > 0 || input.Presence != "" || input.QuotedMessageID != "" {
		req.Options = &evolution.MessageOptions{
			Delay:           input.Delay,
			Presence:        input.Presence,
			QuotedMessageID: input.QuotedMessageID,
		}
	}

	resp, err := s.client.SendText(ctx, req)
	if err != nil {
		return s.failure("send_text_message", "Failed to send message", err), nil, nil
	}
	id := resp.Key.ID
	if id == "" {
		id = "ID not available"
	}
	return textResult("Message sent: " + id), nil, nil
}

func (s *Server) handleSendMedia(ctx context.Context, _ *mcp.CallToolRequest, input sendMediaInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_media", "number", input.Number, "media_type", input.MediaType)

	if res := requireParams(param{"number", input.Number}, param{"url", input.URL}); res != nil {
		return res, nil, nil
	}
	if res := requireURL("url", input.URL); res != nil {
		return res, nil, nil
	}
	if res := requireOneOf("media_type", input.MediaType, evolution.MediaTypes); res != nil {
		return res, nil, nil
	}

	_, err := s.client.SendMedia(ctx, evolution.SendMediaRequest{
		Number: input.Number,
		Media: evolution.Media{
			URL:       input.URL,
			Caption:   input.Caption,
			FileName:  input.FileName,
			MediaType: input.MediaType,
		},
	})
	if err != nil {
		return s.failure("send_media", "Failed to send media", err), nil, nil
	}
	return textResult("Media sent."), nil, nil
}

func (s *Server) handleSendAudio(ctx context.Context, _ *mcp.CallToolRequest, input sendAudioInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_audio", "number", input.Number)

	if res := requireParams(param{"number", input.Number}, param{"url", input.URL}); res != nil {
		return res, nil, nil
	}
	if res := requireURL("url", input.URL); res != nil {
		return res, nil, nil
	}

	_, err := s.client.SendAudio(ctx, evolution.SendAudioRequest{
		Number: input.Number,
		Audio:  evolution.Audio{URL: input.URL, PTT: input.PTT},
	})
	if err != nil {
		return s.failure("send_audio", "Failed to send audio", err), nil, nil
	}
	return textResult("Audio sent."), nil, nil
}

func (s *Server) handleSendSticker(ctx context.Context, _ *mcp.CallToolRequest, input sendStickerInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_sticker", "number", input.Number)

	if res := requireParams(param{"number", input.Number}, param{"url", input.URL}); res != nil {
		return res, nil, nil
	}
	if res := requireURL("url", input.URL); res != nil {
		return res, nil, nil
	}

	req := evolution.SendStickerRequest{Number: input.Number}
	req.Sticker.URL = input.URL
	if _, err := s.client.SendSticker(ctx, req); err != nil {
		return s.failure("send_sticker", "Failed to send sticker", err), nil, nil
	}
	return textResult("Sticker sent."), nil, nil
}

func (s *Server) handleSendLocation(ctx context.Context, _ *mcp.CallToolRequest, input sendLocationInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_location", "number", input.Number)

	if res := requireParams(param{"number", input.Number}); res != nil {
		return res, nil, nil
	}
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return textResult("Invalid input: lat must be within [-90, 90] and lng within [-180, 180]."), nil, nil
	}

	_, err := s.client.SendLocation(ctx, evolution.SendLocationRequest{
		Number: input.Number,
		Location: evolution.Location{
			Lat:     input.Lat,
			Lng:     input.Lng,
			Title:   input.Title,
			Address: input.Address,
		},
	})
	if err != nil {
		return s.failure("send_location", "Failed to send location", err), nil, nil
	}
	return textResult("Location sent."), nil, nil
}

func (s *Server) handleSendContact(ctx context.Context, _ *mcp.CallToolRequest, input sendContactInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_contact", "number", input.Number)

	if res := requireParams(
		param{"number", input.Number},
		param{"full_name", input.FullName},
		param{"wuid", input.WUID},
		param{"phone_number", input.PhoneNumber},
	); res != nil {
		return res, nil, nil
	}

	_, err := s.client.SendContact(ctx, evolution.SendContactRequest{
		Number: input.Number,
		Contact: evolution.ContactCard{
			FullName:    input.FullName,
			WUID:        input.WUID,
			PhoneNumber: input.PhoneNumber,
		},
	})
	if err != nil {
		return s.failure("send_contact", "Failed to send contact", err), nil, nil
	}
	return textResult("Contact sent."), nil, nil
}

func (s *Server) handleSendPoll(ctx context.Context, _ *mcp.CallToolRequest, input sendPollInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_poll", "number", input.Number)

	if res := requireParams(param{"number", input.Number}, param{"name", input.Name}); res != nil {
		return res, nil, nil
	}
	if res := requireList("options", input.Options, 2); res != nil {
		return res, nil, nil
	}

	_, err := s.client.SendPoll(ctx, evolution.SendPollRequest{
		Number: input.Number,
		Poll: evolution.Poll{
			Name:           input.Name,
			Options:        input.Options,
			MultipleChoice: input.MultipleChoice,
		},
	})
	if err != nil {
		return s.failure("send_poll", "Failed to send poll", err), nil, nil
	}
	return textResult("Poll sent."), nil, nil
}

func (s *Server) handleSendReaction(ctx context.Context, _ *mcp.CallToolRequest, input sendReactionInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "send_reaction", "message_id", input.MessageID)

	if res := requireParams(param{"remote_jid", input.RemoteJID}, param{"message_id", input.MessageID}); res != nil {
		return res, nil, nil
	}

	var req evolution.SendReactionRequest
	req.ReactionMessage.Key = evolution.MessageKey{
		ID:        input.MessageID,
		RemoteJID: input.RemoteJID,
		FromMe:    input.FromMe,
	}
	req.ReactionMessage.Reaction = input.Reaction
	if _, err := s.client.SendReaction(ctx, req); err != nil {
		return s.failure("send_reaction", "Failed to send reaction", err), nil, nil
	}
	if input.Reaction == "" {
		return textResult("Reaction removed."), nil, nil
	}
	return textResult("Reaction sent."), nil, nil
}

// --- Chat handlers ---

func (s *Server) handleCheckNumber(ctx context.Context, _ *mcp.CallToolRequest, input checkNumberInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "check_whatsapp_number", "phone", input.Phone)

	if res := requireParams(param{"phone", input.Phone}); res != nil {
		return res, nil, nil
	}

	results, err := s.client.CheckNumbers(ctx, input.Phone)
	if err != nil {
		return s.failure("check_whatsapp_number", "Failed to check number", err), nil, nil
	}
	if len(results) > 0 && results[0].Exists {
		return textResult(fmt.Sprintf("The number %s is a valid WhatsApp number.", input.Phone)), nil, nil
	}
	return textResult(fmt.Sprintf("The number %s is not a valid WhatsApp number.", input.Phone)), nil, nil
}

func (s *Server) handleMarkMessageAsRead(ctx context.Context, _ *mcp.CallToolRequest, input messageIDInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "mark_message_as_read", "message_id", input.MessageID)

	if res := requireParams(param{"message_id", input.MessageID}); res != nil {
		return res, nil, nil
	}
	if _, err := s.client.MarkMessageAsRead(ctx, input.MessageID); err != nil {
		return s.failure("mark_message_as_read", "Failed to mark message as read", err), nil, nil
	}
	return textResult("Message marked as read."), nil, nil
}

func (s *Server) handleArchiveChat(ctx context.Context, _ *mcp.CallToolRequest, input archiveChatInput) (*mcp.CallToolResult, any, error) {
	archive := input.Archive == nil || *input.Archive
	s.logger.Info("mcp tool call", "tool", "archive_chat", "number", input.Number, "archive", archive)

	if res := requireParams(param{"number", input.Number}); res != nil {
		return res, nil, nil
	}

	verb := "archive"
	if !archive {
		verb = "unarchive"
	}
	if _, err := s.client.ArchiveChat(ctx, input.Number, archive); err != nil {
		return s.failure("archive_chat", "Failed to "+verb+" chat", err), nil, nil
	}
	return textResult("Chat " + verb + "d."), nil, nil
}

func (s *Server) handleDeleteMessage(ctx context.Context, _ *mcp.CallToolRequest, input messageIDInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "delete_message_for_everyone", "message_id", input.MessageID)

	if res := requireParams(param{"message_id", input.MessageID}); res != nil {
		return res, nil, nil
	}
	if _, err := s.client.DeleteMessageForEveryone(ctx, input.MessageID); err != nil {
		return s.failure("delete_message_for_everyone", "Failed to delete message", err), nil, nil
	}
	return textResult("Message deleted for everyone."), nil, nil
}

// --- Profile handlers ---

func (s *Server) handleUpdateProfileName(ctx context.Context, _ *mcp.CallToolRequest, input updateProfileNameInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "update_profile_name")

	if res := requireParams(param{"name", input.Name}); res != nil {
		return res, nil, nil
	}
	if _, err := s.client.UpdateProfileName(ctx, input.Name); err != nil {
		return s.failure("update_profile_name", "Failed to update profile name", err), nil, nil
	}
	return textResult(fmt.Sprintf("Profile name updated to %q.", input.Name)), nil, nil
}

func (s *Server) handleUpdateProfileStatus(ctx context.Context, _ *mcp.CallToolRequest, input updateProfileStatusInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "update_profile_status")

	if res := requireParams(param{"status", input.Status}); res != nil {
		return res, nil, nil
	}
	if _, err := s.client.UpdateProfileStatus(ctx, input.Status); err != nil {
		return s.failure("update_profile_status", "Failed to update profile status", err), nil, nil
	}
	return textResult(fmt.Sprintf("Profile status updated to %q.", input.Status)), nil, nil
}

// --- Group handlers ---

func (s *Server) handleCreateGroup(ctx context.Context, _ *mcp.CallToolRequest, input createGroupInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "create_group", "subject", input.Subject, "participants", len(input.Participants))

	if res := requireParams(param{"subject", input.Subject}); res != nil {
		return res, nil, nil
	}
	if res := requireList("participants", input.Participants, 1); res != nil {
		return res, nil, nil
	}

	resp, err := s.client.CreateGroup(ctx, evolution.CreateGroupRequest{
		Subject:      input.Subject,
		Participants: input.Participants,
		Description:  input.Description,
	})
	if err != nil {
		return s.failure("create_group", "Failed to create group", err), nil, nil
	}
	return textResult(fmt.Sprintf("Group %q created. ID: %s", input.Subject, resp.JID())), nil, nil
}

func (s *Server) handleAddGroupParticipants(ctx context.Context, _ *mcp.CallToolRequest, input addGroupParticipantsInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("mcp tool call", "tool", "add_group_participants", "group_id", input.GroupID, "participants", len(input.Participants))

	if res := requireParams(param{"group_id", input.GroupID}); res != nil {
		return res, nil, nil
	}
	if res := requireList("participants", input.Participants, 1); res != nil {
		return res, nil, nil
	}

	_, err := s.client.UpdateGroupMembers(ctx, evolution.GroupMembersRequest{
		GroupJID:     input.GroupID,
		Action:       evolution.GroupActionAdd,
		Participants: input.Participants,
	})
	if err != nil {
		return s.failure("add_group_participants", "Failed to add participants", err), nil, nil
	}
	return textResult(fmt.Sprintf("%d participant(s) added to the group.", len(input.Participants))), nil, nil
}
