package store

import (
	"encoding/json"
	"strings"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/encoding/protojson"
)

// ContentKind identifies which part of a message payload carries its content.
type ContentKind int

const (
	KindNone ContentKind = iota
	KindText
	KindImage
	KindVideo
	KindAudio
	KindDocument
	KindSticker
	KindLocation
	KindContact
	KindPoll
	KindUnknown
)

func (k ContentKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindDocument:
		return "document"
	case KindSticker:
		return "sticker"
	case KindLocation:
		return "location"
	case KindContact:
		return "contact"
	case KindPoll:
		return "poll"
	default:
		return "unknown"
	}
}

// Content is the decoded body of a message.
// Text holds the body for KindText, the caption for image/video, the file
// name for documents and the question for polls.
type Content struct {
	Kind        ContentKind
	Text        string
	MessageType string
}

// String renders the content as a one-line summary.
func (c Content) String() string {
	switch c.Kind {
	case KindNone:
		return "[no content]"
	case KindText:
		return c.Text
	case KindImage:
		return labelled("[Image]", c.Text)
	case KindVideo:
		return labelled("[Video]", c.Text)
	case KindAudio:
		return "[Audio]"
	case KindDocument:
		return "[Document] " + c.Text
	case KindSticker:
		return "[Sticker]"
	case KindLocation:
		return "[Location]"
	case KindContact:
		return "[Contact]"
	case KindPoll:
		return "[Poll] " + c.Text
	default:
		if c.MessageType != "" {
			return "[" + c.MessageType + "]"
		}
		return "[unknown type]"
	}
}

func labelled(label, caption string) string {
	if caption == "" {
		return label
	}
	return label + " " + caption
}

var unmarshalOpts = protojson.UnmarshalOptions{DiscardUnknown: true}

// ParseContent decodes a webhook "message" object. The gateway forwards the
// WhatsApp message in its protobuf JSON form, so waE2E.Message is tried
// first; payloads it rejects go through a lenient field-by-field decode.
func ParseContent(raw json.RawMessage, messageType string) Content {
	if isNullJSON(raw) {
		return Content{Kind: KindNone, MessageType: messageType}
	}

	var msg waE2E.Message
	var c Content
	if err := unmarshalOpts.Unmarshal(raw, &msg); err == nil {
		c = contentFromProto(&msg)
	} else {
		c = contentFromJSON(raw)
	}
	c.MessageType = messageType
	return c
}

func contentFromProto(msg *waE2E.Message) Content {
	if text := msg.GetConversation(); text != "" {
		return Content{Kind: KindText, Text: text}
	}
	if text := msg.GetExtendedTextMessage().GetText(); text != "" {
		return Content{Kind: KindText, Text: text}
	}
	if img := msg.GetImageMessage(); img != nil {
		return Content{Kind: KindImage, Text: img.GetCaption()}
	}
	if vid := msg.GetVideoMessage(); vid != nil {
		return Content{Kind: KindVideo, Text: vid.GetCaption()}
	}
	if msg.GetAudioMessage() != nil {
		return Content{Kind: KindAudio}
	}
	if doc := msg.GetDocumentMessage(); doc != nil {
		return Content{Kind: KindDocument, Text: doc.GetFileName()}
	}
	if msg.GetStickerMessage() != nil {
		return Content{Kind: KindSticker}
	}
	if msg.GetLocationMessage() != nil {
		return Content{Kind: KindLocation}
	}
	if msg.GetContactMessage() != nil {
		return Content{Kind: KindContact}
	}
	if poll := msg.GetPollCreationMessage(); poll != nil {
		return Content{Kind: KindPoll, Text: poll.GetName()}
	}
	if poll := msg.GetPollCreationMessageV3(); poll != nil {
		return Content{Kind: KindPoll, Text: poll.GetName()}
	}
	return Content{Kind: KindUnknown}
}

// jsonMessage mirrors the subset of the message object that matters for
// display. encoding/json keeps decoding past fields of the wrong type, so
// a partially malformed payload still yields whatever could be read.
type jsonMessage struct {
	Conversation        string `json:"conversation"`
	ExtendedTextMessage *struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage"`
	ImageMessage *struct {
		Caption string `json:"caption"`
	} `json:"imageMessage"`
	VideoMessage *struct {
		Caption string `json:"caption"`
	} `json:"videoMessage"`
	AudioMessage    *json.RawMessage `json:"audioMessage"`
	DocumentMessage *struct {
		FileName string `json:"fileName"`
	} `json:"documentMessage"`
	StickerMessage      *json.RawMessage `json:"stickerMessage"`
	LocationMessage     *json.RawMessage `json:"locationMessage"`
	ContactMessage      *json.RawMessage `json:"contactMessage"`
	PollCreationMessage *struct {
		Name string `json:"name"`
	} `json:"pollCreationMessage"`
}

func contentFromJSON(raw json.RawMessage) Content {
	var m jsonMessage
	_ = json.Unmarshal(raw, &m)

	switch {
	case m.Conversation != "":
		return Content{Kind: KindText, Text: m.Conversation}
	case m.ExtendedTextMessage != nil && m.ExtendedTextMessage.Text != "":
		return Content{Kind: KindText, Text: m.ExtendedTextMessage.Text}
	case m.ImageMessage != nil:
		return Content{Kind: KindImage, Text: m.ImageMessage.Caption}
	case m.VideoMessage != nil:
		return Content{Kind: KindVideo, Text: m.VideoMessage.Caption}
	case present(m.AudioMessage):
		return Content{Kind: KindAudio}
	case m.DocumentMessage != nil:
		return Content{Kind: KindDocument, Text: m.DocumentMessage.FileName}
	case present(m.StickerMessage):
		return Content{Kind: KindSticker}
	case present(m.LocationMessage):
		return Content{Kind: KindLocation}
	case present(m.ContactMessage):
		return Content{Kind: KindContact}
	case m.PollCreationMessage != nil:
		return Content{Kind: KindPoll, Text: m.PollCreationMessage.Name}
	}
	return Content{Kind: KindUnknown}
}

func present(raw *json.RawMessage) bool {
	return raw != nil && !isNullJSON(*raw)
}

func isNullJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

var (
	userSuffix  = "@" + types.DefaultUserServer
	groupSuffix = "@" + types.GroupServer
)

// stripJID removes the direct-message and group server suffixes from a JID.
func stripJID(jid string) string {
	return strings.Replace(strings.Replace(jid, userSuffix, "", 1), groupSuffix, "", 1)
}

// FormatNumber renders a JID for display: direct chats become the bare
// number, groups get a " (group)" marker.
func FormatNumber(jid string) string {
	return strings.Replace(strings.Replace(jid, userSuffix, "", 1), groupSuffix, " (group)", 1)
}
