package store

import (
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EventMessagesUpsert is the gateway event emitted for new messages.
const EventMessagesUpsert = "messages.upsert"

// DefaultCapacity is the number of records kept before the oldest are evicted.
const DefaultCapacity = 100

// Message is one webhook event as captured by the listener.
// Records are never modified after insertion; Raw must be treated as read-only.
type Message struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Data      MessageData     `json:"data"`
	Raw       json.RawMessage `json:"raw"`
}

// MessageData holds the fields extracted from the event payload.
type MessageData struct {
	RemoteJID        string          `json:"remoteJid"`
	FromMe           bool            `json:"fromMe"`
	PushName         string          `json:"pushName,omitempty"`
	Message          json.RawMessage `json:"message,omitempty"`
	MessageType      string          `json:"messageType,omitempty"`
	MessageTimestamp int64           `json:"messageTimestamp,omitempty"`
}

// Content decodes the message body.
func (m Message) Content() Content {
	return ParseContent(m.Data.Message, m.Data.MessageType)
}

// Text returns the display text of the message body.
func (m Message) Text() string {
	return m.Content().String()
}

// Options configures a Store.
type Options struct {
	// AllowedNumber, when set, drops every payload whose sender number does
	// not contain it.
	AllowedNumber string
	Capacity      int
	Logger        *slog.Logger
	Now           func() time.Time
}

// Store is a bounded, most-recent-first buffer of webhook messages.
type Store struct {
	mu       sync.RWMutex
	messages []Message

	allowed  string
	capacity int
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an empty Store.
func New(opts Options) *Store {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		allowed:  opts.AllowedNumber,
		capacity: opts.Capacity,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// payload is the shape of a messages.* event body.
type payload struct {
	Key *struct {
		ID        string `json:"id"`
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
	} `json:"key"`
	RemoteJID        string          `json:"remoteJid"`
	PushName         string          `json:"pushName"`
	Message          json.RawMessage `json:"message"`
	MessageType      string          `json:"messageType"`
	MessageTimestamp json.RawMessage `json:"messageTimestamp"`
}

// Add normalizes a webhook payload and inserts it at the front of the store.
// Payloads from senders outside the allow-list are dropped silently.
func (s *Store) Add(event string, raw json.RawMessage) {
	var p payload
	// Non-object payloads and mistyped fields leave the zero values in place.
	_ = json.Unmarshal(raw, &p)

	remoteJID := p.RemoteJID
	if p.Key != nil && p.Key.RemoteJID != "" {
		remoteJID = p.Key.RemoteJID
	}
	if remoteJID == "" {
		remoteJID = "unknown"
	}

	if number := stripJID(remoteJID); s.allowed != "" && !strings.Contains(number, s.allowed) {
		s.logger.Debug("message ignored", "number", number, "allowed", s.allowed)
		return
	}

	now := s.now()
	msg := Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Event:     event,
		Timestamp: now,
		Data: MessageData{
			RemoteJID:        remoteJID,
			PushName:         p.PushName,
			Message:          p.Message,
			MessageType:      p.MessageType,
			MessageTimestamp: parseTimestamp(p.MessageTimestamp),
		},
		Raw: raw,
	}
	if p.Key != nil {
		if p.Key.ID != "" {
			msg.ID = p.Key.ID
		}
		msg.Data.FromMe = p.Key.FromMe
	}

	s.mu.Lock()
	s.messages = append([]Message{msg}, s.messages...)
	if len(s.messages) > s.capacity {
		s.messages = s.messages[:s.capacity:s.capacity]
	}
	s.mu.Unlock()

	s.logger.Debug("message accepted", "event", event, "id", msg.ID)
}

// parseTimestamp accepts the numeric and string forms the gateway emits.
func parseTimestamp(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			return v
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := strconv.ParseInt(str, 10, 64); err == nil {
			return v
		}
	}
	return 0
}

// GetRecent returns up to limit messages, most recent first. When
// fromNumber is set, only messages whose JID contains it are returned.
func (s *Store) GetRecent(limit int, fromNumber string) []Message {
	if limit <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, 0, min(limit, len(s.messages)))
	for _, m := range s.messages {
		if len(out) >= limit {
			break
		}
		if fromNumber != "" &&
			!strings.Contains(m.Data.RemoteJID, fromNumber) &&
			!strings.Contains(strings.Replace(m.Data.RemoteJID, userSuffix, "", 1), fromNumber) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// GetUnread returns up to limit upsert events not sent by this instance.
// There is no read-state tracking; "unread" only means "not from me".
func (s *Store) GetUnread(limit int) []Message {
	if limit <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, 0, min(limit, len(s.messages)))
	for _, m := range s.messages {
		if len(out) >= limit {
			break
		}
		if m.Data.FromMe || m.Event != EventMessagesUpsert {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Clear removes every message.
func (s *Store) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

// Count returns the number of stored messages.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
