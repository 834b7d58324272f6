package evolution

// ApiInfo is returned by the gateway root endpoint.
type ApiInfo struct {
	Status        int    `json:"status"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	Swagger       string `json:"swagger,omitempty"`
	Manager       string `json:"manager,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// InstanceStatus is the connection state of the instance. Newer gateway
// versions nest the state under "instance".
type InstanceStatus struct {
	State    string `json:"state,omitempty"`
	Status   string `json:"status,omitempty"`
	QRCode   string `json:"qrcode,omitempty"`
	Message  string `json:"message,omitempty"`
	Instance *struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	} `json:"instance,omitempty"`
}

// ConnectionState returns the reported state from either response shape.
func (s InstanceStatus) ConnectionState() string {
	if s.State != "" {
		return s.State
	}
	if s.Instance != nil {
		return s.Instance.State
	}
	return ""
}

// ConnectInfo carries the pairing data for an instance that is not logged in.
type ConnectInfo struct {
	PairingCode string `json:"pairingCode,omitempty"`
	Code        string `json:"code,omitempty"`
	Base64      string `json:"base64,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// MessageOptions are the optional send parameters shared by message endpoints.
type MessageOptions struct {
	Delay           int      `json:"delay,omitempty"`
	Presence        string   `json:"presence,omitempty"`
	QuotedMessageID string   `json:"quotedMessageId,omitempty"`
	MentionedList   []string `json:"mentionedList,omitempty"`
}

type SendTextRequest struct {
	Number  string          `json:"number"`
	Text    string          `json:"text"`
	Options *MessageOptions `json:"options,omitempty"`
}

// MessageKey identifies a message on the gateway.
type MessageKey struct {
	ID        string `json:"id"`
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe,omitempty"`
}

// SendMessageResponse is the common reply of the send endpoints.
type SendMessageResponse struct {
	Key              MessageKey     `json:"key"`
	Message          map[string]any `json:"message,omitempty"`
	MessageTimestamp any            `json:"messageTimestamp,omitempty"`
	Status           string         `json:"status,omitempty"`
}

type TemplateParameter struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Image    *Link  `json:"image,omitempty"`
	Document *Link  `json:"document,omitempty"`
	Video    *Link  `json:"video,omitempty"`
}

type Link struct {
	Link     string `json:"link"`
	Filename string `json:"filename,omitempty"`
}

type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

type Template struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Language  struct {
		Code string `json:"code"`
	} `json:"language"`
	Components []TemplateComponent `json:"components"`
}

type SendTemplateRequest struct {
	Number   string          `json:"number"`
	Template Template        `json:"template"`
	Options  *MessageOptions `json:"options,omitempty"`
}

type Media struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

type SendMediaRequest struct {
	Number  string          `json:"number"`
	Media   Media           `json:"media"`
	Options *MessageOptions `json:"options,omitempty"`
}

type Audio struct {
	URL string `json:"url"`
	PTT bool   `json:"ptt,omitempty"`
}

type SendAudioRequest struct {
	Number  string          `json:"number"`
	Audio   Audio           `json:"audio"`
	Options *MessageOptions `json:"options,omitempty"`
}

type SendStickerRequest struct {
	Number  string `json:"number"`
	Sticker struct {
		URL string `json:"url"`
	} `json:"sticker"`
	Options *MessageOptions `json:"options,omitempty"`
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Title   string  `json:"title,omitempty"`
	Address string  `json:"address,omitempty"`
}

type SendLocationRequest struct {
	Number   string          `json:"number"`
	Location Location        `json:"location"`
	Options  *MessageOptions `json:"options,omitempty"`
}

type ContactCard struct {
	FullName    string `json:"fullName"`
	WUID        string `json:"wuid"`
	PhoneNumber string `json:"phoneNumber"`
}

type SendContactRequest struct {
	Number  string          `json:"number"`
	Contact ContactCard     `json:"contact"`
	Options *MessageOptions `json:"options,omitempty"`
}

type SendReactionRequest struct {
	ReactionMessage struct {
		Key      MessageKey `json:"key"`
		Reaction string     `json:"reaction"`
	} `json:"reactionMessage"`
}

type Poll struct {
	Name           string   `json:"name"`
	Options        []string `json:"options"`
	MultipleChoice bool     `json:"multipleChoice,omitempty"`
}

type SendPollRequest struct {
	Number  string          `json:"number"`
	Poll    Poll            `json:"poll"`
	Options *MessageOptions `json:"options,omitempty"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

type List struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ButtonText  string        `json:"buttonText"`
	Sections    []ListSection `json:"sections"`
}

type SendListRequest struct {
	Number  string          `json:"number"`
	List    List            `json:"list"`
	Options *MessageOptions `json:"options,omitempty"`
}

type SendStatusRequest struct {
	Status struct {
		Type    string `json:"type"`
		Content string `json:"content"`
		Caption string `json:"caption,omitempty"`
		Options *struct {
			BackgroundColor string `json:"backgroundColor,omitempty"`
			Font            int    `json:"font,omitempty"`
		} `json:"options,omitempty"`
	} `json:"status"`
}

// NumberCheck is one entry of a WhatsApp number lookup.
type NumberCheck struct {
	JID    string `json:"jid"`
	Exists bool   `json:"exists"`
	Phone  string `json:"phone,omitempty"`
	Number string `json:"number,omitempty"`
}

type Contact struct {
	ID        string `json:"id"`
	RemoteJID string `json:"remoteJid,omitempty"`
	Name      string `json:"name,omitempty"`
	PushName  string `json:"pushName,omitempty"`
	ShortName string `json:"shortName,omitempty"`
	IsMe      bool   `json:"isMe,omitempty"`
	IsGroup   bool   `json:"isGroup,omitempty"`
}

// DisplayName picks the best available name for the contact.
func (c Contact) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.PushName != "":
		return c.PushName
	default:
		return c.ShortName
	}
}

// JID returns the contact identifier from either response shape.
func (c Contact) JID() string {
	if c.RemoteJID != "" {
		return c.RemoteJID
	}
	return c.ID
}

type Chat struct {
	ID          string `json:"id"`
	RemoteJID   string `json:"remoteJid,omitempty"`
	Name        string `json:"name,omitempty"`
	PushName    string `json:"pushName,omitempty"`
	UnreadCount int    `json:"unreadCount,omitempty"`
	IsGroup     bool   `json:"isGroup,omitempty"`
}

// Title returns a human readable name for the chat.
func (c Chat) Title() string {
	for _, v := range []string{c.Name, c.PushName, c.RemoteJID, c.ID} {
		if v != "" {
			return v
		}
	}
	return ""
}

type ProfileInfo struct {
	Name     string `json:"name,omitempty"`
	Status   string `json:"status,omitempty"`
	PicURL   string `json:"picUrl,omitempty"`
	Business *struct {
		Description string   `json:"description,omitempty"`
		Email       string   `json:"email,omitempty"`
		Websites    []string `json:"websites,omitempty"`
		Categories  []string `json:"categories,omitempty"`
	} `json:"business,omitempty"`
}

// PrivacySettings values are one of "all", "contacts" or "none".
type PrivacySettings struct {
	ReadReceipts string `json:"readreceipts,omitempty"`
	Profile      string `json:"profile,omitempty"`
	Status       string `json:"status,omitempty"`
	Online       string `json:"online,omitempty"`
	Last         string `json:"last,omitempty"`
	GroupAdd     string `json:"groupadd,omitempty"`
}

type CreateGroupRequest struct {
	Subject      string   `json:"subject"`
	Participants []string `json:"participants"`
	Description  string   `json:"description,omitempty"`
	Picture      string   `json:"picture,omitempty"`
}

type GroupParticipant struct {
	ID           string `json:"id"`
	Admin        string `json:"admin,omitempty"`
	IsSuperAdmin bool   `json:"isSuperAdmin,omitempty"`
}

type GroupInfo struct {
	ID                string             `json:"id"`
	Subject           string             `json:"subject"`
	Description       string             `json:"desc,omitempty"`
	Owner             string             `json:"owner,omitempty"`
	Size              int                `json:"size,omitempty"`
	Participants      []GroupParticipant `json:"participants,omitempty"`
	Creation          int64              `json:"creation,omitempty"`
	EphemeralDuration int                `json:"ephemeralDuration,omitempty"`
}

// MemberCount prefers the participant list and falls back to the reported size.
func (g GroupInfo) MemberCount() int {
	if len(g.Participants) > 0 {
		return len(g.Participants)
	}
	return g.Size
}

// Group member actions.
const (
	GroupActionAdd     = "add"
	GroupActionRemove  = "remove"
	GroupActionPromote = "promote"
	GroupActionDemote  = "demote"
)

type GroupMembersRequest struct {
	GroupJID     string   `json:"groupJid"`
	Action       string   `json:"action"`
	Participants []string `json:"participants"`
}

// Group settings: "announcement", "locked" or "unlocked".
type GroupSettingRequest struct {
	GroupJID string `json:"groupJid"`
	Setting  string `json:"setting"`
}

// Webhook event names understood by the gateway.
var WebhookEvents = []string{
	"messages.upsert",
	"messages.update",
	"messages.delete",
	"send.message",
	"connection.update",
	"qrcode.updated",
	"presence.update",
	"groups.upsert",
	"groups.update",
	"chats.upsert",
	"chats.update",
	"chats.delete",
	"contacts.upsert",
	"contacts.update",
}

// DefaultWebhookEvents is the subscription used when none is specified.
var DefaultWebhookEvents = []string{
	"messages.upsert",
	"messages.update",
	"send.message",
	"connection.update",
}

type WebhookConfig struct {
	URL             string   `json:"url"`
	Enabled         bool     `json:"enabled"`
	Events          []string `json:"events,omitempty"`
	WebhookByEvents bool     `json:"webhook_by_events"`
	WebhookBase64   bool     `json:"webhook_base64"`
}

type ChatwootConfig struct {
	Enabled      bool   `json:"enabled"`
	AccountID    string `json:"account_id"`
	Token        string `json:"token"`
	Endpoint     string `json:"endpoint"`
	InstanceName string `json:"instance_name,omitempty"`
	SignMsg      bool   `json:"sign_msg,omitempty"`
	NameInbox    string `json:"name_inbox,omitempty"`
}

type TypebotConfig struct {
	Enabled         bool     `json:"enabled"`
	URL             string   `json:"url"`
	Typebot         string   `json:"typebot"`
	Expire          int      `json:"expire,omitempty"`
	KeywordFinish   []string `json:"keyword_finish,omitempty"`
	DelayMessage    int      `json:"delay_message,omitempty"`
	UnknownMessage  string   `json:"unknown_message,omitempty"`
	ListeningFromMe bool     `json:"listening_from_me,omitempty"`
}

type InstanceSettings struct {
	RejectCall   bool   `json:"reject_call,omitempty"`
	MsgCall      string `json:"msg_call,omitempty"`
	GroupsIgnore bool   `json:"groups_ignore,omitempty"`
	AlwaysOnline bool   `json:"always_online,omitempty"`
	ReadMessages bool   `json:"read_messages,omitempty"`
	ReadStatus   bool   `json:"read_status,omitempty"`
}

type CreateInstanceRequest struct {
	InstanceName string            `json:"instanceName"`
	Webhook      *WebhookConfig    `json:"webhook,omitempty"`
	Settings     *InstanceSettings `json:"settings,omitempty"`
}

// Presence values accepted by the presence endpoints.
var Presences = []string{"available", "unavailable", "composing", "recording", "paused"}

// Media types accepted by the media endpoint.
var MediaTypes = []string{"image", "document", "video", "audio"}
