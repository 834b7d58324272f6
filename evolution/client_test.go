package evolution

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSCSoftware/evolution-mcp/config"
)

type recorded struct {
	Method string
	Path   string
	APIKey string
	Body   map[string]any
}

// newTestClient returns a client pointed at a gateway stub that answers every
// request with status and body, recording what it received.
func newTestClient(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.EscapedPath(), APIKey: r.Header.Get("apikey")}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.EvolutionConfig{
		BaseURL:  srv.URL + "/",
		APIKey:   "secret",
		Instance: "inst",
		Timeout:  5 * time.Second,
	}, Options{})
	return c, &calls
}

func TestGetApiInfo(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"status":200,"message":"Welcome","version":"2.1.0"}`)

	info, err := c.GetApiInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", info.Version)
	assert.Equal(t, 200, info.Status)

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodGet, (*calls)[0].Method)
	assert.Equal(t, "/", (*calls)[0].Path)
	assert.Equal(t, "secret", (*calls)[0].APIKey)
}

func TestInstanceStatusShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"flat", `{"state":"open"}`, "open"},
		{"nested", `{"instance":{"instanceName":"inst","state":"close"}}`, "close"},
		{"empty", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, http.StatusOK, tt.body)
			status, err := c.GetInstanceStatus(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, status.ConnectionState())
			assert.Equal(t, "/instance/connectionState/inst", (*calls)[0].Path)
		})
	}
}

func TestSendText(t *testing.T) {
	c, calls := newTestClient(t, http.StatusCreated, `{"key":{"id":"MSG1","remoteJid":"5511999999999@s.whatsapp.net","fromMe":true}}`)

	resp, err := c.SendText(context.Background(), SendTextRequest{Number: "5511999999999", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "MSG1", resp.Key.ID)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/message/sendText/inst", call.Path)
	assert.Equal(t, "5511999999999", call.Body["number"])
	assert.Equal(t, "hello", call.Body["text"])
	assert.NotContains(t, call.Body, "options")
}

func TestAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, `{"message":"instance not found"}`+"\n")

	_, err := c.GetInstanceStatus(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/instance/connectionState/inst", apiErr.Path)
	assert.Equal(t, `{"message":"instance not found"}`, apiErr.Body)
	assert.Equal(t, `evolution api GET /instance/connectionState/inst: 404 Not Found: {"message":"instance not found"}`, err.Error())
}

func TestNetworkError(t *testing.T) {
	c := NewClient(config.EvolutionConfig{BaseURL: "http://127.0.0.1:1", Instance: "inst", Timeout: time.Second}, Options{})

	_, err := c.Logout(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestEmptyResponseBody(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, "")

	raw, err := c.RestartInstance(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Equal(t, http.MethodPut, (*calls)[0].Method)
	assert.Equal(t, "/instance/restart/inst", (*calls)[0].Path)
}

func TestPathSegmentsEscaped(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{}`)

	_, err := c.DeleteMessageForEveryone(context.Background(), "ABC/123 x")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, (*calls)[0].Method)
	assert.Equal(t, "/chat/deleteMessageForEveryone/inst/ABC%2F123%20x", (*calls)[0].Path)
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}},
		{"wrapped", `{"data":[{"id":"c"}]}`, []string{"c"}},
		{"null", `null`, nil},
		{"empty", ``, nil},
		{"object without data", `{"other":1}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeList[Contact](json.RawMessage(tt.raw))
			require.NoError(t, err)
			var ids []string
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := decodeList[Contact](json.RawMessage(`"nope"`))
	assert.Error(t, err)
}

func TestFetchAllGroups(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `[{"id":"1203@g.us","subject":"Team","participants":[{"id":"a"},{"id":"b"}]},{"id":"9@g.us","size":7}]`)

	groups, err := c.FetchAllGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Team", groups[0].Subject)
	assert.Equal(t, 2, groups[0].MemberCount())
	assert.Equal(t, 7, groups[1].MemberCount())
	assert.Equal(t, "/group/fetchAllGroups/inst", (*calls)[0].Path)
}

func TestCheckNumbersShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `[{"jid":"5511@s.whatsapp.net","exists":true,"number":"5511"}]`},
		{"wrapped", `{"numbers":[{"jid":"5511@s.whatsapp.net","exists":true,"number":"5511"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, http.StatusOK, tt.body)
			res, err := c.CheckNumbers(context.Background(), "5511")
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.True(t, res[0].Exists)
			assert.Equal(t, []any{"5511"}, (*calls)[0].Body["numbers"])
		})
	}
}

func TestArchiveChatBody(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{}`)

	_, err := c.ArchiveChat(context.Background(), "5511", false)
	require.NoError(t, err)
	body := (*calls)[0].Body
	assert.Equal(t, "unarchive", body["action"])
	assert.Equal(t, false, body["archive"])
	assert.Equal(t, "5511", body["phone"])
}

func TestGetWebhookShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"flat", `{"url":"http://x/webhook","enabled":true,"events":["messages.upsert"]}`},
		{"nested", `{"webhook":{"url":"http://x/webhook","enabled":true,"events":["messages.upsert"]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, http.StatusOK, tt.body)
			cfg, err := c.GetWebhook(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "http://x/webhook", cfg.URL)
			assert.True(t, cfg.Enabled)
			assert.Equal(t, []string{"messages.upsert"}, cfg.Events)
			assert.Equal(t, "/webhook/find/inst", (*calls)[0].Path)
		})
	}
}

func TestGroupMembersRequest(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{}`)

	_, err := c.UpdateGroupMembers(context.Background(), GroupMembersRequest{
		GroupJID:     "1203@g.us",
		Action:       GroupActionAdd,
		Participants: []string{"5511", "5512"},
	})
	require.NoError(t, err)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/group/updateGroupMembers/inst", call.Path)
	assert.Equal(t, "1203@g.us", call.Body["groupJid"])
	assert.Equal(t, "add", call.Body["action"])
}

func TestEndpointCatalog(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		method, path string
		call         func(c *Client) error
	}{
		{"GET", "/instance/connect/inst", func(c *Client) error { _, err := c.ConnectInstance(ctx); return err }},
		{"POST", "/instance/create", func(c *Client) error {
			_, err := c.CreateInstance(ctx, CreateInstanceRequest{InstanceName: "inst"})
			return err
		}},
		{"DELETE", "/instance/delete/inst", func(c *Client) error { _, err := c.DeleteInstance(ctx); return err }},
		{"POST", "/instance/presence/inst", func(c *Client) error { _, err := c.SetPresence(ctx, "available"); return err }},
		{"DELETE", "/instance/logout/inst", func(c *Client) error { _, err := c.Logout(ctx); return err }},
		{"POST", "/webhook/set/inst", func(c *Client) error { _, err := c.SetWebhook(ctx, WebhookConfig{URL: "http://x"}); return err }},
		{"POST", "/settings/set/inst", func(c *Client) error { _, err := c.SetSettings(ctx, InstanceSettings{RejectCall: true}); return err }},
		{"GET", "/settings/find/inst", func(c *Client) error { _, err := c.GetSettings(ctx); return err }},

		{"POST", "/message/template/inst", func(c *Client) error { _, err := c.SendTemplate(ctx, SendTemplateRequest{Number: "1"}); return err }},
		{"POST", "/message/status/inst", func(c *Client) error { _, err := c.SendStatus(ctx, SendStatusRequest{}); return err }},
		{"POST", "/message/media/inst", func(c *Client) error { _, err := c.SendMedia(ctx, SendMediaRequest{Number: "1"}); return err }},
		{"POST", "/message/audio/inst", func(c *Client) error { _, err := c.SendAudio(ctx, SendAudioRequest{Number: "1"}); return err }},
		{"POST", "/message/sticker/inst", func(c *Client) error { _, err := c.SendSticker(ctx, SendStickerRequest{Number: "1"}); return err }},
		{"POST", "/message/location/inst", func(c *Client) error { _, err := c.SendLocation(ctx, SendLocationRequest{Number: "1"}); return err }},
		{"POST", "/message/contact/inst", func(c *Client) error { _, err := c.SendContact(ctx, SendContactRequest{Number: "1"}); return err }},
		{"POST", "/message/reaction/inst", func(c *Client) error { _, err := c.SendReaction(ctx, SendReactionRequest{}); return err }},
		{"POST", "/message/poll/inst", func(c *Client) error { _, err := c.SendPoll(ctx, SendPollRequest{Number: "1"}); return err }},
		{"POST", "/message/list/inst", func(c *Client) error { _, err := c.SendList(ctx, SendListRequest{Number: "1"}); return err }},

		{"PUT", "/chat/markMessageAsRead/inst", func(c *Client) error { _, err := c.MarkMessageAsRead(ctx, "m"); return err }},
		{"POST", "/chat/presence/inst", func(c *Client) error { _, err := c.SendPresence(ctx, "composing", "1@s.whatsapp.net"); return err }},
		{"POST", "/chat/fetchProfilePictureUrl/inst", func(c *Client) error { _, err := c.FetchProfilePictureURL(ctx, "1"); return err }},
		{"POST", "/chat/contacts/inst", func(c *Client) error { _, err := c.FetchContacts(ctx); return err }},
		{"POST", "/chat/findMessages/inst", func(c *Client) error { _, err := c.FindMessages(ctx, "hi", ""); return err }},
		{"POST", "/chat/findStatusMessages/inst", func(c *Client) error { _, err := c.FindStatusMessages(ctx); return err }},
		{"PUT", "/chat/updateMessage/inst", func(c *Client) error { _, err := c.UpdateMessage(ctx, "m", "edited"); return err }},
		{"GET", "/chat/findChats/inst", func(c *Client) error { _, err := c.FetchChats(ctx); return err }},

		{"POST", "/profile/fetchBusinessProfile/inst", func(c *Client) error { _, err := c.FetchBusinessProfile(ctx); return err }},
		{"POST", "/profile/fetchProfile/inst", func(c *Client) error { _, err := c.FetchProfile(ctx); return err }},
		{"POST", "/profile/updateProfileName/inst", func(c *Client) error { _, err := c.UpdateProfileName(ctx, "n"); return err }},
		{"POST", "/profile/updateProfileStatus/inst", func(c *Client) error { _, err := c.UpdateProfileStatus(ctx, "s"); return err }},
		{"PUT", "/profile/updateProfilePicture/inst", func(c *Client) error { _, err := c.UpdateProfilePicture(ctx, "http://x/p.png"); return err }},
		{"DELETE", "/profile/removeProfilePicture/inst", func(c *Client) error { _, err := c.RemoveProfilePicture(ctx); return err }},
		{"GET", "/profile/fetchPrivacySettings/inst", func(c *Client) error { _, err := c.FetchPrivacySettings(ctx); return err }},
		{"PUT", "/profile/updatePrivacySettings/inst", func(c *Client) error {
			_, err := c.UpdatePrivacySettings(ctx, PrivacySettings{Online: "all"})
			return err
		}},

		{"POST", "/group/create/inst", func(c *Client) error { _, err := c.CreateGroup(ctx, CreateGroupRequest{Subject: "g"}); return err }},
		{"PUT", "/group/updateGroupPicture/inst", func(c *Client) error { _, err := c.UpdateGroupPicture(ctx, "g", "http://x"); return err }},
		{"PUT", "/group/updateGroupSubject/inst", func(c *Client) error { _, err := c.UpdateGroupSubject(ctx, "g", "s"); return err }},
		{"PUT", "/group/updateGroupDescription/inst", func(c *Client) error { _, err := c.UpdateGroupDescription(ctx, "g", "d"); return err }},
		{"GET", "/group/fetchInviteCode/inst/g", func(c *Client) error { _, err := c.FetchInviteCode(ctx, "g"); return err }},
		{"GET", "/group/acceptInviteCode/inst/code", func(c *Client) error { _, err := c.AcceptInviteCode(ctx, "code"); return err }},
		{"PUT", "/group/revokeInviteCode/inst/g", func(c *Client) error { _, err := c.RevokeInviteCode(ctx, "g"); return err }},
		{"POST", "/group/sendGroupInvite/inst", func(c *Client) error { _, err := c.SendGroupInvite(ctx, "g", []string{"1"}); return err }},
		{"GET", "/group/findGroupByInviteCode/inst/code", func(c *Client) error { _, err := c.FindGroupByInviteCode(ctx, "code"); return err }},
		{"GET", "/group/findGroupByJid/inst/g", func(c *Client) error { _, err := c.FindGroupByJID(ctx, "g"); return err }},
		{"GET", "/group/findGroupMembers/inst/g", func(c *Client) error { _, err := c.FindGroupMembers(ctx, "g"); return err }},
		{"PUT", "/group/updateGroupSetting/inst", func(c *Client) error {
			_, err := c.UpdateGroupSetting(ctx, GroupSettingRequest{GroupJID: "g", Setting: "locked"})
			return err
		}},
		{"PUT", "/group/toggleEphemeral/inst", func(c *Client) error { _, err := c.ToggleEphemeral(ctx, "g", 86400); return err }},
		{"DELETE", "/group/leaveGroup/inst/g", func(c *Client) error { _, err := c.LeaveGroup(ctx, "g"); return err }},

		{"POST", "/typebot/set/inst", func(c *Client) error { _, err := c.SetTypebot(ctx, TypebotConfig{Enabled: true}); return err }},
		{"POST", "/typebot/start/inst", func(c *Client) error { _, err := c.StartTypebot(ctx, "1"); return err }},
		{"GET", "/typebot/find/inst", func(c *Client) error { _, err := c.FindTypebot(ctx); return err }},
		{"POST", "/typebot/changeStatus/inst", func(c *Client) error { _, err := c.ChangeTypebotStatus(ctx, false); return err }},
		{"POST", "/chatwoot/set/inst", func(c *Client) error { _, err := c.SetChatwoot(ctx, ChatwootConfig{Enabled: true}); return err }},
		{"GET", "/chatwoot/find/inst", func(c *Client) error { _, err := c.FindChatwoot(ctx); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			c, calls := newTestClient(t, http.StatusOK, `{}`)
			require.NoError(t, tt.call(c))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.method, (*calls)[0].Method)
			assert.Equal(t, tt.path, (*calls)[0].Path)
			assert.Equal(t, "secret", (*calls)[0].APIKey)
		})
	}
}
