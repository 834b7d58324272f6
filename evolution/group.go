package evolution

import (
	"context"
	"encoding/json"
	"net/http"
)

// CreateGroupResponse carries the identifier of a newly created group.
type CreateGroupResponse struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	Subject string `json:"subject"`
}

// JID returns the group identifier from either response shape.
func (r CreateGroupResponse) JID() string {
	if r.GroupID != "" {
		return r.GroupID
	}
	return r.ID
}

func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*CreateGroupResponse, error) {
	var resp CreateGroupResponse
	if err := c.do(ctx, http.MethodPost, c.instancePath("/group/create"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateGroupPicture(ctx context.Context, groupID, pictureURL string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/updateGroupPicture"), map[string]string{
		"groupId": groupID,
		"url":     pictureURL,
	})
}

func (c *Client) UpdateGroupSubject(ctx context.Context, groupID, subject string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/updateGroupSubject"), map[string]string{
		"groupId": groupID,
		"subject": subject,
	})
}

func (c *Client) UpdateGroupDescription(ctx context.Context, groupID, description string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/updateGroupDescription"), map[string]string{
		"groupId":     groupID,
		"description": description,
	})
}

func (c *Client) FetchInviteCode(ctx context.Context, groupID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, c.instancePath("/group/fetchInviteCode", groupID), nil)
}

func (c *Client) AcceptInviteCode(ctx context.Context, code string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, c.instancePath("/group/acceptInviteCode", code), nil)
}

func (c *Client) RevokeInviteCode(ctx context.Context, groupID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/revokeInviteCode", groupID), nil)
}

func (c *Client) SendGroupInvite(ctx context.Context, groupID string, numbers []string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, c.instancePath("/group/sendGroupInvite"), map[string]any{
		"groupId": groupID,
		"numbers": numbers,
	})
}

func (c *Client) FindGroupByInviteCode(ctx context.Context, code string) (*GroupInfo, error) {
	var g GroupInfo
	if err := c.do(ctx, http.MethodGet, c.instancePath("/group/findGroupByInviteCode", code), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) FindGroupByJID(ctx context.Context, groupID string) (*GroupInfo, error) {
	var g GroupInfo
	if err := c.do(ctx, http.MethodGet, c.instancePath("/group/findGroupByJid", groupID), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) FetchAllGroups(ctx context.Context) ([]GroupInfo, error) {
	raw, err := c.raw(ctx, http.MethodGet, c.instancePath("/group/fetchAllGroups"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[GroupInfo](raw)
}

func (c *Client) FindGroupMembers(ctx context.Context, groupID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, c.instancePath("/group/findGroupMembers", groupID), nil)
}

// UpdateGroupMembers adds, removes, promotes or demotes participants.
func (c *Client) UpdateGroupMembers(ctx context.Context, req GroupMembersRequest) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/updateGroupMembers"), req)
}

func (c *Client) UpdateGroupSetting(ctx context.Context, req GroupSettingRequest) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/updateGroupSetting"), req)
}

// ToggleEphemeral sets the disappearing-message timer in seconds; 0 disables it.
func (c *Client) ToggleEphemeral(ctx context.Context, groupID string, expiration int) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, c.instancePath("/group/toggleEphemeral"), map[string]any{
		"groupId":    groupID,
		"expiration": expiration,
	})
}

func (c *Client) LeaveGroup(ctx context.Context, groupID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, c.instancePath("/group/leaveGroup", groupID), nil)
}
