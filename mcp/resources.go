package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/CSCSoftware/evolution-mcp/store"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerResources exposes read-only gateway data as text resources.
func (s *Server) registerResources() {
	s.addTextResource("contacts://list", "contacts", "Contacts of the instance", s.readContacts)
	s.addTextResource("chats://list", "chats", "Chats of the instance", s.readChats)
	s.addTextResource("groups://list", "groups", "Groups the instance participates in", s.readGroups)
	s.addTextResource("profile://info", "profile", "Profile of the instance", s.readProfile)
	s.addTextResource("privacy://settings", "privacy", "Privacy settings of the instance", s.readPrivacy)
}

// addTextResource registers a resource whose failures are reported in the
// resource text rather than as protocol errors.
func (s *Server) addTextResource(uri, name, description string, read func(context.Context) (string, error)) {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		s.logger.Info("mcp resource read", "uri", uri)
		text, err := read(ctx)
		if err != nil {
			s.logger.Warn("mcp resource failed", "uri", uri, "error", err)
			text = fmt.Sprintf("Failed to fetch %s: %v", name, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/plain", Text: text}},
		}, nil
	})
}

func (s *Server) readContacts(ctx context.Context) (string, error) {
	contacts, err := s.client.FetchContacts(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Available contacts (%d):", len(contacts))
	for _, c := range contacts {
		name := c.DisplayName()
		if name == "" {
			name = "No name"
		}
		number := strings.Replace(c.JID(), "@c.us", "", 1)
		fmt.Fprintf(&b, "\n- %s: %s", name, store.FormatNumber(number))
	}
	return b.String(), nil
}

func (s *Server) readChats(ctx context.Context) (string, error) {
	chats, err := s.client.FetchChats(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Available chats (%d):", len(chats))
	for _, c := range chats {
		title := c.Title()
		if title == "" {
			title = "Unnamed chat"
		}
		b.WriteString("\n- " + title)
		if c.UnreadCount > 0 {
			fmt.Fprintf(&b, " (%d unread)", c.UnreadCount)
		}
	}
	return b.String(), nil
}

func (s *Server) readGroups(ctx context.Context) (string, error) {
	groups, err := s.client.FetchAllGroups(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Available groups (%d):", len(groups))
	for _, g := range groups {
		subject := g.Subject
		if subject == "" {
			subject = g.ID
		}
		if subject == "" {
			subject = "Unnamed group"
		}
		fmt.Fprintf(&b, "\n- %s (%d members)", subject, g.MemberCount())
	}
	return b.String(), nil
}

func (s *Server) readProfile(ctx context.Context) (string, error) {
	p, err := s.client.FetchProfile(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Profile information:\n- Name: %s\n- Status: %s", orUnset(p.Name), orUnset(p.Status)), nil
}

func (s *Server) readPrivacy(ctx context.Context) (string, error) {
	p, err := s.client.FetchPrivacySettings(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Privacy settings:\n- Read receipts: %s\n- Profile: %s\n- Status: %s\n- Online: %s\n- Last seen: %s\n- Group add: %s",
		orUnset(p.ReadReceipts), orUnset(p.Profile), orUnset(p.Status), orUnset(p.Online), orUnset(p.Last), orUnset(p.GroupAdd)), nil
}

func orUnset(v string) string {
	if v == "" {
		return "Not set"
	}
	return v
}
