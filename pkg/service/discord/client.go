package discord

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// MaxForumTags is the number of available tags a Discord forum allows.
	MaxForumTags = 20

	// archiveAutoArchiveMinutes keeps archive threads listed for the maximum
	// duration Discord supports (7 days).
	archiveAutoArchiveMinutes = 10080

	defaultDownloadTimeout = 30 * time.Second
)

// client implements Service on top of a discordgo session
type client struct {
	api        *discordgo.Session
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient sets the HTTP client used for attachment downloads
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a Discord service around an established session.
func New(session *discordgo.Session, opts ...Option) (Service, error) {
	if session == nil {
		return nil, goerr.New("discord session is required")
	}

	c := &client{
		api:        session,
		httpClient: &http.Client{Timeout: defaultDownloadTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) ChannelMessages(ctx context.Context, channelID types.ChannelID, limit int, beforeID types.MessageID) ([]*Message, error) {
	msgs, err := c.api.ChannelMessages(string(channelID), limit, string(beforeID), "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch channel messages",
			goerr.V("channel_id", channelID), goerr.V("before_id", beforeID))
	}

	result := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, convertMessage(m))
	}
	return result, nil
}

func convertMessage(m *discordgo.Message) *Message {
	msg := &Message{
		ID:        types.MessageID(m.ID),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = types.UserID(m.Author.ID)
		msg.AuthorName = m.Author.Username
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, Attachment{
			ID:          a.ID,
			Filename:    a.Filename,
			URL:         a.URL,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return msg
}

func (c *client) User(ctx context.Context, userID types.UserID) (*User, error) {
	u, err := c.api.User(string(userID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("user_id", userID))
	}

	return &User{
		ID:       types.UserID(u.ID),
		Username: u.Username,
	}, nil
}

func (c *client) CreateCaseChannel(ctx context.Context, guildID types.GuildID, categoryID types.ChannelID, name string, creatorID types.UserID, staffRoleID types.RoleID) (types.ChannelID, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			// Hide the channel from everyone by default
			ID:   string(guildID),
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    string(creatorID),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}
	if staffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    string(staffRoleID),
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}

	ch, err := c.api.GuildChannelCreateComplex(string(guildID), discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             string(categoryID),
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create case channel",
			goerr.V("guild_id", guildID), goerr.V("name", name))
	}

	return types.ChannelID(ch.ID), nil
}

func (c *client) CreateForumThread(ctx context.Context, forumID types.ChannelID, name string, msg *MessagePayload) (types.ThreadID, error) {
	th, err := c.api.ForumThreadStartComplex(string(forumID), &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: archiveAutoArchiveMinutes,
	}, buildMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create forum thread",
			goerr.V("forum_id", forumID), goerr.V("name", name))
	}

	return types.ThreadID(th.ID), nil
}

func (c *client) PostMessage(ctx context.Context, channelID types.ChannelID, msg *MessagePayload) (types.MessageID, error) {
	posted, err := c.api.ChannelMessageSendComplex(string(channelID), buildMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}

	return types.MessageID(posted.ID), nil
}

func buildMessageSend(msg *MessagePayload) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:    msg.Content,
		Components: msg.Components,
	}
	for _, f := range msg.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      f.Reader,
		})
	}
	return send
}

func (c *client) ForumTags(ctx context.Context, forumID types.ChannelID) ([]ForumTagInfo, error) {
	ch, err := c.api.Channel(string(forumID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get forum channel", goerr.V("forum_id", forumID))
	}

	tags := make([]ForumTagInfo, 0, len(ch.AvailableTags))
	for _, t := range ch.AvailableTags {
		tags = append(tags, ForumTagInfo{
			ID:    types.TagID(t.ID),
			Name:  t.Name,
			Emoji: t.EmojiName,
		})
	}
	return tags, nil
}

// CreateForumTag appends a tag to the forum's available tag set. Discord has
// no add-single-tag endpoint; the full set is written back and the created
// tag is located by name in the response.
func (c *client) CreateForumTag(ctx context.Context, forumID types.ChannelID, name, emoji string) (types.TagID, error) {
	ch, err := c.api.Channel(string(forumID), discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to get forum channel", goerr.V("forum_id", forumID))
	}

	for _, t := range ch.AvailableTags {
		if t.Name == name {
			return types.TagID(t.ID), nil
		}
	}

	if len(ch.AvailableTags) >= MaxForumTags {
		return "", goerr.New("forum tag limit reached",
			goerr.V("forum_id", forumID), goerr.V("limit", MaxForumTags))
	}

	updated := make([]discordgo.ForumTag, 0, len(ch.AvailableTags)+1)
	updated = append(updated, ch.AvailableTags...)
	updated = append(updated, discordgo.ForumTag{Name: name, EmojiName: emoji})

	edited, err := c.api.ChannelEditComplex(string(forumID), &discordgo.ChannelEdit{
		AvailableTags: &updated,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create forum tag",
			goerr.V("forum_id", forumID), goerr.V("name", name))
	}

	for _, t := range edited.AvailableTags {
		if t.Name == name {
			return types.TagID(t.ID), nil
		}
	}

	return "", goerr.New("created forum tag missing from response",
		goerr.V("forum_id", forumID), goerr.V("name", name))
}

func (c *client) ApplyThreadTags(ctx context.Context, threadID types.ThreadID, tagIDs []types.TagID) error {
	applied := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		applied = append(applied, string(id))
	}

	_, err := c.api.ChannelEditComplex(string(threadID), &discordgo.ChannelEdit{
		AppliedTags: &applied,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to apply thread tags",
			goerr.V("thread_id", threadID), goerr.V("tag_ids", tagIDs))
	}

	return nil
}

func (c *client) DenyRoleView(ctx context.Context, channelID types.ChannelID, roleID types.RoleID) error {
	err := c.api.ChannelPermissionSet(string(channelID), string(roleID),
		discordgo.PermissionOverwriteTypeRole, 0, discordgo.PermissionViewChannel,
		discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to deny role view",
			goerr.V("channel_id", channelID), goerr.V("role_id", roleID))
	}

	return nil
}

func (c *client) EditMessageComponents(ctx context.Context, channelID types.ChannelID, messageID types.MessageID, components []discordgo.MessageComponent) error {
	edit := discordgo.NewMessageEdit(string(channelID), string(messageID))
	edit.Components = &components

	if _, err := c.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to edit message components",
			goerr.V("channel_id", channelID), goerr.V("message_id", messageID))
	}

	return nil
}

func (c *client) DeleteChannel(ctx context.Context, channelID types.ChannelID) error {
	if _, err := c.api.ChannelDelete(string(channelID), discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to delete channel", goerr.V("channel_id", channelID))
	}

	return nil
}

func (c *client) DownloadAttachment(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build attachment request", goerr.V("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download attachment", goerr.V("url", url))
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, goerr.New("unexpected status downloading attachment",
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	return resp.Body, nil
}
