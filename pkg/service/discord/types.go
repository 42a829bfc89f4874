package discord

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// Service provides the interface to the Discord API consumed by the case
// lifecycle. All calls are guild-scoped by the caller; the service itself
// never decides which guild a channel or thread belongs to.
type Service interface {
	// ChannelMessages retrieves up to limit messages posted before beforeID
	// (all latest messages when beforeID is empty). Pages arrive newest-first.
	ChannelMessages(ctx context.Context, channelID types.ChannelID, limit int, beforeID types.MessageID) ([]*Message, error)

	// User retrieves a Discord user
	User(ctx context.Context, userID types.UserID) (*User, error)

	// CreateCaseChannel creates the text channel backing a case, under the
	// configured category, visible to the creator and the staff role only.
	CreateCaseChannel(ctx context.Context, guildID types.GuildID, categoryID types.ChannelID, name string, creatorID types.UserID, staffRoleID types.RoleID) (types.ChannelID, error)

	// CreateForumThread creates a thread on a forum channel with msg as its
	// first message and returns the thread ID.
	CreateForumThread(ctx context.Context, forumID types.ChannelID, name string, msg *MessagePayload) (types.ThreadID, error)

	// PostMessage posts a message (optionally with file uploads) to a channel
	// or thread and returns the message ID.
	PostMessage(ctx context.Context, channelID types.ChannelID, msg *MessagePayload) (types.MessageID, error)

	// ForumTags lists the tags currently available on a forum channel.
	ForumTags(ctx context.Context, forumID types.ChannelID) ([]ForumTagInfo, error)

	// CreateForumTag adds a tag to a forum's available tag set and returns
	// the remote tag ID. Forums cap their tag set; the error is surfaced when
	// the cap is reached.
	CreateForumTag(ctx context.Context, forumID types.ChannelID, name, emoji string) (types.TagID, error)

	// ApplyThreadTags replaces the applied tag set of a forum thread.
	// Callers pass the full merged set; applying a superset is idempotent.
	ApplyThreadTags(ctx context.Context, threadID types.ThreadID, tagIDs []types.TagID) error

	// DenyRoleView removes channel visibility for a role via a permission
	// overwrite. Used by the admin_only escalation.
	DenyRoleView(ctx context.Context, channelID types.ChannelID, roleID types.RoleID) error

	// EditMessageComponents replaces the interactive components of a message.
	EditMessageComponents(ctx context.Context, channelID types.ChannelID, messageID types.MessageID, components []discordgo.MessageComponent) error

	// DeleteChannel deletes a channel
	DeleteChannel(ctx context.Context, channelID types.ChannelID) error

	// DownloadAttachment streams an attachment body. The caller must close it.
	DownloadAttachment(ctx context.Context, url string) (io.ReadCloser, error)
}

// Message is the subset of a Discord message the pipeline cares about
type Message struct {
	ID          types.MessageID
	AuthorID    types.UserID
	AuthorName  string
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
}

// Attachment is a file attached to a Discord message
type Attachment struct {
	ID          string
	Filename    string
	URL         string
	ContentType string
	Size        int
}

// IsImage reports whether the attachment declares an image content type.
func (a Attachment) IsImage() bool {
	return len(a.ContentType) > 6 && a.ContentType[:6] == "image/"
}

// User represents a Discord user
type User struct {
	ID       types.UserID
	Username string
}

// MessagePayload is an outgoing message, optionally carrying file uploads
// and interactive components
type MessagePayload struct {
	Content    string
	Files      []File
	Components []discordgo.MessageComponent
}

// File is an upload attached to an outgoing message
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ForumTagInfo is a tag available on a forum channel
type ForumTagInfo struct {
	ID    types.TagID
	Name  string
	Emoji string
}
