package types

import "strconv"

// GuildID is a Discord guild (server) ID. Every repository and usecase call
// is scoped by one; data never crosses guild boundaries.
type GuildID string

// String returns the string representation of the guild ID
func (id GuildID) String() string {
	return string(id)
}

// UserID is a Discord user ID
type UserID string

// String returns the string representation of the user ID
func (id UserID) String() string {
	return string(id)
}

// ChannelID is a Discord channel ID (text channel, category or forum)
type ChannelID string

// String returns the string representation of the channel ID
func (id ChannelID) String() string {
	return string(id)
}

// ThreadID is a Discord thread ID. Threads are channels on the wire but the
// distinct type keeps archive threads from being confused with case channels.
type ThreadID string

// String returns the string representation of the thread ID
func (id ThreadID) String() string {
	return string(id)
}

// MessageID is a Discord message ID
type MessageID string

// String returns the string representation of the message ID
func (id MessageID) String() string {
	return string(id)
}

// RoleID is a Discord role ID
type RoleID string

// String returns the string representation of the role ID
func (id RoleID) String() string {
	return string(id)
}

// CaseID is the per-guild auto-incremented case number
type CaseID int64

// String returns the string representation of the case ID
func (id CaseID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// TypeID identifies a case type (built-in, catalog or guild-defined)
type TypeID string

// String returns the string representation of the type ID
func (id TypeID) String() string {
	return string(id)
}

// TagID is the Discord-assigned ID of a forum tag
type TagID string

// String returns the string representation of the tag ID
func (id TagID) String() string {
	return string(id)
}
