package model

import (
	"time"

	"github.com/guildops-lab/talos/pkg/domain/types"
)

// GuildConfig holds per-guild settings for the case lifecycle. A guild
// without an ArchiveForumID has archival disabled: close requests abort
// before any work and leave the case open.
type GuildConfig struct {
	GuildID        types.GuildID    `firestore:"guild_id"`
	ArchiveForumID types.ChannelID  `firestore:"archive_forum_id"` // forum channel holding archive threads
	StaffRoleID    types.RoleID     `firestore:"staff_role_id"`    // role whose visibility admin_only revokes
	CategoryID     types.ChannelID  `firestore:"category_id"`      // category under which case channels are created
	CustomTypes    []TypeDescriptor `firestore:"custom_types"`
	CreatedAt      time.Time        `firestore:"created_at"`
	UpdatedAt      time.Time        `firestore:"updated_at"`
}

// ArchiveConfigured reports whether the archival pipeline can run for the guild.
func (c *GuildConfig) ArchiveConfigured() bool {
	return c != nil && c.ArchiveForumID != ""
}

// LookupCustomType returns the guild-defined descriptor for a type ID.
func (c *GuildConfig) LookupCustomType(id types.TypeID) (TypeDescriptor, bool) {
	if c == nil {
		return TypeDescriptor{}, false
	}
	for _, td := range c.CustomTypes {
		if td.ID == id {
			return td, true
		}
	}
	return TypeDescriptor{}, false
}
