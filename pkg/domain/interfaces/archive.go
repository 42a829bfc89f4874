package interfaces

import (
	"context"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// ArchiveRepository defines the interface for ArchiveRecord data access.
// Records are keyed by the composite (guildID, createdBy), never by user
// alone, and the storage layer must enforce at most one record per key.
type ArchiveRepository interface {
	// Get retrieves the archive record for the user in the guild.
	// Returns ErrNotFound when the user has never had a case archived there.
	Get(ctx context.Context, guildID types.GuildID, createdBy types.UserID) (*model.ArchiveRecord, error)

	// Put creates or replaces the record under its composite key.
	Put(ctx context.Context, rec *model.ArchiveRecord) error

	// MergeTags unions tagIDs into the stored record's tag set atomically and
	// returns the merged set. The set only ever grows.
	MergeTags(ctx context.Context, guildID types.GuildID, createdBy types.UserID, tagIDs []types.TagID) ([]types.TagID, error)
}

// TagRepository persists the forum-scoped mapping from case types to remote
// forum tags. One tag per type per guild archive forum, created on first use.
type TagRepository interface {
	// Get retrieves the tag mapping for the type in the guild.
	// Returns ErrNotFound when no tag has been created for the type yet.
	Get(ctx context.Context, guildID types.GuildID, typeID types.TypeID) (*model.ForumTag, error)

	// Put persists a tag mapping
	Put(ctx context.Context, tag *model.ForumTag) error
}
