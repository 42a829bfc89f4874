package model

import (
	"time"

	"github.com/guildops-lab/talos/pkg/domain/types"
)

// ArchiveRecord tracks the single archive thread for one user in one guild.
// All of a user's closed cases in a guild collapse into this one thread; the
// repository enforces at most one record per (GuildID, CreatedBy).
type ArchiveRecord struct {
	GuildID   types.GuildID  `firestore:"guild_id"`
	CreatedBy types.UserID   `firestore:"created_by"`
	Kind      types.CaseKind `firestore:"kind"` // kind of the case that created the record
	ThreadID  types.ThreadID `firestore:"thread_id"`
	TagIDs    []types.TagID  `firestore:"tag_ids"` // append-only set, never shrinks
	CreatedAt time.Time      `firestore:"created_at"`
	UpdatedAt time.Time      `firestore:"updated_at"`
}

// MergeTags returns the union of the record's tags and extra, preserving
// order and dropping duplicates. Applying an already-present tag is a no-op.
func (r *ArchiveRecord) MergeTags(extra ...types.TagID) []types.TagID {
	seen := make(map[types.TagID]struct{}, len(r.TagIDs)+len(extra))
	merged := make([]types.TagID, 0, len(r.TagIDs)+len(extra))
	for _, id := range r.TagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range extra {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// ForumTag is the persisted mapping from a case type to the tag created on a
// guild's archive forum. The registry is forum-scoped, not thread-scoped: the
// same tag ID is reused across every archive thread in the forum.
type ForumTag struct {
	GuildID   types.GuildID `firestore:"guild_id"`
	TypeID    types.TypeID  `firestore:"type_id"`
	TagID     types.TagID   `firestore:"tag_id"`
	Name      string        `firestore:"name"`
	Emoji     string        `firestore:"emoji"`
	CreatedAt time.Time     `firestore:"created_at"`
}
