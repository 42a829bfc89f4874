package memory

import (
	"context"
	"sync"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type archiveRepository struct {
	mu sync.RWMutex
	// records[guildID][createdBy]: the map key is the composite key, so at
	// most one record per (guild, user) can ever exist.
	records map[types.GuildID]map[types.UserID]*model.ArchiveRecord
}

func newArchiveRepository() *archiveRepository {
	return &archiveRepository{
		records: make(map[types.GuildID]map[types.UserID]*model.ArchiveRecord),
	}
}

// copyArchiveRecord creates a deep copy of an archive record
func copyArchiveRecord(rec *model.ArchiveRecord) *model.ArchiveRecord {
	cp := *rec
	cp.TagIDs = make([]types.TagID, len(rec.TagIDs))
	copy(cp.TagIDs, rec.TagIDs)
	return &cp
}

func (r *archiveRepository) Get(ctx context.Context, guildID types.GuildID, createdBy types.UserID) (*model.ArchiveRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guild, exists := r.records[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "archive record not found",
			goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
	}

	rec, exists := guild[createdBy]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "archive record not found",
			goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
	}

	return copyArchiveRecord(rec), nil
}

func (r *archiveRepository) Put(ctx context.Context, rec *model.ArchiveRecord) error {
	if rec.GuildID == "" || rec.CreatedBy == "" {
		return goerr.New("archive record requires guild_id and created_by",
			goerr.V("guild_id", rec.GuildID), goerr.V("created_by", rec.CreatedBy))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.GuildID]; !exists {
		r.records[rec.GuildID] = make(map[types.UserID]*model.ArchiveRecord)
	}

	now := time.Now().UTC()
	stored := copyArchiveRecord(rec)
	if existing, exists := r.records[rec.GuildID][rec.CreatedBy]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.records[rec.GuildID][rec.CreatedBy] = stored
	return nil
}

func (r *archiveRepository) MergeTags(ctx context.Context, guildID types.GuildID, createdBy types.UserID, tagIDs []types.TagID) ([]types.TagID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, exists := r.records[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "archive record not found",
			goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
	}

	rec, exists := guild[createdBy]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "archive record not found",
			goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
	}

	rec.TagIDs = rec.MergeTags(tagIDs...)
	rec.UpdatedAt = time.Now().UTC()

	merged := make([]types.TagID, len(rec.TagIDs))
	copy(merged, rec.TagIDs)
	return merged, nil
}
