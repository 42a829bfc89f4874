package memory

import (
	"context"
	"sync"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type tagRepository struct {
	mu   sync.RWMutex
	tags map[types.GuildID]map[types.TypeID]*model.ForumTag
}

func newTagRepository() *tagRepository {
	return &tagRepository{
		tags: make(map[types.GuildID]map[types.TypeID]*model.ForumTag),
	}
}

func (r *tagRepository) Get(ctx context.Context, guildID types.GuildID, typeID types.TypeID) (*model.ForumTag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guild, exists := r.tags[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "forum tag not found",
			goerr.V("guild_id", guildID), goerr.V("type_id", typeID))
	}

	tag, exists := guild[typeID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "forum tag not found",
			goerr.V("guild_id", guildID), goerr.V("type_id", typeID))
	}

	cp := *tag
	return &cp, nil
}

func (r *tagRepository) Put(ctx context.Context, tag *model.ForumTag) error {
	if tag.GuildID == "" || tag.TypeID == "" {
		return goerr.New("forum tag requires guild_id and type_id",
			goerr.V("guild_id", tag.GuildID), goerr.V("type_id", tag.TypeID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[tag.GuildID]; !exists {
		r.tags[tag.GuildID] = make(map[types.TypeID]*model.ForumTag)
	}

	stored := *tag
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.tags[tag.GuildID][tag.TypeID] = &stored
	return nil
}
