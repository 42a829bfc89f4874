package memory

import (
	"context"
	"sync"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type guildConfigRepository struct {
	mu      sync.RWMutex
	configs map[types.GuildID]*model.GuildConfig
}

func newGuildConfigRepository() *guildConfigRepository {
	return &guildConfigRepository{
		configs: make(map[types.GuildID]*model.GuildConfig),
	}
}

// copyGuildConfig creates a deep copy of a guild config
func copyGuildConfig(cfg *model.GuildConfig) *model.GuildConfig {
	cp := *cfg
	cp.CustomTypes = make([]model.TypeDescriptor, len(cfg.CustomTypes))
	copy(cp.CustomTypes, cfg.CustomTypes)
	return &cp
}

func (r *guildConfigRepository) Get(ctx context.Context, guildID types.GuildID) (*model.GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "guild config not found", goerr.V("guild_id", guildID))
	}

	return copyGuildConfig(cfg), nil
}

func (r *guildConfigRepository) Put(ctx context.Context, cfg *model.GuildConfig) error {
	if cfg.GuildID == "" {
		return goerr.New("guild config requires guild_id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyGuildConfig(cfg)
	if existing, exists := r.configs[cfg.GuildID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.configs[cfg.GuildID] = stored
	return nil
}
