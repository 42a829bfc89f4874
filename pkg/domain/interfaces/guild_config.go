package interfaces

import (
	"context"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// GuildConfigRepository defines the interface for per-guild settings.
type GuildConfigRepository interface {
	// Get retrieves the guild configuration.
	// Returns ErrNotFound when the guild was never configured.
	Get(ctx context.Context, guildID types.GuildID) (*model.GuildConfig, error)

	// Put creates or replaces the guild configuration
	Put(ctx context.Context, cfg *model.GuildConfig) error
}
