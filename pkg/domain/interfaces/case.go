package interfaces

import (
	"context"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// CaseRepository defines the interface for Case data access
type CaseRepository interface {
	// Create creates a new case with an auto-incremented per-guild ID
	Create(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, guildID types.GuildID, id types.CaseID) (*model.Case, error)

	// GetByChannelID retrieves a case by its backing channel ID.
	// Returns nil, nil if no case is bound to the channel.
	GetByChannelID(ctx context.Context, guildID types.GuildID, channelID types.ChannelID) (*model.Case, error)

	// List retrieves all cases of the guild
	List(ctx context.Context, guildID types.GuildID) ([]*model.Case, error)

	// Update updates an existing case
	Update(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error)

	// UpdateStatus transitions the case from one status to another as a single
	// compare-and-set: the stored status must equal from at commit time or the
	// call fails with ErrStatusConflict. This is the only lock the lifecycle
	// state machine relies on.
	UpdateStatus(ctx context.Context, guildID types.GuildID, id types.CaseID, from, to types.CaseStatus) error

	// Delete deletes a case by ID
	Delete(ctx context.Context, guildID types.GuildID, id types.CaseID) error
}
