package memory

import (
	"context"
	"sync"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type caseRepository struct {
	mu     sync.RWMutex
	cases  map[types.GuildID]map[types.CaseID]*model.Case
	nextID map[types.GuildID]types.CaseID
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases:  make(map[types.GuildID]map[types.CaseID]*model.Case),
		nextID: make(map[types.GuildID]types.CaseID),
	}
}

func (r *caseRepository) ensureGuild(guildID types.GuildID) {
	if _, exists := r.cases[guildID]; !exists {
		r.cases[guildID] = make(map[types.CaseID]*model.Case)
	}
	if _, exists := r.nextID[guildID]; !exists {
		r.nextID[guildID] = 1
	}
}

// copyCase creates a deep copy of a case
func copyCase(c *model.Case) *model.Case {
	cp := *c
	return &cp
}

func (r *caseRepository) Create(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureGuild(guildID)

	now := time.Now().UTC()
	created := copyCase(c)
	created.ID = r.nextID[guildID]
	created.GuildID = guildID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[guildID]++

	r.cases[guildID][created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, guildID types.GuildID, id types.CaseID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	c, exists := guild[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	return copyCase(c), nil
}

func (r *caseRepository) GetByChannelID(ctx context.Context, guildID types.GuildID, channelID types.ChannelID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return nil, nil
	}

	for _, c := range guild {
		if c.ChannelID == channelID {
			return copyCase(c), nil
		}
	}

	return nil, nil
}

func (r *caseRepository) List(ctx context.Context, guildID types.GuildID) ([]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return []*model.Case{}, nil
	}

	cases := make([]*model.Case, 0, len(guild))
	for _, c := range guild {
		cases = append(cases, copyCase(c))
	}

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
	}

	existing, exists := guild[c.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
	}

	updated := copyCase(c)
	updated.GuildID = guildID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.cases[guildID][updated.ID] = updated
	return copyCase(updated), nil
}

func (r *caseRepository) UpdateStatus(ctx context.Context, guildID types.GuildID, id types.CaseID, from, to types.CaseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	c, exists := guild[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	if c.Status != from {
		return goerr.Wrap(ErrStatusConflict, "status changed since read",
			goerr.V("id", id),
			goerr.V("expected", from),
			goerr.V("actual", c.Status))
	}

	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *caseRepository) Delete(ctx context.Context, guildID types.GuildID, id types.CaseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, exists := r.cases[guildID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	if _, exists := guild[id]; !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	delete(r.cases[guildID], id)
	return nil
}
