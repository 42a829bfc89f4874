package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type guildConfigRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newGuildConfigRepository(client *firestore.Client) *guildConfigRepository {
	return &guildConfigRepository{client: client}
}

func (r *guildConfigRepository) configsCollection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "guild_configs"))
}

func (r *guildConfigRepository) Get(ctx context.Context, guildID types.GuildID) (*model.GuildConfig, error) {
	docSnap, err := r.configsCollection().Doc(string(guildID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "guild config not found", goerr.V("guild_id", guildID))
		}
		return nil, goerr.Wrap(err, "failed to get guild config", goerr.V("guild_id", guildID))
	}

	var cfg model.GuildConfig
	if err := docSnap.DataTo(&cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to decode guild config", goerr.V("guild_id", guildID))
	}

	return &cfg, nil
}

func (r *guildConfigRepository) Put(ctx context.Context, cfg *model.GuildConfig) error {
	if cfg.GuildID == "" {
		return goerr.New("guild config requires guild_id")
	}

	docRef := r.configsCollection().Doc(string(cfg.GuildID))

	now := time.Now().UTC()
	stored := *cfg
	stored.UpdatedAt = now

	docSnap, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var existing model.GuildConfig
		if decErr := docSnap.DataTo(&existing); decErr == nil {
			stored.CreatedAt = existing.CreatedAt
		}
	case status.Code(err) == codes.NotFound:
		stored.CreatedAt = now
	default:
		return goerr.Wrap(err, "failed to check guild config existence", goerr.V("guild_id", cfg.GuildID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put guild config", goerr.V("guild_id", cfg.GuildID))
	}

	return nil
}
