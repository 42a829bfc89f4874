package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client      *firestore.Client
	caseRepo    *caseRepository
	archive     *archiveRepository
	tag         *tagRepository
	guildConfig *guildConfigRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, so multiple deployments
// can share one Firestore database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.caseRepo.collectionPrefix = prefix
		f.archive.collectionPrefix = prefix
		f.tag.collectionPrefix = prefix
		f.guildConfig.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		caseRepo:    newCaseRepository(client),
		archive:     newArchiveRepository(client),
		tag:         newTagRepository(client),
		guildConfig: newGuildConfigRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.caseRepo
}

func (f *Firestore) Archive() interfaces.ArchiveRepository {
	return f.archive
}

func (f *Firestore) Tag() interfaces.TagRepository {
	return f.tag
}

func (f *Firestore) GuildConfig() interfaces.GuildConfigRepository {
	return f.guildConfig
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// guildDoc returns the tenant document anchoring all guild-scoped
// subcollections. Keeping case data under the guild document makes cross-guild
// reads structurally impossible.
func guildDoc(client *firestore.Client, prefix string, guildID types.GuildID) *firestore.DocumentRef {
	return client.Collection(prefixed(prefix, "guilds")).Doc(string(guildID))
}
