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

type tagRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTagRepository(client *firestore.Client) *tagRepository {
	return &tagRepository{client: client}
}

func (r *tagRepository) tagsCollection(guildID types.GuildID) *firestore.CollectionRef {
	return guildDoc(r.client, r.collectionPrefix, guildID).Collection("forum_tags")
}

func (r *tagRepository) Get(ctx context.Context, guildID types.GuildID, typeID types.TypeID) (*model.ForumTag, error) {
	docSnap, err := r.tagsCollection(guildID).Doc(string(typeID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "forum tag not found",
				goerr.V("guild_id", guildID), goerr.V("type_id", typeID))
		}
		return nil, goerr.Wrap(err, "failed to get forum tag",
			goerr.V("guild_id", guildID), goerr.V("type_id", typeID))
	}

	var tag model.ForumTag
	if err := docSnap.DataTo(&tag); err != nil {
		return nil, goerr.Wrap(err, "failed to decode forum tag", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &tag, nil
}

func (r *tagRepository) Put(ctx context.Context, tag *model.ForumTag) error {
	if tag.GuildID == "" || tag.TypeID == "" {
		return goerr.New("forum tag requires guild_id and type_id",
			goerr.V("guild_id", tag.GuildID), goerr.V("type_id", tag.TypeID))
	}

	stored := *tag
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	if _, err := r.tagsCollection(tag.GuildID).Doc(string(tag.TypeID)).Set(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put forum tag",
			goerr.V("guild_id", tag.GuildID), goerr.V("type_id", tag.TypeID))
	}

	return nil
}
