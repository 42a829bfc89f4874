package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type archiveRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newArchiveRepository(client *firestore.Client) *archiveRepository {
	return &archiveRepository{client: client}
}

func (r *archiveRepository) archivesCollection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "archives"))
}

// archiveDocID encodes the composite key into the document ID. One document
// per (guild, user) is therefore enforced by Firestore itself, not by
// application code.
func archiveDocID(guildID types.GuildID, createdBy types.UserID) string {
	return fmt.Sprintf("%s_%s", guildID, createdBy)
}

func (r *archiveRepository) Get(ctx context.Context, guildID types.GuildID, createdBy types.UserID) (*model.ArchiveRecord, error) {
	docSnap, err := r.archivesCollection().Doc(archiveDocID(guildID, createdBy)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "archive record not found",
				goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
		}
		return nil, goerr.Wrap(err, "failed to get archive record",
			goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
	}

	var rec model.ArchiveRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode archive record", goerr.V("doc_id", docSnap.Ref.ID))
	}

	// The composite key lives in the document ID; reject a record that claims
	// a different tenant than the one queried.
	if rec.GuildID != guildID {
		return nil, goerr.New("archive record guild mismatch",
			goerr.V("expected", guildID), goerr.V("actual", rec.GuildID))
	}

	return &rec, nil
}

func (r *archiveRepository) Put(ctx context.Context, rec *model.ArchiveRecord) error {
	if rec.GuildID == "" || rec.CreatedBy == "" {
		return goerr.New("archive record requires guild_id and created_by",
			goerr.V("guild_id", rec.GuildID), goerr.V("created_by", rec.CreatedBy))
	}

	docRef := r.archivesCollection().Doc(archiveDocID(rec.GuildID, rec.CreatedBy))

	now := time.Now().UTC()
	stored := *rec
	stored.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing model.ArchiveRecord
			if decErr := docSnap.DataTo(&existing); decErr != nil {
				return goerr.Wrap(decErr, "failed to decode archive record", goerr.V("doc_id", docRef.ID))
			}
			stored.CreatedAt = existing.CreatedAt
		case status.Code(err) == codes.NotFound:
			stored.CreatedAt = now
		default:
			return goerr.Wrap(err, "failed to check archive record existence", goerr.V("doc_id", docRef.ID))
		}

		return tx.Set(docRef, &stored)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put archive record",
			goerr.V("guild_id", rec.GuildID), goerr.V("created_by", rec.CreatedBy))
	}

	return nil
}

// MergeTags unions tagIDs into the stored tag set inside a transaction, so
// two concurrent closes of different cases for the same user cannot lose
// each other's tags.
func (r *archiveRepository) MergeTags(ctx context.Context, guildID types.GuildID, createdBy types.UserID, tagIDs []types.TagID) ([]types.TagID, error) {
	docRef := r.archivesCollection().Doc(archiveDocID(guildID, createdBy))

	var merged []types.TagID
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "archive record not found",
					goerr.V("guild_id", guildID), goerr.V("created_by", createdBy))
			}
			return goerr.Wrap(err, "failed to get archive record", goerr.V("doc_id", docRef.ID))
		}

		var rec model.ArchiveRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return goerr.Wrap(err, "failed to decode archive record", goerr.V("doc_id", docRef.ID))
		}

		merged = rec.MergeTags(tagIDs...)
		return tx.Update(docRef, []firestore.Update{
			{Path: "tag_ids", Value: merged},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}
