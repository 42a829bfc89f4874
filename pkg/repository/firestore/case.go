package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{client: client}
}

func (r *caseRepository) casesCollection(guildID types.GuildID) *firestore.CollectionRef {
	return guildDoc(r.client, r.collectionPrefix, guildID).Collection("cases")
}

func (r *caseRepository) counterDoc(guildID types.GuildID) *firestore.DocumentRef {
	return guildDoc(r.client, r.collectionPrefix, guildID).Collection("counters").Doc("case_counter")
}

func (r *caseRepository) getNextID(ctx context.Context, guildID types.GuildID) (types.CaseID, error) {
	counterRef := r.counterDoc(guildID)

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return types.CaseID(nextID), nil
}

func (r *caseRepository) Create(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error) {
	nextID, err := r.getNextID(ctx, guildID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := *c
	created.ID = nextID
	created.GuildID = guildID
	created.CreatedAt = now
	created.UpdatedAt = now

	docID := fmt.Sprintf("%d", created.ID)

	_, err = r.casesCollection(guildID).Doc(docID).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *caseRepository) Get(ctx context.Context, guildID types.GuildID, id types.CaseID) (*model.Case, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.casesCollection(guildID).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var c model.Case
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}

	return &c, nil
}

func (r *caseRepository) GetByChannelID(ctx context.Context, guildID types.GuildID, channelID types.ChannelID) (*model.Case, error) {
	iter := r.casesCollection(guildID).Where("channel_id", "==", string(channelID)).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query case by channel", goerr.V("channel_id", channelID))
	}

	var c model.Case
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, guildID types.GuildID) ([]*model.Case, error) {
	iter := r.casesCollection(guildID).Documents(ctx)
	defer iter.Stop()

	var cases []*model.Case
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var c model.Case
		if err := docSnap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}

		cases = append(cases, &c)
	}

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, guildID types.GuildID, c *model.Case) (*model.Case, error) {
	docID := fmt.Sprintf("%d", c.ID)
	docRef := r.casesCollection(guildID).Doc(docID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to check case existence", goerr.V("id", c.ID))
	}

	var existing model.Case
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", c.ID))
	}

	updated := *c
	updated.GuildID = guildID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return &updated, nil
}

// UpdateStatus performs the compare-and-set transition inside a transaction.
// The status re-read and the write commit together, which closes the race
// window between two concurrent close triggers.
func (r *caseRepository) UpdateStatus(ctx context.Context, guildID types.GuildID, id types.CaseID, from, to types.CaseStatus) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.casesCollection(guildID).Doc(docID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get case", goerr.V("id", id))
		}

		current, err := docSnap.DataAt("status")
		if err != nil {
			return goerr.Wrap(err, "failed to read case status", goerr.V("id", id))
		}

		stored, ok := current.(string)
		if !ok || types.CaseStatus(stored) != from {
			return goerr.Wrap(ErrStatusConflict, "status changed since read",
				goerr.V("id", id),
				goerr.V("expected", from),
				goerr.V("actual", current))
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return err
	}

	return nil
}

func (r *caseRepository) Delete(ctx context.Context, guildID types.GuildID, id types.CaseID) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.casesCollection(guildID).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check case existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("id", id))
	}

	return nil
}
