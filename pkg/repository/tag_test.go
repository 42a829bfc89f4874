package repository_test

import (
	"context"
	"testing"

	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runTagRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get returns ErrNotFound before first use", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Tag().Get(ctx, testGuildID, "bug_report")
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Put then Get roundtrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Tag().Put(ctx, &model.ForumTag{
			GuildID: testGuildID,
			TypeID:  "bug_report",
			TagID:   "remote-tag-1",
			Name:    "Bug Report",
			Emoji:   "🐞",
		})).Required()

		tag, err := repo.Tag().Get(ctx, testGuildID, "bug_report")
		gt.NoError(t, err).Required()
		gt.Value(t, tag.TagID).Equal(types.TagID("remote-tag-1"))
		gt.Value(t, tag.Name).Equal("Bug Report")
		gt.Bool(t, tag.CreatedAt.IsZero()).False()
	})

	t.Run("registry is guild-scoped", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Tag().Put(ctx, &model.ForumTag{
			GuildID: "guild-a",
			TypeID:  "bug_report",
			TagID:   "remote-tag-a",
		})).Required()

		_, err := repo.Tag().Get(ctx, "guild-b", "bug_report")
		gt.Value(t, err).NotNil()
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestMemoryTagRepository(t *testing.T) {
	runTagRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreTagRepository(t *testing.T) {
	runTagRepositoryTest(t, newFirestoreRepo)
}
