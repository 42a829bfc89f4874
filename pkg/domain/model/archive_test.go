package model_test

import (
	"testing"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestArchiveRecordMergeTags(t *testing.T) {
	t.Run("union preserves order and drops duplicates", func(t *testing.T) {
		rec := &model.ArchiveRecord{
			TagIDs: []types.TagID{"t1", "t2"},
		}
		merged := rec.MergeTags("t2", "t3")
		gt.Array(t, merged).Equal([]types.TagID{"t1", "t2", "t3"})
	})

	t.Run("re-applying present tag is a no-op", func(t *testing.T) {
		rec := &model.ArchiveRecord{
			TagIDs: []types.TagID{"t1"},
		}
		merged := rec.MergeTags("t1")
		gt.Array(t, merged).Equal([]types.TagID{"t1"})
	})

	t.Run("merge into empty set", func(t *testing.T) {
		rec := &model.ArchiveRecord{}
		merged := rec.MergeTags("t1")
		gt.Array(t, merged).Equal([]types.TagID{"t1"})
	})

	t.Run("duplicates in stored tags are collapsed", func(t *testing.T) {
		rec := &model.ArchiveRecord{
			TagIDs: []types.TagID{"t1", "t1", "t2"},
		}
		merged := rec.MergeTags()
		gt.Array(t, merged).Equal([]types.TagID{"t1", "t2"})
	})
}

func TestLookupBuiltinType(t *testing.T) {
	td, ok := model.LookupBuiltinType("bug_report")
	gt.Bool(t, ok).True()
	gt.Value(t, td.Name).Equal("Bug Report")

	_, ok = model.LookupBuiltinType("no_such_type")
	gt.Bool(t, ok).False()
}

func TestGuildConfig(t *testing.T) {
	t.Run("archive configured", func(t *testing.T) {
		cfg := &model.GuildConfig{GuildID: "G1", ArchiveForumID: "F1"}
		gt.Bool(t, cfg.ArchiveConfigured()).True()
	})

	t.Run("missing forum disables archival", func(t *testing.T) {
		cfg := &model.GuildConfig{GuildID: "G1"}
		gt.Bool(t, cfg.ArchiveConfigured()).False()
		var nilCfg *model.GuildConfig
		gt.Bool(t, nilCfg.ArchiveConfigured()).False()
	})

	t.Run("custom type lookup", func(t *testing.T) {
		cfg := &model.GuildConfig{
			GuildID: "G1",
			CustomTypes: []model.TypeDescriptor{
				{ID: "event_signup", Name: "Event Signup", Emoji: "🎟️"},
			},
		}
		td, ok := cfg.LookupCustomType("event_signup")
		gt.Bool(t, ok).True()
		gt.Value(t, td.Name).Equal("Event Signup")

		_, ok = cfg.LookupCustomType("bug_report")
		gt.Bool(t, ok).False()
	})
}
