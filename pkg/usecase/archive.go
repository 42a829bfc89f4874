package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/utils/logging"
	"github.com/guildops-lab/talos/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// archiveCase locates or creates the user's archive thread and posts the
// close artifacts to it. All of a user's cases in a guild share one thread;
// the composite-keyed record is the source of truth for its location.
func (uc *UseCases) archiveCase(ctx context.Context, cfg *model.GuildConfig, c *model.Case, transcriptArt *model.TranscriptArtifact, zipArt *model.ZipArtifact) error {
	td := uc.resolveType(cfg, c.TypeID)

	payload, cleanup, err := buildArchivePayload(td, c, transcriptArt, zipArt)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	var threadID types.ThreadID

	rec, err := uc.repo.Archive().Get(ctx, c.GuildID, c.CreatedBy)
	switch {
	case err == nil:
		threadID = rec.ThreadID
		if _, err := uc.discord.PostMessage(ctx, types.ChannelID(threadID), payload); err != nil {
			return goerr.Wrap(err, "failed to post artifacts to archive thread",
				goerr.V("guild_id", c.GuildID), goerr.V("thread_id", threadID))
		}

	case errors.Is(err, interfaces.ErrNotFound):
		threadID, err = uc.createArchiveThread(ctx, cfg, c, payload)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.repo.Archive().Put(ctx, &model.ArchiveRecord{
			GuildID:   c.GuildID,
			CreatedBy: c.CreatedBy,
			Kind:      c.Kind,
			ThreadID:  threadID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return goerr.Wrap(err, "failed to persist archive record",
				goerr.V("guild_id", c.GuildID), goerr.V("thread_id", threadID))
		}

	default:
		// A transient lookup failure must never fork a second thread
		return goerr.Wrap(err, "failed to look up archive record",
			goerr.V("guild_id", c.GuildID), goerr.V("created_by", c.CreatedBy))
	}

	uc.applyCaseTag(ctx, cfg, c, td, threadID)

	return nil
}

func (uc *UseCases) createArchiveThread(ctx context.Context, cfg *model.GuildConfig, c *model.Case, payload *discord.MessagePayload) (types.ThreadID, error) {
	var username string
	if u, err := uc.discord.User(ctx, c.CreatedBy); err == nil {
		username = u.Username
	} else {
		logging.From(ctx).Warn("failed to look up archive thread owner, thread name omits username",
			"guild_id", c.GuildID, "user_id", c.CreatedBy, "error", err)
	}

	name := discord.ArchiveThreadName(username, string(c.CreatedBy))
	threadID, err := uc.discord.CreateForumThread(ctx, cfg.ArchiveForumID, name, payload)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create archive thread",
			goerr.V("guild_id", c.GuildID), goerr.V("forum_id", cfg.ArchiveForumID))
	}

	return threadID, nil
}

// applyCaseTag maintains the tag taxonomy: one forum tag per case type,
// created on first use, unioned into the record and applied to the thread.
// Tagging is best effort; the archive itself already succeeded.
func (uc *UseCases) applyCaseTag(ctx context.Context, cfg *model.GuildConfig, c *model.Case, td model.TypeDescriptor, threadID types.ThreadID) {
	tagID, err := uc.ensureForumTag(ctx, cfg, c.GuildID, td)
	if err != nil {
		logging.From(ctx).Warn("failed to ensure forum tag, archive thread left untagged",
			"guild_id", c.GuildID, "type_id", td.ID, "error", err)
		return
	}

	merged, err := uc.repo.Archive().MergeTags(ctx, c.GuildID, c.CreatedBy, []types.TagID{tagID})
	if err != nil {
		logging.From(ctx).Warn("failed to merge archive tags",
			"guild_id", c.GuildID, "created_by", c.CreatedBy, "error", err)
		return
	}

	if err := uc.discord.ApplyThreadTags(ctx, threadID, merged); err != nil {
		logging.From(ctx).Warn("failed to apply thread tags",
			"guild_id", c.GuildID, "thread_id", threadID, "error", err)
	}
}

// ensureForumTag resolves the remote tag for a case type, creating it on the
// archive forum and persisting the mapping on first use. When the mapping is
// missing but the forum already carries a tag with the type's name, the tag
// is adopted instead of created so the taxonomy never grows duplicates.
func (uc *UseCases) ensureForumTag(ctx context.Context, cfg *model.GuildConfig, guildID types.GuildID, td model.TypeDescriptor) (types.TagID, error) {
	tag, err := uc.repo.Tag().Get(ctx, guildID, td.ID)
	if err == nil {
		return tag.TagID, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return "", goerr.Wrap(err, "failed to look up forum tag",
			goerr.V("guild_id", guildID), goerr.V("type_id", td.ID))
	}

	tagID, err := uc.resolveRemoteTag(ctx, cfg.ArchiveForumID, td.Name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list forum tags",
			goerr.V("guild_id", guildID), goerr.V("forum_id", cfg.ArchiveForumID))
	}
	if tagID == "" {
		tagID, err = uc.discord.CreateForumTag(ctx, cfg.ArchiveForumID, td.Name, td.Emoji)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create forum tag",
				goerr.V("guild_id", guildID), goerr.V("type_id", td.ID))
		}
	}

	if err := uc.repo.Tag().Put(ctx, &model.ForumTag{
		GuildID:   guildID,
		TypeID:    td.ID,
		TagID:     tagID,
		Name:      td.Name,
		Emoji:     td.Emoji,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to persist forum tag mapping",
			goerr.V("guild_id", guildID), goerr.V("type_id", td.ID))
	}

	return tagID, nil
}

// resolveRemoteTag finds an existing forum tag by name, returning "" on a miss.
func (uc *UseCases) resolveRemoteTag(ctx context.Context, forumID types.ChannelID, name string) (types.TagID, error) {
	tags, err := uc.discord.ForumTags(ctx, forumID)
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return "", nil
}

// buildArchivePayload opens the artifact files for upload. The returned
// cleanup closes them and must run after the upload attempt.
func buildArchivePayload(td model.TypeDescriptor, c *model.Case, transcriptArt *model.TranscriptArtifact, zipArt *model.ZipArtifact) (*discord.MessagePayload, func(context.Context), error) {
	var open []*os.File
	cleanup := func(ctx context.Context) {
		for _, f := range open {
			safe.Close(ctx, f)
		}
	}

	tf, err := os.Open(transcriptArt.Path)
	if err != nil {
		return nil, cleanup, goerr.Wrap(err, "failed to open transcript artifact", goerr.V("path", transcriptArt.Path))
	}
	open = append(open, tf)

	payload := &discord.MessagePayload{
		Content: fmt.Sprintf("%s **%s**: case %s closed (%d messages)",
			td.Emoji, td.Name, c.ID, transcriptArt.MessageCount),
		Files: []discord.File{{
			Name:        transcriptArt.Name,
			ContentType: "text/plain",
			Reader:      tf,
		}},
	}

	if zipArt != nil {
		zf, err := os.Open(zipArt.Path)
		if err != nil {
			return nil, cleanup, goerr.Wrap(err, "failed to open attachment bundle", goerr.V("path", zipArt.Path))
		}
		open = append(open, zf)
		payload.Files = append(payload.Files, discord.File{
			Name:        zipArt.Name,
			ContentType: "application/zip",
			Reader:      zf,
		})
	}

	return payload, cleanup, nil
}
