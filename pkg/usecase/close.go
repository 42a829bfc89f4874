package usecase

import (
	"context"
	"errors"

	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/utils/errutil"
	"github.com/guildops-lab/talos/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// RequestClose runs the close-time pipeline for a case: transcript capture,
// attachment bundling, archival into the user's forum thread, tag taxonomy
// maintenance, and finally deletion of the origin channel.
//
// The transactional transition to closing is the only lock; a concurrent
// close observes the conflict and returns ErrAlreadyClosed. Pipeline failure
// rolls the status back so the case can be closed again later.
func (uc *UseCases) RequestClose(ctx context.Context, guildID types.GuildID, caseID types.CaseID, requesterID types.UserID) error {
	c, err := uc.getCase(ctx, guildID, caseID)
	if err != nil {
		return err
	}

	prev := c.Status
	if !prev.CanClose() {
		return goerr.Wrap(ErrAlreadyClosed, "case is not closable",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID), goerr.V("status", prev))
	}

	cfg, err := uc.guildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	if !cfg.ArchiveConfigured() {
		// Abort before any state change so the case survives untouched
		logging.From(ctx).Info("close aborted, no archive forum configured",
			"guild_id", guildID, "case_id", caseID)
		return goerr.Wrap(ErrArchiveNotConfigured, "cannot archive case",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
	}

	if err := uc.repo.Case().UpdateStatus(ctx, guildID, caseID, prev, types.CaseStatusClosing); err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return goerr.Wrap(ErrAlreadyClosed, "close already in flight",
				goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
		}
		return goerr.Wrap(err, "failed to start close",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
	}

	if err := uc.runClosePipeline(ctx, cfg, c); err != nil {
		if rbErr := uc.repo.Case().UpdateStatus(ctx, guildID, caseID, types.CaseStatusClosing, prev); rbErr != nil {
			_ = errutil.Handle(ctx, rbErr, "failed to roll back status after close pipeline failure")
		}
		return goerr.Wrap(err, "close pipeline failed",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID), goerr.V("requester", requesterID))
	}

	if err := uc.repo.Case().UpdateStatus(ctx, guildID, caseID, types.CaseStatusClosing, types.CaseStatusClosed); err != nil {
		return goerr.Wrap(err, "failed to finalize close",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
	}

	// The case is closed whatever happens to the origin channel; a failed
	// delete leaves a stale channel behind and needs operator attention.
	if err := uc.discord.DeleteChannel(ctx, c.ChannelID); err != nil {
		logging.From(ctx).Error("case closed but origin channel deletion failed",
			"guild_id", guildID, "case_id", caseID, "channel_id", c.ChannelID, "error", err)
		return nil
	}

	logging.From(ctx).Info("case closed",
		"guild_id", guildID, "case_id", caseID, "requester", requesterID)

	return nil
}

// runClosePipeline captures the artifacts and writes them to the archive.
// Temp artifacts are removed when the attempt finishes, success or not.
func (uc *UseCases) runClosePipeline(ctx context.Context, cfg *model.GuildConfig, c *model.Case) error {
	transcriptArt, history, err := uc.transcript.Capture(ctx, c.ChannelID)
	if err != nil {
		return goerr.Wrap(err, "failed to capture transcript", goerr.V("channel_id", c.ChannelID))
	}
	defer transcriptArt.Remove(ctx)

	zipArt, err := uc.bundler.Bundle(ctx, c.ChannelID, history)
	if err != nil {
		return goerr.Wrap(err, "failed to bundle attachments", goerr.V("channel_id", c.ChannelID))
	}
	if zipArt != nil {
		defer zipArt.Remove(ctx)
	}

	return uc.archiveCase(ctx, cfg, c, transcriptArt, zipArt)
}
