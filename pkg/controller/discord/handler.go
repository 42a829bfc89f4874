package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/usecase"
	"github.com/guildops-lab/talos/pkg/utils/async"
	"github.com/guildops-lab/talos/pkg/utils/errutil"
	"github.com/guildops-lab/talos/pkg/utils/logging"
)

// Handler routes gateway component interactions to the case lifecycle. The
// interaction is acknowledged immediately; the actual work runs async because
// the archival pipeline can far outlast the interaction deadline.
type Handler struct {
	uc *usecase.UseCases
}

// New creates an interaction handler
func New(uc *usecase.UseCases) *Handler {
	return &Handler{uc: uc}
}

// Register attaches the handler to the session
func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.handleInteraction)
}

func (h *Handler) handleInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := ic.MessageComponentData().CustomID
	if customID != usecase.ComponentIDClose && customID != usecase.ComponentIDAdminOnly {
		return
	}
	if ic.GuildID == "" || ic.Member == nil || ic.Member.User == nil {
		return
	}

	ctx := logging.With(context.Background(), logging.Default())

	// Ack within the interaction deadline, then work in the background
	if err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		_ = errutil.Handle(ctx, err, "failed to acknowledge interaction")
		return
	}

	guildID := types.GuildID(ic.GuildID)
	channelID := types.ChannelID(ic.ChannelID)
	requesterID := types.UserID(ic.Member.User.ID)

	async.Dispatch(ctx, func(ctx context.Context) error {
		c, err := h.uc.GetCaseByChannel(ctx, guildID, channelID)
		if err != nil {
			h.followUp(s, ic, userMessage(err))
			return err
		}

		switch customID {
		case usecase.ComponentIDClose:
			err = h.runClose(ctx, s, ic, c, requesterID)
		case usecase.ComponentIDAdminOnly:
			err = h.uc.RequestAdminOnly(ctx, guildID, c.ID, requesterID)
			if err != nil {
				h.followUp(s, ic, userMessage(err))
			}
		}
		return err
	})
}

// runClose wraps the close pipeline in a confirmation session. The session
// token bounds result delivery, not the pipeline itself: when it expires the
// close still completes, only the follow-up is dropped.
func (h *Handler) runClose(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, c *model.Case, requesterID types.UserID) error {
	session := model.NewCloseSession(ctx, c.GuildID, c.ID, requesterID, 0)
	defer session.Cancel()

	err := h.uc.RequestClose(ctx, c.GuildID, c.ID, requesterID)
	if err == nil {
		return nil
	}

	if session.Expired() {
		logging.From(ctx).Warn("close result undeliverable, session expired",
			"guild_id", c.GuildID, "case_id", c.ID, "session_id", session.ID)
		return err
	}

	h.followUp(s, ic, userMessage(err))
	return err
}

func (h *Handler) followUp(s *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		logging.Default().Warn("failed to send interaction follow-up", "error", err)
	}
}

// userMessage maps lifecycle errors to the ephemeral reply shown to the
// requester. Internal details stay in the logs.
func userMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrAlreadyClosed):
		return "This case is already being closed."
	case errors.Is(err, usecase.ErrArchiveNotConfigured):
		return "No archive forum is configured for this server. Ask an administrator to set one up."
	case errors.Is(err, usecase.ErrNotCreator):
		return "Only the case creator can do that."
	case errors.Is(err, usecase.ErrKindMismatch):
		return "That action is not available for this kind of case."
	case errors.Is(err, usecase.ErrCaseNotFound):
		return "This channel is not bound to a case."
	default:
		return "Something went wrong. Staff have been notified."
	}
}
