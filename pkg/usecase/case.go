package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/utils/errutil"
	"github.com/guildops-lab/talos/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Component custom IDs carried by the welcome message buttons. The controller
// resolves the case from the interaction's channel, so the IDs are static.
const (
	ComponentIDClose     = "case_close"
	ComponentIDAdminOnly = "case_admin_only"
)

// OpenCaseInput carries the parameters of a case opening request
type OpenCaseInput struct {
	CreatedBy types.UserID
	TypeID    types.TypeID
	Kind      types.CaseKind
}

// Validate checks the input for completeness
func (x *OpenCaseInput) Validate() error {
	if x.CreatedBy == "" {
		return goerr.New("created_by is required")
	}
	if x.TypeID == "" {
		return goerr.New("type_id is required")
	}
	if !x.Kind.IsValid() {
		return goerr.New("invalid case kind", goerr.V("kind", x.Kind))
	}
	return nil
}

// OpenCase creates a case, its backing channel and the welcome message, then
// transitions the case to opened. Failures before the case is usable roll the
// channel and the case row back so no orphan survives.
func (uc *UseCases) OpenCase(ctx context.Context, guildID types.GuildID, input *OpenCaseInput) (*model.Case, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid open case input", goerr.V("guild_id", guildID))
	}

	cfg, err := uc.guildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var username string
	if u, err := uc.discord.User(ctx, input.CreatedBy); err == nil {
		username = u.Username
	} else {
		logging.From(ctx).Warn("failed to look up case creator, channel name omits username",
			"guild_id", guildID, "user_id", input.CreatedBy, "error", err)
	}

	c, err := uc.repo.Case().Create(ctx, guildID, &model.Case{
		CreatedBy: input.CreatedBy,
		TypeID:    input.TypeID,
		Kind:      input.Kind,
		Status:    types.CaseStatusCreated,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("guild_id", guildID))
	}

	var categoryID types.ChannelID
	var staffRoleID types.RoleID
	if cfg != nil {
		categoryID = cfg.CategoryID
		staffRoleID = cfg.StaffRoleID
	}

	name := discord.CaseChannelName(string(input.TypeID), int64(c.ID), username)
	channelID, err := uc.discord.CreateCaseChannel(ctx, guildID, categoryID, name, input.CreatedBy, staffRoleID)
	if err != nil {
		if delErr := uc.repo.Case().Delete(ctx, guildID, c.ID); delErr != nil {
			_ = errutil.Handle(ctx, delErr, "failed to roll back case after channel creation failure")
		}
		return nil, goerr.Wrap(err, "failed to create case channel",
			goerr.V("guild_id", guildID), goerr.V("case_id", c.ID))
	}

	td := uc.resolveType(cfg, input.TypeID)
	msgID, err := uc.discord.PostMessage(ctx, channelID, &discord.MessagePayload{
		Content:    welcomeContent(td, c.ID, input.CreatedBy),
		Components: welcomeComponents(input.Kind),
	})
	if err != nil {
		if delErr := uc.discord.DeleteChannel(ctx, channelID); delErr != nil {
			_ = errutil.Handle(ctx, delErr, "failed to remove channel after welcome message failure")
		}
		if delErr := uc.repo.Case().Delete(ctx, guildID, c.ID); delErr != nil {
			_ = errutil.Handle(ctx, delErr, "failed to roll back case after welcome message failure")
		}
		return nil, goerr.Wrap(err, "failed to post welcome message",
			goerr.V("guild_id", guildID), goerr.V("case_id", c.ID), goerr.V("channel_id", channelID))
	}

	c.ChannelID = channelID
	c.MessageID = msgID
	if c, err = uc.repo.Case().Update(ctx, guildID, c); err != nil {
		return nil, goerr.Wrap(err, "failed to bind channel to case",
			goerr.V("guild_id", guildID), goerr.V("case_id", c.ID))
	}

	if err := uc.repo.Case().UpdateStatus(ctx, guildID, c.ID, types.CaseStatusCreated, types.CaseStatusOpened); err != nil {
		return nil, goerr.Wrap(err, "failed to open case",
			goerr.V("guild_id", guildID), goerr.V("case_id", c.ID))
	}
	c.Status = types.CaseStatusOpened

	logging.From(ctx).Info("case opened",
		"guild_id", guildID, "case_id", c.ID, "channel_id", channelID, "kind", c.Kind)

	return c, nil
}

// RequestAdminOnly revokes staff visibility of a ticket channel. Only the
// case creator may request it, and only while the case is opened.
func (uc *UseCases) RequestAdminOnly(ctx context.Context, guildID types.GuildID, caseID types.CaseID, requesterID types.UserID) error {
	c, err := uc.getCase(ctx, guildID, caseID)
	if err != nil {
		return err
	}

	if c.CreatedBy != requesterID {
		return goerr.Wrap(ErrNotCreator, "admin_only is creator-only",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID), goerr.V("requester", requesterID))
	}
	if !c.Kind.SupportsAdminOnly() {
		return goerr.Wrap(ErrKindMismatch, "admin_only is for tickets",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID), goerr.V("kind", c.Kind))
	}
	if !c.Status.CanTransition(types.CaseStatusAdminOnly) {
		return goerr.Wrap(interfaces.ErrStatusConflict, "case is not escalatable",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID), goerr.V("status", c.Status))
	}

	cfg, err := uc.guildConfig(ctx, guildID)
	if err != nil {
		return err
	}

	if cfg != nil && cfg.StaffRoleID != "" {
		if err := uc.discord.DenyRoleView(ctx, c.ChannelID, cfg.StaffRoleID); err != nil {
			return goerr.Wrap(err, "failed to revoke staff visibility",
				goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
		}
	}

	// Escalation is one-way; the welcome message keeps only the close control
	if err := uc.discord.EditMessageComponents(ctx, c.ChannelID, c.MessageID, closeOnlyComponents()); err != nil {
		logging.From(ctx).Warn("failed to trim welcome message controls",
			"guild_id", guildID, "case_id", caseID, "error", err)
	}

	if err := uc.repo.Case().UpdateStatus(ctx, guildID, caseID, c.Status, types.CaseStatusAdminOnly); err != nil {
		return goerr.Wrap(err, "failed to transition to admin_only",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
	}

	logging.From(ctx).Info("case escalated to admin_only",
		"guild_id", guildID, "case_id", caseID)

	return nil
}

// GetCaseByChannel resolves the case bound to a channel. Interaction events
// carry a channel ID, not a case ID; this is the controller's entry seam.
func (uc *UseCases) GetCaseByChannel(ctx context.Context, guildID types.GuildID, channelID types.ChannelID) (*model.Case, error) {
	c, err := uc.repo.Case().GetByChannelID(ctx, guildID, channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up case by channel",
			goerr.V("guild_id", guildID), goerr.V("channel_id", channelID))
	}
	if c == nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "channel is not bound to a case",
			goerr.V("guild_id", guildID), goerr.V("channel_id", channelID))
	}
	return c, nil
}

func (uc *UseCases) getCase(ctx context.Context, guildID types.GuildID, caseID types.CaseID) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, guildID, caseID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCaseNotFound, "no such case",
				goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
		}
		return nil, goerr.Wrap(err, "failed to get case",
			goerr.V("guild_id", guildID), goerr.V("case_id", caseID))
	}
	return c, nil
}

// guildConfig fetches the guild settings, mapping never-configured to nil.
func (uc *UseCases) guildConfig(ctx context.Context, guildID types.GuildID) (*model.GuildConfig, error) {
	cfg, err := uc.repo.GuildConfig().Get(ctx, guildID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get guild config", goerr.V("guild_id", guildID))
	}
	return cfg, nil
}

func welcomeContent(td model.TypeDescriptor, caseID types.CaseID, createdBy types.UserID) string {
	return fmt.Sprintf("%s **%s**: case %s opened by <@%s>.\nStaff will respond here. Use the buttons below to manage this case.",
		td.Emoji, td.Name, caseID, createdBy)
}

func welcomeComponents(kind types.CaseKind) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Close",
			Style:    discordgo.DangerButton,
			CustomID: ComponentIDClose,
		},
	}
	if kind.SupportsAdminOnly() {
		buttons = append(buttons, discordgo.Button{
			Label:    "Admins only",
			Style:    discordgo.SecondaryButton,
			CustomID: ComponentIDAdminOnly,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

func closeOnlyComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Close",
				Style:    discordgo.DangerButton,
				CustomID: ComponentIDClose,
			},
		}},
	}
}
