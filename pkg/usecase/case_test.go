package usecase_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestOpenCase(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a ticket with both controls", func(t *testing.T) {
		env := newCloseTestEnv(t, true)

		c, err := env.uc.OpenCase(ctx, closeTestGuild, &usecase.OpenCaseInput{
			CreatedBy: "U1",
			TypeID:    "bug_report",
			Kind:      types.CaseKindTicket,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, c.Status).Equal(types.CaseStatusOpened)
		gt.Value(t, c.ChannelID).NotEqual(types.ChannelID(""))
		gt.Value(t, c.MessageID).NotEqual(types.MessageID(""))

		// Welcome message posted to the new channel with close + admin_only
		posts := env.svc.posts[c.ChannelID]
		gt.Array(t, posts).Length(1).Required()
		row := gt.Cast[discordgo.ActionsRow](t, posts[0].Components[0])
		gt.Array(t, row.Components).Length(2)
	})

	t.Run("application gets close control only", func(t *testing.T) {
		env := newCloseTestEnv(t, true)

		c, err := env.uc.OpenCase(ctx, closeTestGuild, &usecase.OpenCaseInput{
			CreatedBy: "U2",
			TypeID:    "staff_application",
			Kind:      types.CaseKindApplication,
		})
		gt.NoError(t, err).Required()

		posts := env.svc.posts[c.ChannelID]
		gt.Array(t, posts).Length(1).Required()
		row := gt.Cast[discordgo.ActionsRow](t, posts[0].Components[0])
		gt.Array(t, row.Components).Length(1)
	})

	t.Run("channel creation failure rolls the case back", func(t *testing.T) {
		env := newCloseTestEnv(t, true)
		env.svc.failCreateChannel = true

		_, err := env.uc.OpenCase(ctx, closeTestGuild, &usecase.OpenCaseInput{
			CreatedBy: "U1",
			TypeID:    "bug_report",
			Kind:      types.CaseKindTicket,
		})
		gt.Value(t, err).NotNil()

		cases, err := env.repo.Case().List(ctx, closeTestGuild)
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(0)
	})

	t.Run("welcome message failure rolls channel and case back", func(t *testing.T) {
		env := newCloseTestEnv(t, true)
		env.svc.failPostTo["C1"] = true

		_, err := env.uc.OpenCase(ctx, closeTestGuild, &usecase.OpenCaseInput{
			CreatedBy: "U1",
			TypeID:    "bug_report",
			Kind:      types.CaseKindTicket,
		})
		gt.Value(t, err).NotNil()

		gt.Array(t, env.svc.deletedChannels()).Equal([]types.ChannelID{"C1"})
		cases, err := env.repo.Case().List(ctx, closeTestGuild)
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(0)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		env := newCloseTestEnv(t, true)

		_, err := env.uc.OpenCase(ctx, closeTestGuild, &usecase.OpenCaseInput{
			CreatedBy: "U1",
			TypeID:    "bug_report",
			Kind:      "thread",
		})
		gt.Value(t, err).NotNil()
	})
}

func TestRequestAdminOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("creator escalates an opened ticket", func(t *testing.T) {
		env := newCloseTestEnv(t, true)
		c := env.openedCase(t, "C1", "U1", "bug_report")

		gt.NoError(t, env.uc.RequestAdminOnly(ctx, closeTestGuild, c.ID, "U1")).Required()

		gt.Value(t, env.caseStatus(t, c.ID)).Equal(types.CaseStatusAdminOnly)
		gt.Array(t, env.svc.deniedRoles["C1"]).Length(1)
		gt.Value(t, env.svc.deniedRoles["C1"][0]).Equal(types.RoleID("R1"))

		// Welcome message trimmed to the close control
		row := gt.Cast[discordgo.ActionsRow](t, env.svc.components["Mwelcome"][0])
		gt.Array(t, row.Components).Length(1)
	})

	t.Run("non-creator rejected", func(t *testing.T) {
		env := newCloseTestEnv(t, true)
		c := env.openedCase(t, "C1", "U1", "bug_report")

		err := env.uc.RequestAdminOnly(ctx, closeTestGuild, c.ID, "U2")
		gt.Error(t, err).Is(usecase.ErrNotCreator)
		gt.Value(t, env.caseStatus(t, c.ID)).Equal(types.CaseStatusOpened)
	})

	t.Run("applications cannot be escalated", func(t *testing.T) {
		env := newCloseTestEnv(t, true)

		c, err := env.repo.Case().Create(ctx, closeTestGuild, &model.Case{
			ChannelID: "C1",
			MessageID: "Mwelcome",
			CreatedBy: "U1",
			TypeID:    "staff_application",
			Kind:      types.CaseKindApplication,
			Status:    types.CaseStatusOpened,
		})
		gt.NoError(t, err).Required()

		err = env.uc.RequestAdminOnly(ctx, closeTestGuild, c.ID, "U1")
		gt.Error(t, err).Is(usecase.ErrKindMismatch)
	})

	t.Run("closed case cannot be escalated", func(t *testing.T) {
		env := newCloseTestEnv(t, true)
		c := env.openedCase(t, "C1", "U1", "bug_report")
		gt.NoError(t, env.uc.RequestClose(ctx, closeTestGuild, c.ID, "U1")).Required()

		err := env.uc.RequestAdminOnly(ctx, closeTestGuild, c.ID, "U1")
		gt.Error(t, err).Is(interfaces.ErrStatusConflict)
	})
}
