package types_test

import (
	"testing"

	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestCaseStatusIsValid(t *testing.T) {
	for _, s := range types.AllCaseStatuses() {
		gt.Bool(t, s.IsValid()).True()
	}
	gt.Bool(t, types.CaseStatus("open").IsValid()).False()
	gt.Bool(t, types.CaseStatus("").IsValid()).False()
}

func TestCaseStatusTransitions(t *testing.T) {
	t.Run("legal forward path", func(t *testing.T) {
		gt.Bool(t, types.CaseStatusCreated.CanTransition(types.CaseStatusOpened)).True()
		gt.Bool(t, types.CaseStatusOpened.CanTransition(types.CaseStatusAdminOnly)).True()
		gt.Bool(t, types.CaseStatusOpened.CanTransition(types.CaseStatusClosing)).True()
		gt.Bool(t, types.CaseStatusAdminOnly.CanTransition(types.CaseStatusClosing)).True()
		gt.Bool(t, types.CaseStatusClosing.CanTransition(types.CaseStatusClosed)).True()
	})

	t.Run("rollback edges from closing", func(t *testing.T) {
		gt.Bool(t, types.CaseStatusClosing.CanTransition(types.CaseStatusOpened)).True()
		gt.Bool(t, types.CaseStatusClosing.CanTransition(types.CaseStatusAdminOnly)).True()
		gt.Bool(t, types.CaseStatusClosing.CanTransition(types.CaseStatusCreated)).True()
	})

	t.Run("closed is terminal", func(t *testing.T) {
		for _, next := range types.AllCaseStatuses() {
			gt.Bool(t, types.CaseStatusClosed.CanTransition(next)).False()
		}
		gt.Bool(t, types.CaseStatusClosed.IsTerminal()).True()
	})

	t.Run("illegal transitions", func(t *testing.T) {
		gt.Bool(t, types.CaseStatusCreated.CanTransition(types.CaseStatusAdminOnly)).False()
		gt.Bool(t, types.CaseStatusOpened.CanTransition(types.CaseStatusClosed)).False()
		gt.Bool(t, types.CaseStatusAdminOnly.CanTransition(types.CaseStatusOpened)).False()
	})
}

func TestCaseStatusCanClose(t *testing.T) {
	gt.Bool(t, types.CaseStatusCreated.CanClose()).True()
	gt.Bool(t, types.CaseStatusOpened.CanClose()).True()
	gt.Bool(t, types.CaseStatusAdminOnly.CanClose()).True()
	gt.Bool(t, types.CaseStatusClosing.CanClose()).False()
	gt.Bool(t, types.CaseStatusClosed.CanClose()).False()
}

func TestParseCaseStatus(t *testing.T) {
	status, err := types.ParseCaseStatus("opened")
	gt.NoError(t, err).Required()
	gt.Value(t, status).Equal(types.CaseStatusOpened)

	_, err = types.ParseCaseStatus("unknown")
	gt.Value(t, err).NotNil()
}

func TestCaseKind(t *testing.T) {
	gt.Bool(t, types.CaseKindTicket.SupportsAdminOnly()).True()
	gt.Bool(t, types.CaseKindApplication.SupportsAdminOnly()).False()

	kind, err := types.ParseCaseKind("application")
	gt.NoError(t, err).Required()
	gt.Value(t, kind).Equal(types.CaseKindApplication)

	_, err = types.ParseCaseKind("thread")
	gt.Value(t, err).NotNil()
}
