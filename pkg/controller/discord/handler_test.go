package discord

import (
	"strings"
	"testing"

	"github.com/guildops-lab/talos/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestUserMessage(t *testing.T) {
	t.Run("lifecycle errors map to specific replies", func(t *testing.T) {
		gt.Bool(t, strings.Contains(userMessage(usecase.ErrAlreadyClosed), "already")).True()
		gt.Bool(t, strings.Contains(userMessage(usecase.ErrArchiveNotConfigured), "archive forum")).True()
		gt.Bool(t, strings.Contains(userMessage(usecase.ErrNotCreator), "creator")).True()
		gt.Bool(t, strings.Contains(userMessage(usecase.ErrCaseNotFound), "not bound")).True()
	})

	t.Run("wrapped errors still match", func(t *testing.T) {
		wrapped := goerr.Wrap(usecase.ErrAlreadyClosed, "close already in flight")
		gt.Bool(t, strings.Contains(userMessage(wrapped), "already")).True()
	})

	t.Run("unknown errors get a generic reply", func(t *testing.T) {
		msg := userMessage(goerr.New("boom"))
		gt.Bool(t, strings.Contains(msg, "boom")).False()
	})
}
