package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/guildops-lab/talos/pkg/cli/config"
	discordctrl "github.com/guildops-lab/talos/pkg/controller/discord"
	"github.com/guildops-lab/talos/pkg/usecase"
	"github.com/guildops-lab/talos/pkg/utils/logging"
)

func cmdServe(version string) *cli.Command {
	var repoCfg config.Repository
	var discordCfg config.Discord
	var archiveCfg config.Archive
	var sentryCfg config.Sentry

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, discordCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Connect to the Discord gateway and serve case lifecycle events",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			catalog, err := archiveCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load case catalog")
			}

			session, discordSvc, err := discordCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure discord")
			}
			logging.Default().Info("Discord session configured", "discord", discordCfg)

			uc := usecase.New(repo, discordSvc,
				usecase.WithTempDir(archiveCfg.TempDir()),
				usecase.WithTypeCatalog(catalog),
			)

			// Handlers must be registered before the gateway connection opens
			handler := discordctrl.New(uc)
			handler.Register(session)

			if err := session.Open(); err != nil {
				return goerr.Wrap(err, "failed to open discord gateway connection")
			}
			defer func() {
				if err := session.Close(); err != nil {
					logging.Default().Error("failed to close discord session", "error", err.Error())
				}
			}()

			logging.Default().Info("Gateway connected, serving case lifecycle events")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			return nil
		},
	}
}
