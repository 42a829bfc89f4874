package config

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	svc "github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Discord holds CLI flags for the Discord gateway connection
type Discord struct {
	botToken string
}

// Flags returns CLI flags for Discord configuration
func (x *Discord) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "discord-bot-token",
			Usage:       "Discord Bot Token",
			Category:    "Discord",
			Required:    true,
			Sources:     cli.EnvVars("TALOS_DISCORD_BOT_TOKEN"),
			Destination: &x.botToken,
		},
	}
}

// LogValue renders the configuration without leaking the token
func (x Discord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
	)
}

// Configure creates the gateway session and the API service wrapper. The
// session is not opened; the caller opens it after registering handlers.
func (x *Discord) Configure() (*discordgo.Session, svc.Service, error) {
	if x.botToken == "" {
		return nil, nil, goerr.New("discord-bot-token is required")
	}

	session, err := discordgo.New("Bot " + x.botToken)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	service, err := svc.New(session)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create discord service")
	}

	return session, service, nil
}
