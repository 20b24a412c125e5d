package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/core/config"
	"basegraph.app/rollcall/internal/command"
)

// register overwrites the bot's slash commands. With GUILD_ID set they are
// registered for that guild only, which takes effect immediately.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeRegister)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create discord session", "error", err)
		os.Exit(1)
	}

	scope := "global"
	if cfg.Discord.GuildID != "" {
		scope = "guild " + cfg.Discord.GuildID
	}

	created, err := session.ApplicationCommandBulkOverwrite(cfg.Discord.AppID, cfg.Discord.GuildID, command.SlashCommands(), discordgo.WithContext(ctx))
	if err != nil {
		slog.ErrorContext(ctx, "failed to register commands", "scope", scope, "error", err)
		os.Exit(1)
	}

	for _, c := range created {
		slog.InfoContext(ctx, "registered command", "name", c.Name, "id", c.ID, "scope", scope)
	}
}
