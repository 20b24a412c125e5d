package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"basegraph.app/rollcall/common/id"
	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/common/otel"
	"basegraph.app/rollcall/core/config"
	"basegraph.app/rollcall/internal/gateway"
	"basegraph.app/rollcall/internal/greeter"
	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/schedule"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeBot)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)
	slog.InfoContext(ctx, "rollcall bot starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer producer.Close()

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create discord session", "error", err)
		os.Exit(1)
	}
	session.Identify.Intents = intents

	if err := session.Open(); err != nil {
		slog.ErrorContext(ctx, "failed to open gateway", "error", err)
		os.Exit(1)
	}
	defer session.Close()
	slog.InfoContext(ctx, "gateway connected", "user", session.State.User.Username)

	var greet gateway.Greeter
	if cfg.Greeter.Enabled() {
		greet = greeter.New(session, greeter.Config{
			WelcomeChannelID: cfg.Greeter.WelcomeChannelID,
			GoodbyeChannelID: cfg.Greeter.GoodbyeChannelID,
			WelcomeRoleIDs:   cfg.Greeter.WelcomeRoleIDs,
		}, session.State.User.ID)
	}
	gateway.New(session, producer, greet).Register(session)

	var scheduler *schedule.Scheduler
	if cfg.Schedule.Enabled() {
		scheduler, err = schedule.New(producer, schedule.Config{
			RoleReportCron: cfg.Schedule.RoleReportCron,
			GuildID:        cfg.Schedule.RoleReportGuildID,
			ChannelID:      cfg.Schedule.RoleReportChannelID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to set up schedule", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

const banner = `
█▀█ █▀█ █   █   █▀▀ ▄▀█ █   █      █▄▄ █▀█ ▀█▀
█▀▄ █▄█ █▄▄ █▄▄ █▄▄ █▀█ █▄▄ █▄▄    █▄█ █▄█  █
`
