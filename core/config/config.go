package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"basegraph.app/rollcall/core/db"
)

type Config struct {
	OTel        OTelConfig
	Discord     DiscordConfig
	Greeter     GreeterConfig
	Report      ReportConfig
	Schedule    ScheduleConfig
	Pipeline    PipelineConfig
	Env         string
	Port        string
	AdminAPIKey string // guards the command run API of the server
	DB          db.Config
}

type DiscordConfig struct {
	Token     string
	AppID     string
	PublicKey string // hex encoded Ed25519 key for interaction signatures
	GuildID   string // optional: register slash commands for one guild only
}

type GreeterConfig struct {
	WelcomeChannelID string
	GoodbyeChannelID string
	WelcomeRoleIDs   []string
}

type ReportConfig struct {
	CollationLocale string
	RenderMode      string // "embed" or "plain"
}

type ScheduleConfig struct {
	RoleReportCron      string
	RoleReportGuildID   string
	RoleReportChannelID string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type PipelineConfig struct {
	RedisURL        string
	RedisStream     string
	RedisGroup      string
	RedisDLQStream  string
	RedisConsumer   string
	TraceHeaderName string
}

type ServiceType string

const (
	ServiceTypeBot      ServiceType = "bot"
	ServiceTypeServer   ServiceType = "server"
	ServiceTypeWorker   ServiceType = "worker"
	ServiceTypeRegister ServiceType = "register"
)

const (
	RenderModeEmbed = "embed"
	RenderModePlain = "plain"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files
// (.env.bot, .env.server, .env.worker, .env.register) and
// falls back to .env if the service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("ROLLCALL_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:         getEnv("ROLLCALL_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 5),
			MinConns: getEnvInt32("DB_MIN_CONNS", 1),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "rollcall-"+string(serviceType)),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Discord: DiscordConfig{
			Token:     strings.TrimSpace(getEnv("DISCORD_TOKEN", "")),
			AppID:     strings.TrimSpace(getEnv("DISCORD_APP_ID", getEnv("CLIENT_ID", ""))),
			PublicKey: strings.TrimSpace(getEnv("DISCORD_PUBLIC_KEY", "")),
			GuildID:   strings.TrimSpace(getEnv("GUILD_ID", "")),
		},
		Greeter: GreeterConfig{
			WelcomeChannelID: strings.TrimSpace(getEnv("WELCOME_CHANNEL_ID", "")),
			GoodbyeChannelID: strings.TrimSpace(getEnv("GOODBYE_CHANNEL_ID", "")),
			WelcomeRoleIDs:   getEnvList("WELCOME_ROLE_IDS"),
		},
		Report: ReportConfig{
			CollationLocale: getEnv("COLLATION_LOCALE", "de"),
			RenderMode:      getEnv("RENDER_MODE", RenderModeEmbed),
		},
		Schedule: ScheduleConfig{
			RoleReportCron:      getEnv("ROLE_REPORT_CRON", ""),
			RoleReportGuildID:   strings.TrimSpace(getEnv("ROLE_REPORT_GUILD_ID", getEnv("GUILD_ID", ""))),
			RoleReportChannelID: strings.TrimSpace(getEnv("ROLE_REPORT_CHANNEL_ID", "")),
		},
		Pipeline: PipelineConfig{
			RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisStream:     getEnv("REDIS_STREAM", "rollcall_tasks"),
			RedisGroup:      getEnv("REDIS_CONSUMER_GROUP", "rollcall_group"),
			RedisDLQStream:  getEnv("REDIS_DLQ_STREAM", "rollcall_tasks_dlq"),
			RedisConsumer:   getEnv("REDIS_CONSUMER_NAME", "rollcall-"+string(serviceType)),
			TraceHeaderName: getEnv("TRACE_HEADER_NAME", "X-Trace-Id"),
		},
	}

	if cfg.Discord.Token == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN is required")
	}

	switch serviceType {
	case ServiceTypeServer:
		if cfg.Discord.PublicKey == "" {
			return Config{}, fmt.Errorf("DISCORD_PUBLIC_KEY is required")
		}
	case ServiceTypeRegister:
		if cfg.Discord.AppID == "" {
			return Config{}, fmt.Errorf("DISCORD_APP_ID is required")
		}
	}

	if cfg.Report.RenderMode != RenderModeEmbed && cfg.Report.RenderMode != RenderModePlain {
		return Config{}, fmt.Errorf("RENDER_MODE must be %q or %q", RenderModeEmbed, RenderModePlain)
	}

	if cfg.Schedule.Enabled() && (cfg.Schedule.RoleReportGuildID == "" || cfg.Schedule.RoleReportChannelID == "") {
		return Config{}, fmt.Errorf("ROLE_REPORT_CRON requires ROLE_REPORT_CHANNEL_ID and GUILD_ID")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c ScheduleConfig) Enabled() bool {
	return c.RoleReportCron != ""
}

func (c GreeterConfig) Enabled() bool {
	return c.WelcomeChannelID != "" || c.GoodbyeChannelID != "" || len(c.WelcomeRoleIDs) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
