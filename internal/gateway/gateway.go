// Package gateway turns gateway events into queued tasks and greeter calls.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/rollcall/common/id"
	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/render"
)

const eventTimeout = 15 * time.Second

// API is the part of *discordgo.Session the gateway replies through.
type API interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Greeter interface {
	MemberJoined(ctx context.Context, guildID string, member *discordgo.Member) error
	MemberLeft(ctx context.Context, user *discordgo.User) error
}

type Gateway struct {
	api      API
	producer queue.Producer
	greeter  Greeter
}

// New returns a gateway. greeter may be nil when no greeting is configured.
func New(api API, producer queue.Producer, greeter Greeter) *Gateway {
	return &Gateway{api: api, producer: producer, greeter: greeter}
}

// Register adds the event handlers to s.
func (g *Gateway) Register(s *discordgo.Session) {
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		g.dispatch("message_create", func(ctx context.Context) error {
			return g.MessageCreate(ctx, m.Message)
		})
	})
	if g.greeter == nil {
		return
	}
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
		g.dispatch("member_add", func(ctx context.Context) error {
			return g.greeter.MemberJoined(ctx, m.GuildID, m.Member)
		})
	})
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
		g.dispatch("member_remove", func(ctx context.Context) error {
			if m.Member == nil {
				return nil
			}
			return g.greeter.MemberLeft(ctx, m.Member.User)
		})
	})
}

func (g *Gateway) dispatch(event string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "rollcall.gateway"})
	if err := fn(ctx); err != nil {
		slog.ErrorContext(ctx, "gateway event failed", "event", event, "error", err)
	}
}

// MessageCreate recognizes text commands in guild messages and queues them.
// Usage errors are answered directly. A role overview is acknowledged with a
// progress message before it is queued.
func (g *Gateway) MessageCreate(ctx context.Context, m *discordgo.Message) error {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return nil
	}

	inv, ok, err := command.Parse(m.Content)
	if !ok {
		return nil
	}

	invocationID := id.NewString()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GuildID:      logger.Ptr(m.GuildID),
		ChannelID:    logger.Ptr(m.ChannelID),
		InvocationID: logger.Ptr(invocationID),
		Command:      logger.Ptr(string(inv.TaskType)),
	})

	if errors.Is(err, command.ErrUsage) {
		return g.send(ctx, m.ChannelID, command.UsageReactCheck, m.Reference())
	}

	sc := logger.StartSpan(ctx, "gateway.text_command",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("invocation_id", invocationID),
			attribute.String("guild_id", m.GuildID),
			attribute.String("task_type", string(inv.TaskType)),
		))
	defer sc.End()
	ctx = sc.Context()

	if inv.TaskType == queue.TaskTypeRoleOverview {
		if err := g.send(ctx, m.ChannelID, render.ProgressRoleOverview, nil); err != nil {
			slog.WarnContext(ctx, "progress message failed", "error", err)
		}
	}

	task := inv.Task(invocationID, m.GuildID, m.ChannelID)
	task.ReplyTo = m.ID
	task.RequestedBy = m.Author.ID
	task.TraceID = sc.TraceID()

	if err := g.producer.Enqueue(ctx, task); err != nil {
		sc.RecordError(err)
		return fmt.Errorf("enqueue %s: %w", inv.TaskType, err)
	}
	return nil
}

// send posts content to channelID, as a reply when ref is set.
func (g *Gateway) send(ctx context.Context, channelID, content string, ref *discordgo.MessageReference) error {
	_, err := g.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         content,
		Reference:       ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}, discordgo.WithContext(ctx))
	return err
}
