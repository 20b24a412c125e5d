package handler

import (
	"crypto/ed25519"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/queue"
)

const (
	replyGuildOnly   = "Dieser Befehl funktioniert nur auf einem Server."
	replyUnavailable = "Der Befehl konnte gerade nicht angenommen werden. Bitte versuche es später erneut."
)

// InteractionHandler receives Discord's interaction webhooks. Commands are
// acknowledged with a deferred response and answered by a worker through the
// followup webhook.
type InteractionHandler struct {
	publicKey   ed25519.PublicKey
	producer    queue.Producer
	traceHeader string
}

func NewInteractionHandler(publicKey ed25519.PublicKey, producer queue.Producer, traceHeader string) *InteractionHandler {
	return &InteractionHandler{
		publicKey:   publicKey,
		producer:    producer,
		traceHeader: traceHeader,
	}
}

func (h *InteractionHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	if !discordgo.VerifyInteraction(c.Request, h.publicKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request signature"})
		return
	}

	var interaction discordgo.Interaction
	if err := c.ShouldBindJSON(&interaction); err != nil {
		slog.WarnContext(ctx, "invalid interaction payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	switch interaction.Type {
	case discordgo.InteractionPing:
		c.JSON(http.StatusOK, discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
	case discordgo.InteractionApplicationCommand:
		h.applicationCommand(c, &interaction)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported interaction type"})
	}
}

func (h *InteractionHandler) applicationCommand(c *gin.Context, interaction *discordgo.Interaction) {
	data := interaction.ApplicationCommandData()
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		GuildID:      logger.Ptr(interaction.GuildID),
		ChannelID:    logger.Ptr(interaction.ChannelID),
		InvocationID: logger.Ptr(interaction.ID),
		Command:      logger.Ptr(data.Name),
		Component:    "rollcall.http.interactions",
	})

	inv, ok, err := command.FromSlash(data)
	if !ok {
		slog.WarnContext(ctx, "unknown application command")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command"})
		return
	}
	if errors.Is(err, command.ErrUsage) {
		c.JSON(http.StatusOK, ephemeral(command.UsageReactCheck))
		return
	}
	if interaction.GuildID == "" {
		c.JSON(http.StatusOK, ephemeral(replyGuildOnly))
		return
	}

	task := inv.Task(interaction.ID, interaction.GuildID, interaction.ChannelID)
	task.RequestedBy = requester(interaction)
	task.InteractionAppID = interaction.AppID
	task.InteractionToken = interaction.Token
	task.TraceID = h.traceID(c)

	if err := h.producer.Enqueue(ctx, task); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue interaction", "error", err)
		c.JSON(http.StatusOK, ephemeral(replyUnavailable))
		return
	}

	c.JSON(http.StatusOK, discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (h *InteractionHandler) traceID(c *gin.Context) string {
	if h.traceHeader != "" {
		if id := c.GetHeader(h.traceHeader); id != "" {
			return id
		}
	}
	if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

func requester(interaction *discordgo.Interaction) string {
	switch {
	case interaction.Member != nil && interaction.Member.User != nil:
		return interaction.Member.User.ID
	case interaction.User != nil:
		return interaction.User.ID
	default:
		return ""
	}
}

func ephemeral(content string) discordgo.InteractionResponse {
	return discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
