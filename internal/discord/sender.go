package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/render"
)

// Target says where replies of one invocation go. An interaction token
// routes them to the interaction's followup webhook instead of the channel.
type Target struct {
	GuildID          string
	ChannelID        string
	ReplyTo          string
	InteractionAppID string
	InteractionToken string
}

func (t Target) viaInteraction() bool {
	return t.InteractionToken != ""
}

// SendError reports a Send that stopped after Delivered of Total messages
// went out.
type SendError struct {
	Delivered int
	Total     int
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("sending message %d/%d: %v", e.Delivered+1, e.Total, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Delivered returns how many messages went out before err stopped a Send.
func Delivered(err error) int {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Delivered
	}
	return 0
}

// Sender delivers rendered messages in order.
type Sender struct {
	api API
}

func NewSender(api API) *Sender {
	return &Sender{api: api}
}

// noMentions keeps report content from pinging anyone.
var noMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}

// Send posts msgs one by one and stops at the first failure. Only the first
// message references ReplyTo. Permission failures wrap ErrForbidden.
func (s *Sender) Send(ctx context.Context, target Target, msgs []render.Message) error {
	for i, m := range msgs {
		var err error
		if target.viaInteraction() {
			err = s.followup(ctx, target, m)
		} else {
			err = s.post(ctx, target, m, i == 0)
		}
		if err != nil {
			if IsForbidden(err) {
				err = fmt.Errorf("%w: %w", ErrForbidden, err)
			}
			return &SendError{Delivered: i, Total: len(msgs), Err: err}
		}
	}

	slog.DebugContext(ctx, "replies sent", "count", len(msgs), "via_interaction", target.viaInteraction())
	return nil
}

func (s *Sender) post(ctx context.Context, target Target, m render.Message, first bool) error {
	data := &discordgo.MessageSend{
		Content:         m.Content,
		Embeds:          m.Embeds,
		AllowedMentions: noMentions,
	}
	if first && target.ReplyTo != "" {
		data.Reference = &discordgo.MessageReference{
			MessageID: target.ReplyTo,
			ChannelID: target.ChannelID,
			GuildID:   target.GuildID,
		}
	}
	_, err := s.api.ChannelMessageSendComplex(target.ChannelID, data, discordgo.WithContext(ctx))
	return err
}

func (s *Sender) followup(ctx context.Context, target Target, m render.Message) error {
	interaction := &discordgo.Interaction{
		AppID: target.InteractionAppID,
		Token: target.InteractionToken,
	}
	_, err := s.api.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{
		Content:         m.Content,
		Embeds:          m.Embeds,
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
	return err
}
