package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/report"
)

// Directory reads guild state from Discord. Every call hits the API; nothing
// is cached between invocations.
type Directory struct {
	api API
}

func NewDirectory(api API) *Directory {
	return &Directory{api: api}
}

// Snapshot fetches all roles and all members of guildID. Any failure while
// paging through members discards what was fetched so far.
func (d *Directory) Snapshot(ctx context.Context, guildID string) (*model.Snapshot, error) {
	roles, err := d.api.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing roles of guild %s: %w: %w", guildID, report.ErrSnapshotUnavailable, err)
	}

	snapshot := &model.Snapshot{
		GuildID: guildID,
		Roles:   make([]model.Role, 0, len(roles)),
	}
	for _, r := range roles {
		snapshot.Roles = append(snapshot.Roles, toRole(r))
	}

	after := ""
	for {
		batch, err := d.api.GuildMembers(guildID, after, MembersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing members of guild %s after %q: %w: %w", guildID, after, report.ErrSnapshotUnavailable, err)
		}
		for _, m := range batch {
			if m.User == nil {
				continue
			}
			snapshot.Members = append(snapshot.Members, toMember(m))
			after = m.User.ID
		}
		if len(batch) < MembersPageSize {
			break
		}
	}

	return snapshot, nil
}

// FetchReactionPage lists up to limit users who reacted with emoji, with ids
// greater than after.
func (d *Directory) FetchReactionPage(ctx context.Context, ref model.MessageRef, emoji string, after string, limit int) ([]model.User, error) {
	users, err := d.api.MessageReactions(ref.ChannelID, ref.MessageID, emoji, limit, "", after, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, model.User{ID: u.ID, Bot: u.Bot})
	}
	return out, nil
}

// ResolveMessage finds the poll message raw points at: a message link inside
// guildID or a bare id in fallbackChannelID.
func (d *Directory) ResolveMessage(ctx context.Context, guildID, raw, fallbackChannelID string) (*model.Message, error) {
	ref, err := ParseMessageArg(guildID, raw, fallbackChannelID)
	if err != nil {
		return nil, err
	}

	ch, err := d.api.Channel(ref.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err, discordgo.ErrCodeUnknownChannel) || IsForbidden(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrChannelNotFound, ref.ChannelID, err)
		}
		return nil, fmt.Errorf("fetching channel %s: %w: %w", ref.ChannelID, report.ErrSnapshotUnavailable, err)
	}
	if ch.GuildID != guildID || !isTextBased(ch.Type) {
		return nil, fmt.Errorf("%w: %s is not a text channel of this guild", ErrChannelNotFound, ref.ChannelID)
	}

	msg, err := d.api.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err, discordgo.ErrCodeUnknownMessage) || IsForbidden(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrMessageNotFound, ref.MessageID, err)
		}
		return nil, fmt.Errorf("fetching message %s: %w: %w", ref.MessageID, report.ErrSnapshotUnavailable, err)
	}

	return toMessage(ref, msg), nil
}

func isTextBased(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildStageVoice,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	}
	return false
}

// IsUserError reports whether err is caused by the invocation's arguments
// rather than by Discord.
func IsUserError(err error) bool {
	return errors.Is(err, ErrCrossGuildLink) ||
		errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}
