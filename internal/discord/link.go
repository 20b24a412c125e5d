package discord

import (
	"fmt"
	"regexp"
	"strings"

	"basegraph.app/rollcall/common/id"
	"basegraph.app/rollcall/internal/model"
)

var messageLinkRe = regexp.MustCompile(`(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/(\d+)/(\d+)/(\d+)`)

// ParseMessageArg turns a message link or a bare message id into a reference
// inside guildID. A bare id is looked up in fallbackChannelID. Links to
// another guild fail with ErrCrossGuildLink before anything is fetched.
func ParseMessageArg(guildID, raw, fallbackChannelID string) (model.MessageRef, error) {
	raw = strings.TrimSpace(raw)

	if m := messageLinkRe.FindStringSubmatch(raw); m != nil {
		if m[1] != guildID {
			return model.MessageRef{}, fmt.Errorf("%w: link guild %s, current guild %s", ErrCrossGuildLink, m[1], guildID)
		}
		return validRef(model.MessageRef{GuildID: guildID, ChannelID: m[2], MessageID: m[3]})
	}

	// Clients wrap ids in <> to suppress embeds; accept that too.
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
	return validRef(model.MessageRef{GuildID: guildID, ChannelID: fallbackChannelID, MessageID: raw})
}

func validRef(ref model.MessageRef) (model.MessageRef, error) {
	if _, err := id.Parse(ref.ChannelID); err != nil {
		return model.MessageRef{}, fmt.Errorf("%w: channel: %w", ErrInvalidMessage, err)
	}
	if _, err := id.Parse(ref.MessageID); err != nil {
		return model.MessageRef{}, fmt.Errorf("%w: message: %w", ErrInvalidMessage, err)
	}
	return ref, nil
}
