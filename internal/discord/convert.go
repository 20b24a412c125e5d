package discord

import (
	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/model"
)

func toRole(r *discordgo.Role) model.Role {
	return model.Role{
		ID:       r.ID,
		Name:     r.Name,
		Position: r.Position,
		Color:    r.Color,
	}
}

func toMember(m *discordgo.Member) model.Member {
	return model.Member{
		ID:          m.User.ID,
		DisplayName: DisplayName(m),
		RoleIDs:     append([]string(nil), m.Roles...),
		Bot:         m.User.Bot,
	}
}

// DisplayName is what the guild shows for m: the nickname, then the global
// display name, then the username.
func DisplayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// Tag is the user's handle, with the legacy discriminator when there is one.
func Tag(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func toMessage(ref model.MessageRef, msg *discordgo.Message) *model.Message {
	out := &model.Message{Ref: ref}
	for _, r := range msg.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		out.Reactions = append(out.Reactions, model.Reaction{
			Emoji: r.Emoji.APIName(),
			Name:  r.Emoji.Name,
		})
	}
	return out
}
