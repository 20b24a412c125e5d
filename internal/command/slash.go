package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/queue"
)

// Slash command and option names.
const (
	SlashRoleOverview = "rollen"
	SlashReactCheck   = "reactcheck"
	OptionMessage     = "nachricht"
	OptionRole        = "rolle"
)

// SlashCommands are the application commands the bot registers.
func SlashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        SlashRoleOverview,
			Description: "Rollenübersicht aller Mitglieder",
		},
		{
			Name:        SlashReactCheck,
			Description: "Wer hat auf eine Abstimmung mit ✅ oder ❌ reagiert?",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionMessage,
					Description: "Link oder ID der Nachricht",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionRole,
					Description: "Nur Mitglieder mit dieser Rolle prüfen",
				},
			},
		},
	}
}

// FromSlash maps application command data to an Invocation. ok is false for
// commands the bot does not know.
func FromSlash(data discordgo.ApplicationCommandInteractionData) (inv Invocation, ok bool, err error) {
	switch data.Name {
	case SlashRoleOverview:
		return Invocation{TaskType: queue.TaskTypeRoleOverview}, true, nil
	case SlashReactCheck:
		inv = Invocation{TaskType: queue.TaskTypeReactionCheck}
		for _, opt := range data.Options {
			if opt.Type != discordgo.ApplicationCommandOptionString {
				continue
			}
			switch opt.Name {
			case OptionMessage:
				inv.MessageArg = strings.TrimSpace(opt.StringValue())
			case OptionRole:
				inv.RoleName = strings.TrimSpace(opt.StringValue())
			}
		}
		if inv.MessageArg == "" {
			return Invocation{}, true, ErrUsage
		}
		return inv, true, nil
	default:
		return Invocation{}, false, nil
	}
}
