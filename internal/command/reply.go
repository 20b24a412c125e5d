package command

import (
	"errors"
	"fmt"

	"basegraph.app/rollcall/internal/discord"
	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/report"
)

const (
	ReplyCrossGuild      = "Der Link gehört zu einem anderen Server."
	ReplyChannelNotFound = "Channel nicht gefunden."
	ReplyMessageNotFound = "Nachricht nicht gefunden."
	ReplyMarkersMissing  = "Bitte benutze genau :white_check_mark: (Ja) und :x: (Nein)."
	ReplyRoleOverviewErr = "Fehler beim Erstellen der Rollenübersicht."
	ReplyReactCheckErr   = "Fehler bei !reactcheck. Prüfe Link/ID & Berechtigungen."
)

// ReplyFor is the message shown to the invoking user when task failed
// with err.
func ReplyFor(task queue.Task, err error) string {
	switch {
	case errors.Is(err, discord.ErrCrossGuildLink):
		return ReplyCrossGuild
	case errors.Is(err, discord.ErrChannelNotFound):
		return ReplyChannelNotFound
	case errors.Is(err, discord.ErrMessageNotFound), errors.Is(err, discord.ErrInvalidMessage):
		return ReplyMessageNotFound
	case errors.Is(err, report.ErrUnknownRole):
		return fmt.Sprintf("Rolle **%s** nicht gefunden.", task.RoleName)
	case errors.Is(err, report.ErrReactionMarkersMissing):
		return ReplyMarkersMissing
	case task.TaskType == queue.TaskTypeReactionCheck:
		return ReplyReactCheckErr
	default:
		return ReplyRoleOverviewErr
	}
}

// IsRejection reports whether err stems from the invocation's arguments
// rather than from Discord.
func IsRejection(err error) bool {
	return discord.IsUserError(err) ||
		errors.Is(err, report.ErrUnknownRole) ||
		errors.Is(err, report.ErrReactionMarkersMissing)
}
