package queue

import (
	"errors"
	"fmt"
)

type TaskType string

const (
	TaskTypeRoleOverview  TaskType = "role_overview"
	TaskTypeReactionCheck TaskType = "reaction_check"
)

var ErrInvalidTask = errors.New("invalid task")

// Task is one command invocation handed from the gateway or the interaction
// endpoint to a worker. Replies go to ChannelID, or to the interaction
// followup webhook when InteractionToken is set.
type Task struct {
	TaskType     TaskType
	InvocationID string
	GuildID      string
	ChannelID    string
	ReplyTo      string // message id the reply references; empty for plain sends
	MessageArg   string // link or id of the poll message
	RoleName     string
	RequestedBy  string

	InteractionAppID string
	InteractionToken string

	TraceID string
	Attempt int
}

// ViaInteraction reports whether the reply is an interaction followup.
func (t Task) ViaInteraction() bool {
	return t.InteractionToken != ""
}

func (t Task) Validate() error {
	if t.InvocationID == "" {
		return fmt.Errorf("%w: missing invocation_id", ErrInvalidTask)
	}
	if t.GuildID == "" {
		return fmt.Errorf("%w: missing guild_id", ErrInvalidTask)
	}
	if t.ChannelID == "" && !t.ViaInteraction() {
		return fmt.Errorf("%w: missing channel_id", ErrInvalidTask)
	}
	if t.ViaInteraction() && t.InteractionAppID == "" {
		return fmt.Errorf("%w: missing interaction_app_id", ErrInvalidTask)
	}

	switch t.TaskType {
	case TaskTypeRoleOverview:
	case TaskTypeReactionCheck:
		if t.MessageArg == "" {
			return fmt.Errorf("%w: missing message_arg", ErrInvalidTask)
		}
	case "":
		return fmt.Errorf("%w: missing task_type", ErrInvalidTask)
	default:
		return fmt.Errorf("%w: unknown task_type %q", ErrInvalidTask, t.TaskType)
	}
	return nil
}

// taskValues flattens t into stream entry fields. Empty optional fields are
// left out.
func taskValues(t Task, attempt int) map[string]any {
	if attempt <= 0 {
		attempt = 1
	}
	values := map[string]any{
		"task_type":     string(t.TaskType),
		"invocation_id": t.InvocationID,
		"guild_id":      t.GuildID,
		"attempt":       attempt,
	}

	optional := map[string]string{
		"channel_id":         t.ChannelID,
		"reply_to":           t.ReplyTo,
		"message_arg":        t.MessageArg,
		"role_name":          t.RoleName,
		"requested_by":       t.RequestedBy,
		"interaction_app_id": t.InteractionAppID,
		"interaction_token":  t.InteractionToken,
		"trace_id":           t.TraceID,
	}
	for k, v := range optional {
		if v != "" {
			values[k] = v
		}
	}
	return values
}
