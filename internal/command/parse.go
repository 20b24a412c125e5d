// Package command recognizes the bot's text commands and executes queued
// invocations end to end.
package command

import (
	"errors"
	"regexp"
	"strings"

	"basegraph.app/rollcall/internal/queue"
)

const UsageReactCheck = "Nutze: `!reactcheck <Nachrichten-Link oder -ID> [Rollenname optional]`"

// ErrUsage means the command was recognized but its arguments were not.
var ErrUsage = errors.New("command usage")

var checkRe = regexp.MustCompile(`(?i)^!check(\b|$)`)

// Invocation is a parsed text command.
type Invocation struct {
	TaskType   queue.TaskType
	MessageArg string
	RoleName   string
}

// Parse recognizes "!check" and "!reactcheck <link|id> [role name]". ok is
// false for ordinary chat. A "!reactcheck" without argument returns ErrUsage.
func Parse(content string) (inv Invocation, ok bool, err error) {
	content = strings.TrimSpace(content)

	if checkRe.MatchString(content) {
		return Invocation{TaskType: queue.TaskTypeRoleOverview}, true, nil
	}

	parts := strings.Fields(content)
	if len(parts) == 0 || strings.ToLower(parts[0]) != "!reactcheck" {
		return Invocation{}, false, nil
	}
	if len(parts) < 2 {
		return Invocation{}, true, ErrUsage
	}
	return Invocation{
		TaskType:   queue.TaskTypeReactionCheck,
		MessageArg: parts[1],
		RoleName:   strings.Join(parts[2:], " "),
	}, true, nil
}

// Task builds the queued task for the invocation. Callers fill in the reply
// route and requester.
func (inv Invocation) Task(invocationID, guildID, channelID string) queue.Task {
	return queue.Task{
		TaskType:     inv.TaskType,
		InvocationID: invocationID,
		GuildID:      guildID,
		ChannelID:    channelID,
		MessageArg:   inv.MessageArg,
		RoleName:     inv.RoleName,
	}
}
