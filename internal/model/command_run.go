package model

import "time"

type CommandRunStatus string

const (
	CommandRunStatusRunning   CommandRunStatus = "running"
	CommandRunStatusSucceeded CommandRunStatus = "succeeded"
	CommandRunStatusRejected  CommandRunStatus = "rejected"
	CommandRunStatusFailed    CommandRunStatus = "failed"
)

// CommandRun records one attempt at executing an invocation. Only metadata is
// kept; rendered reports are never stored.
type CommandRun struct {
	ID           int64            `json:"id"`
	InvocationID string           `json:"invocation_id"`
	GuildID      string           `json:"guild_id"`
	ChannelID    string           `json:"channel_id"`
	Command      string           `json:"command"`
	RequestedBy  string           `json:"requested_by"`
	Attempt      int32            `json:"attempt"`
	Status       CommandRunStatus `json:"status"`
	Error        *string          `json:"error,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty"`
}
