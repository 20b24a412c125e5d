package dto

import (
	"time"

	"basegraph.app/rollcall/internal/model"
)

type CommandRunResponse struct {
	ID           int64      `json:"id,string"`
	InvocationID string     `json:"invocation_id"`
	GuildID      string     `json:"guild_id"`
	ChannelID    string     `json:"channel_id,omitempty"`
	Command      string     `json:"command"`
	RequestedBy  string     `json:"requested_by,omitempty"`
	Attempt      int32      `json:"attempt"`
	Status       string     `json:"status"`
	Error        *string    `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type ListCommandRunsResponse struct {
	Runs []CommandRunResponse `json:"runs"`
}

func ToCommandRunResponse(run *model.CommandRun) CommandRunResponse {
	return CommandRunResponse{
		ID:           run.ID,
		InvocationID: run.InvocationID,
		GuildID:      run.GuildID,
		ChannelID:    run.ChannelID,
		Command:      run.Command,
		RequestedBy:  run.RequestedBy,
		Attempt:      run.Attempt,
		Status:       string(run.Status),
		Error:        run.Error,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}
