package store

import (
	"context"
	"errors"

	"basegraph.app/rollcall/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// CommandRunStore records the execution attempts of command invocations.
type CommandRunStore interface {
	Create(ctx context.Context, run *model.CommandRun) (*model.CommandRun, error)
	Finish(ctx context.Context, id int64, status model.CommandRunStatus, errMsg *string) error
	GetByID(ctx context.Context, id int64) (*model.CommandRun, error)
	ListByGuild(ctx context.Context, guildID string, limit int32) ([]model.CommandRun, error)
}
