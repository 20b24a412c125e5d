package store

import (
	"context"

	"basegraph.app/rollcall/internal/model"
)

// NopCommandRunStore is used when no database is configured. Runs are only
// visible in the logs.
type NopCommandRunStore struct{}

func (NopCommandRunStore) Create(_ context.Context, run *model.CommandRun) (*model.CommandRun, error) {
	return run, nil
}

func (NopCommandRunStore) Finish(context.Context, int64, model.CommandRunStatus, *string) error {
	return nil
}

func (NopCommandRunStore) GetByID(context.Context, int64) (*model.CommandRun, error) {
	return nil, ErrNotFound
}

func (NopCommandRunStore) ListByGuild(context.Context, string, int32) ([]model.CommandRun, error) {
	return []model.CommandRun{}, nil
}
