package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"basegraph.app/rollcall/core/db"
	"basegraph.app/rollcall/internal/model"
)

const commandRunColumns = `id, invocation_id, guild_id, channel_id, command, requested_by, attempt, status, error, started_at, finished_at`

type commandRunStore struct {
	q db.Querier
}

func newCommandRunStore(q db.Querier) CommandRunStore {
	return &commandRunStore{q: q}
}

func (s *commandRunStore) Create(ctx context.Context, run *model.CommandRun) (*model.CommandRun, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO command_runs (id, invocation_id, guild_id, channel_id, command, requested_by, attempt, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+commandRunColumns,
		run.ID, run.InvocationID, run.GuildID, run.ChannelID, run.Command, run.RequestedBy, run.Attempt, string(run.Status), run.Error,
	)
	created, err := scanCommandRun(row)
	if err != nil {
		return nil, fmt.Errorf("creating command run: %w", err)
	}
	return created, nil
}

func (s *commandRunStore) Finish(ctx context.Context, id int64, status model.CommandRunStatus, errMsg *string) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE command_runs SET status = $2, error = $3, finished_at = now()
		WHERE id = $1`,
		id, string(status), errMsg,
	)
	if err != nil {
		return fmt.Errorf("finishing command run %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *commandRunStore) GetByID(ctx context.Context, id int64) (*model.CommandRun, error) {
	run, err := scanCommandRun(s.q.QueryRow(ctx, `SELECT `+commandRunColumns+` FROM command_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *commandRunStore) ListByGuild(ctx context.Context, guildID string, limit int32) ([]model.CommandRun, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+commandRunColumns+` FROM command_runs
		WHERE guild_id = $1
		ORDER BY started_at DESC
		LIMIT $2`,
		guildID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing command runs: %w", err)
	}
	defer rows.Close()

	runs := []model.CommandRun{}
	for rows.Next() {
		run, err := scanCommandRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanCommandRun(row pgx.Row) (*model.CommandRun, error) {
	var (
		run    model.CommandRun
		status string
	)
	if err := row.Scan(
		&run.ID,
		&run.InvocationID,
		&run.GuildID,
		&run.ChannelID,
		&run.Command,
		&run.RequestedBy,
		&run.Attempt,
		&status,
		&run.Error,
		&run.StartedAt,
		&run.FinishedAt,
	); err != nil {
		return nil, err
	}
	run.Status = model.CommandRunStatus(status)
	return &run, nil
}
