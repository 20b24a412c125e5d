package worker_test

import (
	"context"

	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/queue"
)

type mockConsumer struct {
	readFn func(ctx context.Context) ([]queue.Message, error)

	acked     []string
	requeued  []string
	deadLettr []string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, _ string) error {
	m.requeued = append(m.requeued, msg.ID)
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, _ string) error {
	m.deadLettr = append(m.deadLettr, msg.ID)
	return nil
}

type mockExecutor struct {
	executeFn func(ctx context.Context, task queue.Task) (command.Outcome, error)
	tasks     []queue.Task
}

func (m *mockExecutor) Execute(ctx context.Context, task queue.Task) (command.Outcome, error) {
	m.tasks = append(m.tasks, task)
	if m.executeFn != nil {
		return m.executeFn(ctx, task)
	}
	return command.Outcome{Status: model.CommandRunStatusSucceeded}, nil
}

type finishedRun struct {
	id     int64
	status model.CommandRunStatus
	errMsg *string
}

type mockRunStore struct {
	createErr error
	created   []model.CommandRun
	finished  []finishedRun
}

func (m *mockRunStore) Create(_ context.Context, run *model.CommandRun) (*model.CommandRun, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, *run)
	return run, nil
}

func (m *mockRunStore) Finish(_ context.Context, id int64, status model.CommandRunStatus, errMsg *string) error {
	m.finished = append(m.finished, finishedRun{id: id, status: status, errMsg: errMsg})
	return nil
}

func (m *mockRunStore) GetByID(context.Context, int64) (*model.CommandRun, error) {
	return nil, nil
}

func (m *mockRunStore) ListByGuild(context.Context, string, int32) ([]model.CommandRun, error) {
	return nil, nil
}
