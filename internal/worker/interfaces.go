package worker

import (
	"context"

	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Executor runs one invocation. A returned error means the replies could
// not be delivered and the task should be retried.
type Executor interface {
	Execute(ctx context.Context, task queue.Task) (command.Outcome, error)
}
