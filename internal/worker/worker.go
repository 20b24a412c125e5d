package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/rollcall/common/id"
	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/store"
)

type Config struct {
	MaxAttempts int
}

// Worker executes queued invocations one at a time. Each invocation builds
// its own snapshot, so nothing is shared between two runs.
type Worker struct {
	consumer Consumer
	executor Executor
	runs     store.CommandRunStore
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, executor Executor, runs store.CommandRunStore, cfg Config) *Worker {
	if runs == nil {
		runs = store.NopCommandRunStore{}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Worker{
		consumer:  consumer,
		executor:  executor,
		runs:      runs,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "rollcall.worker",
	})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		w.HandleMessage(ctx, msg)
	}
	return nil
}

// HandleMessage processes msg and requeues or dead-letters it on failure.
// The reclaimer uses it for stale entries too.
func (w *Worker) HandleMessage(ctx context.Context, msg queue.Message) {
	if err := w.processMessageSafe(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"message_id", msg.ID,
			"invocation_id", msg.InvocationID)
		w.handleFailedMessage(ctx, msg, err)
	}
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"invocation_id", msg.InvocationID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage executes one task and acks it unless the replies could not
// be delivered.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_task",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", string(msg.TaskType)),
			attribute.String("discord.guild_id", msg.GuildID),
			attribute.Int("task.attempt", msg.Attempt),
		))
	defer sc.End()

	msgID := msg.ID
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		GuildID:      logger.Ptr(msg.GuildID),
		ChannelID:    logger.Ptr(msg.ChannelID),
		InvocationID: logger.Ptr(msg.InvocationID),
		Command:      logger.Ptr(string(msg.TaskType)),
		MessageID:    &msgID,
	})

	slog.InfoContext(ctx, "processing task", "attempt", msg.Attempt)
	start := time.Now()

	run := w.startRun(ctx, msg.Task)

	outcome, err := w.executor.Execute(ctx, msg.Task)
	if err != nil {
		sc.RecordError(err)
		w.finishRun(ctx, run, model.CommandRunStatusFailed, err)
		return err
	}
	w.finishRun(ctx, run, outcome.Status, outcome.Err)

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer will pick it up again; a duplicate reply is the worst case.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}

	slog.InfoContext(ctx, "task finished",
		"status", outcome.Status,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// startRun records the attempt. The run log is best effort and never blocks
// the invocation.
func (w *Worker) startRun(ctx context.Context, task queue.Task) *model.CommandRun {
	run, err := w.runs.Create(ctx, &model.CommandRun{
		ID:           id.New(),
		InvocationID: task.InvocationID,
		GuildID:      task.GuildID,
		ChannelID:    task.ChannelID,
		Command:      string(task.TaskType),
		RequestedBy:  task.RequestedBy,
		Attempt:      int32(task.Attempt),
		Status:       model.CommandRunStatusRunning,
		StartedAt:    time.Now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record command run", "error", err)
		return nil
	}
	return run
}

func (w *Worker) finishRun(ctx context.Context, run *model.CommandRun, status model.CommandRunStatus, runErr error) {
	if run == nil {
		return
	}
	var errMsg *string
	if runErr != nil {
		errMsg = logger.Ptr(logger.Truncate(runErr.Error(), 500))
	}
	if err := w.runs.Finish(ctx, run.ID, status, errMsg); err != nil {
		slog.WarnContext(ctx, "failed to finish command run", "error", err, "run_id", run.ID)
	}
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"invocation_id", msg.InvocationID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"invocation_id", msg.InvocationID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
