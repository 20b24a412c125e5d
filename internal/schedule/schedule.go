// Package schedule runs the periodic role report.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"basegraph.app/rollcall/common/id"
	"basegraph.app/rollcall/common/logger"
	"basegraph.app/rollcall/internal/queue"
)

type Config struct {
	RoleReportCron string
	GuildID        string
	ChannelID      string
}

// Scheduler enqueues a role overview for the configured channel on every
// tick of the cron expression. It never runs a report itself.
type Scheduler struct {
	cron     *cron.Cron
	producer queue.Producer
	cfg      Config
	timeout  time.Duration
}

func New(producer queue.Producer, cfg Config) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{}),
			cron.SkipIfStillRunning(cronLogger{}),
		)),
		producer: producer,
		cfg:      cfg,
		timeout:  10 * time.Second,
	}

	if _, err := s.cron.AddFunc(cfg.RoleReportCron, s.tick); err != nil {
		return nil, fmt.Errorf("parsing ROLE_REPORT_CRON %q: %w", cfg.RoleReportCron, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	slog.Info("role report schedule started",
		"cron", s.cfg.RoleReportCron,
		"guild_id", s.cfg.GuildID,
		"channel_id", s.cfg.ChannelID)
	s.cron.Start()
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.EnqueueRoleReport(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduled role report failed", "error", err)
	}
}

// EnqueueRoleReport queues one role overview for the configured channel.
func (s *Scheduler) EnqueueRoleReport(ctx context.Context) error {
	invocationID := id.NewString()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GuildID:      logger.Ptr(s.cfg.GuildID),
		ChannelID:    logger.Ptr(s.cfg.ChannelID),
		InvocationID: logger.Ptr(invocationID),
		Command:      logger.Ptr(string(queue.TaskTypeRoleOverview)),
		Component:    "rollcall.schedule",
	})

	sc := logger.StartSpan(ctx, "schedule.role_report")
	defer sc.End()

	err := s.producer.Enqueue(sc.Context(), queue.Task{
		TaskType:     queue.TaskTypeRoleOverview,
		InvocationID: invocationID,
		GuildID:      s.cfg.GuildID,
		ChannelID:    s.cfg.ChannelID,
		RequestedBy:  "schedule",
		TraceID:      sc.TraceID(),
	})
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("enqueue role report: %w", err)
	}
	return nil
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
