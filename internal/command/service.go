package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"basegraph.app/rollcall/internal/discord"
	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/render"
	"basegraph.app/rollcall/internal/report"
)

// Directory is the guild state an invocation reads. It is fetched fresh for
// every invocation.
type Directory interface {
	report.ReactionPager
	Snapshot(ctx context.Context, guildID string) (*model.Snapshot, error)
	ResolveMessage(ctx context.Context, guildID, raw, fallbackChannelID string) (*model.Message, error)
}

type Sender interface {
	Send(ctx context.Context, target discord.Target, msgs []render.Message) error
}

var (
	ErrUnknownTask     = errors.New("unknown task type")
	ErrPartialDelivery = errors.New("reply only partially delivered")
)

// Outcome is how an invocation ended, for the run log.
type Outcome struct {
	Status model.CommandRunStatus
	Err    error
}

type Service struct {
	dir        Directory
	sender     Sender
	renderer   *render.Renderer
	plain      *render.Renderer
	compare    report.CompareFunc
	aggregator *report.RoleAggregator
}

func NewService(dir Directory, sender Sender, renderer *render.Renderer, compare report.CompareFunc) *Service {
	if compare == nil {
		compare = report.Ordinal
	}
	return &Service{
		dir:        dir,
		sender:     sender,
		renderer:   renderer,
		plain:      render.New(render.ModePlain),
		compare:    compare,
		aggregator: report.NewRoleAggregator(report.WithCompare(compare)),
	}
}

// reply renders a result with the given renderer, so a failed embed send
// can be retried as plain text.
type reply func(r *render.Renderer) []render.Message

// Execute runs one invocation: fetch, compute, render, send. Failures of the
// invocation itself are answered with a notice and reported in the Outcome.
// The returned error is only set when nothing could be delivered, which is
// worth a retry.
func (s *Service) Execute(ctx context.Context, task queue.Task) (Outcome, error) {
	target := discord.Target{
		GuildID:          task.GuildID,
		ChannelID:        task.ChannelID,
		InteractionAppID: task.InteractionAppID,
		InteractionToken: task.InteractionToken,
	}

	var (
		rep    reply
		runErr error
	)
	switch task.TaskType {
	case queue.TaskTypeRoleOverview:
		rep, runErr = s.roleOverview(ctx, task)
	case queue.TaskTypeReactionCheck:
		rep, runErr = s.reactionCheck(ctx, task)
	default:
		return Outcome{Status: model.CommandRunStatusFailed, Err: fmt.Errorf("%w: %q", ErrUnknownTask, task.TaskType)}, nil
	}

	outcome := Outcome{Status: model.CommandRunStatusSucceeded}
	if runErr != nil {
		outcome = Outcome{Status: model.CommandRunStatusFailed, Err: runErr}
		if IsRejection(runErr) {
			outcome.Status = model.CommandRunStatusRejected
			slog.InfoContext(ctx, "invocation rejected", "reason", runErr)
		} else {
			slog.ErrorContext(ctx, "invocation failed", "error", runErr)
		}
		notice := ReplyFor(task, runErr)
		rep = func(r *render.Renderer) []render.Message { return r.Notice(notice) }
		target.ReplyTo = task.ReplyTo
	}

	if err := s.send(ctx, target, rep); err != nil {
		if errors.Is(err, ErrPartialDelivery) {
			// Delivered pages must not be posted again by a requeue.
			slog.ErrorContext(ctx, "reply incomplete, not retrying", "error", err)
			return Outcome{Status: model.CommandRunStatusFailed, Err: err}, nil
		}
		return Outcome{Status: model.CommandRunStatusFailed, Err: err}, err
	}
	return outcome, nil
}

// send delivers the reply. Once some messages are out only the rest is sent
// again, and a second failure yields ErrPartialDelivery.
func (s *Service) send(ctx context.Context, target discord.Target, rep reply) error {
	msgs := rep(s.renderer)
	err := s.sender.Send(ctx, target, msgs)
	if err == nil {
		return nil
	}

	if delivered := discord.Delivered(err); delivered > 0 {
		slog.WarnContext(ctx, "reply partially delivered, sending the rest",
			"delivered", delivered,
			"total", len(msgs),
			"error", err)
		rest := target
		rest.ReplyTo = ""
		if err := s.sender.Send(ctx, rest, msgs[delivered:]); err != nil {
			return fmt.Errorf("%w: %w", ErrPartialDelivery, err)
		}
		return nil
	}

	if !errors.Is(err, discord.ErrForbidden) || s.renderer.Mode() == render.ModePlain {
		return err
	}

	slog.WarnContext(ctx, "embed reply refused, retrying as plain text", "error", err)
	return s.sender.Send(ctx, target, rep(s.plain))
}

func (s *Service) roleOverview(ctx context.Context, task queue.Task) (reply, error) {
	snapshot, err := s.dir.Snapshot(ctx, task.GuildID)
	if err != nil {
		return nil, err
	}

	result, err := s.aggregator.Aggregate(snapshot)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "role overview built",
		"members", len(snapshot.Members),
		"buckets", len(result.Buckets),
		"pages", len(result.Pages),
		"assigned", result.TotalAssigned)

	return func(r *render.Renderer) []render.Message { return r.RoleOverview(result) }, nil
}

func (s *Service) reactionCheck(ctx context.Context, task queue.Task) (reply, error) {
	msg, err := s.dir.ResolveMessage(ctx, task.GuildID, task.MessageArg, task.ChannelID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.dir.Snapshot(ctx, task.GuildID)
	if err != nil {
		return nil, err
	}

	population, err := report.TargetPopulation(snapshot, task.RoleName)
	if err != nil {
		return nil, err
	}

	votes, err := report.CollectVotes(ctx, s.dir, msg)
	if err != nil {
		return nil, err
	}

	summary := render.ReactionSummary{
		Ref:      msg.Ref,
		RoleName: task.RoleName,
		Result:   report.Classify(population, votes, s.compare),
	}

	slog.InfoContext(ctx, "reaction check built",
		"population", len(population),
		"yes", len(summary.Result.Yes),
		"no", len(summary.Result.No),
		"both", len(summary.Result.Both),
		"none", len(summary.Result.None))

	return func(r *render.Renderer) []render.Message { return r.ReactionCheck(summary) }, nil
}
