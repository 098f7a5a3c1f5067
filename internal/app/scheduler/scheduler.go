package scheduler

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/logging"
	"eventreminder/internal/core/services"
	sendreminders "eventreminder/internal/core/services/send_reminders"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Scheduler runs the reminder tick periodically and on demand.
type Scheduler struct {
	log    logging.Logger
	tick   services.Service[sendreminders.Input, sendreminders.Result]
	period time.Duration
	nudge  chan struct{}
}

func New(
	log logging.Logger,
	tick services.Service[sendreminders.Input, sendreminders.Result],
	period time.Duration,
) *Scheduler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tick == nil {
		panic(e.NewNilArgumentError("tick"))
	}
	if period <= 0 {
		panic(e.NewInvalidStateError("scheduler period must be positive"))
	}
	return &Scheduler{
		log:    log,
		tick:   tick,
		period: period,
		nudge:  make(chan struct{}, 1),
	}
}

// Notify asks for an extra tick as soon as possible. It never blocks and
// requests made while one is already pending are merged.
func (s *Scheduler) Notify() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

// Run ticks once right away and then every period until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info(ctx, "Reminder scheduler has started.", logging.Entry("period", s.period.String()))
	s.runTick(ctx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info(context.Background(), "Reminder scheduler has stopped.")
			return
		case <-ticker.C:
			s.runTick(ctx)
		case <-s.nudge:
			s.runTick(ctx)
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			s.log.Error(ctx, "Reminder tick panicked.", logging.Entry("panic", fmt.Sprint(r)))
		}
	}()

	result, err := s.tick.Run(ctx, sendreminders.Input{})
	switch {
	case errors.Is(err, sendreminders.ErrTickInProgress):
		s.log.Debug(ctx, "Reminder tick skipped.")
	case err != nil:
		logging.Error(ctx, s.log, err)
	case result.Due > 0:
		s.log.Info(
			ctx,
			"Reminder tick finished.",
			logging.Entry("due", result.Due),
			logging.Entry("notified", result.Notified),
			logging.Entry("failed", result.Failed),
		)
	}
}

type notifyAfter[T any, S any] struct {
	inner     services.Service[T, S]
	scheduler *Scheduler
}

// NotifyAfter wraps inner so that every successful run asks the scheduler
// for an extra tick.
func NotifyAfter[T any, S any](inner services.Service[T, S], scheduler *Scheduler) services.Service[T, S] {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &notifyAfter[T, S]{inner: inner, scheduler: scheduler}
}

func (s *notifyAfter[T, S]) Run(ctx context.Context, input T) (S, error) {
	result, err := s.inner.Run(ctx, input)
	if err == nil {
		s.scheduler.Notify()
	}
	return result, err
}
