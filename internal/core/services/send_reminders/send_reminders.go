package sendreminders

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	"eventreminder/internal/core/domain/notification"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/core/services"
	"fmt"
	"sync/atomic"
	"time"
)

var ErrTickInProgress = errors.New("previous tick is still in progress")

type Input struct{}

type Result struct {
	Due      int
	Notified []event.ID
	Failed   []event.ID
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	sink       notification.Sink
	channel    notification.ChannelID
	now        func() time.Time
	running    atomic.Bool
}

// New creates the tick that delivers every pending event of the current
// minute to channel. An empty channel disables delivery.
func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	sink notification.Sink,
	channel notification.ChannelID,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if sink == nil {
		panic(e.NewNilArgumentError("sink"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		sink:       sink,
		channel:    channel,
		now:        now,
	}
}

func FormatReminder(ev event.Event) string {
	return fmt.Sprintf("⏰ Reminder: %s %s", event.FormatInstant(ev.ScheduledAt), ev.Title)
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warning(ctx, "Tick skipped, previous one is still running.")
		return result, ErrTickInProgress
	}
	defer s.running.Store(false)

	if s.channel == "" {
		s.log.Warning(ctx, "Reminder channel is not configured, nothing will be delivered.")
		return result, nil
	}

	now := event.BucketOf(s.now())

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("bucket", now))
		return result, err
	}
	defer uow.Rollback(ctx)

	events, err := uow.Events().Load(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("bucket", now))
		return result, err
	}

	for i := range events {
		ev := &events[i]
		if !ev.IsDue(now) {
			continue
		}
		result.Due++

		err := s.sink.Post(ctx, notification.Message{Channel: s.channel, Text: FormatReminder(*ev)})
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("eventID", ev.ID), logging.Entry("bucket", now))
			result.Failed = append(result.Failed, ev.ID)
			continue
		}
		ev.Notified = true
		result.Notified = append(result.Notified, ev.ID)
	}

	if len(result.Notified) == 0 {
		if result.Due > 0 {
			s.log.Warning(ctx, "No due event was delivered.", logging.Entry("bucket", now), logging.Entry("due", result.Due))
		}
		return result, nil
	}

	if err := uow.Events().Save(ctx, events); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("bucket", now), logging.Entry("notified", result.Notified))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("bucket", now), logging.Entry("notified", result.Notified))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminders have been sent.",
		logging.Entry("bucket", now),
		logging.Entry("notified", result.Notified),
		logging.Entry("failed", result.Failed),
	)
	return result, nil
}
