package addevent

import (
	"context"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/core/services"
	"strings"
	"time"
)

type Input struct {
	ScheduledAt time.Time
	Title       string
}

type Result struct {
	Event event.Event
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	ev := event.Event{
		ScheduledAt: event.BucketOf(input.ScheduledAt).Time(),
		Title:       strings.TrimSpace(input.Title),
	}
	if ev.Title == "" {
		return result, event.ErrInvalidTitle
	}
	if input.ScheduledAt.IsZero() {
		return result, event.ErrInvalidScheduledAt
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	events, err := uow.Events().Load(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	ev.ID = event.NextID(events)
	if err := ev.Validate(); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("event", ev))
		return result, err
	}
	events = append(events, ev)

	if err := uow.Events().Save(ctx, events); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(
		ctx,
		"Event has been successfully added.",
		logging.Entry("eventID", ev.ID),
		logging.Entry("scheduledAt", ev.ScheduledAt),
	)
	result.Event = ev
	return result, nil
}
