package removeevent

import (
	"context"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/core/services"
)

type Input struct {
	ID event.ID
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
	if input.ID <= 0 {
		return result, event.ErrEventDoesNotExist
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

	kept := make([]event.Event, 0, len(events))
	found := false
	for _, ev := range events {
		if ev.ID == input.ID {
			result.Event = ev
			found = true
			continue
		}
		kept = append(kept, ev)
	}
	if !found {
		s.log.Info(ctx, "Event not found.", logging.Entry("input", input))
		return result, event.ErrEventDoesNotExist
	}

	if err := uow.Events().Save(ctx, kept); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(ctx, "Event has been successfully removed.", logging.Entry("eventID", input.ID))
	return result, nil
}
