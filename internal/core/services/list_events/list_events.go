package listevents

import (
	"context"
	c "eventreminder/internal/core/domain/common"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/core/services"
)

const DefaultLimit = 50

type Input struct {
	// Limit caps the number of returned events, DefaultLimit when absent or not positive.
	Limit c.Optional[int]
}

type Result struct {
	Events     []event.Event
	TotalCount int
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
	limit := input.Limit.ValueOr(DefaultLimit)
	if limit <= 0 {
		limit = DefaultLimit
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

	event.SortByScheduledAt(events)
	result.TotalCount = len(events)
	if len(events) > limit {
		events = events[:limit]
	}
	result.Events = events
	return result, nil
}
