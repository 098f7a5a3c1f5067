package listevents

import (
	"context"
	"errors"
	c "eventreminder/internal/core/domain/common"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 1, day, hour, minute, 0, 0, event.Zone)
}

func TestListIsSortedAndStable(t *testing.T) {
	// Setup ---
	unitOfWork := uow.NewFakeUnitOfWork(
		event.Event{ID: 1, ScheduledAt: at(13, 9, 0), Title: "later"},
		event.Event{ID: 2, ScheduledAt: at(12, 9, 0), Title: "first tie"},
		event.Event{ID: 3, ScheduledAt: at(12, 8, 0), Title: "earliest"},
		event.Event{ID: 4, ScheduledAt: at(12, 9, 0), Title: "second tie"},
	)
	service := New(logging.NewFakeLogger(), unitOfWork)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(4, result.TotalCount)

	ids := make([]event.ID, 0, len(result.Events))
	for _, ev := range result.Events {
		ids = append(ids, ev.ID)
	}
	assert.Equal([]event.ID{3, 2, 4, 1}, ids)

	assert.Equal(0, unitOfWork.Events().SaveCount())
	assert.False(unitOfWork.Context.WasCommitCalled)
	assert.True(unitOfWork.Context.WasRollbackCalled)
}

func TestListIsTruncated(t *testing.T) {
	// Setup ---
	events := make([]event.Event, 0, 60)
	for i := 60; i >= 1; i-- {
		events = append(events, event.Event{
			ID:          event.ID(i),
			ScheduledAt: at(1, 0, 0).Add(time.Duration(i) * time.Minute),
			Title:       "event",
		})
	}
	unitOfWork := uow.NewFakeUnitOfWork(events...)
	service := New(logging.NewFakeLogger(), unitOfWork)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(60, result.TotalCount)
	assert.Len(result.Events, DefaultLimit)
	assert.Equal(event.ID(1), result.Events[0].ID)
	assert.Equal(event.ID(DefaultLimit), result.Events[DefaultLimit-1].ID)
	for i := 1; i < len(result.Events); i++ {
		assert.False(result.Events[i].ScheduledAt.Before(result.Events[i-1].ScheduledAt))
	}
}

func TestListExplicitLimit(t *testing.T) {
	// Setup ---
	events := make([]event.Event, 0, 5)
	for i := 1; i <= 5; i++ {
		events = append(events, event.Event{ID: event.ID(i), ScheduledAt: at(i, 9, 0), Title: "x"})
	}
	service := New(logging.NewFakeLogger(), uow.NewFakeUnitOfWork(events...))

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Limit: c.NewOptional(2, true)})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Len(result.Events, 2)
	assert.Equal(5, result.TotalCount)
}

func TestListEmpty(t *testing.T) {
	// Setup ---
	service := New(logging.NewFakeLogger(), uow.NewFakeUnitOfWork())

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Limit: c.NewOptional(10, true)})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Empty(result.Events)
	assert.Equal(0, result.TotalCount)
}

func TestListLoadError(t *testing.T) {
	// Setup ---
	logger := logging.NewFakeLogger()
	unitOfWork := uow.NewFakeUnitOfWork()
	storageErr := errors.New("connection refused")
	unitOfWork.Events().LoadError = storageErr
	service := New(logger, unitOfWork)

	// Exercise ---
	_, err := service.Run(context.Background(), Input{})

	// Verify ---
	assert := require.New(t)
	assert.ErrorIs(err, storageErr)
	assert.Equal(1, logger.Count(logging.ERROR))
}
