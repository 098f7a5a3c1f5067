package uow

import (
	"context"
	"eventreminder/internal/core/domain/event"
)

type FakeUnitOfWorkContext struct {
	EventRepository   *event.FakeRepository
	WasRollbackCalled bool
	WasCommitCalled   bool
	CommitError       error
}

func NewFakeUnitOfWorkContext(eventRepository *event.FakeRepository) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{EventRepository: eventRepository}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.WasCommitCalled = true
	return c.CommitError
}

func (c *FakeUnitOfWorkContext) Events() event.Repository {
	return c.EventRepository
}

type FakeUnitOfWork struct {
	Context    *FakeUnitOfWorkContext
	BeginError error
	BeginCalls int
}

func NewFakeUnitOfWork(events ...event.Event) *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(event.NewFakeRepository(events...)),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	u.BeginCalls++
	if u.BeginError != nil {
		return nil, u.BeginError
	}
	return u.Context, nil
}

// Events returns the fake repository shared by every unit of work.
func (u *FakeUnitOfWork) Events() *event.FakeRepository {
	return u.Context.EventRepository
}
