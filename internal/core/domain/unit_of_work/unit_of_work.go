package uow

import (
	"context"
	"eventreminder/internal/core/domain/event"
)

// Context holds exclusive access to the event collection until Commit or
// Rollback is called. Saved events become durable only on Commit.
type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Events() event.Repository
}

// UnitOfWork serialises every load-mutate-save cycle on the event store.
type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
