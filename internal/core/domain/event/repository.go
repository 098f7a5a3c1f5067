package event

import "context"

// Repository persists the whole event collection at once. There is no
// row-level update: callers load everything, change it and save everything.
type Repository interface {
	Load(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, events []Event) error
}
