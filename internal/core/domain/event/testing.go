package event

import (
	"context"
	"sync"
)

type FakeRepository struct {
	Events    []Event
	LoadError error
	SaveError error
	LoadCalls int
	Saved     [][]Event
	lock      sync.Mutex
}

func NewFakeRepository(events ...Event) *FakeRepository {
	return &FakeRepository{Events: Clone(events)}
}

func (r *FakeRepository) Load(ctx context.Context) ([]Event, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.LoadCalls++
	if r.LoadError != nil {
		return nil, r.LoadError
	}
	return Clone(r.Events), nil
}

func (r *FakeRepository) Save(ctx context.Context, events []Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.SaveError != nil {
		return r.SaveError
	}
	r.Saved = append(r.Saved, Clone(events))
	r.Events = Clone(events)
	return nil
}

func (r *FakeRepository) SaveCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Saved)
}
