package redisstore

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/db/codec"
	"fmt"

	"github.com/go-redis/redis/v9"
)

// UnitOfWork keeps the events as one JSON value under a single key.
// Units of work are serialised within the process; a commit racing with a
// writer in another process fails with event.ErrConcurrentUpdate.
type UnitOfWork struct {
	client *redis.Client
	log    logging.Logger
	key    string
	sem    chan struct{}
}

func NewUnitOfWork(client *redis.Client, log logging.Logger, key string) *UnitOfWork {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if key == "" {
		panic(e.NewEmptyArgumentError("key"))
	}
	return &UnitOfWork{
		client: client,
		log:    log,
		key:    key,
		sem:    make(chan struct{}, 1),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	select {
	case u.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &redisUnitOfWorkContext{store: u}, nil
}

func (u *UnitOfWork) release() {
	<-u.sem
}

type redisUnitOfWorkContext struct {
	store  *UnitOfWork
	staged []event.Event
	dirty  bool
	closed bool

	// loaded holds the raw value seen by Load, used for compare-and-swap.
	loaded   string
	isLoaded bool
}

func (c *redisUnitOfWorkContext) Events() event.Repository {
	return &repository{c: c}
}

func (c *redisUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.closed {
		return e.NewInvalidStateError("unit of work is already closed")
	}
	c.closed = true
	defer c.store.release()

	if !c.dirty {
		return nil
	}
	data, err := codec.Encode(c.staged)
	if err != nil {
		return err
	}
	if !c.isLoaded {
		return c.store.client.Set(ctx, c.store.key, data, 0).Err()
	}
	return c.compareAndSwap(ctx, string(data))
}

func (c *redisUnitOfWorkContext) compareAndSwap(ctx context.Context, value string) error {
	key := c.store.key
	err := c.store.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != c.loaded {
			return event.ErrConcurrentUpdate
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return event.ErrConcurrentUpdate
	}
	return err
}

func (c *redisUnitOfWorkContext) Rollback(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.staged = nil
	c.store.release()
	return nil
}

type repository struct {
	c *redisUnitOfWorkContext
}

func (r *repository) Load(ctx context.Context) ([]event.Event, error) {
	c := r.c
	if c.closed {
		return nil, e.NewInvalidStateError("unit of work is already closed")
	}
	if c.dirty {
		return event.Clone(c.staged), nil
	}

	client, key := c.store.client, c.store.key
	raw, err := client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("could not read events from redis: %w", err)
	}

	events, needsReset := codec.DecodeOrReset(ctx, c.store.log, key, []byte(raw))
	if needsReset {
		if err := client.Set(ctx, key, codec.Empty, 0).Err(); err != nil {
			return nil, fmt.Errorf("could not reset events in redis: %w", err)
		}
		raw = string(codec.Empty)
	}
	c.loaded = raw
	c.isLoaded = true
	return events, nil
}

func (r *repository) Save(ctx context.Context, events []event.Event) error {
	if r.c.closed {
		return e.NewInvalidStateError("unit of work is already closed")
	}
	r.c.staged = event.Clone(events)
	r.c.dirty = true
	return nil
}
