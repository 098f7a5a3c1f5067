package filestore

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/db/codec"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// UnitOfWork keeps the events in a single JSON file. Only one unit of work
// is open at a time within the process.
type UnitOfWork struct {
	log  logging.Logger
	path string
	sem  chan struct{}
}

func NewUnitOfWork(log logging.Logger, path string) *UnitOfWork {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if path == "" {
		panic(e.NewEmptyArgumentError("path"))
	}
	return &UnitOfWork{
		log:  log,
		path: path,
		sem:  make(chan struct{}, 1),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	select {
	case u.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &fileUnitOfWorkContext{store: u}, nil
}

func (u *UnitOfWork) read(ctx context.Context) ([]event.Event, error) {
	data, err := os.ReadFile(u.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read events file: %w", err)
	}

	events, needsReset := codec.DecodeOrReset(ctx, u.log, u.path, data)
	if needsReset {
		if err := writeFile(u.path, codec.Empty); err != nil {
			return nil, fmt.Errorf("could not reset events file: %w", err)
		}
	}
	return events, nil
}

func (u *UnitOfWork) write(events []event.Event) error {
	data, err := codec.Encode(events)
	if err != nil {
		return err
	}
	if err := writeFile(u.path, data); err != nil {
		return fmt.Errorf("could not write events file: %w", err)
	}
	return nil
}

func (u *UnitOfWork) release() {
	<-u.sem
}

type fileUnitOfWorkContext struct {
	store  *UnitOfWork
	staged []event.Event
	dirty  bool
	closed bool
}

func (c *fileUnitOfWorkContext) Events() event.Repository {
	return &repository{c: c}
}

func (c *fileUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.closed {
		return e.NewInvalidStateError("unit of work is already closed")
	}
	c.closed = true
	defer c.store.release()

	if !c.dirty {
		return nil
	}
	return c.store.write(c.staged)
}

func (c *fileUnitOfWorkContext) Rollback(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.staged = nil
	c.store.release()
	return nil
}

type repository struct {
	c *fileUnitOfWorkContext
}

func (r *repository) Load(ctx context.Context) ([]event.Event, error) {
	if r.c.closed {
		return nil, e.NewInvalidStateError("unit of work is already closed")
	}
	if r.c.dirty {
		return event.Clone(r.c.staged), nil
	}
	return r.c.store.read(ctx)
}

func (r *repository) Save(ctx context.Context, events []event.Event) error {
	if r.c.closed {
		return e.NewInvalidStateError("unit of work is already closed")
	}
	r.c.staged = event.Clone(events)
	r.c.dirty = true
	return nil
}

// writeFile replaces path atomically: the data is synced to a temporary
// file in the same directory which is then renamed over the target.
func writeFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
