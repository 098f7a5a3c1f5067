package pgxstore

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	uow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/db/codec"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	selectForUpdate = `SELECT data::text FROM event_store WHERE id = 1 FOR UPDATE`
	insertEmpty     = `INSERT INTO event_store (id, data) VALUES (1, '[]'::json) ON CONFLICT (id) DO NOTHING`
	update          = `UPDATE event_store SET data = $1::json, updated_at = now() WHERE id = 1`
)

// PgxUnitOfWork stores the events as a JSON document in a single row.
// Load locks the row, so writers are serialised across processes.
type PgxUnitOfWork struct {
	db  *pgxpool.Pool
	log logging.Logger
}

func NewPgxUnitOfWork(db *pgxpool.Pool, log logging.Logger) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxUnitOfWork{db: db, log: log}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxUnitOfWorkContext{tx: tx, log: u.log}, nil
}

type pgxUnitOfWorkContext struct {
	tx  pgx.Tx
	log logging.Logger
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	err := c.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (c *pgxUnitOfWorkContext) Events() event.Repository {
	return NewPgxRepository(c.tx, c.log)
}

type PgxRepository struct {
	tx  pgx.Tx
	log logging.Logger
}

func NewPgxRepository(tx pgx.Tx, log logging.Logger) *PgxRepository {
	if tx == nil {
		panic(e.NewNilArgumentError("tx"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxRepository{tx: tx, log: log}
}

func (r *PgxRepository) Load(ctx context.Context) ([]event.Event, error) {
	raw, err := r.lockRow(ctx)
	if err != nil {
		return nil, err
	}

	events, needsReset := codec.DecodeOrReset(ctx, r.log, "event_store", []byte(raw))
	if needsReset {
		if _, err := r.tx.Exec(ctx, update, string(codec.Empty)); err != nil {
			return nil, fmt.Errorf("could not reset event store: %w", err)
		}
	}
	return events, nil
}

func (r *PgxRepository) lockRow(ctx context.Context) (string, error) {
	var raw string
	err := r.tx.QueryRow(ctx, selectForUpdate).Scan(&raw)
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("could not read event store: %w", err)
	}

	if _, err := r.tx.Exec(ctx, insertEmpty); err != nil {
		return "", fmt.Errorf("could not create event store row: %w", err)
	}
	if err := r.tx.QueryRow(ctx, selectForUpdate).Scan(&raw); err != nil {
		return "", fmt.Errorf("could not read event store: %w", err)
	}
	return raw, nil
}

func (r *PgxRepository) Save(ctx context.Context, events []event.Event) error {
	data, err := codec.Encode(events)
	if err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, update, string(data))
	if err != nil {
		return fmt.Errorf("could not save event store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.tx.Exec(ctx, insertEmpty); err != nil {
			return fmt.Errorf("could not create event store row: %w", err)
		}
		if _, err := r.tx.Exec(ctx, update, string(data)); err != nil {
			return fmt.Errorf("could not save event store: %w", err)
		}
	}
	return nil
}
