package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainingevents/internal/ports/output"
)

var _ output.UnitOfWork = (*Store)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store exposes the PostgreSQL repositories and runs units of work in
// transactions.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Stores returns repositories that run each statement on its own.
func (s *Store) Stores() output.Stores {
	return storesOn(s.pool)
}

// Do runs fn in a transaction holding a transaction-scoped advisory lock on
// key. The lock is released on commit or rollback.
func (s *Store) Do(ctx context.Context, key string, fn func(ctx context.Context, st output.Stores) error) error {
	return s.DoAll(ctx, []string{key}, fn)
}

// DoAll takes one advisory lock per key, in output.LockOrder, before
// running fn in the same transaction.
func (s *Store) DoAll(ctx context.Context, keys []string, fn func(ctx context.Context, st output.Stores) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, key := range output.LockOrder(keys) {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
				return fmt.Errorf("lock %q: %w", key, err)
			}
		}
		return fn(ctx, storesOn(tx))
	})
}

func storesOn(q querier) output.Stores {
	return output.Stores{
		Events:       &EventRepository{q: q},
		Participants: &ParticipantRepository{q: q},
		Votes:        &VoteRepository{q: q},
	}
}
