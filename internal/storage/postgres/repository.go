package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdeck/server/internal/domain/companies"
	"github.com/jobdeck/server/internal/domain/jobs"
	"github.com/jobdeck/server/internal/domain/users"
)

// queryer abstracts over the pool and an open transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// database is what Repository runs on: a pgxpool.Pool, or an open pgx.Tx
// inside WithTx.
type database interface {
	queryer
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository aggregates the per-entity repositories over one pool. When
// created inside WithTx all repositories share the transaction.
type Repository struct {
	db database
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{db: pool}, nil
}

func (r *Repository) Companies() companies.Repository {
	return &CompanyRepository{db: r.db}
}

func (r *Repository) Jobs() jobs.Repository {
	return &JobRepository{db: r.db}
}

func (r *Repository) Users() users.Repository {
	return &UserRepository{db: r.db}
}

// WithTx runs fn inside a transaction; every repository obtained from the
// Repository passed to fn shares it. A fn error rolls back, otherwise the
// transaction commits. Calls nested inside an open transaction join it.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, *Repository) error) error {
	if _, ok := r.db.(pgx.Tx); ok {
		return fn(ctx, r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, &Repository{db: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type CompanyRepository struct {
	db queryer
}

func (r *CompanyRepository) queryer() queryer {
	return r.db
}

type JobRepository struct {
	db queryer
}

func (r *JobRepository) queryer() queryer {
	return r.db
}

type UserRepository struct {
	db queryer
}

func (r *UserRepository) queryer() queryer {
	return r.db
}
