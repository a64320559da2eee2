package repositories

import (
	"context"
	"errors"
	"fmt"

	"dentiq/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a DBTX that can open transactions.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type pgxTxRunner struct {
	db TxBeginner
}

func NewTxRunner(db TxBeginner) TxRunner {
	return &pgxTxRunner{db: db}
}

func (r *pgxTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the common sentinel errors.
func translateError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, common.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s already exists (%s): %w", entity, pgErr.ConstraintName, common.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s references a missing record (%s): %w", entity, pgErr.ConstraintName, common.ErrNotFound)
		}
	}
	return err
}

// expectAffected turns a zero-row write into a not-found error.
func expectAffected(entity string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translateError(entity, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %w", entity, common.ErrNotFound)
	}
	return nil
}
