package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. SQL stores hold a
// DBTX so that WithTx can rebind them to a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner starts transactions. *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TxFn is the unit of work run by RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn inside one transaction. A nil result commits; an
// error or a panic rolls back, and a panic is re-raised after the rollback.
// Card creation pairs the card row with its schedule row this way, and a
// review writes the new schedule together with the review log entry.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) (err error) {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("rollback after panic failed", slog.String("error", rbErr.Error()), slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic", slog.Any("panic", p))
			}
			// ALLOW-PANIC: propagating a panic raised inside fn
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("rollback failed",
					slog.String("rollback_error", rbErr.Error()),
					slog.String("original_error", err.Error()))
				err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
				return
			}
			log.Debug("rolled back transaction", slog.String("error", err.Error()))
			return
		}

		if cErr := tx.Commit(); cErr != nil {
			log.Error("failed to commit transaction", slog.String("error", cErr.Error()))
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}
