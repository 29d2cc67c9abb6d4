package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalweek/goalweek/internal/model"
)

// Store bundles the repositories over one database and runs locked transactions.
type Store struct {
	db          *sqlx.DB
	Goals       GoalRepository
	Completions CompletionRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:          db,
		Goals:       NewGoalRepository(db),
		Completions: NewCompletionRepository(db),
	}
}

// GoalTx is the view of a locked goal handed to WithinGoalLock callbacks.
// Its repositories run inside the transaction.
type GoalTx struct {
	Goal        *model.Goal
	Goals       GoalRepository
	Completions CompletionRepository
}

// WithinGoalLock runs fn in a transaction holding an exclusive lock on the goal row.
// The transaction commits when fn returns nil and rolls back otherwise; fn's error
// is returned unchanged. Returns ErrGoalNotFound when the goal does not exist.
func (s *Store) WithinGoalLock(ctx context.Context, goalID string, fn func(tx *GoalTx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	goals := NewGoalRepository(tx)
	goal, err := goals.ByIDForUpdate(ctx, goalID)
	if err != nil {
		return err
	}

	err = fn(&GoalTx{
		Goal:        goal,
		Goals:       goals,
		Completions: NewCompletionRepository(tx),
	})
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping checks the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
