package services

import (
	"context"
	"errors"
	"fmt"
	txContext "restocoach/internal/context"
	"restocoach/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService runs admin writes and their audit entries atomically.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("transactionService"),
	}
}

// Execute runs fn inside a transaction, committing when it returns nil and rolling back
// otherwise. fn receives a context carrying the transaction: a nested Execute joins it and
// the outermost call decides the outcome. Errors from fn keep their identity for errors.Is,
// joined with the rollback failure if there is one. A panic is rolled back and returned.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	if tx, ok := txContext.GetTransaction(ctx); ok {
		return fn(ctx, tx)
	}

	log := ts.log.TraceFromContext(ctx).Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			err = ts.rollback(log, tx, fmt.Errorf("panic in transaction: %v", r))
		}
	}()

	if err := fn(txContext.WithTransaction(ctx, tx), tx); err != nil {
		return ts.rollback(log, tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}
	return nil
}

func (ts *TransactionService) rollback(log logger.Logger, tx *gorm.DB, cause error) error {
	if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
		log.Er("failed to roll back transaction", rollbackErr, "cause", cause)
		return errors.Join(cause, rollbackErr)
	}
	return cause
}
