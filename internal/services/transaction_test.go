package services

import (
	"context"
	"errors"
	"restocoach/internal/database"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestTransactionService_Execute_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	called := false
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_RollbackOnError(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	expectedError := errors.New("template rejected")
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return expectedError
	})

	assert.Equal(t, expectedError, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_PanicRecovery(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		panic("audit write panicked")
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction: audit write panicked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_NestedJoinsOuter(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	var outerTx, innerTx *gorm.DB
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		outerTx = tx
		return service.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			innerTx = tx
			return nil
		})
	})

	assert.NoError(t, err)
	assert.Same(t, outerTx, innerTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_NestedErrorRollsBackOuter(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	innerErr := errors.New("audit entry rejected")
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return service.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			return innerErr
		})
	})

	assert.ErrorIs(t, err, innerErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_RollbackFailureKeepsCause(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

	service := NewTransactionService(database.NewWithSQL(gormDB))

	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return ErrValidation
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
