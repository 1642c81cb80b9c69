package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	appstock "github.com/partshub/backend/internal/application/stock"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// pgLockNotAvailable is the postgres error code raised when lock_timeout
// expires while a statement waits on a row lock.
const pgLockNotAvailable = "55P03"

// GormStockTransactionScope implements the stock TransactionScope using GORM
// transactions. Every Execute call runs inside one database transaction so
// the quantity change, the audit record and the alert transition commit or
// roll back together. Row locks taken via FindForUpdate are released when the
// transaction ends.
type GormStockTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope.
// lockTimeout bounds how long a mutation waits for a contended row lock.
func NewGormStockTransactionScope(db *gorm.DB, lockTimeout time.Duration) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db, lockTimeout: lockTimeout}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SET LOCAL scopes the timeout to this transaction. SQLite has no
		// row locks to wait on, so the statement only applies to postgres.
		if s.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&stockTransactionalRepositories{tx: tx})
	})
	return translateLockError(err)
}

// stockTransactionalRepositories provides access to the stock repositories
// within a transaction.
type stockTransactionalRepositories struct {
	tx *gorm.DB
}

// LocationRepo returns the component location repository scoped to the current transaction.
func (r *stockTransactionalRepositories) LocationRepo() stock.ComponentLocationRepository {
	return NewGormComponentLocationRepository(r.tx)
}

// TransactionRepo returns the stock transaction repository scoped to the current transaction.
func (r *stockTransactionalRepositories) TransactionRepo() stock.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

// AlertRepo returns the reorder alert repository scoped to the current transaction.
func (r *stockTransactionalRepositories) AlertRepo() stock.ReorderAlertRepository {
	return NewGormReorderAlertRepository(r.tx)
}

// translateLockError maps the postgres lock_not_available error to the
// domain lock timeout error. Other errors pass through unchanged.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return shared.ErrLockTimeout
	}
	return err
}

// Ensure GormStockTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormStockTransactionScope)(nil)

// Ensure stockTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*stockTransactionalRepositories)(nil)
