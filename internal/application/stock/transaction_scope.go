package stock

import (
	"context"

	"github.com/partshub/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Row locks taken via FindForUpdate are held until the
// scope ends.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - LocationRepo: repository for the ComponentLocation aggregate root. All
//     quantity changes go through this repository under an exclusive row lock.
//   - TransactionRepo: append-only repository for the audit log.
//   - AlertRepo: repository for reorder alerts. Alert state changes happen in
//     the same transaction as the quantity change that caused them.
type TransactionalRepositories interface {
	// LocationRepo returns the component location repository scoped to the current transaction
	LocationRepo() stock.ComponentLocationRepository
	// TransactionRepo returns the stock transaction repository scoped to the current transaction
	TransactionRepo() stock.StockTransactionRepository
	// AlertRepo returns the reorder alert repository scoped to the current transaction
	AlertRepo() stock.ReorderAlertRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	locationRepo    stock.ComponentLocationRepository
	transactionRepo stock.StockTransactionRepository
	alertRepo       stock.ReorderAlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	locationRepo stock.ComponentLocationRepository,
	transactionRepo stock.StockTransactionRepository,
	alertRepo stock.ReorderAlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		locationRepo:    locationRepo,
		transactionRepo: transactionRepo,
		alertRepo:       alertRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LocationRepo returns the component location repository.
func (s *NoOpTransactionScope) LocationRepo() stock.ComponentLocationRepository {
	return s.locationRepo
}

// TransactionRepo returns the stock transaction repository.
func (s *NoOpTransactionScope) TransactionRepo() stock.StockTransactionRepository {
	return s.transactionRepo
}

// AlertRepo returns the reorder alert repository.
func (s *NoOpTransactionScope) AlertRepo() stock.ReorderAlertRepository {
	return s.alertRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
