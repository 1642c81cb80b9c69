package persistence

import (
	"context"

	appbulk "github.com/partshub/backend/internal/application/bulk"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormBulkTransactionScope implements the bulk TransactionScope using GORM
// transactions. The coordinator relies on the rollback path for its
// all-or-nothing guarantee: returning an error from the executed function
// undoes every write made through the scoped repositories.
type GormBulkTransactionScope struct {
	db *gorm.DB
}

// NewGormBulkTransactionScope creates a new GormBulkTransactionScope.
func NewGormBulkTransactionScope(db *gorm.DB) *GormBulkTransactionScope {
	return &GormBulkTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormBulkTransactionScope) Execute(ctx context.Context, fn func(repos appbulk.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bulkTransactionalRepositories{tx: tx})
	})
}

// bulkTransactionalRepositories provides access to the catalog and stock
// repositories a bulk operation touches, all bound to one transaction.
type bulkTransactionalRepositories struct {
	tx *gorm.DB
}

// ComponentRepo returns the component repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) ComponentRepo() catalog.ComponentRepository {
	return NewGormComponentRepository(r.tx)
}

// TagRepo returns the tag repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) TagRepo() catalog.TagRepository {
	return NewGormTagRepository(r.tx)
}

// ProjectRepo returns the project repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) ProjectRepo() catalog.ProjectRepository {
	return NewGormProjectRepository(r.tx)
}

// AllocationRepo returns the project allocation repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) AllocationRepo() catalog.ProjectAllocationRepository {
	return NewGormProjectAllocationRepository(r.tx)
}

// LocationRepo returns the component location repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) LocationRepo() stock.ComponentLocationRepository {
	return NewGormComponentLocationRepository(r.tx)
}

// AlertRepo returns the reorder alert repository scoped to the current transaction.
func (r *bulkTransactionalRepositories) AlertRepo() stock.ReorderAlertRepository {
	return NewGormReorderAlertRepository(r.tx)
}

// Ensure GormBulkTransactionScope implements TransactionScope
var _ appbulk.TransactionScope = (*GormBulkTransactionScope)(nil)

// Ensure bulkTransactionalRepositories implements TransactionalRepositories
var _ appbulk.TransactionalRepositories = (*bulkTransactionalRepositories)(nil)
