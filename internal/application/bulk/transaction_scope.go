package bulk

import (
	"context"

	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories a bulk
// operation touches. Bulk operations are all-or-nothing: the coordinator
// collects per-component errors and forces a rollback when any occurred, so
// either every component is changed or none is.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the catalog and stock
// repositories within a transaction. Stock repositories are needed for the
// cascade performed by component deletion.
type TransactionalRepositories interface {
	// ComponentRepo returns the component repository scoped to the current transaction
	ComponentRepo() catalog.ComponentRepository
	// TagRepo returns the tag repository scoped to the current transaction
	TagRepo() catalog.TagRepository
	// ProjectRepo returns the project repository scoped to the current transaction
	ProjectRepo() catalog.ProjectRepository
	// AllocationRepo returns the project allocation repository scoped to the current transaction
	AllocationRepo() catalog.ProjectAllocationRepository
	// LocationRepo returns the component location repository scoped to the current transaction
	LocationRepo() stock.ComponentLocationRepository
	// AlertRepo returns the reorder alert repository scoped to the current transaction
	AlertRepo() stock.ReorderAlertRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	componentRepo  catalog.ComponentRepository
	tagRepo        catalog.TagRepository
	projectRepo    catalog.ProjectRepository
	allocationRepo catalog.ProjectAllocationRepository
	locationRepo   stock.ComponentLocationRepository
	alertRepo      stock.ReorderAlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	componentRepo catalog.ComponentRepository,
	tagRepo catalog.TagRepository,
	projectRepo catalog.ProjectRepository,
	allocationRepo catalog.ProjectAllocationRepository,
	locationRepo stock.ComponentLocationRepository,
	alertRepo stock.ReorderAlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		componentRepo:  componentRepo,
		tagRepo:        tagRepo,
		projectRepo:    projectRepo,
		allocationRepo: allocationRepo,
		locationRepo:   locationRepo,
		alertRepo:      alertRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ComponentRepo returns the component repository.
func (s *NoOpTransactionScope) ComponentRepo() catalog.ComponentRepository {
	return s.componentRepo
}

// TagRepo returns the tag repository.
func (s *NoOpTransactionScope) TagRepo() catalog.TagRepository {
	return s.tagRepo
}

// ProjectRepo returns the project repository.
func (s *NoOpTransactionScope) ProjectRepo() catalog.ProjectRepository {
	return s.projectRepo
}

// AllocationRepo returns the project allocation repository.
func (s *NoOpTransactionScope) AllocationRepo() catalog.ProjectAllocationRepository {
	return s.allocationRepo
}

// LocationRepo returns the component location repository.
func (s *NoOpTransactionScope) LocationRepo() stock.ComponentLocationRepository {
	return s.locationRepo
}

// AlertRepo returns the reorder alert repository.
func (s *NoOpTransactionScope) AlertRepo() stock.ReorderAlertRepository {
	return s.alertRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
