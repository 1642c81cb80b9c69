package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// History sort columns accepted from the API. Anything else falls back to
// the transaction date.
var historySortColumns = map[string]string{
	"transaction_date": "transaction_date",
	"transaction_type": "transaction_type",
	"quantity_change":  "quantity_change",
	"created_at":       "created_at",
}

// HistoryService provides paginated reads and exports over the append-only
// stock transaction log
type HistoryService struct {
	scope TransactionScope
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(scope TransactionScope) *HistoryService {
	return &HistoryService{scope: scope}
}

// List returns one page of a component's transaction history
func (s *HistoryService) List(ctx context.Context, componentID uuid.UUID, filter HistoryListFilter) (*shared.Paginated[TransactionResponse], error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID is required")
	}
	repoFilter := historyRepoFilter(filter)

	var page *shared.Paginated[TransactionResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		txs, err := repos.TransactionRepo().FindByComponent(ctx, componentID, repoFilter)
		if err != nil {
			return err
		}
		total, err := repos.TransactionRepo().CountByComponent(ctx, componentID)
		if err != nil {
			return err
		}

		items := make([]TransactionResponse, 0, len(txs))
		for i := range txs {
			items = append(items, NewTransactionResponse(&txs[i]))
		}
		p := shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize)
		page = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Export renders a component's full transaction history in the requested
// format. Row ordering is identical to List with the same sort parameters.
func (s *HistoryService) Export(ctx context.Context, componentID uuid.UUID, format ExportFormat, filter HistoryListFilter) (*ExportResult, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID is required")
	}
	if !format.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Export format must be one of csv, xlsx, json")
	}

	// Exports are unpaginated: page size 0 disables the limit.
	repoFilter := historyRepoFilter(filter)
	repoFilter.Page = 1
	repoFilter.PageSize = 0

	var rows []TransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		txs, err := repos.TransactionRepo().FindByComponent(ctx, componentID, repoFilter)
		if err != nil {
			return err
		}
		rows = make([]TransactionResponse, 0, len(txs))
		for i := range txs {
			rows = append(rows, NewTransactionResponse(&txs[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renderExport(componentID, format, rows)
}

// historyRepoFilter maps the API filter to the repository filter, whitelisting
// the sortable columns
func historyRepoFilter(filter HistoryListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = "transaction_date"
	if col, ok := historySortColumns[filter.SortBy]; ok {
		f.OrderBy = col
	}
	f.OrderDir = "desc"
	if filter.SortOrder == "asc" {
		f.OrderDir = "asc"
	}
	return f
}
