package stock

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
)

// In-memory repositories backing the service tests. They implement the same
// contracts as the GORM repositories, minus real locking: FindForUpdate
// behaves like FindByComponentAndLocation because the NoOp scope runs without
// a transaction.

type fakeLocationRepo struct {
	rows map[uuid.UUID]*stock.ComponentLocation
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{rows: make(map[uuid.UUID]*stock.ComponentLocation)}
}

func (r *fakeLocationRepo) put(loc *stock.ComponentLocation) {
	copied := *loc
	r.rows[loc.ID] = &copied
}

func (r *fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ComponentLocation, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindByComponentAndLocation(_ context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	for _, row := range r.rows {
		if row.ComponentID == componentID && row.LocationID == locationID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindForUpdate(ctx context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	return r.FindByComponentAndLocation(ctx, componentID, locationID)
}

func (r *fakeLocationRepo) FindByComponent(_ context.Context, componentID uuid.UUID) ([]stock.ComponentLocation, error) {
	var result []stock.ComponentLocation
	for _, row := range r.rows {
		if row.ComponentID == componentID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeLocationRepo) FindBelowThreshold(_ context.Context, _ shared.Filter) ([]stock.ComponentLocation, error) {
	var result []stock.ComponentLocation
	for _, row := range r.rows {
		if row.IsBelowThreshold() {
			result = append(result, *row)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ShortagePercentage() > result[j].ShortagePercentage()
	})
	return result, nil
}

func (r *fakeLocationRepo) SumQuantityByComponent(_ context.Context, componentID uuid.UUID) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if row.ComponentID == componentID {
			total += row.QuantityOnHand
		}
	}
	return total, nil
}

func (r *fakeLocationRepo) Save(_ context.Context, loc *stock.ComponentLocation) error {
	copied := *loc
	r.rows[loc.ID] = &copied
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeLocationRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeLocationRepo) CountBelowThreshold(_ context.Context) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.IsBelowThreshold() {
			count++
		}
	}
	return count, nil
}

type fakeTransactionRepo struct {
	rows []stock.StockTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockTransaction, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			copied := r.rows[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindByComponent(_ context.Context, componentID uuid.UUID, filter shared.Filter) ([]stock.StockTransaction, error) {
	var result []stock.StockTransaction
	for i := range r.rows {
		if r.rows[i].ComponentID == componentID {
			result = append(result, r.rows[i])
		}
	}

	asc := filter.OrderDir == "asc"
	sort.SliceStable(result, func(i, j int) bool {
		var less bool
		switch filter.OrderBy {
		case "quantity_change":
			less = result[i].QuantityChange < result[j].QuantityChange
		case "transaction_type":
			less = result[i].TransactionType < result[j].TransactionType
		default:
			less = result[i].TransactionDate.Before(result[j].TransactionDate)
		}
		if asc {
			return less
		}
		return !less
	})

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset >= len(result) {
			return nil, nil
		}
		end := offset + filter.PageSize
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (r *fakeTransactionRepo) CountByComponent(_ context.Context, componentID uuid.UUID) (int64, error) {
	var count int64
	for i := range r.rows {
		if r.rows[i].ComponentID == componentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *stock.StockTransaction) error {
	r.rows = append(r.rows, *tx)
	return nil
}

func (r *fakeTransactionRepo) CreateBatch(ctx context.Context, txs []*stock.StockTransaction) error {
	for _, tx := range txs {
		if err := r.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type fakeAlertRepo struct {
	rows map[uuid.UUID]*stock.ReorderAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{rows: make(map[uuid.UUID]*stock.ReorderAlert)}
}

func (r *fakeAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ReorderAlert, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindActiveByPair(_ context.Context, componentID, locationID uuid.UUID) (*stock.ReorderAlert, error) {
	for _, row := range r.rows {
		if row.ComponentID == componentID && row.LocationID == locationID && row.IsActive() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindAll(_ context.Context, filter shared.Filter) ([]stock.ReorderAlert, error) {
	var result []stock.ReorderAlert
	for _, row := range r.rows {
		if status, ok := filter.Filters["status"]; ok && row.Status.String() != status {
			continue
		}
		if severity, ok := filter.Filters["severity"]; ok && row.Severity.String() != severity {
			continue
		}
		if componentID, ok := filter.Filters["component_id"]; ok && row.ComponentID != componentID {
			continue
		}
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeAlertRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	rows, err := r.FindAll(ctx, filter)
	return int64(len(rows)), err
}

func (r *fakeAlertRepo) CountByStatus(_ context.Context) (map[stock.AlertStatus]int64, error) {
	counts := make(map[stock.AlertStatus]int64)
	for _, row := range r.rows {
		counts[row.Status]++
	}
	return counts, nil
}

func (r *fakeAlertRepo) CountActiveBySeverity(_ context.Context) (map[stock.AlertSeverity]int64, error) {
	counts := make(map[stock.AlertSeverity]int64)
	for _, row := range r.rows {
		if row.IsActive() {
			counts[row.Severity]++
		}
	}
	return counts, nil
}

func (r *fakeAlertRepo) SumActiveShortage(_ context.Context) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if row.IsActive() {
			total += row.ShortageAmount
		}
	}
	return total, nil
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *stock.ReorderAlert) error {
	copied := *alert
	r.rows[alert.ID] = &copied
	return nil
}

func (r *fakeAlertRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

// newTestScope wires the fakes into a NoOp scope
func newTestScope() (*NoOpTransactionScope, *fakeLocationRepo, *fakeTransactionRepo, *fakeAlertRepo) {
	locations := newFakeLocationRepo()
	transactions := newFakeTransactionRepo()
	alerts := newFakeAlertRepo()
	return NewNoOpTransactionScope(locations, transactions, alerts), locations, transactions, alerts
}

var (
	_ stock.ComponentLocationRepository = (*fakeLocationRepo)(nil)
	_ stock.StockTransactionRepository  = (*fakeTransactionRepo)(nil)
	_ stock.ReorderAlertRepository      = (*fakeAlertRepo)(nil)
)
