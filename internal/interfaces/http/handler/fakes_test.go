package handler

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
)

// In-memory repositories backing the handler tests. They mirror the GORM
// repository contracts, wired through the NoOp transaction scopes.

type memLocationRepo struct {
	rows map[uuid.UUID]*stock.ComponentLocation
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{rows: make(map[uuid.UUID]*stock.ComponentLocation)}
}

func (r *memLocationRepo) put(loc *stock.ComponentLocation) {
	copied := *loc
	r.rows[loc.ID] = &copied
}

func (r *memLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ComponentLocation, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindByComponentAndLocation(_ context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	for _, row := range r.rows {
		if row.ComponentID == componentID && row.LocationID == locationID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindForUpdate(ctx context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	return r.FindByComponentAndLocation(ctx, componentID, locationID)
}

func (r *memLocationRepo) FindByComponent(_ context.Context, componentID uuid.UUID) ([]stock.ComponentLocation, error) {
	var result []stock.ComponentLocation
	for _, row := range r.rows {
		if row.ComponentID == componentID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *memLocationRepo) FindBelowThreshold(_ context.Context, _ shared.Filter) ([]stock.ComponentLocation, error) {
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

func (r *memLocationRepo) SumQuantityByComponent(_ context.Context, componentID uuid.UUID) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if row.ComponentID == componentID {
			total += row.QuantityOnHand
		}
	}
	return total, nil
}

func (r *memLocationRepo) Save(_ context.Context, loc *stock.ComponentLocation) error {
	r.put(loc)
	return nil
}

func (r *memLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memLocationRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *memLocationRepo) CountBelowThreshold(_ context.Context) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.IsBelowThreshold() {
			count++
		}
	}
	return count, nil
}

type memTransactionRepo struct {
	rows []stock.StockTransaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{}
}

func (r *memTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockTransaction, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			copied := r.rows[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransactionRepo) FindByComponent(_ context.Context, componentID uuid.UUID, filter shared.Filter) ([]stock.StockTransaction, error) {
	var result []stock.StockTransaction
	for i := range r.rows {
		if r.rows[i].ComponentID == componentID {
			result = append(result, r.rows[i])
		}
	}

	asc := filter.OrderDir == "asc"
	sort.SliceStable(result, func(i, j int) bool {
		less := result[i].TransactionDate.Before(result[j].TransactionDate)
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

func (r *memTransactionRepo) CountByComponent(_ context.Context, componentID uuid.UUID) (int64, error) {
	var count int64
	for i := range r.rows {
		if r.rows[i].ComponentID == componentID {
			count++
		}
	}
	return count, nil
}

func (r *memTransactionRepo) Create(_ context.Context, tx *stock.StockTransaction) error {
	r.rows = append(r.rows, *tx)
	return nil
}

func (r *memTransactionRepo) CreateBatch(ctx context.Context, txs []*stock.StockTransaction) error {
	for _, tx := range txs {
		if err := r.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type memAlertRepo struct {
	rows map[uuid.UUID]*stock.ReorderAlert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{rows: make(map[uuid.UUID]*stock.ReorderAlert)}
}

func (r *memAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ReorderAlert, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAlertRepo) FindActiveByPair(_ context.Context, componentID, locationID uuid.UUID) (*stock.ReorderAlert, error) {
	for _, row := range r.rows {
		if row.ComponentID == componentID && row.LocationID == locationID && row.IsActive() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAlertRepo) FindAll(_ context.Context, filter shared.Filter) ([]stock.ReorderAlert, error) {
	var result []stock.ReorderAlert
	for _, row := range r.rows {
		if status, ok := filter.Filters["status"]; ok && row.Status.String() != status {
			continue
		}
		if severity, ok := filter.Filters["severity"]; ok && row.Severity.String() != severity {
			continue
		}
		result = append(result, *row)
	}
	return result, nil
}

func (r *memAlertRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	rows, err := r.FindAll(ctx, filter)
	return int64(len(rows)), err
}

func (r *memAlertRepo) CountByStatus(_ context.Context) (map[stock.AlertStatus]int64, error) {
	counts := make(map[stock.AlertStatus]int64)
	for _, row := range r.rows {
		counts[row.Status]++
	}
	return counts, nil
}

func (r *memAlertRepo) CountActiveBySeverity(_ context.Context) (map[stock.AlertSeverity]int64, error) {
	counts := make(map[stock.AlertSeverity]int64)
	for _, row := range r.rows {
		if row.IsActive() {
			counts[row.Severity]++
		}
	}
	return counts, nil
}

func (r *memAlertRepo) SumActiveShortage(_ context.Context) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if row.IsActive() {
			total += row.ShortageAmount
		}
	}
	return total, nil
}

func (r *memAlertRepo) Save(_ context.Context, alert *stock.ReorderAlert) error {
	copied := *alert
	r.rows[alert.ID] = &copied
	return nil
}

func (r *memAlertRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

type memComponentRepo struct {
	rows map[uuid.UUID]*catalog.Component
}

func newMemComponentRepo() *memComponentRepo {
	return &memComponentRepo{rows: make(map[uuid.UUID]*catalog.Component)}
}

func (r *memComponentRepo) put(c *catalog.Component) {
	copied := *c
	copied.Tags = append([]catalog.Tag(nil), c.Tags...)
	r.rows[c.ID] = &copied
}

func (r *memComponentRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Component, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		copied.Tags = append([]catalog.Tag(nil), row.Tags...)
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memComponentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Component, error) {
	var result []catalog.Component
	for _, id := range ids {
		if row, err := r.FindByID(ctx, id); err == nil {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *memComponentRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Component, error) {
	var result []catalog.Component
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *memComponentRepo) Save(_ context.Context, component *catalog.Component) error {
	r.put(component)
	return nil
}

func (r *memComponentRepo) SaveWithLock(_ context.Context, component *catalog.Component, expectedVersion int) error {
	row, ok := r.rows[component.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if row.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.put(component)
	return nil
}

func (r *memComponentRepo) ReplaceTags(_ context.Context, component *catalog.Component, tags []catalog.Tag) error {
	row, ok := r.rows[component.ID]
	if !ok {
		return shared.ErrNotFound
	}
	row.Tags = append([]catalog.Tag(nil), tags...)
	return nil
}

func (r *memComponentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memComponentRepo) DeleteWithLock(_ context.Context, id uuid.UUID, expectedVersion int) error {
	row, ok := r.rows[id]
	if !ok {
		return shared.ErrNotFound
	}
	if row.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	delete(r.rows, id)
	return nil
}

func (r *memComponentRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.rows)), nil
}

type memTagRepo struct {
	rows map[uuid.UUID]*catalog.Tag
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{rows: make(map[uuid.UUID]*catalog.Tag)}
}

func (r *memTagRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Tag, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTagRepo) FindByName(_ context.Context, name string) (*catalog.Tag, error) {
	for _, row := range r.rows {
		if row.Name == name {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTagRepo) GetOrCreateByName(ctx context.Context, name string) (*catalog.Tag, error) {
	if tag, err := r.FindByName(ctx, name); err == nil {
		return tag, nil
	}
	tag, err := catalog.NewTag(name)
	if err != nil {
		return nil, err
	}
	copied := *tag
	r.rows[tag.ID] = &copied
	return tag, nil
}

func (r *memTagRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Tag, error) {
	var result []catalog.Tag
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *memTagRepo) Save(_ context.Context, tag *catalog.Tag) error {
	copied := *tag
	r.rows[tag.ID] = &copied
	return nil
}

func (r *memTagRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type memProjectRepo struct {
	rows map[uuid.UUID]*catalog.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{rows: make(map[uuid.UUID]*catalog.Project)}
}

func (r *memProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Project, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProjectRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Project, error) {
	var result []catalog.Project
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *memProjectRepo) Save(_ context.Context, project *catalog.Project) error {
	copied := *project
	r.rows[project.ID] = &copied
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type memAllocationRepo struct {
	rows map[uuid.UUID]*catalog.ProjectAllocation
}

func newMemAllocationRepo() *memAllocationRepo {
	return &memAllocationRepo{rows: make(map[uuid.UUID]*catalog.ProjectAllocation)}
}

func (r *memAllocationRepo) FindByProjectAndComponent(_ context.Context, projectID, componentID uuid.UUID) (*catalog.ProjectAllocation, error) {
	for _, row := range r.rows {
		if row.ProjectID == projectID && row.ComponentID == componentID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAllocationRepo) FindByProject(_ context.Context, projectID uuid.UUID) ([]catalog.ProjectAllocation, error) {
	var result []catalog.ProjectAllocation
	for _, row := range r.rows {
		if row.ProjectID == projectID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *memAllocationRepo) Upsert(_ context.Context, allocation *catalog.ProjectAllocation) error {
	for id, row := range r.rows {
		if row.ProjectID == allocation.ProjectID && row.ComponentID == allocation.ComponentID {
			row.Quantity = allocation.Quantity
			r.rows[id] = row
			return nil
		}
	}
	copied := *allocation
	r.rows[allocation.ID] = &copied
	return nil
}

func (r *memAllocationRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

var (
	_ stock.ComponentLocationRepository   = (*memLocationRepo)(nil)
	_ stock.StockTransactionRepository    = (*memTransactionRepo)(nil)
	_ stock.ReorderAlertRepository        = (*memAlertRepo)(nil)
	_ catalog.ComponentRepository         = (*memComponentRepo)(nil)
	_ catalog.TagRepository               = (*memTagRepo)(nil)
	_ catalog.ProjectRepository           = (*memProjectRepo)(nil)
	_ catalog.ProjectAllocationRepository = (*memAllocationRepo)(nil)
)
