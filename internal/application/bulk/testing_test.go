package bulk

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
)

// In-memory catalog repositories backing the coordinator tests. Version
// checks mirror the GORM implementations: a save or delete with a stale
// expected version fails with shared.ErrConcurrencyConflict.

type fakeComponentRepo struct {
	rows map[uuid.UUID]*catalog.Component
}

func newFakeComponentRepo() *fakeComponentRepo {
	return &fakeComponentRepo{rows: make(map[uuid.UUID]*catalog.Component)}
}

func (r *fakeComponentRepo) put(c *catalog.Component) {
	copied := *c
	copied.Tags = append([]catalog.Tag(nil), c.Tags...)
	r.rows[c.ID] = &copied
}

func (r *fakeComponentRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Component, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		copied.Tags = append([]catalog.Tag(nil), row.Tags...)
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeComponentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Component, error) {
	var result []catalog.Component
	for _, id := range ids {
		if row, err := r.FindByID(ctx, id); err == nil {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeComponentRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Component, error) {
	var result []catalog.Component
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeComponentRepo) Save(_ context.Context, component *catalog.Component) error {
	r.put(component)
	return nil
}

func (r *fakeComponentRepo) SaveWithLock(_ context.Context, component *catalog.Component, expectedVersion int) error {
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

func (r *fakeComponentRepo) ReplaceTags(_ context.Context, component *catalog.Component, tags []catalog.Tag) error {
	row, ok := r.rows[component.ID]
	if !ok {
		return shared.ErrNotFound
	}
	row.Tags = append([]catalog.Tag(nil), tags...)
	return nil
}

func (r *fakeComponentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeComponentRepo) DeleteWithLock(_ context.Context, id uuid.UUID, expectedVersion int) error {
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

func (r *fakeComponentRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.rows)), nil
}

// versionSkewComponentRepo simulates a concurrent writer: every versioned
// save or delete sees a stale snapshot and fails the optimistic check
type versionSkewComponentRepo struct {
	*fakeComponentRepo
}

func (r *versionSkewComponentRepo) SaveWithLock(context.Context, *catalog.Component, int) error {
	return shared.ErrConcurrencyConflict
}

func (r *versionSkewComponentRepo) DeleteWithLock(context.Context, uuid.UUID, int) error {
	return shared.ErrConcurrencyConflict
}

type fakeTagRepo struct {
	rows map[uuid.UUID]*catalog.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{rows: make(map[uuid.UUID]*catalog.Tag)}
}

func (r *fakeTagRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Tag, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTagRepo) FindByName(_ context.Context, name string) (*catalog.Tag, error) {
	for _, row := range r.rows {
		if row.Name == name {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTagRepo) GetOrCreateByName(ctx context.Context, name string) (*catalog.Tag, error) {
	if tag, err := r.FindByName(ctx, name); err == nil {
		return tag, nil
	}
	tag, err := catalog.NewTag(name)
	if err != nil {
		return nil, err
	}
	r.rows[tag.ID] = tag
	copied := *tag
	return &copied, nil
}

func (r *fakeTagRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Tag, error) {
	var result []catalog.Tag
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeTagRepo) Save(_ context.Context, tag *catalog.Tag) error {
	copied := *tag
	r.rows[tag.ID] = &copied
	return nil
}

func (r *fakeTagRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type fakeProjectRepo struct {
	rows map[uuid.UUID]*catalog.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{rows: make(map[uuid.UUID]*catalog.Project)}
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Project, error) {
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProjectRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Project, error) {
	var result []catalog.Project
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *fakeProjectRepo) Save(_ context.Context, project *catalog.Project) error {
	copied := *project
	r.rows[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type fakeAllocationRepo struct {
	rows map[uuid.UUID]*catalog.ProjectAllocation
}

func newFakeAllocationRepo() *fakeAllocationRepo {
	return &fakeAllocationRepo{rows: make(map[uuid.UUID]*catalog.ProjectAllocation)}
}

func (r *fakeAllocationRepo) FindByProjectAndComponent(_ context.Context, projectID, componentID uuid.UUID) (*catalog.ProjectAllocation, error) {
	for _, row := range r.rows {
		if row.ProjectID == projectID && row.ComponentID == componentID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAllocationRepo) FindByProject(_ context.Context, projectID uuid.UUID) ([]catalog.ProjectAllocation, error) {
	var result []catalog.ProjectAllocation
	for _, row := range r.rows {
		if row.ProjectID == projectID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeAllocationRepo) Upsert(ctx context.Context, allocation *catalog.ProjectAllocation) error {
	if existing, err := r.FindByProjectAndComponent(ctx, allocation.ProjectID, allocation.ComponentID); err == nil {
		if err := existing.SetQuantity(allocation.Quantity); err != nil {
			return err
		}
		r.rows[existing.ID] = existing
		return nil
	}
	copied := *allocation
	r.rows[allocation.ID] = &copied
	return nil
}

func (r *fakeAllocationRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	for id, row := range r.rows {
		if row.ComponentID == componentID {
			delete(r.rows, id)
		}
	}
	return nil
}

// Minimal stock fakes for the deletion cascade.

type fakeLocationRepo struct {
	byComponent map[uuid.UUID]int
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byComponent: make(map[uuid.UUID]int)}
}

func (r *fakeLocationRepo) FindByID(context.Context, uuid.UUID) (*stock.ComponentLocation, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindByComponentAndLocation(context.Context, uuid.UUID, uuid.UUID) (*stock.ComponentLocation, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindForUpdate(context.Context, uuid.UUID, uuid.UUID) (*stock.ComponentLocation, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindByComponent(context.Context, uuid.UUID) ([]stock.ComponentLocation, error) {
	return nil, nil
}

func (r *fakeLocationRepo) FindBelowThreshold(context.Context, shared.Filter) ([]stock.ComponentLocation, error) {
	return nil, nil
}

func (r *fakeLocationRepo) SumQuantityByComponent(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeLocationRepo) Save(context.Context, *stock.ComponentLocation) error { return nil }

func (r *fakeLocationRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeLocationRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	delete(r.byComponent, componentID)
	return nil
}

func (r *fakeLocationRepo) CountBelowThreshold(context.Context) (int64, error) { return 0, nil }

type fakeAlertRepo struct {
	byComponent map[uuid.UUID]int
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{byComponent: make(map[uuid.UUID]int)}
}

func (r *fakeAlertRepo) FindByID(context.Context, uuid.UUID) (*stock.ReorderAlert, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindActiveByPair(context.Context, uuid.UUID, uuid.UUID) (*stock.ReorderAlert, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindAll(context.Context, shared.Filter) ([]stock.ReorderAlert, error) {
	return nil, nil
}

func (r *fakeAlertRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (r *fakeAlertRepo) CountByStatus(context.Context) (map[stock.AlertStatus]int64, error) {
	return nil, nil
}

func (r *fakeAlertRepo) CountActiveBySeverity(context.Context) (map[stock.AlertSeverity]int64, error) {
	return nil, nil
}

func (r *fakeAlertRepo) SumActiveShortage(context.Context) (int64, error) { return 0, nil }

func (r *fakeAlertRepo) Save(context.Context, *stock.ReorderAlert) error { return nil }

func (r *fakeAlertRepo) DeleteByComponent(_ context.Context, componentID uuid.UUID) error {
	delete(r.byComponent, componentID)
	return nil
}

type testFixture struct {
	scope       *NoOpTransactionScope
	components  *fakeComponentRepo
	tags        *fakeTagRepo
	projects    *fakeProjectRepo
	allocations *fakeAllocationRepo
	locations   *fakeLocationRepo
	alerts      *fakeAlertRepo
}

func newTestFixture() *testFixture {
	components := newFakeComponentRepo()
	tags := newFakeTagRepo()
	projects := newFakeProjectRepo()
	allocations := newFakeAllocationRepo()
	locations := newFakeLocationRepo()
	alerts := newFakeAlertRepo()
	return &testFixture{
		scope:       NewNoOpTransactionScope(components, tags, projects, allocations, locations, alerts),
		components:  components,
		tags:        tags,
		projects:    projects,
		allocations: allocations,
		locations:   locations,
		alerts:      alerts,
	}
}

var (
	_ catalog.ComponentRepository         = (*fakeComponentRepo)(nil)
	_ catalog.TagRepository               = (*fakeTagRepo)(nil)
	_ catalog.ProjectRepository           = (*fakeProjectRepo)(nil)
	_ catalog.ProjectAllocationRepository = (*fakeAllocationRepo)(nil)
	_ stock.ComponentLocationRepository   = (*fakeLocationRepo)(nil)
	_ stock.ReorderAlertRepository        = (*fakeAlertRepo)(nil)
)
