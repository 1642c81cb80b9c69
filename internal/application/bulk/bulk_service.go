package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
)

// DefaultMaxBatchSize bounds how many components a single bulk operation may
// touch when no limit is configured
const DefaultMaxBatchSize = 1000

// errRolledBack forces the transaction scope to roll back after per-component
// errors were collected. It never escapes the service.
var errRolledBack = errors.New("bulk operation rolled back")

// Service coordinates all-or-nothing operations over batches of components.
// Failures are collected per component; if any component fails, the whole
// batch is rolled back and reported with affected_count zero.
type Service struct {
	scope        TransactionScope
	maxBatchSize int
}

// NewService creates a new bulk Service
func NewService(scope TransactionScope, maxBatchSize int) *Service {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &Service{scope: scope, maxBatchSize: maxBatchSize}
}

// AddTags attaches the given tags to every component in the batch. Tags are
// created on first use; attaching a tag a component already has is a no-op.
func (s *Service) AddTags(ctx context.Context, req TagsRequest) (*OperationResponse, error) {
	ids, err := s.validateBatch(req.ComponentIDs)
	if err != nil {
		return nil, err
	}

	var opErrs []OperationError
	execErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		components, missing := loadComponents(ctx, repos, ids)
		opErrs = missing

		tags := make([]catalog.Tag, 0, len(req.Tags))
		for _, name := range req.Tags {
			tag, err := repos.TagRepo().GetOrCreateByName(ctx, name)
			if err != nil {
				return err
			}
			tags = append(tags, *tag)
		}

		for _, id := range ids {
			component, ok := components[id]
			if !ok {
				continue
			}
			expected := component.Version
			changed := false
			for _, tag := range tags {
				if component.AddTag(tag) {
					changed = true
				}
			}
			if !changed {
				continue
			}
			if err := s.saveComponent(ctx, repos, component, expected, &opErrs); err != nil {
				return err
			}
		}

		if len(opErrs) > 0 {
			return errRolledBack
		}
		return nil
	})
	return s.finish(len(ids), opErrs, execErr)
}

// RemoveTags detaches the given tags from every component in the batch.
// Unknown tag names and absent memberships are no-ops.
func (s *Service) RemoveTags(ctx context.Context, req TagsRequest) (*OperationResponse, error) {
	ids, err := s.validateBatch(req.ComponentIDs)
	if err != nil {
		return nil, err
	}

	var opErrs []OperationError
	execErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		components, missing := loadComponents(ctx, repos, ids)
		opErrs = missing

		tagIDs := make([]uuid.UUID, 0, len(req.Tags))
		for _, name := range req.Tags {
			tag, err := repos.TagRepo().FindByName(ctx, name)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			tagIDs = append(tagIDs, tag.ID)
		}

		for _, id := range ids {
			component, ok := components[id]
			if !ok {
				continue
			}
			expected := component.Version
			changed := false
			for _, tagID := range tagIDs {
				if component.RemoveTag(tagID) {
					changed = true
				}
			}
			if !changed {
				continue
			}
			if err := s.saveComponent(ctx, repos, component, expected, &opErrs); err != nil {
				return err
			}
		}

		if len(opErrs) > 0 {
			return errRolledBack
		}
		return nil
	})
	return s.finish(len(ids), opErrs, execErr)
}

// PreviewTags projects the tag sets that would result from the given adds and
// removes without persisting anything. It uses the same membership semantics
// as AddTags and RemoveTags.
func (s *Service) PreviewTags(ctx context.Context, req PreviewTagsRequest) (*PreviewTagsResponse, error) {
	ids, err := s.validateBatch(req.ComponentIDs)
	if err != nil {
		return nil, err
	}

	resp := &PreviewTagsResponse{}
	execErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		components, missing := loadComponents(ctx, repos, ids)
		resp.Errors = missing

		for _, id := range ids {
			component, ok := components[id]
			if !ok {
				continue
			}
			current := component.TagNames()
			resp.Previews = append(resp.Previews, TagPreview{
				ComponentID:   component.ID,
				ComponentName: component.Name,
				CurrentTags:   current,
				ResultingTags: projectTagNames(current, req.AddTags, req.RemoveTags),
			})
		}
		return nil
	})
	if execErr != nil {
		return nil, execErr
	}
	return resp, nil
}

// AssignToProject reserves quantities of every component in the batch for a
// project. Assigning a component that is already allocated updates the
// reserved quantity in place.
func (s *Service) AssignToProject(ctx context.Context, req AssignToProjectRequest) (*OperationResponse, error) {
	componentIDs := make([]uuid.UUID, 0, len(req.Components))
	for _, item := range req.Components {
		componentIDs = append(componentIDs, item.ComponentID)
	}
	ids, err := s.validateBatch(componentIDs)
	if err != nil {
		return nil, err
	}

	var opErrs []OperationError
	execErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.ProjectRepo().FindByID(ctx, req.ProjectID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				opErrs = append(opErrs, OperationError{
					ErrorType: ErrorTypeNotFound,
					Message:   "Project does not exist",
				})
				return errRolledBack
			}
			return err
		}

		components, missing := loadComponents(ctx, repos, ids)
		opErrs = missing

		for _, item := range req.Components {
			component, ok := components[item.ComponentID]
			if !ok {
				continue
			}

			allocation, err := catalog.NewProjectAllocation(req.ProjectID, item.ComponentID, item.Quantity)
			if err != nil {
				opErrs = append(opErrs, OperationError{
					ComponentID: item.ComponentID,
					ErrorType:   ErrorTypeValidation,
					Message:     err.Error(),
				})
				continue
			}

			expected := component.Version
			component.IncrementVersion()
			if err := s.saveComponent(ctx, repos, component, expected, &opErrs); err != nil {
				return err
			}
			if err := repos.AllocationRepo().Upsert(ctx, allocation); err != nil {
				return err
			}
		}

		if len(opErrs) > 0 {
			return errRolledBack
		}
		return nil
	})
	return s.finish(len(ids), opErrs, execErr)
}

// DeleteComponents removes every component in the batch together with its tag
// links, project allocations, stock locations and reorder alerts. The stock
// transaction log is kept as an audit trail.
func (s *Service) DeleteComponents(ctx context.Context, req DeleteComponentsRequest) (*OperationResponse, error) {
	ids, err := s.validateBatch(req.ComponentIDs)
	if err != nil {
		return nil, err
	}

	var opErrs []OperationError
	execErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		components, missing := loadComponents(ctx, repos, ids)
		opErrs = missing

		for _, id := range ids {
			component, ok := components[id]
			if !ok {
				continue
			}

			if err := repos.AllocationRepo().DeleteByComponent(ctx, id); err != nil {
				return err
			}
			if err := repos.AlertRepo().DeleteByComponent(ctx, id); err != nil {
				return err
			}
			if err := repos.LocationRepo().DeleteByComponent(ctx, id); err != nil {
				return err
			}

			err := repos.ComponentRepo().DeleteWithLock(ctx, id, component.Version)
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				opErrs = append(opErrs, OperationError{
					ComponentID: id,
					ErrorType:   ErrorTypeConcurrentModification,
					Message:     "Component was modified by another operation",
				})
				continue
			}
			if err != nil {
				return err
			}
		}

		if len(opErrs) > 0 {
			return errRolledBack
		}
		return nil
	})
	return s.finish(len(ids), opErrs, execErr)
}

// validateBatch deduplicates the ID list and enforces the batch size limit
func (s *Service) validateBatch(componentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(componentIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID list cannot be empty")
	}
	if len(componentIDs) > s.maxBatchSize {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Batch size %d exceeds the maximum of %d", len(componentIDs), s.maxBatchSize))
	}

	seen := make(map[uuid.UUID]struct{}, len(componentIDs))
	ids := make([]uuid.UUID, 0, len(componentIDs))
	for _, id := range componentIDs {
		if id == uuid.Nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID list contains an empty ID")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// saveComponent persists a modified component with a version check, recording
// a concurrent_modification error instead of failing the scope
func (s *Service) saveComponent(ctx context.Context, repos TransactionalRepositories, component *catalog.Component, expectedVersion int, opErrs *[]OperationError) error {
	err := repos.ComponentRepo().SaveWithLock(ctx, component, expectedVersion)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		*opErrs = append(*opErrs, OperationError{
			ComponentID: component.ID,
			ErrorType:   ErrorTypeConcurrentModification,
			Message:     "Component was modified by another operation",
		})
		return nil
	}
	if err != nil {
		return err
	}
	return repos.ComponentRepo().ReplaceTags(ctx, component, component.Tags)
}

// finish builds the uniform response envelope out of the collected errors
func (s *Service) finish(batchSize int, opErrs []OperationError, execErr error) (*OperationResponse, error) {
	if errors.Is(execErr, errRolledBack) {
		return &OperationResponse{Success: false, AffectedCount: 0, Errors: opErrs}, nil
	}
	if execErr != nil {
		return nil, execErr
	}
	return &OperationResponse{Success: true, AffectedCount: batchSize}, nil
}

// loadComponents fetches the batch and reports the IDs that do not exist
func loadComponents(ctx context.Context, repos TransactionalRepositories, ids []uuid.UUID) (map[uuid.UUID]*catalog.Component, []OperationError) {
	found, err := repos.ComponentRepo().FindByIDs(ctx, ids)
	if err != nil {
		// surfaced as not_found for the whole batch; the scope still rolls back
		errs := make([]OperationError, 0, len(ids))
		for _, id := range ids {
			errs = append(errs, OperationError{ComponentID: id, ErrorType: ErrorTypeNotFound, Message: err.Error()})
		}
		return nil, errs
	}

	components := make(map[uuid.UUID]*catalog.Component, len(found))
	for i := range found {
		components[found[i].ID] = &found[i]
	}

	var errs []OperationError
	for _, id := range ids {
		if _, ok := components[id]; !ok {
			errs = append(errs, OperationError{
				ComponentID: id,
				ErrorType:   ErrorTypeNotFound,
				Message:     "Component does not exist",
			})
		}
	}
	return components, errs
}

// projectTagNames applies add and remove lists to a tag name set, preserving
// current order and appending new names in request order
func projectTagNames(current, add, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, name := range remove {
		removed[name] = struct{}{}
	}

	result := make([]string, 0, len(current)+len(add))
	present := make(map[string]struct{}, len(current)+len(add))
	for _, name := range current {
		if _, drop := removed[name]; drop {
			continue
		}
		result = append(result, name)
		present[name] = struct{}{}
	}
	for _, name := range add {
		if _, drop := removed[name]; drop {
			continue
		}
		if _, ok := present[name]; ok {
			continue
		}
		result = append(result, name)
		present[name] = struct{}{}
	}
	return result
}
