package bulk

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedComponent(t *testing.T, fx *testFixture, name string, tagNames ...string) *catalog.Component {
	t.Helper()
	component, err := catalog.NewComponent(name)
	require.NoError(t, err)
	for _, tagName := range tagNames {
		tag, err := fx.tags.GetOrCreateByName(context.Background(), tagName)
		require.NoError(t, err)
		component.AddTag(*tag)
	}
	fx.components.put(component)
	return component
}

func TestService_AddTags(t *testing.T) {
	ctx := context.Background()

	t.Run("tags every component and creates missing tags", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		b := seedComponent(t, fx, "capacitor")

		resp, err := svc.AddTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID, b.ID},
			Tags:         []string{"passive", "smd"},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.AffectedCount)
		assert.Empty(t, resp.Errors)

		stored, err := fx.components.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"passive", "smd"}, stored.TagNames())
	})

	t.Run("re-adding an existing tag is a no-op", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor", "passive")
		versionBefore := a.Version

		resp, err := svc.AddTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
			Tags:         []string{"passive"},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)

		stored, err := fx.components.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, versionBefore, stored.Version)
		assert.Equal(t, []string{"passive"}, stored.TagNames())
	})

	t.Run("one missing component fails the whole batch", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		missing := uuid.New()

		resp, err := svc.AddTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID, missing},
			Tags:         []string{"passive"},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, resp.AffectedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, missing, resp.Errors[0].ComponentID)
		assert.Equal(t, ErrorTypeNotFound, resp.Errors[0].ErrorType)
	})

	t.Run("stale version is a concurrent modification", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		// simulate another writer bumping the row between load and save:
		// SaveWithLock sees the snapshot version and must refuse
		failing := &versionSkewComponentRepo{fakeComponentRepo: fx.components}
		svc = NewService(NewNoOpTransactionScope(failing, fx.tags, fx.projects, fx.allocations, fx.locations, fx.alerts), 0)

		resp, err := svc.AddTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
			Tags:         []string{"passive"},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, ErrorTypeConcurrentModification, resp.Errors[0].ErrorType)
	})

	t.Run("rejects batches above the limit", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 3)
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

		_, err := svc.AddTags(ctx, TagsRequest{ComponentIDs: ids, Tags: []string{"x"}})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		_, err := svc.AddTags(ctx, TagsRequest{Tags: []string{"x"}})
		assert.Error(t, err)
	})

	t.Run("duplicate IDs count once", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")

		resp, err := svc.AddTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID, a.ID, a.ID},
			Tags:         []string{"passive"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.AffectedCount)
	})
}

func TestService_RemoveTags(t *testing.T) {
	ctx := context.Background()

	t.Run("removes tag membership", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor", "passive", "smd")

		resp, err := svc.RemoveTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
			Tags:         []string{"passive"},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)

		stored, err := fx.components.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"smd"}, stored.TagNames())
	})

	t.Run("unknown tag names are no-ops", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor", "passive")

		resp, err := svc.RemoveTags(ctx, TagsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
			Tags:         []string{"does-not-exist"},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		stored, err := fx.components.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"passive"}, stored.TagNames())
	})
}

func TestService_PreviewTags(t *testing.T) {
	ctx := context.Background()

	t.Run("projects without persisting", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor", "passive", "tht")

		resp, err := svc.PreviewTags(ctx, PreviewTagsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
			AddTags:      []string{"smd", "passive"},
			RemoveTags:   []string{"tht"},
		})
		require.NoError(t, err)
		require.Len(t, resp.Previews, 1)
		assert.Equal(t, []string{"passive", "tht"}, resp.Previews[0].CurrentTags)
		assert.Equal(t, []string{"passive", "smd"}, resp.Previews[0].ResultingTags)

		// nothing changed and no tag rows were created
		stored, err := fx.components.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"passive", "tht"}, stored.TagNames())
		_, err = fx.tags.FindByName(ctx, "smd")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing components are reported alongside previews", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		missing := uuid.New()

		resp, err := svc.PreviewTags(ctx, PreviewTagsRequest{
			ComponentIDs: []uuid.UUID{a.ID, missing},
			AddTags:      []string{"x"},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Previews, 1)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, missing, resp.Errors[0].ComponentID)
	})
}

func TestService_AssignToProject(t *testing.T) {
	ctx := context.Background()

	t.Run("creates allocations", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		project, err := catalog.NewProject("rev2 board")
		require.NoError(t, err)
		require.NoError(t, fx.projects.Save(ctx, project))
		a := seedComponent(t, fx, "resistor")
		b := seedComponent(t, fx, "capacitor")

		resp, err := svc.AssignToProject(ctx, AssignToProjectRequest{
			ProjectID: project.ID,
			Components: []AssignmentItem{
				{ComponentID: a.ID, Quantity: 10},
				{ComponentID: b.ID, Quantity: 4},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.AffectedCount)

		allocation, err := fx.allocations.FindByProjectAndComponent(ctx, project.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), allocation.Quantity)
	})

	t.Run("reassignment updates the quantity", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		project, _ := catalog.NewProject("rev2 board")
		require.NoError(t, fx.projects.Save(ctx, project))
		a := seedComponent(t, fx, "resistor")

		for _, quantity := range []int64{10, 25} {
			resp, err := svc.AssignToProject(ctx, AssignToProjectRequest{
				ProjectID:  project.ID,
				Components: []AssignmentItem{{ComponentID: a.ID, Quantity: quantity}},
			})
			require.NoError(t, err)
			assert.True(t, resp.Success)
		}

		allocation, err := fx.allocations.FindByProjectAndComponent(ctx, project.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(25), allocation.Quantity)
	})

	t.Run("non-positive quantity is a per-component validation error", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		project, _ := catalog.NewProject("rev2 board")
		require.NoError(t, fx.projects.Save(ctx, project))
		a := seedComponent(t, fx, "resistor")
		b := seedComponent(t, fx, "capacitor")

		resp, err := svc.AssignToProject(ctx, AssignToProjectRequest{
			ProjectID: project.ID,
			Components: []AssignmentItem{
				{ComponentID: a.ID, Quantity: 10},
				{ComponentID: b.ID, Quantity: 0},
			},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, resp.AffectedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, b.ID, resp.Errors[0].ComponentID)
		assert.Equal(t, ErrorTypeValidation, resp.Errors[0].ErrorType)
	})

	t.Run("unknown project reports not_found and affects nothing", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		b := seedComponent(t, fx, "capacitor")

		resp, err := svc.AssignToProject(ctx, AssignToProjectRequest{
			ProjectID: uuid.New(),
			Components: []AssignmentItem{
				{ComponentID: a.ID, Quantity: 1},
				{ComponentID: b.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, resp.AffectedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, ErrorTypeNotFound, resp.Errors[0].ErrorType)
		assert.Equal(t, uuid.Nil, resp.Errors[0].ComponentID)

		// nothing was allocated
		_, err = fx.allocations.FindByProjectAndComponent(ctx, uuid.Nil, a.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, fx.allocations.rows)
	})
}

func TestService_DeleteComponents(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the batch with its dependents", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		b := seedComponent(t, fx, "capacitor")
		fx.locations.byComponent[a.ID] = 2
		fx.alerts.byComponent[a.ID] = 1

		resp, err := svc.DeleteComponents(ctx, DeleteComponentsRequest{
			ComponentIDs: []uuid.UUID{a.ID, b.ID},
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.AffectedCount)

		_, err = fx.components.FindByID(ctx, a.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, fx.locations.byComponent)
		assert.Empty(t, fx.alerts.byComponent)
	})

	t.Run("missing component reports not_found and affects nothing", func(t *testing.T) {
		fx := newTestFixture()
		svc := NewService(fx.scope, 0)
		a := seedComponent(t, fx, "resistor")
		missing := uuid.New()

		resp, err := svc.DeleteComponents(ctx, DeleteComponentsRequest{
			ComponentIDs: []uuid.UUID{a.ID, missing},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, resp.AffectedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, ErrorTypeNotFound, resp.Errors[0].ErrorType)
	})

	t.Run("stale version reports concurrent modification", func(t *testing.T) {
		fx := newTestFixture()
		a := seedComponent(t, fx, "resistor")
		// another writer bumps the row between the batch load and the
		// versioned delete, so the re-check must refuse
		skewed := &versionSkewComponentRepo{fakeComponentRepo: fx.components}
		svc := NewService(NewNoOpTransactionScope(skewed, fx.tags, fx.projects, fx.allocations, fx.locations, fx.alerts), 0)

		resp, err := svc.DeleteComponents(ctx, DeleteComponentsRequest{
			ComponentIDs: []uuid.UUID{a.ID},
		})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, resp.AffectedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, a.ID, resp.Errors[0].ComponentID)
		assert.Equal(t, ErrorTypeConcurrentModification, resp.Errors[0].ErrorType)
	})
}
