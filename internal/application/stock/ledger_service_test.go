package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLocation(t *testing.T, repo *fakeLocationRepo, componentID, locationID uuid.UUID, quantity, threshold int64, enabled bool) *stock.ComponentLocation {
	t.Helper()
	loc, err := stock.NewComponentLocation(componentID, locationID)
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, loc.Add(quantity))
	}
	require.NoError(t, loc.SetThreshold(threshold, enabled))
	repo.put(loc)
	return loc
}

func TestLedgerService_AddStock(t *testing.T) {
	ctx := context.Background()

	t.Run("creates location implicitly", func(t *testing.T) {
		scope, locations, transactions, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()

		resp, err := svc.AddStock(ctx, AddStockRequest{
			ComponentID: componentID, LocationID: locationID, Quantity: 100, Actor: "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.PreviousQuantity)
		assert.Equal(t, int64(100), resp.NewQuantity)
		assert.Equal(t, int64(100), resp.TotalStock)
		assert.NotEqual(t, uuid.Nil, resp.TransactionID)

		row, err := locations.FindByComponentAndLocation(ctx, componentID, locationID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), row.QuantityOnHand)
		require.Len(t, transactions.rows, 1)
		assert.Equal(t, stock.TransactionTypeAdd, transactions.rows[0].TransactionType)
	})

	t.Run("adds to existing location and sums across locations", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID := uuid.New()
		locationA, locationB := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationA, 40, 0, false)
		seedLocation(t, locations, componentID, locationB, 10, 0, false)

		resp, err := svc.AddStock(ctx, AddStockRequest{
			ComponentID: componentID, LocationID: locationA, Quantity: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(40), resp.PreviousQuantity)
		assert.Equal(t, int64(100), resp.NewQuantity)
		assert.Equal(t, int64(110), resp.TotalStock)
	})

	t.Run("records pricing and lot", func(t *testing.T) {
		scope, _, transactions, _ := newTestScope()
		svc := NewLedgerService(scope)
		price := decimal.NewFromFloat(0.08)
		lot := "LOT-A1"

		_, err := svc.AddStock(ctx, AddStockRequest{
			ComponentID: uuid.New(), LocationID: uuid.New(), Quantity: 50,
			PricePerUnit: &price, LotID: &lot,
		})
		require.NoError(t, err)
		require.Len(t, transactions.rows, 1)
		tx := transactions.rows[0]
		require.NotNil(t, tx.TotalPrice)
		assert.True(t, decimal.NewFromFloat(4.00).Equal(*tx.TotalPrice))
		require.NotNil(t, tx.LotID)
		assert.Equal(t, "LOT-A1", *tx.LotID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		scope, _, transactions, _ := newTestScope()
		svc := NewLedgerService(scope)

		_, err := svc.AddStock(ctx, AddStockRequest{
			ComponentID: uuid.New(), LocationID: uuid.New(), Quantity: 0,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Empty(t, transactions.rows)
	})
}

func TestLedgerService_RemoveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("partial removal", func(t *testing.T) {
		scope, locations, transactions, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 100, 0, false)

		resp, err := svc.RemoveStock(ctx, RemoveStockRequest{
			ComponentID: componentID, LocationID: locationID, Quantity: 30, Reason: "assembly run",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(30), resp.QuantityRemoved)
		assert.False(t, resp.Capped)
		assert.Equal(t, int64(70), resp.NewQuantity)
		assert.False(t, resp.LocationDeleted)
		require.Len(t, transactions.rows, 1)
		assert.Equal(t, int64(-30), transactions.rows[0].QuantityChange)
		assert.Equal(t, "assembly run", transactions.rows[0].Comments)
	})

	t.Run("over-removal caps and deletes the row", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 10, 0, false)

		resp, err := svc.RemoveStock(ctx, RemoveStockRequest{
			ComponentID: componentID, LocationID: locationID, Quantity: 25,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.QuantityRemoved)
		assert.True(t, resp.Capped)
		assert.Equal(t, int64(0), resp.NewQuantity)
		assert.True(t, resp.LocationDeleted)

		_, err = locations.FindByComponentAndLocation(ctx, componentID, locationID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exact removal deletes the row", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 10, 0, false)

		resp, err := svc.RemoveStock(ctx, RemoveStockRequest{
			ComponentID: componentID, LocationID: locationID, Quantity: 10,
		})
		require.NoError(t, err)
		assert.False(t, resp.Capped)
		assert.True(t, resp.LocationDeleted)
	})

	t.Run("unknown location is not found", func(t *testing.T) {
		scope, _, _, _ := newTestScope()
		svc := NewLedgerService(scope)

		_, err := svc.RemoveStock(ctx, RemoveStockRequest{
			ComponentID: uuid.New(), LocationID: uuid.New(), Quantity: 5,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_AlertIntegration(t *testing.T) {
	ctx := context.Background()

	t.Run("removal below threshold creates alert in same unit", func(t *testing.T) {
		scope, locations, _, alerts := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 55, 50, true)

		_, err := svc.RemoveStock(ctx, RemoveStockRequest{
			ComponentID: componentID, LocationID: locationID, Quantity: 50,
		})
		require.NoError(t, err)

		alert, err := alerts.FindActiveByPair(ctx, componentID, locationID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), alert.CurrentQuantity)
		assert.Equal(t, int64(45), alert.ShortageAmount)
		assert.Equal(t, stock.SeverityCritical, alert.Severity)
	})

	t.Run("further removal refreshes the same alert", func(t *testing.T) {
		scope, locations, _, alerts := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 60, 50, true)

		_, err := svc.RemoveStock(ctx, RemoveStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 20})
		require.NoError(t, err)
		first, err := alerts.FindActiveByPair(ctx, componentID, locationID)
		require.NoError(t, err)

		_, err = svc.RemoveStock(ctx, RemoveStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 30})
		require.NoError(t, err)
		second, err := alerts.FindActiveByPair(ctx, componentID, locationID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(10), second.CurrentQuantity)
		assert.Equal(t, stock.SeverityHigh, second.Severity)
		assert.Len(t, alerts.rows, 1)
	})

	t.Run("recovery resolves and re-breach creates a fresh alert", func(t *testing.T) {
		scope, locations, _, alerts := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 60, 50, true)

		_, err := svc.RemoveStock(ctx, RemoveStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 30})
		require.NoError(t, err)
		first, err := alerts.FindActiveByPair(ctx, componentID, locationID)
		require.NoError(t, err)

		_, err = svc.AddStock(ctx, AddStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 40})
		require.NoError(t, err)
		_, err = alerts.FindActiveByPair(ctx, componentID, locationID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		resolved, err := alerts.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, stock.AlertStatusResolved, resolved.Status)
		assert.NotNil(t, resolved.ResolvedAt)

		_, err = svc.RemoveStock(ctx, RemoveStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 35})
		require.NoError(t, err)
		fresh, err := alerts.FindActiveByPair(ctx, componentID, locationID)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, fresh.ID)
		assert.Len(t, alerts.rows, 2)
	})

	t.Run("disabled threshold never alerts", func(t *testing.T) {
		scope, locations, _, alerts := newTestScope()
		svc := NewLedgerService(scope)
		componentID, locationID := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, locationID, 60, 50, false)

		_, err := svc.RemoveStock(ctx, RemoveStockRequest{ComponentID: componentID, LocationID: locationID, Quantity: 55})
		require.NoError(t, err)
		assert.Empty(t, alerts.rows)
	})
}

func TestLedgerService_MoveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("moves between existing locations", func(t *testing.T) {
		scope, locations, transactions, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID := uuid.New()
		source, dest := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, source, 100, 0, false)
		seedLocation(t, locations, componentID, dest, 20, 0, false)

		resp, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: componentID, SourceLocationID: source, DestinationLocationID: dest, Quantity: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(30), resp.QuantityMoved)
		assert.False(t, resp.Capped)
		assert.Equal(t, int64(70), resp.SourceNewQuantity)
		assert.Equal(t, int64(50), resp.DestinationNewQuantity)
		assert.False(t, resp.DestinationLocationCreated)
		assert.False(t, resp.PricingInherited)

		// one removal row and one addition row, linked by from/to
		require.Len(t, transactions.rows, 2)
		for _, tx := range transactions.rows {
			assert.Equal(t, stock.TransactionTypeMove, tx.TransactionType)
			assert.Equal(t, source, *tx.FromLocationID)
			assert.Equal(t, dest, *tx.ToLocationID)
		}
		assert.Equal(t, int64(-30), transactions.rows[0].QuantityChange)
		assert.Equal(t, int64(30), transactions.rows[1].QuantityChange)
	})

	t.Run("capped move drains and deletes the source", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID := uuid.New()
		source, dest := uuid.New(), uuid.New()
		seedLocation(t, locations, componentID, source, 10, 0, false)

		resp, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: componentID, SourceLocationID: source, DestinationLocationID: dest, Quantity: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.QuantityMoved)
		assert.True(t, resp.Capped)
		assert.True(t, resp.SourceLocationDeleted)
		assert.True(t, resp.DestinationLocationCreated)
		assert.Equal(t, int64(10), resp.DestinationNewQuantity)

		_, err = locations.FindByComponentAndLocation(ctx, componentID, source)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("new destination inherits lot and pricing", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID := uuid.New()
		source, dest := uuid.New(), uuid.New()
		loc := seedLocation(t, locations, componentID, source, 100, 0, false)
		price := decimal.NewFromFloat(1.25)
		lot := "LOT-9"
		loc.SetPricing(&price, &lot)
		locations.put(loc)

		resp, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: componentID, SourceLocationID: source, DestinationLocationID: dest, Quantity: 40,
		})
		require.NoError(t, err)
		assert.True(t, resp.PricingInherited)

		row, err := locations.FindByComponentAndLocation(ctx, componentID, dest)
		require.NoError(t, err)
		require.NotNil(t, row.PricePerUnit)
		assert.True(t, price.Equal(*row.PricePerUnit))
		require.NotNil(t, row.LotID)
		assert.Equal(t, "LOT-9", *row.LotID)
	})

	t.Run("existing destination keeps its own pricing", func(t *testing.T) {
		scope, locations, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		componentID := uuid.New()
		source, dest := uuid.New(), uuid.New()
		sourceLoc := seedLocation(t, locations, componentID, source, 100, 0, false)
		price := decimal.NewFromFloat(1.25)
		sourceLoc.SetPricing(&price, nil)
		locations.put(sourceLoc)
		seedLocation(t, locations, componentID, dest, 5, 0, false)

		resp, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: componentID, SourceLocationID: source, DestinationLocationID: dest, Quantity: 40,
		})
		require.NoError(t, err)
		assert.False(t, resp.PricingInherited)
	})

	t.Run("rejects same source and destination", func(t *testing.T) {
		scope, _, _, _ := newTestScope()
		svc := NewLedgerService(scope)
		locationID := uuid.New()

		_, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: uuid.New(), SourceLocationID: locationID, DestinationLocationID: locationID, Quantity: 1,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("unknown source is not found", func(t *testing.T) {
		scope, _, _, _ := newTestScope()
		svc := NewLedgerService(scope)

		_, err := svc.MoveStock(ctx, MoveStockRequest{
			ComponentID: uuid.New(), SourceLocationID: uuid.New(), DestinationLocationID: uuid.New(), Quantity: 1,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
