package stock

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
)

// LedgerService handles all quantity-affecting stock operations. Every
// mutation runs inside a single database transaction that also appends the
// audit records and synchronizes reorder alert state, so a committed quantity
// change can never be observed without its matching transaction rows and
// alert transition.
type LedgerService struct {
	scope TransactionScope
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope) *LedgerService {
	return &LedgerService{scope: scope}
}

// AddStock adds quantity at a location, creating the location row implicitly
// when the component has never been stored there.
func (s *LedgerService) AddStock(ctx context.Context, req AddStockRequest) (*AddStockResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
	}
	if req.ComponentID == uuid.Nil || req.LocationID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component and location IDs are required")
	}

	var resp *AddStockResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loc, err := repos.LocationRepo().FindForUpdate(ctx, req.ComponentID, req.LocationID)
		if errors.Is(err, shared.ErrNotFound) {
			loc, err = stock.NewComponentLocation(req.ComponentID, req.LocationID)
		}
		if err != nil {
			return err
		}

		previous := loc.QuantityOnHand
		if err := loc.Add(req.Quantity); err != nil {
			return err
		}
		loc.SetPricing(req.PricePerUnit, req.LotID)
		if err := repos.LocationRepo().Save(ctx, loc); err != nil {
			return err
		}

		tx, err := stock.NewStockTransaction(
			req.ComponentID, stock.TransactionTypeAdd,
			req.Quantity, previous, loc.QuantityOnHand, req.Actor,
		)
		if err != nil {
			return err
		}
		tx.WithToLocation(req.LocationID).WithComments(req.Comments)
		if req.LotID != nil {
			tx.WithLotID(*req.LotID)
		}
		if req.PricePerUnit != nil {
			tx.WithPricing(*req.PricePerUnit)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		if err := syncAlertState(ctx, repos, loc.ComponentID, loc.LocationID,
			loc.QuantityOnHand, loc.ReorderThreshold, loc.ReorderEnabled); err != nil {
			return err
		}

		total, err := repos.LocationRepo().SumQuantityByComponent(ctx, req.ComponentID)
		if err != nil {
			return err
		}

		resp = &AddStockResponse{
			ComponentID:      req.ComponentID,
			LocationID:       req.LocationID,
			PreviousQuantity: previous,
			NewQuantity:      loc.QuantityOnHand,
			TotalStock:       total,
			TransactionID:    tx.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveStock removes quantity from a location. Requests exceeding the
// on-hand quantity are capped, never rejected; the location row is deleted
// when the quantity reaches zero.
func (s *LedgerService) RemoveStock(ctx context.Context, req RemoveStockRequest) (*RemoveStockResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
	}

	var resp *RemoveStockResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loc, err := repos.LocationRepo().FindForUpdate(ctx, req.ComponentID, req.LocationID)
		if err != nil {
			return err
		}

		previous := loc.QuantityOnHand
		removed, capped, err := loc.Remove(req.Quantity)
		if err != nil {
			return err
		}

		deleted := false
		if loc.IsEmpty() {
			if err := repos.LocationRepo().Delete(ctx, loc.ID); err != nil {
				return err
			}
			deleted = true
		} else if err := repos.LocationRepo().Save(ctx, loc); err != nil {
			return err
		}

		tx, err := stock.NewStockTransaction(
			req.ComponentID, stock.TransactionTypeRemove,
			-removed, previous, loc.QuantityOnHand, req.Actor,
		)
		if err != nil {
			return err
		}
		tx.WithFromLocation(req.LocationID).WithComments(req.Reason)
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		if err := syncAlertState(ctx, repos, loc.ComponentID, loc.LocationID,
			loc.QuantityOnHand, loc.ReorderThreshold, loc.ReorderEnabled); err != nil {
			return err
		}

		resp = &RemoveStockResponse{
			ComponentID:      req.ComponentID,
			LocationID:       req.LocationID,
			QuantityRemoved:  removed,
			Capped:           capped,
			PreviousQuantity: previous,
			NewQuantity:      loc.QuantityOnHand,
			LocationDeleted:  deleted,
			TransactionID:    tx.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// MoveStock moves quantity from one location to another as a single atomic
// unit: a capped removal at the source followed by an addition at the
// destination. When the destination had no prior quantity it inherits the
// source's lot and pricing metadata.
func (s *LedgerService) MoveStock(ctx context.Context, req MoveStockRequest) (*MoveStockResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
	}
	if req.SourceLocationID == req.DestinationLocationID {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source and destination locations must differ")
	}

	var resp *MoveStockResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, dest, destCreated, err := lockMovePair(ctx, repos, req)
		if err != nil {
			return err
		}

		sourcePrevious := source.QuantityOnHand
		moved, capped, err := source.Remove(req.Quantity)
		if err != nil {
			return err
		}
		if moved == 0 {
			return shared.NewDomainError("VALIDATION_ERROR", "Source location has no stock to move")
		}

		sourceDeleted := false
		if source.IsEmpty() {
			if err := repos.LocationRepo().Delete(ctx, source.ID); err != nil {
				return err
			}
			sourceDeleted = true
		} else if err := repos.LocationRepo().Save(ctx, source); err != nil {
			return err
		}

		destPrevious := dest.QuantityOnHand
		pricingInherited := false
		if destPrevious == 0 && (source.PricePerUnit != nil || source.LotID != nil) {
			dest.SetPricing(source.PricePerUnit, source.LotID)
			pricingInherited = true
		}
		if err := dest.Add(moved); err != nil {
			return err
		}
		if err := repos.LocationRepo().Save(ctx, dest); err != nil {
			return err
		}

		outTx, err := stock.NewStockTransaction(
			req.ComponentID, stock.TransactionTypeMove,
			-moved, sourcePrevious, source.QuantityOnHand, req.Actor,
		)
		if err != nil {
			return err
		}
		inTx, err := stock.NewStockTransaction(
			req.ComponentID, stock.TransactionTypeMove,
			moved, destPrevious, dest.QuantityOnHand, req.Actor,
		)
		if err != nil {
			return err
		}
		for _, tx := range []*stock.StockTransaction{outTx, inTx} {
			tx.WithFromLocation(req.SourceLocationID).
				WithToLocation(req.DestinationLocationID).
				WithComments(req.Comments)
		}
		if err := repos.TransactionRepo().CreateBatch(ctx, []*stock.StockTransaction{outTx, inTx}); err != nil {
			return err
		}

		if err := syncAlertState(ctx, repos, source.ComponentID, source.LocationID,
			source.QuantityOnHand, source.ReorderThreshold, source.ReorderEnabled); err != nil {
			return err
		}
		if err := syncAlertState(ctx, repos, dest.ComponentID, dest.LocationID,
			dest.QuantityOnHand, dest.ReorderThreshold, dest.ReorderEnabled); err != nil {
			return err
		}

		resp = &MoveStockResponse{
			ComponentID:                req.ComponentID,
			SourceLocationID:           req.SourceLocationID,
			DestinationLocationID:      req.DestinationLocationID,
			QuantityMoved:              moved,
			Capped:                     capped,
			SourceNewQuantity:          source.QuantityOnHand,
			SourceLocationDeleted:      sourceDeleted,
			DestinationNewQuantity:     dest.QuantityOnHand,
			DestinationLocationCreated: destCreated,
			PricingInherited:           pricingInherited,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// lockMovePair acquires the row locks for a move. Locks are taken in a
// stable order derived from the location IDs so two concurrent opposite
// moves cannot deadlock. The destination row is created in memory when it
// does not exist yet.
func lockMovePair(ctx context.Context, repos TransactionalRepositories, req MoveStockRequest) (source, dest *stock.ComponentLocation, destCreated bool, err error) {
	lockSourceFirst := bytes.Compare(req.SourceLocationID[:], req.DestinationLocationID[:]) < 0

	lockSource := func() error {
		source, err = repos.LocationRepo().FindForUpdate(ctx, req.ComponentID, req.SourceLocationID)
		return err
	}
	lockDest := func() error {
		dest, err = repos.LocationRepo().FindForUpdate(ctx, req.ComponentID, req.DestinationLocationID)
		if errors.Is(err, shared.ErrNotFound) {
			dest, err = stock.NewComponentLocation(req.ComponentID, req.DestinationLocationID)
			destCreated = true
		}
		return err
	}

	if lockSourceFirst {
		if err = lockSource(); err != nil {
			return nil, nil, false, err
		}
		if err = lockDest(); err != nil {
			return nil, nil, false, err
		}
	} else {
		if err = lockDest(); err != nil {
			return nil, nil, false, err
		}
		if err = lockSource(); err != nil {
			return nil, nil, false, err
		}
	}
	return source, dest, destCreated, nil
}
