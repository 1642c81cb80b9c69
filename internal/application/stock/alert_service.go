package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
)

// syncAlertState reconciles the single active alert for a component-location
// pair with the pair's current quantity and threshold configuration. It runs
// inside the same transaction as the change that triggered it:
//   - no active alert, threshold breached: create a fresh active alert
//   - active alert, still breached: refresh shortage and severity in place
//   - active alert, no longer breached (or alerting disabled): resolve it
//
// Terminal alerts are never touched; a later re-breach gets a new row.
func syncAlertState(ctx context.Context, repos TransactionalRepositories, componentID, locationID uuid.UUID, quantity, threshold int64, enabled bool) error {
	breached := enabled && threshold > 0 && quantity < threshold

	alert, err := repos.AlertRepo().FindActiveByPair(ctx, componentID, locationID)
	if errors.Is(err, shared.ErrNotFound) {
		if !breached {
			return nil
		}
		alert, err = stock.NewReorderAlert(componentID, locationID, quantity, threshold)
		if err != nil {
			return err
		}
		return repos.AlertRepo().Save(ctx, alert)
	}
	if err != nil {
		return err
	}

	if breached {
		alert.ReorderThreshold = threshold
		if err := alert.Refresh(quantity); err != nil {
			return err
		}
	} else if err := alert.Resolve(quantity); err != nil {
		return err
	}
	return repos.AlertRepo().Save(ctx, alert)
}

// AlertService handles reorder alert lifecycle operations and reads
type AlertService struct {
	scope TransactionScope
}

// NewAlertService creates a new AlertService
func NewAlertService(scope TransactionScope) *AlertService {
	return &AlertService{scope: scope}
}

// Dismiss transitions an active alert to dismissed
func (s *AlertService) Dismiss(ctx context.Context, alertID uuid.UUID, notes string) (*AlertResponse, error) {
	return s.transition(ctx, alertID, func(a *stock.ReorderAlert) error {
		return a.Dismiss(notes)
	})
}

// MarkOrdered transitions an active alert to ordered
func (s *AlertService) MarkOrdered(ctx context.Context, alertID uuid.UUID, notes string) (*AlertResponse, error) {
	return s.transition(ctx, alertID, func(a *stock.ReorderAlert) error {
		return a.MarkOrdered(notes)
	})
}

func (s *AlertService) transition(ctx context.Context, alertID uuid.UUID, apply func(*stock.ReorderAlert) error) (*AlertResponse, error) {
	var resp *AlertResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		alert, err := repos.AlertRepo().FindByID(ctx, alertID)
		if err != nil {
			return err
		}
		if err := apply(alert); err != nil {
			return err
		}
		if err := repos.AlertRepo().Save(ctx, alert); err != nil {
			return err
		}
		r := NewAlertResponse(alert)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SetThreshold updates the reorder configuration for a component-location
// pair. It runs under the same row lock discipline as stock mutations and
// may create or resolve an alert immediately.
func (s *AlertService) SetThreshold(ctx context.Context, req SetThresholdRequest) (*SetThresholdResponse, error) {
	var resp *SetThresholdResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loc, err := repos.LocationRepo().FindForUpdate(ctx, req.ComponentID, req.LocationID)
		if err != nil {
			return err
		}
		if err := loc.SetThreshold(req.Threshold, req.Enabled); err != nil {
			return err
		}
		if err := repos.LocationRepo().Save(ctx, loc); err != nil {
			return err
		}

		hadActive := true
		if _, err := repos.AlertRepo().FindActiveByPair(ctx, req.ComponentID, req.LocationID); errors.Is(err, shared.ErrNotFound) {
			hadActive = false
		} else if err != nil {
			return err
		}

		if err := syncAlertState(ctx, repos, loc.ComponentID, loc.LocationID,
			loc.QuantityOnHand, loc.ReorderThreshold, loc.ReorderEnabled); err != nil {
			return err
		}

		resp = &SetThresholdResponse{
			ComponentID:  req.ComponentID,
			LocationID:   req.LocationID,
			Threshold:    loc.ReorderThreshold,
			Enabled:      loc.ReorderEnabled,
			AlertCreated: !hadActive && loc.IsBelowThreshold(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BulkSetThreshold applies the same threshold configuration to multiple
// pairs. Each pair runs in its own transaction so one failure does not undo
// the others; the result reports per-pair outcomes.
func (s *AlertService) BulkSetThreshold(ctx context.Context, req BulkSetThresholdRequest) []BulkSetThresholdResult {
	results := make([]BulkSetThresholdResult, 0, len(req.Pairs))
	for _, pair := range req.Pairs {
		result := BulkSetThresholdResult{
			ComponentID: pair.ComponentID,
			LocationID:  pair.LocationID,
			Success:     true,
		}
		_, err := s.SetThreshold(ctx, SetThresholdRequest{
			ComponentID: pair.ComponentID,
			LocationID:  pair.LocationID,
			Threshold:   req.Threshold,
			Enabled:     req.Enabled,
		})
		if err != nil {
			result.Success = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// Get returns a single alert by ID
func (s *AlertService) Get(ctx context.Context, alertID uuid.UUID) (*AlertResponse, error) {
	var resp *AlertResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		alert, err := repos.AlertRepo().FindByID(ctx, alertID)
		if err != nil {
			return err
		}
		r := NewAlertResponse(alert)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListActive returns active alerts matching the filter
func (s *AlertService) ListActive(ctx context.Context, filter AlertListFilter) (*shared.Paginated[AlertResponse], error) {
	filter.Status = stock.AlertStatusActive.String()
	return s.list(ctx, filter)
}

// History returns alerts of any status matching the filter
func (s *AlertService) History(ctx context.Context, filter AlertListFilter) (*shared.Paginated[AlertResponse], error) {
	return s.list(ctx, filter)
}

func (s *AlertService) list(ctx context.Context, filter AlertListFilter) (*shared.Paginated[AlertResponse], error) {
	repoFilter := alertRepoFilter(filter)

	var page *shared.Paginated[AlertResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		alerts, err := repos.AlertRepo().FindAll(ctx, repoFilter)
		if err != nil {
			return err
		}
		total, err := repos.AlertRepo().Count(ctx, repoFilter)
		if err != nil {
			return err
		}

		items := make([]AlertResponse, 0, len(alerts))
		for i := range alerts {
			items = append(items, NewAlertResponse(&alerts[i]))
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

// alertRepoFilter maps the API filter to the repository filter
func alertRepoFilter(filter AlertListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.ComponentID != nil {
		f.Filters["component_id"] = *filter.ComponentID
	}
	if filter.LocationID != nil {
		f.Filters["location_id"] = *filter.LocationID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Severity != "" {
		f.Filters["severity"] = filter.Severity
	}
	if filter.MinShortage != nil {
		f.Filters["min_shortage"] = *filter.MinShortage
	}
	return f
}

// LowStockReport returns all enabled component locations currently below
// their reorder threshold with computed shortage fields
func (s *AlertService) LowStockReport(ctx context.Context, filter shared.Filter) ([]LowStockEntry, error) {
	var entries []LowStockEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		locations, err := repos.LocationRepo().FindBelowThreshold(ctx, filter)
		if err != nil {
			return err
		}
		entries = make([]LowStockEntry, 0, len(locations))
		for i := range locations {
			loc := &locations[i]
			entries = append(entries, LowStockEntry{
				ComponentID:        loc.ComponentID,
				LocationID:         loc.LocationID,
				QuantityOnHand:     loc.QuantityOnHand,
				ReorderThreshold:   loc.ReorderThreshold,
				ShortageAmount:     loc.ShortageAmount(),
				ShortagePercentage: loc.ShortagePercentage(),
				Severity:           stock.SeverityForShortage(loc.ShortagePercentage()).String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Statistics returns aggregate alert counts for dashboards
func (s *AlertService) Statistics(ctx context.Context) (*AlertStatisticsResponse, error) {
	var resp *AlertStatisticsResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		byStatus, err := repos.AlertRepo().CountByStatus(ctx)
		if err != nil {
			return err
		}
		bySeverity, err := repos.AlertRepo().CountActiveBySeverity(ctx)
		if err != nil {
			return err
		}
		totalShortage, err := repos.AlertRepo().SumActiveShortage(ctx)
		if err != nil {
			return err
		}
		belowThreshold, err := repos.LocationRepo().CountBelowThreshold(ctx)
		if err != nil {
			return err
		}

		statusCounts := make(map[string]int64, len(byStatus))
		for status, count := range byStatus {
			statusCounts[status.String()] = count
		}
		severityCounts := make(map[string]int64, len(bySeverity))
		for severity, count := range bySeverity {
			severityCounts[severity.String()] = count
		}

		resp = &AlertStatisticsResponse{
			TotalByStatus:           statusCounts,
			ActiveBySeverity:        severityCounts,
			TotalActiveShortage:     totalShortage,
			LocationsBelowThreshold: belowThreshold,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
