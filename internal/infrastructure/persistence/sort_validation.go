package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ComponentLocationSortFields contains allowed sort fields for component locations
var ComponentLocationSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"component_id":      true,
	"location_id":       true,
	"quantity_on_hand":  true,
	"reorder_threshold": true,
}

// StockTransactionSortFields contains allowed sort fields for stock transactions
var StockTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"transaction_type": true,
	"quantity_change":  true,
}

// ReorderAlertSortFields contains allowed sort fields for reorder alerts
var ReorderAlertSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"status":              true,
	"severity":            true,
	"current_quantity":    true,
	"shortage_amount":     true,
	"shortage_percentage": true,
}

// ComponentSortFields contains allowed sort fields for components
var ComponentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"part_number":  true,
	"manufacturer": true,
}

// TagSortFields contains allowed sort fields for tags
var TagSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
}

// ProjectSortFields contains allowed sort fields for projects
var ProjectSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}
