package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockTransactionRepository implements StockTransactionRepository using
// GORM. The table is append-only: no update or delete methods exist.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockTransaction, error) {
	var tx stock.StockTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByComponent finds transactions for a component with pagination and
// sorting. A non-positive page size disables pagination; exports rely on this
// to stream the full history with the same ordering as the paginated list.
func (r *GormStockTransactionRepository) FindByComponent(ctx context.Context, componentID uuid.UUID, filter shared.Filter) ([]stock.StockTransaction, error) {
	var txs []stock.StockTransaction
	query := r.db.WithContext(ctx).
		Model(&stock.StockTransaction{}).
		Where("component_id = ?", componentID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockTransactionSortFields, "transaction_date")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) != "asc" {
		orderDir = "DESC"
	}
	// Secondary sort on id keeps the ordering stable across equal dates
	query = query.Order(orderBy + " " + orderDir).Order("id " + orderDir)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CountByComponent counts transactions for a component
func (r *GormStockTransactionRepository) CountByComponent(ctx context.Context, componentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockTransaction{}).
		Where("component_id = ?", componentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create appends a new transaction record
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *stock.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CreateBatch appends multiple transaction records
func (r *GormStockTransactionRepository) CreateBatch(ctx context.Context, txs []*stock.StockTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// Ensure GormStockTransactionRepository implements StockTransactionRepository
var _ stock.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
