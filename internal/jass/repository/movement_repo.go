package repository

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// MovementRepository persists the inventory ledger.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *MovementRepository) WithTx(tx *gorm.DB) *MovementRepository {
	return &MovementRepository{db: tx}
}

func (r *MovementRepository) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *MovementRepository) FindByProduct(ctx context.Context, productID string, page, pageSize int) ([]entity.InventoryMovement, int64, error) {
	var items []entity.InventoryMovement
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.InventoryMovement{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// FindByReference returns every movement caused by one document.
func (r *MovementRepository) FindByReference(ctx context.Context, refType, refID string) ([]entity.InventoryMovement, error) {
	var items []entity.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
