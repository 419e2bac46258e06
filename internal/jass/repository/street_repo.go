package repository

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// StreetRepository persists streets.
type StreetRepository struct {
	db *gorm.DB
}

func NewStreetRepository(db *gorm.DB) *StreetRepository {
	return &StreetRepository{db: db}
}

func (r *StreetRepository) FindByZone(ctx context.Context, zoneID string) ([]entity.Street, error) {
	var streets []entity.Street
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("name ASC").
		Find(&streets).Error
	return streets, err
}

func (r *StreetRepository) FindByID(ctx context.Context, id string) (*entity.Street, error) {
	var street entity.Street
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&street).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &street, nil
}

func (r *StreetRepository) Create(ctx context.Context, street *entity.Street) error {
	return r.db.WithContext(ctx).Create(street).Error
}

func (r *StreetRepository) Update(ctx context.Context, street *entity.Street) error {
	return r.db.WithContext(ctx).Save(street).Error
}

func (r *StreetRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Street{}).
		Where("id = ?", id).
		Update("record_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
