package repository

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// ZoneRepository persists supply zones.
type ZoneRepository struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func (r *ZoneRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Zone, int64, error) {
	var items []entity.Zone
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Zone{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["record_status"]; status != "" {
		query = query.Where("record_status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("code ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *ZoneRepository) FindByID(ctx context.Context, id string) (*entity.Zone, error) {
	var zone entity.Zone
	err := r.db.WithContext(ctx).
		Preload("Streets").
		Where("id = ?", id).
		First(&zone).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &zone, nil
}

func (r *ZoneRepository) Create(ctx context.Context, zone *entity.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *ZoneRepository) Update(ctx context.Context, zone *entity.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

func (r *ZoneRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Zone{}).
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
