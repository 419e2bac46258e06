package repository

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// DistributionRepository persists distribution schedules.
type DistributionRepository struct {
	db *gorm.DB
}

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

func (r *DistributionRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.DistributionSchedule, error) {
	var items []entity.DistributionSchedule

	query := r.db.WithContext(ctx).Model(&entity.DistributionSchedule{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if zoneID := filters["zone_id"]; zoneID != "" {
		query = query.Where("zone_id = ?", zoneID)
	}
	if day := filters["day_of_week"]; day != "" {
		query = query.Where("day_of_week = ?", day)
	}
	if status := filters["record_status"]; status != "" {
		query = query.Where("record_status = ?", status)
	} else {
		query = query.Where("record_status = ?", entity.RecordStatusActive)
	}

	err := query.
		Order("CASE day_of_week WHEN 'LUNES' THEN 1 WHEN 'MARTES' THEN 2 WHEN 'MIERCOLES' THEN 3 WHEN 'JUEVES' THEN 4 WHEN 'VIERNES' THEN 5 WHEN 'SABADO' THEN 6 ELSE 7 END, start_time ASC").
		Find(&items).Error
	return items, err
}

func (r *DistributionRepository) FindByID(ctx context.Context, id string) (*entity.DistributionSchedule, error) {
	var schedule entity.DistributionSchedule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &schedule, nil
}

func (r *DistributionRepository) Create(ctx context.Context, schedule *entity.DistributionSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *DistributionRepository) Update(ctx context.Context, schedule *entity.DistributionSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *DistributionRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.DistributionSchedule{}).
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
