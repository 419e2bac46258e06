package repository

import (
	"context"
	"fmt"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// OrganizationRepository persists organizations.
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindAll lists organizations with search and pagination.
func (r *OrganizationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Organization, int64, error) {
	var items []entity.Organization
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Organization{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR district ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["record_status"]; status != "" {
		query = query.Where("record_status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one organization with its zones.
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).
		Preload("Zones").
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// SetRecordStatus flips the soft-delete marker.
func (r *OrganizationRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Organization{}).
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

// GenerateCode issues the next ORG-{4 digits} code.
func (r *OrganizationRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Organization{}).
		Select("COALESCE(MAX(code), 'ORG-0000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "ORG-%04d", &seq)
	seq++
	return fmt.Sprintf("ORG-%04d", seq), nil
}
