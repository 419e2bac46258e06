package repository

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// ResolutionRepository persists incident resolutions and their material
// lines. One resolution per incident is enforced by the service layer; the
// lookup still returns a slice because historical data created through the
// old gateway occasionally carries duplicates.
type ResolutionRepository struct {
	db *gorm.DB
}

func NewResolutionRepository(db *gorm.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ResolutionRepository) WithTx(tx *gorm.DB) *ResolutionRepository {
	return &ResolutionRepository{db: tx}
}

// FindByIncidentID returns all resolutions attached to an incident, oldest
// first. Zero rows returns an empty slice, not ErrNotFound.
func (r *ResolutionRepository) FindByIncidentID(ctx context.Context, incidentID string) ([]entity.IncidentResolution, error) {
	var items []entity.IncidentResolution
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ResolutionRepository) FindByID(ctx context.Context, id string) (*entity.IncidentResolution, error) {
	var resolution entity.IncidentResolution
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Where("id = ?", id).
		First(&resolution).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &resolution, nil
}

func (r *ResolutionRepository) Create(ctx context.Context, resolution *entity.IncidentResolution) error {
	return r.db.WithContext(ctx).Create(resolution).Error
}

// Update saves the resolution header and replaces its material lines.
func (r *ResolutionRepository) Update(ctx context.Context, resolution *entity.IncidentResolution) error {
	if err := r.db.WithContext(ctx).
		Where("resolution_id = ?", resolution.ID).
		Delete(&entity.MaterialUsed{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(resolution).Error
}
