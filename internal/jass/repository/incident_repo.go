package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// IncidentRepository persists incidents. Deletion is always soft: the
// record_status column flips and the row stays restorable.
type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *IncidentRepository) WithTx(tx *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: tx}
}

func (r *IncidentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Incident, int64, error) {
	var items []entity.Incident
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Incident{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if zoneID := filters["zone_id"]; zoneID != "" {
		query = query.Where("zone_id = ?", zoneID)
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if severity := filters["severity"]; severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ? OR description ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	// Default listing hides soft-deleted rows; pass record_status=INACTIVE
	// (or ALL) to see them.
	recordStatus := filters["record_status"]
	switch recordStatus {
	case "", entity.RecordStatusActive:
		query = query.Where("record_status = ?", entity.RecordStatusActive)
	case "ALL":
	default:
		query = query.Where("record_status = ?", recordStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("incident_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*entity.Incident, error) {
	var incident entity.Incident
	err := r.db.WithContext(ctx).
		Preload("Resolution").
		Preload("Resolution.Materials").
		Where("id = ?", id).
		First(&incident).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &incident, nil
}

func (r *IncidentRepository) Create(ctx context.Context, incident *entity.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *IncidentRepository) Update(ctx context.Context, incident *entity.Incident) error {
	return r.db.WithContext(ctx).Omit("Resolution").Save(incident).Error
}

// SetRecordStatus soft-deletes (INACTIVE) or restores (ACTIVE) an incident.
func (r *IncidentRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Incident{}).
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

// CountByStatus aggregates incident counts for the dashboard.
func (r *IncidentRepository) CountByStatus(ctx context.Context, orgID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Model(&entity.Incident{}).
		Select("status, COUNT(*) as count").
		Where("record_status = ?", entity.RecordStatusActive)
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Count
	}
	return result, nil
}

// CountByCategory aggregates incident counts per category.
func (r *IncidentRepository) CountByCategory(ctx context.Context, orgID string) (map[string]int64, error) {
	type row struct {
		Category string
		Count    int64
	}
	var rows []row
	query := r.db.WithContext(ctx).
		Model(&entity.Incident{}).
		Select("category, COUNT(*) as count").
		Where("record_status = ?", entity.RecordStatusActive)
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.Group("category").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Category] = r.Count
	}
	return result, nil
}

// FindForReport returns incidents in a date range for the export workbook.
func (r *IncidentRepository) FindForReport(ctx context.Context, orgID string, from, to time.Time) ([]entity.Incident, error) {
	var items []entity.Incident
	query := r.db.WithContext(ctx).
		Preload("Resolution").
		Where("record_status = ?", entity.RecordStatusActive).
		Where("incident_date >= ? AND incident_date < ?", from, to)
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	err := query.Order("incident_date ASC").Find(&items).Error
	return items, err
}

// GenerateCode issues the next INC-{year}-{5 digits} code.
func (r *IncidentRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INC-%d-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Incident{}).
		Select("COALESCE(MAX(code), ?)", prefix+"00000").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "INC-%d-%05d", &year, &seq)
	seq++
	return fmt.Sprintf("%s%05d", prefix, seq), nil
}
