package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WaterBoxRepository persists water boxes.
type WaterBoxRepository struct {
	db *gorm.DB
}

func NewWaterBoxRepository(db *gorm.DB) *WaterBoxRepository {
	return &WaterBoxRepository{db: db}
}

func (r *WaterBoxRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.WaterBox, int64, error) {
	var items []entity.WaterBox
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.WaterBox{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if streetID := filters["street_id"]; streetID != "" {
		query = query.Where("street_id = ?", streetID)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
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

func (r *WaterBoxRepository) FindByID(ctx context.Context, id string) (*entity.WaterBox, error) {
	var box entity.WaterBox
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&box).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &box, nil
}

func (r *WaterBoxRepository) Create(ctx context.Context, box *entity.WaterBox) error {
	return r.db.WithContext(ctx).Create(box).Error
}

func (r *WaterBoxRepository) Update(ctx context.Context, box *entity.WaterBox) error {
	return r.db.WithContext(ctx).Save(box).Error
}

func (r *WaterBoxRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.WaterBox{}).
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

// GenerateCode issues the next CJA-{5 digits} code.
func (r *WaterBoxRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.WaterBox{}).
		Select("COALESCE(MAX(code), 'CJA-00000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "CJA-%05d", &seq)
	seq++
	return fmt.Sprintf("CJA-%05d", seq), nil
}

// PaymentRepository persists payments.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	var items []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if boxID := filters["water_box_id"]; boxID != "" {
		query = query.Where("water_box_id = ?", boxID)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("payment_date DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByBox returns all registered payments against one water box.
func (r *PaymentRepository) FindByBox(ctx context.Context, boxID string) ([]entity.Payment, error) {
	var items []entity.Payment
	err := r.db.WithContext(ctx).
		Where("water_box_id = ? AND status = ?", boxID, entity.PaymentStatusRegistrado).
		Order("payment_date ASC").
		Find(&items).Error
	return items, err
}

// NextReceiptNumber reserves the next number in a series for an organization.
func (r *PaymentRepository) NextReceiptNumber(ctx context.Context, orgID, series string) (int, error) {
	var maxNumber int
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(MAX(receipt_number), 0)").
		Where("organization_id = ? AND receipt_series = ?", orgID, series).
		Scan(&maxNumber).Error
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

// SumCollected totals registered payments in a date range.
func (r *PaymentRepository) SumCollected(ctx context.Context, orgID string, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	query := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("SUM(amount)").
		Where("status = ?", entity.PaymentStatusRegistrado).
		Where("payment_date >= ? AND payment_date < ?", from, to)
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// FindForReport returns registered payments in a date range for the export
// workbook.
func (r *PaymentRepository) FindForReport(ctx context.Context, orgID string, from, to time.Time) ([]entity.Payment, error) {
	var items []entity.Payment
	query := r.db.WithContext(ctx).
		Where("status = ?", entity.PaymentStatusRegistrado).
		Where("payment_date >= ? AND payment_date < ?", from, to)
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	err := query.Order("payment_date ASC").Find(&items).Error
	return items, err
}
