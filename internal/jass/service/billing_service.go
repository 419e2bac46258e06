package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingService manages water boxes and monthly fee collection. Amounts
// are decimal end to end; receipt numbers are assigned per organization
// series inside the registration transaction.
type BillingService struct {
	db        *gorm.DB
	boxes     *repository.WaterBoxRepository
	payments  *repository.PaymentRepository
	dashboard *DashboardService
}

func NewBillingService(
	db *gorm.DB,
	boxes *repository.WaterBoxRepository,
	payments *repository.PaymentRepository,
) *BillingService {
	return &BillingService{db: db, boxes: boxes, payments: payments}
}

// SetDashboard enables dashboard cache invalidation after collection writes.
// Optional.
func (s *BillingService) SetDashboard(dashboard *DashboardService) {
	s.dashboard = dashboard
}

// --- water boxes ---

type WaterBoxRequest struct {
	OrganizationID string     `json:"organization_id" binding:"required"`
	StreetID       string     `json:"street_id"`
	ClientID       string     `json:"client_id"`
	BoxType        string     `json:"box_type"`
	InstalledAt    *time.Time `json:"installed_at"`
}

func (s *BillingService) ListBoxes(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.WaterBox, int64, error) {
	return s.boxes.FindAll(ctx, page, pageSize, filters)
}

func (s *BillingService) GetBox(ctx context.Context, id string) (*entity.WaterBox, error) {
	return s.boxes.FindByID(ctx, id)
}

func (s *BillingService) CreateBox(ctx context.Context, req *WaterBoxRequest) (*entity.WaterBox, error) {
	code, err := s.boxes.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	boxType := req.BoxType
	if boxType == "" {
		boxType = "DOMESTICO"
	}
	box := &entity.WaterBox{
		ID:             uuid.New().String()[:32],
		Code:           code,
		OrganizationID: req.OrganizationID,
		StreetID:       req.StreetID,
		ClientID:       req.ClientID,
		BoxType:        boxType,
		InstalledAt:    req.InstalledAt,
		RecordStatus:   entity.RecordStatusActive,
	}
	if err := s.boxes.Create(ctx, box); err != nil {
		return nil, err
	}
	return box, nil
}

func (s *BillingService) UpdateBox(ctx context.Context, id string, req *WaterBoxRequest) (*entity.WaterBox, error) {
	box, err := s.boxes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	box.StreetID = req.StreetID
	box.ClientID = req.ClientID
	if req.BoxType != "" {
		box.BoxType = req.BoxType
	}
	box.InstalledAt = req.InstalledAt
	if err := s.boxes.Update(ctx, box); err != nil {
		return nil, err
	}
	return box, nil
}

func (s *BillingService) DeleteBox(ctx context.Context, id string) error {
	return s.boxes.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *BillingService) RestoreBox(ctx context.Context, id string) error {
	return s.boxes.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}

// --- payments ---

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type PaymentRequest struct {
	OrganizationID string     `json:"organization_id" binding:"required"`
	WaterBoxID     string     `json:"water_box_id" binding:"required"`
	ReceiptSeries  string     `json:"receipt_series"`
	Amount         string     `json:"amount" binding:"required"` // decimal string
	PaymentMethod  string     `json:"payment_method"`
	PaymentDate    *time.Time `json:"payment_date"`
	MonthsCovered  []string   `json:"months_covered" binding:"required,min=1"`
	Notes          string     `json:"notes"`
}

func validatePayment(req *PaymentRequest) (decimal.Decimal, error) {
	fields := map[string]string{}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		fields["amount"] = "must be a decimal string"
	} else if !amount.IsPositive() {
		fields["amount"] = "must be > 0"
	}

	method := req.PaymentMethod
	if method != "" &&
		method != entity.PaymentMethodEfectivo &&
		method != entity.PaymentMethodTransferencia &&
		method != entity.PaymentMethodYape {
		fields["payment_method"] = "unknown method: " + method
	}

	seen := make(map[string]bool, len(req.MonthsCovered))
	for i, month := range req.MonthsCovered {
		if !monthPattern.MatchString(month) {
			fields[fmt.Sprintf("months_covered[%d]", i)] = "must be YYYY-MM"
		}
		if seen[month] {
			fields[fmt.Sprintf("months_covered[%d]", i)] = "duplicate month " + month
		}
		seen[month] = true
	}

	if len(fields) > 0 {
		return decimal.Zero, &ValidationError{Fields: fields}
	}
	return amount, nil
}

func (s *BillingService) ListPayments(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	return s.payments.FindAll(ctx, page, pageSize, filters)
}

func (s *BillingService) GetPayment(ctx context.Context, id string) (*entity.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

func (s *BillingService) BoxPayments(ctx context.Context, boxID string) ([]entity.Payment, error) {
	return s.payments.FindByBox(ctx, boxID)
}

// RegisterPayment assigns the next receipt number in the series and stores
// the payment, in one transaction so concurrent collections in the same
// series never share a number.
func (s *BillingService) RegisterPayment(ctx context.Context, userID string, req *PaymentRequest) (*entity.Payment, error) {
	amount, err := validatePayment(req)
	if err != nil {
		return nil, err
	}

	box, err := s.boxes.FindByID(ctx, req.WaterBoxID)
	if err != nil {
		return nil, fmt.Errorf("water box lookup: %w", err)
	}

	series := req.ReceiptSeries
	if series == "" {
		series = "B001"
	}
	method := req.PaymentMethod
	if method == "" {
		method = entity.PaymentMethodEfectivo
	}
	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := &entity.Payment{
		ID:             uuid.New().String()[:32],
		OrganizationID: req.OrganizationID,
		WaterBoxID:     req.WaterBoxID,
		ClientID:       box.ClientID,
		ReceiptSeries:  series,
		Amount:         amount,
		PaymentMethod:  method,
		PaymentDate:    paymentDate,
		MonthsCovered:  entity.MonthList(req.MonthsCovered),
		Status:         entity.PaymentStatusRegistrado,
		Notes:          req.Notes,
		CollectedBy:    userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)
		number, err := payments.NextReceiptNumber(ctx, req.OrganizationID, series)
		if err != nil {
			return fmt.Errorf("next receipt number: %w", err)
		}
		payment.ReceiptNumber = number
		return payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, payment.OrganizationID)
	}
	return payment, nil
}

// VoidPayment marks a payment ANULADO. The row is kept for the receipt
// audit trail; voided payments drop out of collection sums.
func (s *BillingService) VoidPayment(ctx context.Context, id, reason string) (*entity.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == entity.PaymentStatusAnulado {
		return nil, &ValidationError{Fields: map[string]string{"status": "payment is already voided"}}
	}
	payment.Status = entity.PaymentStatusAnulado
	if reason != "" {
		payment.Notes = reason
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, payment.OrganizationID)
	}
	return payment, nil
}

// DebtSummary reports, per water box, the months without a registered
// payment from the box's first payment (or the given start) to now.
type DebtSummary struct {
	WaterBoxID string   `json:"water_box_id"`
	BoxCode    string   `json:"box_code"`
	PaidMonths []string `json:"paid_months"`
	OwedMonths []string `json:"owed_months"`
}

func (s *BillingService) BoxDebt(ctx context.Context, boxID, fromMonth string) (*DebtSummary, error) {
	box, err := s.boxes.FindByID(ctx, boxID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.FindByBox(ctx, boxID)
	if err != nil {
		return nil, err
	}

	paid := make(map[string]bool)
	for _, p := range payments {
		if p.Status != entity.PaymentStatusRegistrado {
			continue
		}
		for _, month := range p.MonthsCovered {
			paid[month] = true
		}
	}

	summary := &DebtSummary{WaterBoxID: boxID, BoxCode: box.Code}
	for month := range paid {
		summary.PaidMonths = append(summary.PaidMonths, month)
	}

	start := fromMonth
	if start == "" && box.InstalledAt != nil {
		start = box.InstalledAt.Format("2006-01")
	}
	if start == "" {
		return summary, nil
	}
	if !monthPattern.MatchString(start) {
		return nil, &ValidationError{Fields: map[string]string{"from": "must be YYYY-MM"}}
	}

	cursor, _ := time.Parse("2006-01", start)
	for !cursor.After(time.Now()) {
		month := cursor.Format("2006-01")
		if !paid[month] {
			summary.OwedMonths = append(summary.OwedMonths, month)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return summary, nil
}

// CollectedBetween sums registered payments for an organization in a period.
func (s *BillingService) CollectedBetween(ctx context.Context, orgID string, from, to time.Time) (decimal.Decimal, error) {
	return s.payments.SumCollected(ctx, orgID, from, to)
}
