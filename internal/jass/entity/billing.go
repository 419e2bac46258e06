package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WaterBox is a client's metered connection point on a street.
type WaterBox struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	Code           string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	OrganizationID string     `json:"organization_id" gorm:"size:32;not null;index"`
	StreetID       string     `json:"street_id" gorm:"size:32;index"`
	ClientID       string     `json:"client_id" gorm:"size:32;index"`
	BoxType        string     `json:"box_type" gorm:"size:20;default:DOMESTICO"` // DOMESTICO, COMERCIAL
	InstalledAt    *time.Time `json:"installed_at"`
	RecordStatus   string     `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (WaterBox) TableName() string {
	return "water_boxes"
}

// Payment is a monthly fee collection against a water box. Receipts are
// numbered per organization series.
type Payment struct {
	ID             string          `json:"id" gorm:"primaryKey;size:32"`
	OrganizationID string          `json:"organization_id" gorm:"size:32;not null;index"`
	WaterBoxID     string          `json:"water_box_id" gorm:"size:32;not null;index"`
	ClientID       string          `json:"client_id" gorm:"size:32;index"`
	ReceiptSeries  string          `json:"receipt_series" gorm:"size:10;not null"`
	ReceiptNumber  int             `json:"receipt_number" gorm:"not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string          `json:"payment_method" gorm:"size:20;default:EFECTIVO"`
	PaymentDate    time.Time       `json:"payment_date"`
	MonthsCovered  MonthList       `json:"months_covered" gorm:"type:jsonb"` // ["2026-01", "2026-02"]
	Status         string          `json:"status" gorm:"size:20;default:REGISTRADO;index"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CollectedBy    string          `json:"collected_by" gorm:"size:32"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Payment statuses
const (
	PaymentStatusRegistrado = "REGISTRADO"
	PaymentStatusAnulado    = "ANULADO"
)

// Payment methods
const (
	PaymentMethodEfectivo      = "EFECTIVO"
	PaymentMethodTransferencia = "TRANSFERENCIA"
	PaymentMethodYape          = "YAPE"
)
