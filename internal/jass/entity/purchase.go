package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a supplier order. Confirming it posts ENTRADA movements for
// every item and recalculates product stock.
type Purchase struct {
	ID             string          `json:"id" gorm:"primaryKey;size:32"`
	Code           string          `json:"code" gorm:"size:32;uniqueIndex;not null"`
	OrganizationID string          `json:"organization_id" gorm:"size:32;index"`
	SupplierID     string          `json:"supplier_id" gorm:"size:32;not null;index"`
	Status         string          `json:"status" gorm:"size:20;default:PENDIENTE;index"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	InvoiceNumber  string          `json:"invoice_number" gorm:"size:50"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2)"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CreatedBy      string          `json:"created_by" gorm:"size:32"`
	ConfirmedBy    *string         `json:"confirmed_by" gorm:"size:32"`
	ConfirmedAt    *time.Time      `json:"confirmed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []PurchaseItem `json:"items,omitempty" gorm:"foreignKey:PurchaseID"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one product line of a purchase.
type PurchaseItem struct {
	ID         string          `json:"id" gorm:"primaryKey;size:32"`
	PurchaseID string          `json:"purchase_id" gorm:"size:32;not null;index"`
	ProductID  string          `json:"product_id" gorm:"size:32;not null;index"`
	Quantity   float64         `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit       string          `json:"unit" gorm:"size:20"`
	UnitCost   decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,4)"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2)"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// Purchase statuses
const (
	PurchaseStatusPendiente  = "PENDIENTE"
	PurchaseStatusConfirmada = "CONFIRMADA"
	PurchaseStatusAnulada    = "ANULADA"
)
