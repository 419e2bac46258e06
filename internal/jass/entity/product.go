package entity

import "time"

// Product is an inventory item consumable during incident resolution or
// received through a purchase. Stock changes only through atomic deltas;
// every change leaves an InventoryMovement row.
type Product struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	Code           string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	OrganizationID string    `json:"organization_id" gorm:"size:32;index"`
	CategoryID     *string   `json:"category_id" gorm:"size:32;index"`
	SupplierID     *string   `json:"supplier_id" gorm:"size:32;index"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	Description    string    `json:"description" gorm:"type:text"`
	Unit           string    `json:"unit" gorm:"size:20;default:unidad"`
	UnitCost       float64   `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	CurrentStock   float64   `json:"current_stock" gorm:"type:decimal(12,4);default:0"`
	MinimumStock   float64   `json:"minimum_stock" gorm:"type:decimal(12,4);default:0"`
	RecordStatus   string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductCategory groups products (tuberias, valvulas, herramientas...).
type ProductCategory struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	RecordStatus string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// Supplier sells materials to the organization.
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Code          string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	ContactName   string    `json:"contact_name" gorm:"size:200"`
	Phone         string    `json:"phone" gorm:"size:50"`
	Email         string    `json:"email" gorm:"size:200"`
	Address       string    `json:"address" gorm:"size:500"`
	TaxID         string    `json:"tax_id" gorm:"size:20"`
	RecordStatus  string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// InventoryMovement is the stock ledger: one row per stock change, with the
// document that caused it.
type InventoryMovement struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	ProductID     string    `json:"product_id" gorm:"size:32;not null;index"`
	MovementType  string    `json:"movement_type" gorm:"size:20;not null"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);not null"` // negative for outbound
	UnitCost      float64   `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	ReferenceType string    `json:"reference_type" gorm:"size:30"` // RESOLUTION, PURCHASE, ADJUSTMENT
	ReferenceID   string    `json:"reference_id" gorm:"size:32;index"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedBy     string    `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time `json:"created_at"`
}

func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

// Movement types
const (
	MovementTypeEntrada = "ENTRADA"
	MovementTypeSalida  = "SALIDA"
	MovementTypeAjuste  = "AJUSTE"
)

// Movement reference types
const (
	MovementRefResolution = "RESOLUTION"
	MovementRefPurchase   = "PURCHASE"
	MovementRefAdjustment = "ADJUSTMENT"
)
