package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService manages the product catalog, the stock ledger, manual
// adjustments and the purchase flow. Every stock change goes through the
// guarded atomic delta and leaves a ledger row.
type InventoryService struct {
	db        *gorm.DB
	products  *repository.ProductRepository
	movements *repository.MovementRepository
	purchases *repository.PurchaseRepository
	logger    *zap.Logger
}

func NewInventoryService(
	db *gorm.DB,
	products *repository.ProductRepository,
	movements *repository.MovementRepository,
	purchases *repository.PurchaseRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		db:        db,
		products:  products,
		movements: movements,
		purchases: purchases,
		logger:    logger,
	}
}

type ProductRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required"`
	CategoryID     *string `json:"category_id"`
	SupplierID     *string `json:"supplier_id"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Unit           string  `json:"unit"`
	UnitCost       float64 `json:"unit_cost"`
	InitialStock   float64 `json:"initial_stock"`
	MinimumStock   float64 `json:"minimum_stock"`
}

func (s *InventoryService) ListProducts(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	return s.products.FindAll(ctx, page, pageSize, filters)
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *InventoryService) CreateProduct(ctx context.Context, userID string, req *ProductRequest) (*entity.Product, error) {
	if req.UnitCost < 0 || req.InitialStock < 0 || req.MinimumStock < 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"unit_cost": "numeric fields must be >= 0",
		}}
	}

	code, err := s.products.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	unit := req.Unit
	if unit == "" {
		unit = "unidad"
	}
	product := &entity.Product{
		ID:             uuid.New().String()[:32],
		Code:           code,
		OrganizationID: req.OrganizationID,
		CategoryID:     req.CategoryID,
		SupplierID:     req.SupplierID,
		Name:           req.Name,
		Description:    req.Description,
		Unit:           unit,
		UnitCost:       req.UnitCost,
		CurrentStock:   req.InitialStock,
		MinimumStock:   req.MinimumStock,
		RecordStatus:   entity.RecordStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		if req.InitialStock > 0 {
			return s.movements.WithTx(tx).Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String()[:32],
				ProductID:     product.ID,
				MovementType:  entity.MovementTypeEntrada,
				Quantity:      req.InitialStock,
				UnitCost:      req.UnitCost,
				ReferenceType: entity.MovementRefAdjustment,
				Notes:         "stock inicial",
				CreatedBy:     userID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct edits catalog fields only. Stock never changes through this
// path; it changes only through resolutions, purchases and adjustments.
func (s *InventoryService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.Name = req.Name
	product.Description = req.Description
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.UnitCost = req.UnitCost
	product.MinimumStock = req.MinimumStock
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *InventoryService) RestoreProduct(ctx context.Context, id string) error {
	return s.products.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}

func (s *InventoryService) LowStock(ctx context.Context, orgID string) ([]entity.Product, error) {
	return s.products.FindLowStock(ctx, orgID)
}

func (s *InventoryService) ProductMovements(ctx context.Context, productID string, page, pageSize int) ([]entity.InventoryMovement, int64, error) {
	return s.movements.FindByProduct(ctx, productID, page, pageSize)
}

// AdjustStockRequest is a manual correction after a physical count.
type AdjustStockRequest struct {
	Quantity float64 `json:"quantity" binding:"required"` // signed delta
	Notes    string  `json:"notes" binding:"required"`
}

// AdjustStock applies a signed manual delta with an AJUSTE ledger row. The
// guard rejects adjustments that would drive stock negative.
func (s *InventoryService) AdjustStock(ctx context.Context, productID, userID string, req *AdjustStockRequest) (*entity.Product, error) {
	if req.Quantity == 0 {
		return nil, &ValidationError{Fields: map[string]string{"quantity": "must not be zero"}}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).AdjustStock(ctx, productID, req.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return &ValidationError{Fields: map[string]string{
					"quantity": "adjustment would drive stock negative",
				}}
			}
			return err
		}
		return s.movements.WithTx(tx).Create(ctx, &entity.InventoryMovement{
			ID:            uuid.New().String()[:32],
			ProductID:     productID,
			MovementType:  entity.MovementTypeAjuste,
			Quantity:      req.Quantity,
			ReferenceType: entity.MovementRefAdjustment,
			Notes:         req.Notes,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, productID)
}

// --- categories and suppliers ---

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *InventoryService) ListCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	return s.products.FindCategories(ctx)
}

func (s *InventoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*entity.ProductCategory, error) {
	category := &entity.ProductCategory{
		ID:           uuid.New().String()[:32],
		Name:         req.Name,
		Description:  req.Description,
		RecordStatus: entity.RecordStatusActive,
	}
	if err := s.products.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	TaxID       string `json:"tax_id"`
}

func (s *InventoryService) ListSuppliers(ctx context.Context, page, pageSize int, search string) ([]entity.Supplier, int64, error) {
	return s.products.FindSuppliers(ctx, page, pageSize, search)
}

func (s *InventoryService) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.products.FindSupplierByID(ctx, id)
}

func (s *InventoryService) CreateSupplier(ctx context.Context, req *SupplierRequest) (*entity.Supplier, error) {
	code, err := s.products.GenerateSupplierCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		TaxID:        req.TaxID,
		RecordStatus: entity.RecordStatusActive,
	}
	if err := s.products.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *InventoryService) UpdateSupplier(ctx context.Context, id string, req *SupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.products.FindSupplierByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.TaxID = req.TaxID
	if err := s.products.UpdateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// --- purchases ---

type PurchaseItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	UnitCost  string  `json:"unit_cost" binding:"required"` // decimal string
}

type PurchaseRequest struct {
	OrganizationID string                `json:"organization_id" binding:"required"`
	SupplierID     string                `json:"supplier_id" binding:"required"`
	PurchaseDate   *time.Time            `json:"purchase_date"`
	InvoiceNumber  string                `json:"invoice_number"`
	Notes          string                `json:"notes"`
	Items          []PurchaseItemRequest `json:"items" binding:"required,min=1"`
}

func (s *InventoryService) ListPurchases(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Purchase, int64, error) {
	return s.purchases.FindAll(ctx, page, pageSize, filters)
}

func (s *InventoryService) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	return s.purchases.FindByID(ctx, id)
}

// CreatePurchase registers a PENDIENTE order. Stock is untouched until the
// purchase is confirmed.
func (s *InventoryService) CreatePurchase(ctx context.Context, userID string, req *PurchaseRequest) (*entity.Purchase, error) {
	fields := map[string]string{}
	items := make([]entity.PurchaseItem, 0, len(req.Items))
	total := decimal.Zero

	for i, item := range req.Items {
		if item.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "must be >= 1"
			continue
		}
		unitCost, err := decimal.NewFromString(item.UnitCost)
		if err != nil || unitCost.IsNegative() {
			fields[fmt.Sprintf("items[%d].unit_cost", i)] = "must be a non-negative decimal"
			continue
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "unknown product: " + item.ProductID
			continue
		}

		subtotal := unitCost.Mul(decimal.NewFromFloat(item.Quantity))
		items = append(items, entity.PurchaseItem{
			ID:        uuid.New().String()[:32],
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      product.Unit,
			UnitCost:  unitCost,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	code, err := s.purchases.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	purchaseDate := time.Now()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}
	purchase := &entity.Purchase{
		ID:             uuid.New().String()[:32],
		Code:           code,
		OrganizationID: req.OrganizationID,
		SupplierID:     req.SupplierID,
		Status:         entity.PurchaseStatusPendiente,
		PurchaseDate:   purchaseDate,
		InvoiceNumber:  req.InvoiceNumber,
		TotalAmount:    total,
		Notes:          req.Notes,
		CreatedBy:      userID,
		Items:          items,
	}
	for i := range purchase.Items {
		purchase.Items[i].PurchaseID = purchase.ID
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ConfirmPurchase posts one ENTRADA per item and moves the order to
// CONFIRMADA, all in one transaction. Confirming twice is rejected.
func (s *InventoryService) ConfirmPurchase(ctx context.Context, id, userID string) (*entity.Purchase, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.Status != entity.PurchaseStatusPendiente {
		return nil, &ValidationError{Fields: map[string]string{
			"status": "only PENDIENTE purchases can be confirmed",
		}}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		movements := s.movements.WithTx(tx)

		for _, item := range purchase.Items {
			if err := products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("adjust stock for %s: %w", item.ProductID, err)
			}
			unitCost, _ := item.UnitCost.Float64()
			if err := movements.Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String()[:32],
				ProductID:     item.ProductID,
				MovementType:  entity.MovementTypeEntrada,
				Quantity:      item.Quantity,
				UnitCost:      unitCost,
				ReferenceType: entity.MovementRefPurchase,
				ReferenceID:   purchase.ID,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		purchase.Status = entity.PurchaseStatusConfirmada
		purchase.ConfirmedBy = &userID
		purchase.ConfirmedAt = &now
		return s.purchases.WithTx(tx).Update(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// CancelPurchase voids a PENDIENTE order. Confirmed purchases cannot be
// cancelled; their stock entries require a manual adjustment instead.
func (s *InventoryService) CancelPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.Status != entity.PurchaseStatusPendiente {
		return nil, &ValidationError{Fields: map[string]string{
			"status": "only PENDIENTE purchases can be cancelled",
		}}
	}
	purchase.Status = entity.PurchaseStatusAnulada
	if err := s.purchases.Update(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}
