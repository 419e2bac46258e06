package repository

import (
	"context"
	"fmt"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"gorm.io/gorm"
)

// ProductRepository persists products, categories and suppliers.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	var items []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if orgID := filters["organization_id"]; orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	if categoryID := filters["category_id"]; categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["record_status"]; status != "" {
		query = query.Where("record_status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

// FindByIDs loads a batch of products keyed by ID.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	var items []entity.Product
	if len(ids) == 0 {
		return map[string]entity.Product{}, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	result := make(map[string]entity.Product, len(items))
	for _, p := range items {
		result[p.ID] = p
	}
	return result, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) SetRecordStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Product{}).
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

// AdjustStock applies a stock delta atomically in the database, for manual
// adjustments and purchase confirmations. Negative deltas are guarded so
// stock never goes below zero; a blocked decrement returns
// ErrInsufficientStock. This replaces the old gateway's
// read-compute-overwrite, which lost concurrent updates.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta float64) error {
	query := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ?", id)
	if delta < 0 {
		query = query.Where("current_stock >= ?", -delta)
	}
	res := query.Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing product from a blocked decrement.
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// ConsumeStock applies a stock delta without the non-negative guard. Field
// crews use materials whether or not the recorded count covers them; a
// shortfall surfaces as a warning on the submit, and a negative balance
// flags the product for a recount.
func (r *ProductRepository) ConsumeStock(ctx context.Context, id string, delta float64) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindLowStock returns active products at or below their minimum stock.
func (r *ProductRepository) FindLowStock(ctx context.Context, orgID string) ([]entity.Product, error) {
	var items []entity.Product
	query := r.db.WithContext(ctx).
		Where("record_status = ?", entity.RecordStatusActive).
		Where("minimum_stock > 0 AND current_stock <= minimum_stock")
	if orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}
	err := query.Order("current_stock ASC").Find(&items).Error
	return items, err
}

// GenerateCode issues the next PRD-{4 digits} code.
func (r *ProductRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Select("COALESCE(MAX(code), 'PRD-0000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "PRD-%04d", &seq)
	seq++
	return fmt.Sprintf("PRD-%04d", seq), nil
}

// --- categories ---

func (r *ProductRepository) FindCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	var items []entity.ProductCategory
	err := r.db.WithContext(ctx).
		Where("record_status = ?", entity.RecordStatusActive).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *ProductRepository) CreateCategory(ctx context.Context, category *entity.ProductCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *ProductRepository) UpdateCategory(ctx context.Context, category *entity.ProductCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *ProductRepository) FindCategoryByID(ctx context.Context, id string) (*entity.ProductCategory, error) {
	var category entity.ProductCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &category, nil
}

// --- suppliers ---

func (r *ProductRepository) FindSuppliers(ctx context.Context, page, pageSize int, search string) ([]entity.Supplier, int64, error) {
	var items []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{})
	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR tax_id ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *ProductRepository) FindSupplierByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &supplier, nil
}

func (r *ProductRepository) CreateSupplier(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *ProductRepository) UpdateSupplier(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// GenerateSupplierCode issues the next PROV-{4 digits} code.
func (r *ProductRepository) GenerateSupplierCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Select("COALESCE(MAX(code), 'PROV-0000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "PROV-%04d", &seq)
	seq++
	return fmt.Sprintf("PROV-%04d", seq), nil
}
