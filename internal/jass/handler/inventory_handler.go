package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// ListProducts GET /api/v1/products?search=xxx&category_id=xxx
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"category_id":     c.Query("category_id"),
		"supplier_id":     c.Query("supplier_id"),
		"search":          c.Query("search"),
		"record_status":   c.Query("record_status"),
	}

	items, total, err := h.svc.ListProducts(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list products failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetProduct GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "product not found")
		return
	}
	Success(c, product)
}

// CreateProduct POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "create product failed")
		return
	}
	Created(c, product)
}

// UpdateProduct PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update product failed")
		return
	}
	Success(c, product)
}

// DeleteProduct DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete product failed")
		return
	}
	Success(c, nil)
}

// RestoreProduct POST /api/v1/products/:id/restore
func (h *InventoryHandler) RestoreProduct(c *gin.Context) {
	if err := h.svc.RestoreProduct(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore product failed")
		return
	}
	Success(c, nil)
}

// LowStock GET /api/v1/products/low-stock?organization_id=xxx
func (h *InventoryHandler) LowStock(c *gin.Context) {
	products, err := h.svc.LowStock(c.Request.Context(), c.Query("organization_id"))
	if err != nil {
		InternalError(c, "low stock query failed: "+err.Error())
		return
	}
	Success(c, products)
}

// ProductMovements GET /api/v1/products/:id/movements
func (h *InventoryHandler) ProductMovements(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ProductMovements(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		InternalError(c, "list movements failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// AdjustStock POST /api/v1/products/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	product, err := h.svc.AdjustStock(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "stock adjustment failed")
		return
	}
	Success(c, product)
}

// ListCategories GET /api/v1/product-categories
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		InternalError(c, "list categories failed: "+err.Error())
		return
	}
	Success(c, categories)
}

// CreateCategory POST /api/v1/product-categories
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create category failed")
		return
	}
	Created(c, category)
}

// ListSuppliers GET /api/v1/suppliers?search=xxx
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListSuppliers(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		InternalError(c, "list suppliers failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetSupplier GET /api/v1/suppliers/:id
func (h *InventoryHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "supplier not found")
		return
	}
	Success(c, supplier)
}

// CreateSupplier POST /api/v1/suppliers
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	supplier, err := h.svc.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create supplier failed")
		return
	}
	Created(c, supplier)
}

// UpdateSupplier PUT /api/v1/suppliers/:id
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	supplier, err := h.svc.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update supplier failed")
		return
	}
	Success(c, supplier)
}

// ListPurchases GET /api/v1/purchases?status=xxx
func (h *InventoryHandler) ListPurchases(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"supplier_id":     c.Query("supplier_id"),
		"status":          c.Query("status"),
	}

	items, total, err := h.svc.ListPurchases(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list purchases failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetPurchase GET /api/v1/purchases/:id
func (h *InventoryHandler) GetPurchase(c *gin.Context) {
	purchase, err := h.svc.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "purchase not found")
		return
	}
	Success(c, purchase)
}

// CreatePurchase POST /api/v1/purchases
func (h *InventoryHandler) CreatePurchase(c *gin.Context) {
	var req service.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	purchase, err := h.svc.CreatePurchase(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "create purchase failed")
		return
	}
	Created(c, purchase)
}

// ConfirmPurchase POST /api/v1/purchases/:id/confirm
func (h *InventoryHandler) ConfirmPurchase(c *gin.Context) {
	purchase, err := h.svc.ConfirmPurchase(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err, "confirm purchase failed")
		return
	}
	Success(c, purchase)
}

// CancelPurchase POST /api/v1/purchases/:id/cancel
func (h *InventoryHandler) CancelPurchase(c *gin.Context) {
	purchase, err := h.svc.CancelPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err, "cancel purchase failed")
		return
	}
	Success(c, purchase)
}
