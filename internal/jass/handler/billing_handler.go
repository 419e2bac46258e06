package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// ListBoxes GET /api/v1/water-boxes?street_id=xxx&client_id=xxx
func (h *BillingHandler) ListBoxes(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"street_id":       c.Query("street_id"),
		"client_id":       c.Query("client_id"),
		"box_type":        c.Query("box_type"),
		"record_status":   c.Query("record_status"),
	}

	items, total, err := h.svc.ListBoxes(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list water boxes failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetBox GET /api/v1/water-boxes/:id
func (h *BillingHandler) GetBox(c *gin.Context) {
	box, err := h.svc.GetBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "water box not found")
		return
	}
	Success(c, box)
}

// CreateBox POST /api/v1/water-boxes
func (h *BillingHandler) CreateBox(c *gin.Context) {
	var req service.WaterBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	box, err := h.svc.CreateBox(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create water box failed")
		return
	}
	Created(c, box)
}

// UpdateBox PUT /api/v1/water-boxes/:id
func (h *BillingHandler) UpdateBox(c *gin.Context) {
	var req service.WaterBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	box, err := h.svc.UpdateBox(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update water box failed")
		return
	}
	Success(c, box)
}

// DeleteBox DELETE /api/v1/water-boxes/:id
func (h *BillingHandler) DeleteBox(c *gin.Context) {
	if err := h.svc.DeleteBox(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete water box failed")
		return
	}
	Success(c, nil)
}

// RestoreBox POST /api/v1/water-boxes/:id/restore
func (h *BillingHandler) RestoreBox(c *gin.Context) {
	if err := h.svc.RestoreBox(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore water box failed")
		return
	}
	Success(c, nil)
}

// BoxPayments GET /api/v1/water-boxes/:id/payments
func (h *BillingHandler) BoxPayments(c *gin.Context) {
	payments, err := h.svc.BoxPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list box payments failed: "+err.Error())
		return
	}
	Success(c, payments)
}

// BoxDebt GET /api/v1/water-boxes/:id/debt?from=2026-01
func (h *BillingHandler) BoxDebt(c *gin.Context) {
	summary, err := h.svc.BoxDebt(c.Request.Context(), c.Param("id"), c.Query("from"))
	if err != nil {
		RespondError(c, err, "debt summary failed")
		return
	}
	Success(c, summary)
}

// ListPayments GET /api/v1/payments?status=xxx
func (h *BillingHandler) ListPayments(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"water_box_id":    c.Query("water_box_id"),
		"status":          c.Query("status"),
		"payment_method":  c.Query("payment_method"),
	}

	items, total, err := h.svc.ListPayments(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list payments failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetPayment GET /api/v1/payments/:id
func (h *BillingHandler) GetPayment(c *gin.Context) {
	payment, err := h.svc.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "payment not found")
		return
	}
	Success(c, payment)
}

// RegisterPayment POST /api/v1/payments
func (h *BillingHandler) RegisterPayment(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	payment, err := h.svc.RegisterPayment(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "register payment failed")
		return
	}
	Created(c, payment)
}

type voidRequest struct {
	Reason string `json:"reason"`
}

// VoidPayment POST /api/v1/payments/:id/void
func (h *BillingHandler) VoidPayment(c *gin.Context) {
	var req voidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	payment, err := h.svc.VoidPayment(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		RespondError(c, err, "void payment failed")
		return
	}
	Success(c, payment)
}
