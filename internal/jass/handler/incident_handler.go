package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	svc *service.IncidentService
}

func NewIncidentHandler(svc *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

// ListIncidents GET /api/v1/incidents?status=xxx&category=xxx&severity=xxx
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"zone_id":         c.Query("zone_id"),
		"status":          c.Query("status"),
		"category":        c.Query("category"),
		"severity":        c.Query("severity"),
		"search":          c.Query("search"),
		"record_status":   c.Query("record_status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list incidents failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetIncident GET /api/v1/incidents/:id
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	incident, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "incident not found")
		return
	}
	Success(c, incident)
}

// SubmitIncident POST /api/v1/incidents
// Creates the incident, its resolution and the stock movements in one
// transaction.
func (h *IncidentHandler) SubmitIncident(c *gin.Context) {
	var req service.SubmitIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), "", GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "submit incident failed")
		return
	}
	Created(c, result)
}

// UpdateIncident PUT /api/v1/incidents/:id
// Same workflow as create; the resolution and stock are reconciled against
// what was previously recorded.
func (h *IncidentHandler) UpdateIncident(c *gin.Context) {
	var req service.SubmitIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err, "update incident failed")
		return
	}
	Success(c, result)
}

type assignRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

// AssignIncident POST /api/v1/incidents/:id/assign
func (h *IncidentHandler) AssignIncident(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	incident, err := h.svc.AssignIncident(c.Request.Context(), c.Param("id"), req.AssigneeID)
	if err != nil {
		RespondError(c, err, "assign incident failed")
		return
	}
	Success(c, incident)
}

// DeleteIncident DELETE /api/v1/incidents/:id
func (h *IncidentHandler) DeleteIncident(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete incident failed")
		return
	}
	Success(c, nil)
}

// RestoreIncident POST /api/v1/incidents/:id/restore
func (h *IncidentHandler) RestoreIncident(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore incident failed")
		return
	}
	Success(c, nil)
}
