package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	svc *service.OrganizationService
}

func NewOrganizationHandler(svc *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

// ListOrganizations GET /api/v1/organizations?search=xxx&record_status=xxx
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":        c.Query("search"),
		"record_status": c.Query("record_status"),
		"district":      c.Query("district"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list organizations failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetOrganization GET /api/v1/organizations/:id
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "organization not found")
		return
	}
	Success(c, org)
}

// CreateOrganization POST /api/v1/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req service.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create organization failed")
		return
	}
	Created(c, org)
}

// UpdateOrganization PUT /api/v1/organizations/:id
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	var req service.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update organization failed")
		return
	}
	Success(c, org)
}

// DeleteOrganization DELETE /api/v1/organizations/:id
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete organization failed")
		return
	}
	Success(c, nil)
}

// RestoreOrganization POST /api/v1/organizations/:id/restore
func (h *OrganizationHandler) RestoreOrganization(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore organization failed")
		return
	}
	Success(c, nil)
}

// ListZones GET /api/v1/zones?organization_id=xxx
func (h *OrganizationHandler) ListZones(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"search":          c.Query("search"),
		"record_status":   c.Query("record_status"),
	}

	items, total, err := h.svc.ListZones(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list zones failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetZone GET /api/v1/zones/:id
func (h *OrganizationHandler) GetZone(c *gin.Context) {
	zone, err := h.svc.GetZone(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "zone not found")
		return
	}
	Success(c, zone)
}

// CreateZone POST /api/v1/zones
func (h *OrganizationHandler) CreateZone(c *gin.Context) {
	var req service.ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	zone, err := h.svc.CreateZone(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create zone failed")
		return
	}
	Created(c, zone)
}

// UpdateZone PUT /api/v1/zones/:id
func (h *OrganizationHandler) UpdateZone(c *gin.Context) {
	var req service.ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	zone, err := h.svc.UpdateZone(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update zone failed")
		return
	}
	Success(c, zone)
}

// DeleteZone DELETE /api/v1/zones/:id
func (h *OrganizationHandler) DeleteZone(c *gin.Context) {
	if err := h.svc.DeleteZone(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete zone failed")
		return
	}
	Success(c, nil)
}

// RestoreZone POST /api/v1/zones/:id/restore
func (h *OrganizationHandler) RestoreZone(c *gin.Context) {
	if err := h.svc.RestoreZone(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore zone failed")
		return
	}
	Success(c, nil)
}

// ListStreets GET /api/v1/zones/:id/streets
func (h *OrganizationHandler) ListStreets(c *gin.Context) {
	streets, err := h.svc.ListStreets(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list streets failed: "+err.Error())
		return
	}
	Success(c, streets)
}

// CreateStreet POST /api/v1/streets
func (h *OrganizationHandler) CreateStreet(c *gin.Context) {
	var req service.StreetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	street, err := h.svc.CreateStreet(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create street failed")
		return
	}
	Created(c, street)
}

// UpdateStreet PUT /api/v1/streets/:id
func (h *OrganizationHandler) UpdateStreet(c *gin.Context) {
	var req service.StreetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	street, err := h.svc.UpdateStreet(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update street failed")
		return
	}
	Success(c, street)
}

// DeleteStreet DELETE /api/v1/streets/:id
func (h *OrganizationHandler) DeleteStreet(c *gin.Context) {
	if err := h.svc.DeleteStreet(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete street failed")
		return
	}
	Success(c, nil)
}
