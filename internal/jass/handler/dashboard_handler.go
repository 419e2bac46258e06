package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetDashboard GET /api/v1/dashboard
// Uses the caller's organization; an admin may query another with
// ?organization_id=xxx.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		orgID = GetOrganizationID(c)
	}
	if orgID == "" {
		BadRequest(c, "organization_id is required")
		return
	}

	dash, err := h.svc.Get(c.Request.Context(), orgID)
	if err != nil {
		InternalError(c, "dashboard failed: "+err.Error())
		return
	}
	Success(c, dash)
}
