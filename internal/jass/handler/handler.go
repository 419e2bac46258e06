package handler

import (
	"errors"
	"strconv"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	User         *UserHandler
	Incident     *IncidentHandler
	Inventory    *InventoryHandler
	Distribution *DistributionHandler
	Billing      *BillingHandler
	Report       *ReportHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(
	authSvc *service.AuthService,
	orgSvc *service.OrganizationService,
	userSvc *service.UserService,
	incidentSvc *service.IncidentService,
	inventorySvc *service.InventoryService,
	distributionSvc *service.DistributionService,
	billingSvc *service.BillingService,
	reportSvc *service.ReportService,
	dashboardSvc *service.DashboardService,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(authSvc),
		Organization: NewOrganizationHandler(orgSvc),
		User:         NewUserHandler(userSvc),
		Incident:     NewIncidentHandler(incidentSvc),
		Inventory:    NewInventoryHandler(inventorySvc),
		Distribution: NewDistributionHandler(distributionSvc),
		Billing:      NewBillingHandler(billingSvc),
		Report:       NewReportHandler(reportSvc),
		Dashboard:    NewDashboardHandler(dashboardSvc),
	}
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError maps service and repository errors to the envelope:
// validation problems become 400, missing rows 404, everything else 500.
func RespondError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "record not found")
	default:
		InternalError(c, fallback+": "+err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetOrganizationID(c *gin.Context) string {
	orgID, _ := c.Get("organization_id")
	if id, ok := orgID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

func ListOf(items interface{}, page, pageSize int, total int64) ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}
