package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers GET /api/v1/users?role=xxx&search=xxx
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"role":            c.Query("role"),
		"search":          c.Query("search"),
		"record_status":   c.Query("record_status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list users failed: "+err.Error())
		return
	}
	Success(c, ListOf(items, page, pageSize, total))
}

// GetUser GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "user not found")
		return
	}
	Success(c, user)
}

// CreateUser POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	user, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create user failed")
		return
	}
	Created(c, user)
}

// UpdateUser PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update user failed")
		return
	}
	Success(c, user)
}

// DeactivateUser DELETE /api/v1/users/:id
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "deactivate user failed")
		return
	}
	Success(c, nil)
}

// ReactivateUser POST /api/v1/users/:id/restore
func (h *UserHandler) ReactivateUser(c *gin.Context) {
	if err := h.svc.Reactivate(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "reactivate user failed")
		return
	}
	Success(c, nil)
}
