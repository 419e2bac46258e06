package handler

import (
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
)

type DistributionHandler struct {
	svc *service.DistributionService
}

func NewDistributionHandler(svc *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{svc: svc}
}

// ListSchedules GET /api/v1/distribution/schedules?zone_id=xxx&day_of_week=xxx
func (h *DistributionHandler) ListSchedules(c *gin.Context) {
	filters := map[string]string{
		"organization_id": c.Query("organization_id"),
		"zone_id":         c.Query("zone_id"),
		"day_of_week":     c.Query("day_of_week"),
		"record_status":   c.Query("record_status"),
	}

	schedules, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "list schedules failed: "+err.Error())
		return
	}
	Success(c, schedules)
}

// WeeklyTimetable GET /api/v1/distribution/timetable?organization_id=xxx
func (h *DistributionHandler) WeeklyTimetable(c *gin.Context) {
	timetable, err := h.svc.WeeklyTimetable(c.Request.Context(), c.Query("organization_id"))
	if err != nil {
		InternalError(c, "timetable failed: "+err.Error())
		return
	}
	Success(c, timetable)
}

// GetSchedule GET /api/v1/distribution/schedules/:id
func (h *DistributionHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "schedule not found")
		return
	}
	Success(c, schedule)
}

// CreateSchedule POST /api/v1/distribution/schedules
func (h *DistributionHandler) CreateSchedule(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	schedule, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err, "create schedule failed")
		return
	}
	Created(c, schedule)
}

// UpdateSchedule PUT /api/v1/distribution/schedules/:id
func (h *DistributionHandler) UpdateSchedule(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	schedule, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err, "update schedule failed")
		return
	}
	Success(c, schedule)
}

// DeleteSchedule DELETE /api/v1/distribution/schedules/:id
func (h *DistributionHandler) DeleteSchedule(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "delete schedule failed")
		return
	}
	Success(c, nil)
}

// RestoreSchedule POST /api/v1/distribution/schedules/:id/restore
func (h *DistributionHandler) RestoreSchedule(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err, "restore schedule failed")
		return
	}
	Success(c, nil)
}
