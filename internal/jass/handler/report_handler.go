package handler

import (
	"fmt"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be YYYY-MM-DD")
	}
	// Include the whole end day.
	to = to.AddDate(0, 0, 1).Add(-time.Second)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}

// serve writes the workbook to the response, or stores it and returns a
// download URL when ?store=true.
func (h *ReportHandler) serve(c *gin.Context, f *excelize.File, fileName string) {
	if c.Query("store") == "true" {
		url, err := h.svc.Store(c.Request.Context(), f, fileName)
		if err != nil {
			InternalError(c, "store report failed: "+err.Error())
			return
		}
		Success(c, gin.H{"download_url": url, "file_name": fileName})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write report failed: "+err.Error())
	}
}

// ExportIncidents GET /api/v1/reports/incidents?from=...&to=...
func (h *ReportHandler) ExportIncidents(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	f, fileName, err := h.svc.ExportIncidents(c.Request.Context(), c.Query("organization_id"), from, to)
	if err != nil {
		InternalError(c, "incident report failed: "+err.Error())
		return
	}
	h.serve(c, f, fileName)
}

// ExportPayments GET /api/v1/reports/payments?from=...&to=...
func (h *ReportHandler) ExportPayments(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	f, fileName, err := h.svc.ExportPayments(c.Request.Context(), c.Query("organization_id"), from, to)
	if err != nil {
		InternalError(c, "payment report failed: "+err.Error())
		return
	}
	h.serve(c, f, fileName)
}

// ExportStock GET /api/v1/reports/stock
func (h *ReportHandler) ExportStock(c *gin.Context) {
	f, fileName, err := h.svc.ExportStock(c.Request.Context(), c.Query("organization_id"))
	if err != nil {
		InternalError(c, "stock report failed: "+err.Error())
		return
	}
	h.serve(c, f, fileName)
}
