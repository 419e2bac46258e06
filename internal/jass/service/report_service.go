package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService builds Excel workbooks for the board's monthly reporting
// and stores them in object storage, returning a presigned download URL.
type ReportService struct {
	incidents   *repository.IncidentRepository
	payments    *repository.PaymentRepository
	products    *repository.ProductRepository
	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
}

func NewReportService(
	incidents *repository.IncidentRepository,
	payments *repository.PaymentRepository,
	products *repository.ProductRepository,
	minioClient *minio.Client,
	bucketName string,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		incidents:   incidents,
		payments:    payments,
		products:    products,
		minioClient: minioClient,
		bucketName:  bucketName,
		logger:      logger,
	}
}

var incidentReportHeaders = []string{
	"Código", "Categoría", "Severidad", "Estado", "Título",
	"Fecha", "Cajas afectadas", "Resuelto", "Costo total",
}

// ExportIncidents builds the incident workbook for a period.
func (s *ReportService) ExportIncidents(ctx context.Context, orgID string, from, to time.Time) (*excelize.File, string, error) {
	incidents, err := s.incidents.FindForReport(ctx, orgID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("load incidents: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Incidencias"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range incidentReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalCost float64
	row := 2
	for _, inc := range incidents {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), inc.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), inc.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), inc.Severity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), inc.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), inc.Title)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), inc.IncidentDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), inc.AffectedBoxes)
		resolved := "No"
		if inc.Resolved {
			resolved = "Sí"
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), resolved)
		if inc.Resolution != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), inc.Resolution.TotalCost)
			totalCost += inc.Resolution.TotalCost
		}
		row++
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row+1), fmt.Sprintf("Incidencias: %d", len(incidents)))
	f.SetCellValue(sheet, fmt.Sprintf("I%d", row+1), totalCost)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row+1), fmt.Sprintf("I%d", row+1), summaryStyle)

	for i, w := range []float64{14, 18, 12, 14, 40, 12, 14, 10, 12} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	fileName := fmt.Sprintf("incidencias_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return f, fileName, nil
}

var paymentReportHeaders = []string{
	"Serie", "Número", "Caja", "Fecha", "Método", "Meses", "Estado", "Monto",
}

// ExportPayments builds the collections workbook for a period.
func (s *ReportService) ExportPayments(ctx context.Context, orgID string, from, to time.Time) (*excelize.File, string, error) {
	payments, err := s.payments.FindForReport(ctx, orgID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("load payments: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Cobranzas"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range paymentReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for _, p := range payments {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.ReceiptSeries)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.ReceiptNumber)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.WaterBoxID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.PaymentDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.PaymentMethod)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(p.MonthsCovered))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.Status)
		amount, _ := p.Amount.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), amount)
		row++
	}

	total, err := s.payments.SumCollected(ctx, orgID, from, to)
	if err == nil {
		summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		totalFloat, _ := total.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Total recaudado")
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row+1), totalFloat)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row+1), fmt.Sprintf("H%d", row+1), summaryStyle)
	}

	fileName := fmt.Sprintf("cobranzas_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return f, fileName, nil
}

var stockReportHeaders = []string{
	"Código", "Producto", "Unidad", "Stock actual", "Stock mínimo", "Costo unitario", "Bajo stock",
}

// ExportStock builds the current inventory workbook.
func (s *ReportService) ExportStock(ctx context.Context, orgID string) (*excelize.File, string, error) {
	products, _, err := s.products.FindAll(ctx, 1, 10000, map[string]string{"organization_id": orgID})
	if err != nil {
		return nil, "", fmt.Errorf("load products: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inventario"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range stockReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for _, p := range products {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.CurrentStock)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.MinimumStock)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.UnitCost)
		low := ""
		if p.CurrentStock < p.MinimumStock {
			low = "SÍ"
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), low)
		row++
	}

	fileName := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102"))
	return f, fileName, nil
}

// Store uploads a workbook to object storage and returns a presigned
// download URL valid for 24 hours. Requires MinIO to be configured.
func (s *ReportService) Store(ctx context.Context, f *excelize.File, fileName string) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("serialize workbook: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%s", time.Now().Format("2006/01"), fileName)
	_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	presigned, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, objectName, 24*time.Hour, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign report: %w", err)
	}
	return presigned.String(), nil
}
