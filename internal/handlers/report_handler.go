package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"validtrack/internal/models"
	"validtrack/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportHandler struct {
	service       service.ReportService
	exportService service.ExportService
}

func NewReportHandler(service service.ReportService, exportService service.ExportService) *ReportHandler {
	return &ReportHandler{
		service:       service,
		exportService: exportService,
	}
}

type reportRequest struct {
	SampleNo           string `json:"sample_no"`
	Items              string `json:"items"`
	Program            string `json:"program"`
	PartName           string `json:"part_name"`
	ValidationDate     string `json:"validation_date"`
	NextValidationDate string `json:"next_validation_date"`
	Remarks            string `json:"remarks"`
	Comments           string `json:"comments"`
	Person             string `json:"person"`
}

func (req *reportRequest) toModel() *models.Report {
	return &models.Report{
		SampleNo:           req.SampleNo,
		Items:              req.Items,
		Program:            req.Program,
		PartName:           req.PartName,
		ValidationDate:     req.ValidationDate,
		NextValidationDate: req.NextValidationDate,
		Remarks:            req.Remarks,
		Comments:           req.Comments,
		Person:             req.Person,
	}
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	year := c.Query("year")

	result, err := h.service.List(ctx, page, limit, year, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to list reports",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := h.service.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to get report",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	ctx := c.Request.Context()

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := req.toModel()
	if err := h.service.Create(ctx, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to create report",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Record created successfully",
		"record_id": report.ID,
	})
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := req.toModel()
	report.ID = id

	err = h.service.Update(ctx, report)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to update report",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Record updated successfully",
		"id":      id,
	})
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	changes, err := h.service.Delete(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to delete report",
			"message": err.Error(),
		})
		return
	}

	message := "Record deleted"
	if changes == 0 {
		message = "No record found for given ID"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"changes": changes,
		"id":      id,
	})
}

func (h *ReportHandler) ExportReports(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.DefaultQuery("format", "csv")
	year := c.Query("year")

	path, err := h.exportService.ExportReports(ctx, format, year, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to export reports",
			"message": err.Error(),
		})
		return
	}

	// Определяем Content-Type
	var contentType, filename string
	switch format {
	case "csv":
		contentType = "text/csv"
		filename = "reports_export.csv"
	case "excel", "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "reports_export.xlsx"
	case "json":
		contentType = "application/json"
		filename = "reports_export.json"
	default:
		contentType = "application/octet-stream"
		filename = "reports_export." + format
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.File(path)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
