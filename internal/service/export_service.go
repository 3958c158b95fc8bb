package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"validtrack/internal/repository"
	"validtrack/internal/utils"
)

type ExportService interface {
	ExportReports(ctx context.Context, format, year string, now time.Time) (string, error)
}

type exportService struct {
	repo      repository.ReportRepository
	outputDir string
}

func NewExportService(repo repository.ReportRepository, outputDir string) ExportService {
	if outputDir == "" {
		outputDir = "./data/exports"
	}

	// Создаем директорию если не существует
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Printf("Failed to create export directory: %v", err)
	}

	return &exportService{
		repo:      repo,
		outputDir: outputDir,
	}
}

// ExportReports выгружает текущее содержимое таблицы в файл и возвращает
// путь к нему. Поддерживаются csv, xlsx и json.
func (s *exportService) ExportReports(ctx context.Context, format, year string, now time.Time) (string, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load reports: %w", err)
	}

	if year != "" {
		filtered := reports[:0]
		for _, report := range reports {
			if strings.HasPrefix(report.ValidationDate, year+"-") {
				filtered = append(filtered, report)
			}
		}
		reports = filtered
	}

	if len(reports) == 0 {
		return "", fmt.Errorf("no reports found to export")
	}

	rows := make([]utils.ReportRow, 0, len(reports))
	for _, report := range reports {
		row := utils.ReportRow{
			Report: report,
			Status: string(DeriveStatus(report, now)),
		}
		if days, ok := DaysRemaining(report.NextValidationDate, now); ok {
			row.DaysRemaining = &days
		}
		rows = append(rows, row)
	}

	timestamp := now.UTC().Format("20060102_150405")

	switch format {
	case "csv":
		path := filepath.Join(s.outputDir, fmt.Sprintf("reports_export_%s.csv", timestamp))
		if err := s.saveToCSV(path, rows); err != nil {
			return "", err
		}
		return path, nil

	case "excel", "xlsx":
		path := filepath.Join(s.outputDir, fmt.Sprintf("reports_export_%s.xlsx", timestamp))
		if err := utils.CreateReportsExcel(path, rows); err != nil {
			return "", fmt.Errorf("failed to create Excel file: %w", err)
		}
		return path, nil

	case "json":
		path := filepath.Join(s.outputDir, fmt.Sprintf("reports_export_%s.json", timestamp))
		if err := utils.SaveAsJSON(path, rows); err != nil {
			return "", err
		}
		return path, nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) saveToCSV(path string, rows []utils.ReportRow) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"id", "sample_no", "items", "program", "part_name",
		"validation_date", "next_validation_date", "remarks",
		"comments", "person", "status", "days_remaining", "notified",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		daysRemaining := ""
		if row.DaysRemaining != nil {
			daysRemaining = strconv.Itoa(*row.DaysRemaining)
		}

		record := []string{
			strconv.FormatUint(uint64(row.Report.ID), 10),
			row.Report.SampleNo,
			row.Report.Items,
			row.Report.Program,
			row.Report.PartName,
			row.Report.ValidationDate,
			row.Report.NextValidationDate,
			row.Report.Remarks,
			row.Report.Comments,
			row.Report.Person,
			row.Status,
			daysRemaining,
			strconv.FormatBool(row.Report.IsEmailSend),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
