package service

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"validtrack/internal/models"
	"validtrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReportsCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(repository.NewReportRepository(db), t.TempDir())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Report{
		SampleNo:           "PN-500",
		Person:             "Alice",
		Remarks:            models.RemarksPending,
		ValidationDate:     "2025-09-10",
		NextValidationDate: dateOffset(2),
	}).Error)
	require.NoError(t, db.Create(&models.Report{
		SampleNo:       "PN-501",
		Remarks:        models.RemarksDone,
		ValidationDate: "2026-01-15",
	}).Error)

	path, err := svc.ExportReports(ctx, "csv", "", testNow)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // заголовок + две записи

	assert.Equal(t, "sample_no", rows[0][1])
	assert.Equal(t, "PN-500", rows[1][1])
	assert.Equal(t, string(StatusDueDate), rows[1][10])
	assert.Equal(t, "2", rows[1][11])
	assert.Equal(t, string(StatusFinish), rows[2][10])
}

func TestExportReportsYearFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(repository.NewReportRepository(db), t.TempDir())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Report{SampleNo: "PN-510", ValidationDate: "2025-03-01"}).Error)
	require.NoError(t, db.Create(&models.Report{SampleNo: "PN-511", ValidationDate: "2026-03-01"}).Error)

	path, err := svc.ExportReports(ctx, "csv", "2026", testNow)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PN-511", rows[1][1])
}

func TestExportReportsEmptyAndUnknownFormat(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(repository.NewReportRepository(db), t.TempDir())
	ctx := context.Background()

	_, err := svc.ExportReports(ctx, "csv", "", testNow)
	assert.Error(t, err) // пустая таблица

	require.NoError(t, db.Create(&models.Report{SampleNo: "PN-520"}).Error)
	_, err = svc.ExportReports(ctx, "pdf", "", testNow)
	assert.Error(t, err)
}

func TestExportReportsJSON(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(repository.NewReportRepository(db), t.TempDir())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Report{
		SampleNo:           "PN-530",
		Person:             "Bob",
		NextValidationDate: dateOffset(10),
	}).Error)

	path, err := svc.ExportReports(ctx, "json", "", testNow)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PN-530")
	assert.Contains(t, string(raw), string(StatusPending))
}
