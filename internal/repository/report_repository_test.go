package repository

import (
	"context"
	"testing"

	"validtrack/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Report{},
		&models.Setting{},
		&models.NotificationLog{},
	))
	return db
}

func TestMarkNotifiedWinsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	report := models.Report{SampleNo: "PN-1", Person: "Alice"}
	require.NoError(t, repo.Create(ctx, &report))

	won, err := repo.MarkNotified(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, won)

	// Второй условный апдейт не находит строки: флаг уже стоит
	won, err = repo.MarkNotified(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, won)

	stored, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailSend)
}

func TestMarkNotifiedMissingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)

	won, err := repo.MarkNotified(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestListPaginationAndYearFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	rows := []models.Report{
		{SampleNo: "PN-1", ValidationDate: "2025-02-01", NextValidationDate: "2026-02-01"},
		{SampleNo: "PN-2", ValidationDate: "2026-03-01", NextValidationDate: "2026-09-01"},
		{SampleNo: "PN-3", ValidationDate: "2026-05-01", NextValidationDate: "2026-06-01"},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	reports, total, err := repo.List(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, reports, 2)
	// Сортировка по дате следующей валидации
	assert.Equal(t, "PN-1", reports[0].SampleNo)
	assert.Equal(t, "PN-3", reports[1].SampleNo)

	reports, total, err = repo.List(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, reports, 1)
	assert.Equal(t, "PN-2", reports[0].SampleNo)

	reports, total, err = repo.List(ctx, 1, 20, "2026")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reports, 2)
}

func TestSettingRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	value, err := repo.Get(ctx, models.SettingNotificationEmail)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.Set(ctx, models.SettingNotificationEmail, "ops@example.com"))
	require.NoError(t, repo.Set(ctx, models.SettingNotificationEmail, "lab@example.com"))

	value, err = repo.Get(ctx, models.SettingNotificationEmail)
	require.NoError(t, err)
	assert.Equal(t, "lab@example.com", value)

	// Одна строка на ключ, а не новая на каждую запись
	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteRowsAffected(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	report := models.Report{SampleNo: "PN-9"}
	require.NoError(t, repo.Create(ctx, &report))

	changes, err := repo.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	changes, err = repo.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.Zero(t, changes)
}
