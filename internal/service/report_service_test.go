package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"validtrack/internal/models"
	"validtrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return string(c.data[key]), nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func newReportFixture(t *testing.T) (*gorm.DB, ReportService, *fakeCache) {
	t.Helper()
	db := newTestDB(t)
	cache := newFakeCache()
	return db, NewReportService(repository.NewReportRepository(db), cache), cache
}

func TestCreateTruncatesComments(t *testing.T) {
	_, svc, _ := newReportFixture(t)
	ctx := context.Background()

	report := &models.Report{
		SampleNo: "PN-100",
		Comments: strings.Repeat("x", 300),
	}
	require.NoError(t, svc.Create(ctx, report))
	assert.NotZero(t, report.ID)

	stored, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Len(t, []rune(stored.Comments), 255)

	// Повторное сохранение обрезанного значения ничего не меняет
	update := *stored
	require.NoError(t, svc.Update(ctx, &update))

	again, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Comments, again.Comments)
}

func TestUpdateResetsNotifiedOnDateChange(t *testing.T) {
	db, svc, _ := newReportFixture(t)
	ctx := context.Background()

	report := models.Report{
		SampleNo:           "PN-200",
		Person:             "Alice",
		Remarks:            models.RemarksPending,
		NextValidationDate: dateOffset(2),
		IsEmailSend:        true,
	}
	require.NoError(t, db.Create(&report).Error)

	// Новая дата валидации — новый цикл, флаг сбрасывается
	update := report
	update.NextValidationDate = dateOffset(40)
	require.NoError(t, svc.Update(ctx, &update))

	stored, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsEmailSend)
}

func TestUpdateResetsNotifiedOnReopen(t *testing.T) {
	db, svc, _ := newReportFixture(t)
	ctx := context.Background()

	report := models.Report{
		SampleNo:           "PN-201",
		Person:             "Bob",
		Remarks:            models.RemarksDone,
		NextValidationDate: dateOffset(2),
		IsEmailSend:        true,
	}
	require.NoError(t, db.Create(&report).Error)

	update := report
	update.Remarks = models.RemarksPending
	require.NoError(t, svc.Update(ctx, &update))

	stored, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsEmailSend)
}

func TestUpdateKeepsNotifiedWhenCycleUnchanged(t *testing.T) {
	db, svc, _ := newReportFixture(t)
	ctx := context.Background()

	report := models.Report{
		SampleNo:           "PN-202",
		Person:             "Carol",
		Remarks:            models.RemarksPending,
		NextValidationDate: dateOffset(2),
		IsEmailSend:        true,
	}
	require.NoError(t, db.Create(&report).Error)

	update := report
	update.Comments = "checked twice"
	require.NoError(t, svc.Update(ctx, &update))

	stored, err := svc.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailSend)
	assert.Equal(t, "checked twice", stored.Comments)
}

func TestDeleteReportsChanges(t *testing.T) {
	db, svc, _ := newReportFixture(t)
	ctx := context.Background()

	report := models.Report{SampleNo: "PN-300"}
	require.NoError(t, db.Create(&report).Error)

	changes, err := svc.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	changes, err = svc.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.Zero(t, changes)
}

func TestListDerivesStatusAndInvalidatesCache(t *testing.T) {
	db, svc, cache := newReportFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Report{
		SampleNo:           "PN-400",
		Person:             "Dave",
		Remarks:            models.RemarksPending,
		NextValidationDate: dateOffset(2),
	}).Error)

	page, err := svc.List(ctx, 1, 20, "", testNow)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, StatusDueDate, page.Items[0].Status)
	require.NotNil(t, page.Items[0].DaysRemaining)
	assert.Equal(t, 2, *page.Items[0].DaysRemaining)
	assert.NotEmpty(t, cache.data)

	// Запись через сервис сбрасывает кэш списка
	require.NoError(t, svc.Create(ctx, &models.Report{SampleNo: "PN-401"}))
	assert.Empty(t, cache.data)

	page, err = svc.List(ctx, 1, 20, "", testNow)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
