package repository

import (
	"context"

	"validtrack/internal/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Save(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uint) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, page, limit int, year string) ([]models.Report, int64, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	MarkNotified(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) Save(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Report{}, id)
	return res.RowsAffected, res.Error
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		First(&report, id).
		Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, page, limit int, year string) ([]models.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Model(&models.Report{})
	if year != "" {
		q = q.Where("validation_date LIKE ?", year+"-%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := q.
		Order("next_validation_date ASC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).
		Error
	return reports, total, err
}

func (r *reportRepository) ListAll(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&reports).
		Error
	return reports, err
}

// MarkNotified выставляет флаг is_email_send одним условным апдейтом.
// false означает, что флаг уже стоял: подтверждение выиграл другой прогон.
func (r *reportRepository) MarkNotified(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND is_email_send = ?", id, false).
		Update("is_email_send", true)
	return res.RowsAffected > 0, res.Error
}

func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Count(&count).
		Error
	return count, err
}
