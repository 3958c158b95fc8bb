package repository

import (
	"context"

	"validtrack/internal/models"

	"gorm.io/gorm"
)

type NotificationLogRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	GetRecent(ctx context.Context, limit int) ([]models.NotificationLog, error)
	Count(ctx context.Context) (int64, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *notificationLogRepository) GetRecent(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var entries []models.NotificationLog
	err := r.db.WithContext(ctx).
		Order("sent_at DESC").
		Limit(limit).
		Find(&entries).
		Error
	return entries, err
}

func (r *notificationLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationLog{}).
		Count(&count).
		Error
	return count, err
}
