package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"validtrack/internal/models"
	"validtrack/internal/repository"
)

type ReportService interface {
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uint) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, page, limit int, year string, now time.Time) (*ReportPage, error)
}

// ReportView — запись вместе с производным статусом для выдачи наружу.
type ReportView struct {
	models.Report
	Status        Status `json:"status"`
	DaysRemaining *int   `json:"days_remaining"`
}

type ReportPage struct {
	Items []ReportView `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type reportService struct {
	repo      repository.ReportRepository
	cacheRepo repository.CacheRepository
}

func NewReportService(repo repository.ReportRepository, cacheRepo repository.CacheRepository) ReportService {
	return &reportService{
		repo:      repo,
		cacheRepo: cacheRepo,
	}
}

func (s *reportService) Create(ctx context.Context, report *models.Report) error {
	report.ID = 0
	report.Comments = truncateComments(report.Comments)
	report.IsEmailSend = false

	if err := s.repo.Create(ctx, report); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// Update перезаписывает все поля записи. Смена даты следующей валидации
// или снятие отметки Done начинает новый цикл: флаг отправки сбрасывается.
func (s *reportService) Update(ctx context.Context, report *models.Report) error {
	existing, err := s.repo.GetByID(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("failed to load report %d: %w", report.ID, err)
	}

	report.Comments = truncateComments(report.Comments)
	report.CreatedAt = existing.CreatedAt
	report.IsEmailSend = existing.IsEmailSend

	dateChanged := existing.NextValidationDate != report.NextValidationDate
	reopened := existing.Remarks == models.RemarksDone && report.Remarks != models.RemarksDone
	if dateChanged || reopened {
		report.IsEmailSend = false
	}

	if err := s.repo.Save(ctx, report); err != nil {
		return fmt.Errorf("failed to update report %d: %w", report.ID, err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *reportService) Delete(ctx context.Context, id uint) (int64, error) {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete report %d: %w", id, err)
	}

	s.invalidateCache(ctx)
	return changes, nil
}

func (s *reportService) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, page, limit int, year string, now time.Time) (*ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("reports:p%d:l%d:y%s", page, limit, year)

	// Пробуем получить из кэша
	var cached ReportPage
	if found, err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	reports, total, err := s.repo.List(ctx, page, limit, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	result := &ReportPage{
		Items: make([]ReportView, 0, len(reports)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, report := range reports {
		result.Items = append(result.Items, buildView(report, now))
	}

	// Кэш короткий: статус зависит от текущего дня
	if err := s.cacheRepo.SetJSON(ctx, cacheKey, result, 30*time.Second); err != nil {
		log.Printf("Failed to cache reports page: %v", err)
	}

	return result, nil
}

func buildView(report models.Report, now time.Time) ReportView {
	view := ReportView{
		Report: report,
		Status: DeriveStatus(report, now),
	}
	if days, ok := DaysRemaining(report.NextValidationDate, now); ok {
		view.DaysRemaining = &days
	}
	return view
}

func truncateComments(comments string) string {
	runes := []rune(comments)
	if len(runes) <= models.CommentsMaxLen {
		return comments
	}
	return string(runes[:models.CommentsMaxLen])
}

func (s *reportService) invalidateCache(ctx context.Context) {
	if err := s.cacheRepo.DeletePattern(ctx, "reports:*"); err != nil {
		log.Printf("Failed to invalidate reports cache: %v", err)
	}
}
