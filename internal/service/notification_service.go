package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/mail"
	"time"

	"validtrack/internal/clients"
	"validtrack/internal/models"
	"validtrack/internal/repository"
)

type NotificationService interface {
	RunDueDateCheck(ctx context.Context, now time.Time) (*RunResult, error)
	GetNotificationEmail(ctx context.Context) (string, error)
	SetNotificationEmail(ctx context.Context, email string) error
	GetRecentLogs(ctx context.Context, limit int) ([]models.NotificationLog, error)
}

// RunResult — итог одного прогона проверки: кому письмо ушло, у кого
// отправка не удалась. Неудачные записи попадут в следующий прогон.
type RunResult struct {
	Sent   []uint `json:"sent"`
	Failed []uint `json:"failed"`
}

type notificationService struct {
	reports         repository.ReportRepository
	settings        repository.SettingRepository
	logs            repository.NotificationLogRepository
	mailer          clients.Mailer
	dispatchTimeout time.Duration
}

func NewNotificationService(
	reports repository.ReportRepository,
	settings repository.SettingRepository,
	logs repository.NotificationLogRepository,
	mailer clients.Mailer,
	dispatchTimeout time.Duration,
) NotificationService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 15 * time.Second
	}

	return &notificationService{
		reports:         reports,
		settings:        settings,
		logs:            logs,
		mailer:          mailer,
		dispatchTimeout: dispatchTimeout,
	}
}

// RunDueDateCheck — единая точка входа проверки горящих записей. Вызывается
// воркером по таймеру, ручным запросом и сменой адреса получателя.
// Ошибки хранилища прерывают прогон, отказ отправки по одной записи — нет.
func (s *notificationService) RunDueDateCheck(ctx context.Context, now time.Time) (*RunResult, error) {
	result := &RunResult{Sent: []uint{}, Failed: []uint{}}

	email, err := s.settings.Get(ctx, models.SettingNotificationEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to read notification email: %w", err)
	}
	if email == "" {
		log.Println("Due date check: no notification email configured, skipping")
		return result, nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		log.Printf("Due date check: invalid notification email %q, skipping", email)
		return result, nil
	}

	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	eligible := EligibleForReminder(reports, now)
	if len(eligible) == 0 {
		return result, nil
	}

	log.Printf("Due date check: %d of %d reports need a reminder", len(eligible), len(reports))

	for _, report := range eligible {
		// Перечитываем флаг прямо перед отправкой: параллельный прогон
		// мог уже подтвердить эту запись
		current, err := s.reports.GetByID(ctx, report.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-check report %d: %w", report.ID, err)
		}
		if current.IsEmailSend {
			continue
		}

		if err := s.dispatch(ctx, email, report); err != nil {
			log.Printf("Due date email failed for report %d (%s): %v", report.ID, report.SampleNo, err)
			result.Failed = append(result.Failed, report.ID)
			continue
		}

		won, err := s.reports.MarkNotified(ctx, report.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to acknowledge report %d: %w", report.ID, err)
		}
		if !won {
			// Условный апдейт ничего не изменил: подтверждение успел
			// записать параллельный прогон
			log.Printf("Report %d was already acknowledged by a concurrent run", report.ID)
		}

		result.Sent = append(result.Sent, report.ID)
		s.saveLog(ctx, email, report)
	}

	log.Printf("Due date check finished: %d sent, %d failed", len(result.Sent), len(result.Failed))
	return result, nil
}

// dispatch отправляет одно напоминание с таймаутом: медленный SMTP не
// должен держать весь прогон.
func (s *notificationService) dispatch(ctx context.Context, to string, report models.Report) error {
	subject := fmt.Sprintf("Report Due Date Reminder %s", report.SampleNo)
	textBody := fmt.Sprintf("Hi %s,\nReport %s is due on %s.",
		report.Person, report.SampleNo, report.NextValidationDate)
	htmlBody := fmt.Sprintf(
		"<p>Hi <strong>%s</strong>,</p><p>Report <strong>%s</strong> is due on <strong>%s</strong>.</p>",
		report.Person, report.SampleNo, report.NextValidationDate)

	ctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.mailer.Send(to, subject, textBody, htmlBody)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("dispatch timed out after %v: %w", s.dispatchTimeout, ctx.Err())
	}
}

// saveLog пишет запись журнала. Журнал вспомогательный, его отказ не
// отменяет уже отправленное письмо.
func (s *notificationService) saveLog(ctx context.Context, recipient string, report models.Report) {
	payload, err := json.Marshal(map[string]string{
		"sample_no":            report.SampleNo,
		"person":               report.Person,
		"next_validation_date": report.NextValidationDate,
		"subject":              fmt.Sprintf("Report Due Date Reminder %s", report.SampleNo),
	})
	if err != nil {
		log.Printf("Failed to marshal notification log payload: %v", err)
		return
	}

	entry := &models.NotificationLog{
		ReportID:  report.ID,
		Recipient: recipient,
		Payload:   payload,
		SentAt:    time.Now().UTC(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("Failed to save notification log for report %d: %v", report.ID, err)
	}
}

func (s *notificationService) GetNotificationEmail(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, models.SettingNotificationEmail)
}

func (s *notificationService) SetNotificationEmail(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address %q: %w", email, err)
	}
	if err := s.settings.Set(ctx, models.SettingNotificationEmail, email); err != nil {
		return fmt.Errorf("failed to save notification email: %w", err)
	}

	log.Printf("Notification email set to %s", email)
	return nil
}

func (s *notificationService) GetRecentLogs(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	return s.logs.GetRecent(ctx, limit)
}
