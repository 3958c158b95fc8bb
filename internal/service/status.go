package service

import (
	"math"
	"strings"
	"time"

	"validtrack/internal/models"
)

// Status — производное состояние записи, в таблице не хранится.
type Status string

const (
	StatusFinish  Status = "Finish"
	StatusDueDate Status = "DueDate"
	StatusPending Status = "Pending"
)

// DueSoonDays — за сколько дней до NextValidationDate запись считается "горящей".
const DueSoonDays = 5

// DaysRemaining считает дни до даты следующей валидации с округлением вверх.
// Время суток отбрасывается у обеих дат. Вторым значением возвращает false,
// если дата отсутствует или не разбирается.
func DaysRemaining(nextDate string, now time.Time) (int, bool) {
	next, err := time.Parse(models.DateLayout, strings.TrimSpace(nextDate))
	if err != nil {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextDay := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)

	days := int(math.Ceil(nextDay.Sub(today).Hours() / 24))
	return days, true
}

// DeriveStatus выводит статус записи на момент now.
// Приоритет: ручная отметка Done, затем дата следующей валидации.
// Запись без даты (или с битой датой) никогда не становится DueDate.
func DeriveStatus(report models.Report, now time.Time) Status {
	if report.Remarks == models.RemarksDone {
		return StatusFinish
	}

	days, ok := DaysRemaining(report.NextValidationDate, now)
	if ok && days < DueSoonDays {
		return StatusDueDate
	}
	return StatusPending
}

// EligibleForReminder отбирает записи, по которым нужно отправить
// напоминание прямо сейчас. Чистая функция над снимком таблицы:
// горящая запись, без отправленного письма, с ответственным и датой.
func EligibleForReminder(reports []models.Report, now time.Time) []models.Report {
	var eligible []models.Report
	for _, report := range reports {
		if DeriveStatus(report, now) != StatusDueDate {
			continue
		}
		if report.IsEmailSend {
			continue
		}
		if strings.TrimSpace(report.Person) == "" {
			continue
		}
		if strings.TrimSpace(report.NextValidationDate) == "" {
			continue
		}
		eligible = append(eligible, report)
	}
	return eligible
}
