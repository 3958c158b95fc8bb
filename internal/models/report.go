package models

import (
	"time"
)

// Значения колонки Remarks (ручная отметка ответственного).
const (
	RemarksDone    = "Done"
	RemarksPending = "Pending"
)

// DateLayout — формат дат валидации. Даты храним строками, как они
// приходят из формы: битая дата не должна ломать выборку.
const DateLayout = "2006-01-02"

// CommentsMaxLen — лимит колонки Comments, лишнее обрезаем при записи.
const CommentsMaxLen = 255

type Report struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	SampleNo           string    `gorm:"type:varchar(100);index" json:"sample_no"`
	Items              string    `gorm:"type:varchar(255)" json:"items"`
	Program            string    `gorm:"type:varchar(100)" json:"program"`
	PartName           string    `gorm:"type:varchar(255)" json:"part_name"`
	ValidationDate     string    `gorm:"type:varchar(10)" json:"validation_date"`
	NextValidationDate string    `gorm:"type:varchar(10);index" json:"next_validation_date"`
	Remarks            string    `gorm:"type:varchar(20)" json:"remarks"`
	Comments           string    `gorm:"type:varchar(255)" json:"comments"`
	Person             string    `gorm:"type:varchar(100)" json:"person"`
	IsEmailSend        bool      `gorm:"not null;default:false" json:"is_email_send"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
