package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationLog — журнал отправленных напоминаний. Содержимое письма
// сохраняем целиком в JSON.
type NotificationLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ReportID  uint           `gorm:"index;not null" json:"report_id"`
	Recipient string         `gorm:"type:varchar(255);not null" json:"recipient"`
	Payload   datatypes.JSON `json:"payload"`
	SentAt    time.Time      `gorm:"not null;index" json:"sent_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
