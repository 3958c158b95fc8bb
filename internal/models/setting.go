package models

import (
	"time"
)

// Ключи таблицы настроек.
const SettingNotificationEmail = "notification_email"

// Setting — одно значение настройки приложения. Адрес получателя
// напоминаний живет здесь одной строкой, а не колонкой в каждой записи.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:varchar(255)" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
