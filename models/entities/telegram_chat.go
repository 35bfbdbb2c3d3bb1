package entities

import "time"

type TelegramChat struct {
	ChatID    int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
