package entities

import "time"

// Article is unique per (Symbol, ExternalID). Only Body is written after insert.
type Article struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Symbol      string     `json:"symbol" gorm:"size:32;not null;index;uniqueIndex:uq_symbol_external,priority:1"`
	Headline    string     `json:"headline" gorm:"size:512;not null"`
	Summary     *string    `json:"summary"`
	URL         string     `json:"url" gorm:"size:1024;not null"`
	Source      *string    `json:"source" gorm:"size:128"`
	ExternalID  string     `json:"-" gorm:"size:256;not null;uniqueIndex:uq_symbol_external,priority:2"`
	PublishedAt *time.Time `json:"published_at"`
	Body        *string    `json:"body,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
