package models

import "time"

// SyncedAssignment records a Canvas assignment that already has a card on the board.
type SyncedAssignment struct {
	URL       string `gorm:"primaryKey"`
	Name      string
	DueAt     *time.Time
	CardID    string
	ListID    string
	EventID   string // Google Calendar Event ID
	CreatedAt time.Time
	UpdatedAt time.Time
}
