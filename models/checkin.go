package models

import "time"

// CheckIn is one append-only log entry per scan, written even when the visit
// earns no new cell. The cooldown lookup and the analytics counters both read
// this log; rows are never updated or deleted.
type CheckIn struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_user_location,priority:1" json:"user_id"`
	SeasonID   string    `gorm:"size:36;not null;index" json:"season_id"`
	LocationID string    `gorm:"size:36;not null;index:idx_user_location,priority:2" json:"location_id"`
	DeviceHash string    `gorm:"size:128" json:"device_hash"`
	TokenDate  string    `gorm:"size:10" json:"token_date"`
	CreatedAt  time.Time `gorm:"index:idx_user_location,priority:3" json:"created_at"`
}
