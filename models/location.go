package models

import "time"

// Location is a participating business that can be placed on a season board.
// Once a season board references a location it must not be deleted, only
// deactivated, so historical boards stay resolvable.
type Location struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	Category  string    `gorm:"size:64" json:"category"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
