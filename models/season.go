package models

import "time"

// Season is one weekly round of the program. At most one season is active
// system-wide; rotation deactivates the old one and activates the new one
// inside a single transaction.
type Season struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	City      string    `gorm:"size:64" json:"city"`
	Active    bool      `gorm:"index" json:"active"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardSquare binds one board cell of a season to a location. The free cell
// (index 12) has a NULL location. Built once at rotation, immutable after.
type BoardSquare struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SeasonID   string    `gorm:"size:36;not null;uniqueIndex:idx_season_cell,priority:1;index:idx_season_location,priority:1" json:"season_id"`
	CellIndex  int       `gorm:"not null;uniqueIndex:idx_season_cell,priority:2" json:"cell_index"`
	LocationID *string   `gorm:"size:36;index:idx_season_location,priority:2" json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
}
