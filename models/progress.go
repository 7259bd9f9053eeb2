package models

import (
	"time"

	"gorm.io/gorm"
)

// Progress tracks one user's board for one season. Earned indices and
// completed rows only grow; BoardComplete only flips false to true. Mutated
// exclusively inside the check-in transaction.
type Progress struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_user_season,priority:1" json:"user_id"`
	SeasonID         string    `gorm:"size:36;not null;uniqueIndex:idx_user_season,priority:2;index" json:"season_id"`
	EarnedIndices    IntList   `gorm:"type:text" json:"earned_indices"`
	EarnedByLocation TimeMap   `gorm:"type:text" json:"earned_by_location"`
	CompletedRows    IntList   `gorm:"type:text" json:"completed_rows"`
	BoardComplete    bool      `json:"board_complete"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (p *Progress) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
