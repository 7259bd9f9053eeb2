package models

import "time"

// Reward definition and issuance types. RewardTypeRow grants an in-store
// freebie per completed row; RewardTypeBoardRaffle is recorded automatically
// on a full board and is never redeemable.
const (
	RewardTypeRow         = "ROW"
	RewardTypeBoardRaffle = "BOARD_RAFFLE"

	RewardStatusAvailable = "AVAILABLE"
	RewardStatusRedeemed  = "REDEEMED"

	RewardRuleBoardComplete = "BOARD_COMPLETE"
)

// RewardDefinition is the per-season template for a reward. The ID embeds the
// season and rule ("<seasonID>_ROW_3") so rotation can upsert deterministically.
type RewardDefinition struct {
	ID          string    `gorm:"primaryKey;size:80" json:"id"`
	SeasonID    string    `gorm:"size:36;not null;index" json:"season_id"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Title       string    `gorm:"size:128" json:"title"`
	Description string    `gorm:"size:255" json:"description"`
	Rule        string    `gorm:"size:32;not null" json:"rule"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// IssuedReward is a reward granted to one user. The primary key concatenates
// user, season, and definition, which is the idempotency guard against
// duplicate issuance under concurrent retries.
type IssuedReward struct {
	ID          string     `gorm:"primaryKey;size:160" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	SeasonID    string     `gorm:"size:36;not null;index" json:"season_id"`
	RewardID    string     `gorm:"size:80;not null" json:"reward_id"`
	Title       string     `gorm:"size:128" json:"title"`
	Description string     `gorm:"size:255" json:"description"`
	Type        string     `gorm:"size:16;not null" json:"type"`
	Status      string     `gorm:"size:16;not null" json:"status"`
	Row         *int       `json:"row,omitempty"`
	IssuedAt    time.Time  `json:"issued_at"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`
}

// IssuedRewardID builds the composite primary key for an issuance.
func IssuedRewardID(userID uint, seasonID, rewardDefID string) string {
	return keyJoin(userID, seasonID, rewardDefID)
}

// RaffleEntry records one user's entry into the season raffle, created exactly
// when their board first becomes complete.
type RaffleEntry struct {
	ID        string    `gorm:"primaryKey;size:120" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	SeasonID  string    `gorm:"size:36;not null;index" json:"season_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RaffleEntryID builds the composite primary key for a raffle entry.
func RaffleEntryID(userID uint, seasonID string) string {
	return keyJoin(userID, seasonID)
}
