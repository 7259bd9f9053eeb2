package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/localpass/localpass/models"
)

// RedeemResult reports the outcome of a redemption attempt.
type RedeemResult struct {
	Redeemed        bool `json:"redeemed"`
	AlreadyRedeemed bool `json:"already_redeemed,omitempty"`
}

// RewardService owns issued-reward state transitions.
type RewardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRewardService creates a RewardService.
func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db, now: time.Now}
}

// Redeem moves an AVAILABLE reward to REDEEMED. The transition is terminal;
// redeeming an already redeemed reward succeeds with AlreadyRedeemed set so
// client retries after a dropped response stay harmless.
func (s *RewardService) Redeem(ctx context.Context, rewardID string, userID uint) (*RedeemResult, error) {
	result := &RedeemResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reward models.IssuedReward
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", rewardID).
			First(&reward).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRewardNotFound
		}
		if err != nil {
			return err
		}
		if reward.UserID != userID {
			return ErrNotYourReward
		}
		if reward.Type == models.RewardTypeBoardRaffle {
			return ErrNotRedeemable
		}
		if reward.Status == models.RewardStatusRedeemed {
			result.Redeemed = true
			result.AlreadyRedeemed = true
			return nil
		}

		redeemedAt := s.now()
		if err := tx.Model(&reward).Updates(map[string]interface{}{
			"status":      models.RewardStatusRedeemed,
			"redeemed_at": redeemedAt,
		}).Error; err != nil {
			return err
		}
		result.Redeemed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListForUser returns a user's issued rewards, newest first.
func (s *RewardService) ListForUser(ctx context.Context, userID uint) ([]models.IssuedReward, error) {
	var rewards []models.IssuedReward
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&rewards).Error
	return rewards, err
}
