package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localpass/localpass/services"
	"github.com/localpass/localpass/utils"
)

// RewardController lists a user's rewards and handles redemption.
type RewardController struct {
	rewards *services.RewardService
}

// NewRewardController creates a new controller instance.
func NewRewardController(rewards *services.RewardService) *RewardController {
	return &RewardController{rewards: rewards}
}

// ListRewards returns the caller's issued rewards, newest first.
func (r *RewardController) ListRewards(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	rewards, err := r.rewards.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load rewards")
		return
	}
	utils.Success(ctx, gin.H{"rewards": rewards})
}

// Redeem marks one of the caller's rewards as redeemed.
func (r *RewardController) Redeem(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	rewardID := ctx.Param("id")
	if rewardID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "reward id is required")
		return
	}

	result, err := r.rewards.Redeem(ctx.Request.Context(), rewardID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNotFound):
			utils.Error(ctx, http.StatusNotFound, 40440, "reward not found")
		case errors.Is(err, services.ErrNotYourReward):
			utils.Error(ctx, http.StatusForbidden, 40340, "not your reward")
		case errors.Is(err, services.ErrNotRedeemable):
			utils.Error(ctx, http.StatusBadRequest, 40041, "raffle entries are not redeemable")
		default:
			utils.Sugar.Errorf("redeem failed for reward %s: %v", rewardID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to redeem reward")
		}
		return
	}

	utils.Success(ctx, result)
}
