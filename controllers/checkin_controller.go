package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localpass/localpass/services"
	"github.com/localpass/localpass/utils"
)

// CheckInController handles the scan-and-check-in endpoint.
type CheckInController struct {
	ledger *services.Ledger
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(ledger *services.Ledger) *CheckInController {
	return &CheckInController{ledger: ledger}
}

type checkInRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceHash string `json:"device_hash" binding:"required"`
}

// CheckIn validates a scanned token and applies the check-in transaction.
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req checkInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "token and device_hash are required")
		return
	}

	result, err := c.ledger.CheckIn(ctx.Request.Context(), userID, req.Token, req.DeviceHash)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredential):
			utils.Error(ctx, http.StatusBadRequest, 40011, "invalid token")
		case errors.Is(err, services.ErrCredentialExpired):
			utils.Error(ctx, http.StatusBadRequest, 40012, "token is expired for today")
		case errors.Is(err, services.ErrNoActiveSeason):
			utils.Error(ctx, http.StatusConflict, 40910, "no active season")
		case errors.Is(err, services.ErrRateLimited):
			utils.Error(ctx, http.StatusTooManyRequests, 42910, "you can only check in once per location every 24 hours")
		default:
			utils.Sugar.Errorf("check-in failed for user %d: %v", userID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50010, "check-in failed")
		}
		return
	}

	utils.Success(ctx, result)
}
