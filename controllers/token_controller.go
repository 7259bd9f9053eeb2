package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/utils"
)

// TokenController issues the daily signed tokens that locations display for
// scanning. Public, rate limited; a token only proves "this location, today".
type TokenController struct {
	db    *gorm.DB
	codec *utils.TokenCodec
}

// NewTokenController creates a new controller instance.
func NewTokenController(db *gorm.DB, codec *utils.TokenCodec) *TokenController {
	return &TokenController{db: db, codec: codec}
}

// GetDailyToken returns a freshly signed token for an active location.
func (t *TokenController) GetDailyToken(ctx *gin.Context) {
	locationID := strings.TrimSpace(ctx.Query("location_id"))
	if locationID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40001, "missing location_id")
		return
	}

	var location models.Location
	err := t.db.Where("id = ? AND active = ?", locationID, true).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40401, "location not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load location")
		return
	}

	tokenDate := utils.TodayTokenDate(time.Now())
	token, err := t.codec.GenerateDailyToken(location.ID, tokenDate)
	if err != nil {
		utils.Sugar.Errorf("token generation failed for location %s: %v", location.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":       token,
		"location_id": location.ID,
		"token_date":  tokenDate,
	})
}
