package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/services"
	"github.com/localpass/localpass/utils"
)

// AdminController exposes season rotation, location seeding, and the season
// analytics counters. All routes sit behind the admin allow-list middleware.
type AdminController struct {
	db      *gorm.DB
	rotator *services.Rotator
}

// NewAdminController creates a new controller instance.
func NewAdminController(db *gorm.DB, rotator *services.Rotator) *AdminController {
	return &AdminController{db: db, rotator: rotator}
}

// Seed inserts the sample locations when none exist, then rotates a season.
func (a *AdminController) Seed(ctx *gin.Context) {
	created, err := services.SeedLocations(ctx.Request.Context(), a.db)
	if err != nil {
		utils.Sugar.Errorf("location seed failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to seed locations")
		return
	}

	season, err := a.rotator.Rotate(ctx.Request.Context())
	if err != nil {
		a.rotateError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"created_locations": created,
		"season_id":         season.ID,
	})
}

// RotateSeason deactivates the current season and mints a fresh board.
func (a *AdminController) RotateSeason(ctx *gin.Context) {
	season, err := a.rotator.Rotate(ctx.Request.Context())
	if err != nil {
		a.rotateError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"season_id": season.ID})
}

func (a *AdminController) rotateError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrInsufficientLocations) {
		utils.Error(ctx, http.StatusConflict, 40950, "not enough active locations to fill the board")
		return
	}
	utils.Sugar.Errorf("season rotation failed: %v", err)
	utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to rotate season")
}

type locationAnalytics struct {
	LocationID     string `json:"location_id"`
	Name           string `json:"name"`
	TotalCheckIns  int64  `json:"total_check_ins"`
	UniqueUsers    int64  `json:"unique_users"`
	RepeatCheckIns int64  `json:"repeat_check_ins"`
}

// GetAnalytics returns per-location check-in counters and season-wide reward
// totals for the active season. Plain counting over the check-in log.
func (a *AdminController) GetAnalytics(ctx *gin.Context) {
	season, err := services.ActiveSeason(ctx.Request.Context(), a.db)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSeason) {
			utils.Error(ctx, http.StatusConflict, 40910, "no active season")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load season")
		return
	}

	var locations []models.Location
	if err := a.db.Find(&locations).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load locations")
		return
	}

	type checkInCount struct {
		LocationID  string
		Total       int64
		UniqueUsers int64
	}
	var counts []checkInCount
	if err := a.db.Model(&models.CheckIn{}).
		Select("location_id, COUNT(*) AS total, COUNT(DISTINCT user_id) AS unique_users").
		Where("season_id = ?", season.ID).
		Group("location_id").
		Scan(&counts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to count check-ins")
		return
	}
	byLocation := make(map[string]checkInCount, len(counts))
	for _, c := range counts {
		byLocation[c.LocationID] = c
	}

	perLocation := make([]locationAnalytics, 0, len(locations))
	for _, loc := range locations {
		c := byLocation[loc.ID]
		perLocation = append(perLocation, locationAnalytics{
			LocationID:     loc.ID,
			Name:           loc.Name,
			TotalCheckIns:  c.Total,
			UniqueUsers:    c.UniqueUsers,
			RepeatCheckIns: c.Total - c.UniqueUsers,
		})
	}

	var boardCompletions int64
	if err := a.db.Model(&models.Progress{}).
		Where("season_id = ? AND board_complete = ?", season.ID, true).
		Count(&boardCompletions).Error; err != nil {
		boardCompletions = 0
	}

	// Row completions live inside the JSON column; count issued row rewards
	// instead, which rotation guarantees track completed rows one to one.
	var rowCompletions int64
	if err := a.db.Model(&models.IssuedReward{}).
		Where("season_id = ? AND type = ?", season.ID, models.RewardTypeRow).
		Count(&rowCompletions).Error; err != nil {
		rowCompletions = 0
	}

	var rewardsIssued int64
	if err := a.db.Model(&models.IssuedReward{}).
		Where("season_id = ?", season.ID).
		Count(&rewardsIssued).Error; err != nil {
		rewardsIssued = 0
	}

	var rewardsRedeemed int64
	if err := a.db.Model(&models.IssuedReward{}).
		Where("season_id = ? AND status = ?", season.ID, models.RewardStatusRedeemed).
		Count(&rewardsRedeemed).Error; err != nil {
		rewardsRedeemed = 0
	}

	var raffleEntries int64
	if err := a.db.Model(&models.RaffleEntry{}).
		Where("season_id = ?", season.ID).
		Count(&raffleEntries).Error; err != nil {
		raffleEntries = 0
	}

	utils.Success(ctx, gin.H{
		"season_id":          season.ID,
		"location_analytics": perLocation,
		"board_completions":  boardCompletions,
		"row_completions":    rowCompletions,
		"rewards_issued":     rewardsIssued,
		"rewards_redeemed":   rewardsRedeemed,
		"raffle_entries":     raffleEntries,
	})
}
