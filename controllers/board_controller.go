package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/services"
	"github.com/localpass/localpass/utils"
)

// BoardController serves the active season's board plus the caller's progress.
type BoardController struct {
	db *gorm.DB
}

// NewBoardController creates a new controller instance.
func NewBoardController(db *gorm.DB) *BoardController {
	return &BoardController{db: db}
}

type boardSquareView struct {
	CellIndex    int     `json:"cell_index"`
	LocationID   *string `json:"location_id"`
	LocationName string  `json:"location_name,omitempty"`
	Category     string  `json:"category,omitempty"`
	FreeSpace    bool    `json:"free_space"`
}

// GetBoard returns the active season, its 25 squares, and the caller's progress.
func (b *BoardController) GetBoard(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	season, squares, err := b.loadActiveBoard(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSeason) {
			utils.Error(ctx, http.StatusConflict, 40910, "no active season")
			return
		}
		utils.Sugar.Errorf("board load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load board")
		return
	}

	var progress models.Progress
	err = b.db.Where("user_id = ? AND season_id = ?", userID, season.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A user who has never checked in still owns the free cell.
		progress = models.Progress{
			UserID:        userID,
			SeasonID:      season.ID,
			EarnedIndices: models.IntList{models.FreeSpaceIndex},
			CompletedRows: models.IntList{},
		}
	} else if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load progress")
		return
	}

	utils.Success(ctx, gin.H{
		"season":  season,
		"squares": squares,
		"progress": gin.H{
			"earned_indices": progress.EarnedIndices,
			"completed_rows": progress.CompletedRows,
			"board_complete": progress.BoardComplete,
		},
	})
}

// loadActiveBoard reads the active season and its squares through the Redis
// cache; both are immutable until the next rotation.
func (b *BoardController) loadActiveBoard(ctx *gin.Context) (*models.Season, []boardSquareView, error) {
	var season models.Season
	if !utils.CacheGetJSON(utils.CacheKeyActiveSeason, &season) {
		s, err := services.ActiveSeason(ctx.Request.Context(), b.db)
		if err != nil {
			return nil, nil, err
		}
		season = *s
		utils.CacheSetJSON(utils.CacheKeyActiveSeason, season, time.Hour)
	}

	boardKey := utils.CacheKeyBoardPrefix + season.ID
	var views []boardSquareView
	if utils.CacheGetJSON(boardKey, &views) {
		return &season, views, nil
	}

	var squares []models.BoardSquare
	if err := b.db.Where("season_id = ?", season.ID).Order("cell_index ASC").Find(&squares).Error; err != nil {
		return nil, nil, err
	}

	locationIDs := make([]string, 0, len(squares))
	for _, sq := range squares {
		if sq.LocationID != nil {
			locationIDs = append(locationIDs, *sq.LocationID)
		}
	}
	var locations []models.Location
	if err := b.db.Where("id IN ?", locationIDs).Find(&locations).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	views = make([]boardSquareView, 0, len(squares))
	for _, sq := range squares {
		view := boardSquareView{
			CellIndex:  sq.CellIndex,
			LocationID: sq.LocationID,
			FreeSpace:  sq.CellIndex == models.FreeSpaceIndex,
		}
		if sq.LocationID != nil {
			if loc, ok := byID[*sq.LocationID]; ok {
				view.LocationName = loc.Name
				view.Category = loc.Category
			}
		}
		views = append(views, view)
	}

	utils.CacheSetJSON(boardKey, views, time.Hour)
	return &season, views, nil
}
