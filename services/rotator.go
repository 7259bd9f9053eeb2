package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/utils"
)

// Rotator mints seasons: it assigns active locations to a fresh board layout,
// creates the season's reward definitions, and swaps the active season in one
// transaction so at most one season is ever active.
type Rotator struct {
	db   *gorm.DB
	city string
	rng  *rand.Rand
	now  func() time.Time
}

// NewRotator creates a rotator. The random source is injected so layout tests
// can run deterministically.
func NewRotator(db *gorm.DB, city string, rng *rand.Rand) *Rotator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Rotator{db: db, city: city, rng: rng, now: time.Now}
}

// WithClock overrides the rotator clock. Tests only.
func (r *Rotator) WithClock(now func() time.Time) *Rotator {
	r.now = now
	return r
}

// Rotate deactivates the current season and creates a new one spanning the
// current calendar week, with a random board of 24 locations plus the free cell.
func (r *Rotator) Rotate(ctx context.Context) (*models.Season, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&locations).Error; err != nil {
		return nil, err
	}
	needed := models.BoardSize*models.BoardSize - 1
	if len(locations) < needed {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientLocations, len(locations), needed)
	}

	ids := make([]string, len(locations))
	for i, loc := range locations {
		ids[i] = loc.ID
	}
	r.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	picked := ids[:needed]

	start, end := weekBounds(r.now())
	now := r.now()
	season := models.Season{
		ID:        uuid.NewString(),
		City:      r.city,
		Active:    true,
		StartsAt:  start,
		EndsAt:    end,
		CreatedAt: now,
	}

	squares := make([]models.BoardSquare, 0, models.BoardSize*models.BoardSize)
	cursor := 0
	for index := 0; index < models.BoardSize*models.BoardSize; index++ {
		square := models.BoardSquare{
			SeasonID:  season.ID,
			CellIndex: index,
			CreatedAt: now,
		}
		if index != models.FreeSpaceIndex {
			id := picked[cursor]
			square.LocationID = &id
			cursor++
		}
		squares = append(squares, square)
	}

	definitions := buildRewardDefinitions(season.ID, now)

	var prevActiveIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev []models.Season
		if err := tx.Where("active = ?", true).Find(&prev).Error; err != nil {
			return err
		}
		for _, p := range prev {
			prevActiveIDs = append(prevActiveIDs, p.ID)
		}
		if len(prev) > 0 {
			if err := tx.Model(&models.Season{}).Where("active = ?", true).Update("active", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&season).Error; err != nil {
			return err
		}
		if err := tx.Create(&squares).Error; err != nil {
			return err
		}
		return tx.Create(&definitions).Error
	})
	if err != nil {
		return nil, err
	}

	keys := []string{utils.CacheKeyActiveSeason}
	for _, id := range prevActiveIDs {
		keys = append(keys, utils.CacheKeyBoardPrefix+id)
	}
	utils.CacheDelete(keys...)

	return &season, nil
}

// buildRewardDefinitions creates one definition per row plus the board raffle.
func buildRewardDefinitions(seasonID string, now time.Time) []models.RewardDefinition {
	defs := make([]models.RewardDefinition, 0, models.BoardSize+1)
	for row := 0; row < models.BoardSize; row++ {
		defs = append(defs, models.RewardDefinition{
			ID:          fmt.Sprintf("%s_ROW_%d", seasonID, row),
			SeasonID:    seasonID,
			Type:        models.RewardTypeRow,
			Title:       fmt.Sprintf("Row %d Reward", row+1),
			Description: "Show this reward to redeem your in-store freebie.",
			Rule:        fmt.Sprintf("ROW_%d", row),
			Active:      true,
			CreatedAt:   now,
		})
	}
	defs = append(defs, models.RewardDefinition{
		ID:          seasonID + "_BOARD_RAFFLE",
		SeasonID:    seasonID,
		Type:        models.RewardTypeBoardRaffle,
		Title:       "Full Board Raffle Entry",
		Description: "You earned one raffle entry for this season.",
		Rule:        models.RewardRuleBoardComplete,
		Active:      true,
		CreatedAt:   now,
	})
	return defs
}

// weekBounds returns the Monday-anchored calendar week containing now, in the
// reference timezone.
func weekBounds(now time.Time) (time.Time, time.Time) {
	loc, err := time.LoadLocation(utils.TokenTZ)
	if err != nil {
		panic(err)
	}
	local := now.In(loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -daysSinceMonday)
	return start, start.AddDate(0, 0, 7)
}

// ActiveSeason returns the currently active season.
func ActiveSeason(ctx context.Context, db *gorm.DB) (*models.Season, error) {
	var season models.Season
	if err := db.WithContext(ctx).Where("active = ?", true).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSeason
		}
		return nil, err
	}
	return &season, nil
}
