package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/utils"
)

// RowReward describes one reward issued for a newly completed row.
type RowReward struct {
	RewardID string `json:"reward_id"`
	Title    string `json:"title"`
	Row      int    `json:"row"`
}

// CheckInResult is the outcome of one validated check-in.
type CheckInResult struct {
	EarnedSquare       bool        `json:"earned_square"`
	EarnedIndex        *int        `json:"earned_index"`
	NewRowRewards      []RowReward `json:"new_row_rewards"`
	BoardComplete      bool        `json:"board_complete"`
	RaffleEntryCreated bool        `json:"raffle_entry_created"`
}

// Ledger runs the check-in transaction: it validates the scanned token,
// enforces the per-location cooldown, advances the caller's board progress and
// issues any newly earned rewards, all committed as one transaction.
type Ledger struct {
	db       *gorm.DB
	codec    *utils.TokenCodec
	cooldown time.Duration
	now      func() time.Time
}

// NewLedger wires a ledger around its storage, codec, and cooldown policy.
func NewLedger(db *gorm.DB, codec *utils.TokenCodec, cooldown time.Duration) *Ledger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Ledger{db: db, codec: codec, cooldown: cooldown, now: time.Now}
}

// WithClock overrides the ledger clock. Tests only.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// CheckIn validates the token and applies one check-in for the user. Repeat
// visits to an already-earned location are logged but grant no progress.
func (l *Ledger) CheckIn(ctx context.Context, userID uint, token, deviceHash string) (*CheckInResult, error) {
	payload, err := l.codec.Verify(token)
	if err != nil {
		// Which verification step failed is deliberately not surfaced.
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	now := l.now()
	if payload.TokenDate != utils.TodayTokenDate(now) {
		return nil, ErrCredentialExpired
	}

	var season models.Season
	if err := l.db.WithContext(ctx).Where("active = ?", true).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSeason
		}
		return nil, err
	}

	var lastCheckInAt *time.Time
	var last models.CheckIn
	err = l.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ?", userID, payload.LocationID).
		Order("created_at DESC").
		First(&last).Error
	if err == nil {
		lastCheckInAt = &last.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if IsRateLimited(lastCheckInAt, now, l.cooldown) {
		return nil, ErrRateLimited
	}

	// Board squares and reward definitions are immutable for the season, so
	// they can be read outside the transaction.
	var cellIndex *int
	var square models.BoardSquare
	err = l.db.WithContext(ctx).
		Where("season_id = ? AND location_id = ?", season.ID, payload.LocationID).
		First(&square).Error
	if err == nil {
		cellIndex = &square.CellIndex
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var definitions []models.RewardDefinition
	if err := l.db.WithContext(ctx).
		Where("season_id = ? AND active = ?", season.ID, true).
		Find(&definitions).Error; err != nil {
		return nil, err
	}
	rowRewardDefs := make(map[string]models.RewardDefinition)
	var boardRewardDef *models.RewardDefinition
	for i, def := range definitions {
		switch def.Type {
		case models.RewardTypeRow:
			rowRewardDefs[def.Rule] = def
		case models.RewardTypeBoardRaffle:
			boardRewardDef = &definitions[i]
		}
	}

	result := &CheckInResult{NewRowRewards: []RowReward{}}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var progress models.Progress
		created := false
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND season_id = ?", userID, season.ID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			progress = models.Progress{
				UserID:           userID,
				SeasonID:         season.ID,
				EarnedIndices:    models.IntList{models.FreeSpaceIndex},
				EarnedByLocation: models.TimeMap{},
				CompletedRows:    models.IntList{},
			}
		} else if err != nil {
			return err
		}

		earned := append([]int{}, progress.EarnedIndices...)
		if !containsInt(earned, models.FreeSpaceIndex) {
			earned = append(earned, models.FreeSpaceIndex)
		}
		if progress.EarnedByLocation == nil {
			progress.EarnedByLocation = models.TimeMap{}
		}

		if cellIndex != nil && !containsInt(earned, *cellIndex) {
			earned = append(earned, *cellIndex)
			progress.EarnedByLocation[payload.LocationID] = now
			result.EarnedSquare = true
			result.EarnedIndex = cellIndex
		}

		earned = models.NormalizeEarnedIndices(earned)
		nextRows := models.CompletedRows(earned)
		newRows := diffInts(nextRows, progress.CompletedRows)
		nextComplete := models.IsBoardComplete(earned)
		becameComplete := nextComplete && !progress.BoardComplete

		progress.EarnedIndices = earned
		progress.CompletedRows = nextRows
		progress.BoardComplete = nextComplete

		record := models.CheckIn{
			ID:         uuid.NewString(),
			UserID:     userID,
			SeasonID:   season.ID,
			LocationID: payload.LocationID,
			DeviceHash: deviceHash,
			TokenDate:  payload.TokenDate,
			CreatedAt:  now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if created {
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		for _, row := range newRows {
			def, ok := rowRewardDefs[fmt.Sprintf("ROW_%d", row)]
			if !ok {
				continue
			}
			row := row
			issued, err := l.issueIfAbsent(tx, userID, season.ID, def, &row, now)
			if err != nil {
				return err
			}
			if issued {
				result.NewRowRewards = append(result.NewRowRewards, RowReward{
					RewardID: def.ID,
					Title:    def.Title,
					Row:      row,
				})
			}
		}

		if becameComplete {
			entry := models.RaffleEntry{
				ID:        models.RaffleEntryID(userID, season.ID),
				UserID:    userID,
				SeasonID:  season.ID,
				CreatedAt: now,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
			if res.Error != nil {
				return res.Error
			}
			result.RaffleEntryCreated = res.RowsAffected > 0

			if boardRewardDef != nil {
				if _, err := l.issueIfAbsent(tx, userID, season.ID, *boardRewardDef, nil, now); err != nil {
					return err
				}
			}
		}

		result.BoardComplete = nextComplete
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// issueIfAbsent creates an IssuedReward unless one already exists for the
// composite (user, season, definition) key. Runs inside the caller's
// transaction so concurrent retries cannot double-issue.
func (l *Ledger) issueIfAbsent(tx *gorm.DB, userID uint, seasonID string, def models.RewardDefinition, row *int, now time.Time) (bool, error) {
	reward := models.IssuedReward{
		ID:          models.IssuedRewardID(userID, seasonID, def.ID),
		UserID:      userID,
		SeasonID:    seasonID,
		RewardID:    def.ID,
		Title:       def.Title,
		Description: def.Description,
		Type:        def.Type,
		Status:      models.RewardStatusAvailable,
		Row:         row,
		IssuedAt:    now,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// diffInts returns the values of next not present in prev, preserving order.
func diffInts(next, prev []int) []int {
	seen := make(map[int]bool, len(prev))
	for _, v := range prev {
		seen[v] = true
	}
	var out []int
	for _, v := range next {
		if !seen[v] {
			out = append(out, v)
		}
	}
	return out
}
