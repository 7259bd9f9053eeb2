package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/utils"
)

const testSecret = "test-token-secret"

func fixedNow() time.Time {
	return time.Date(2026, 2, 24, 20, 0, 0, 0, time.UTC)
}

// setupSeason rotates a fresh season and returns the db, codec, ledger, and
// a cell index -> location ID map for targeting specific cells.
func setupSeason(t *testing.T) (*gorm.DB, *utils.TokenCodec, *Ledger, *models.Season, map[int]string) {
	t.Helper()
	db := setupTestDB(t)
	createLocations(t, db, 24)

	rotator := NewRotator(db, "Ventura", rand.New(rand.NewSource(42)))
	rotator.WithClock(fixedNow)
	season, err := rotator.Rotate(context.Background())
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	var squares []models.BoardSquare
	if err := db.Where("season_id = ?", season.ID).Find(&squares).Error; err != nil {
		t.Fatalf("load squares: %v", err)
	}
	cellToLocation := make(map[int]string, len(squares))
	for _, sq := range squares {
		if sq.LocationID != nil {
			cellToLocation[sq.CellIndex] = *sq.LocationID
		}
	}

	codec := utils.NewTokenCodec(testSecret)
	ledger := NewLedger(db, codec, DefaultCooldown).WithClock(fixedNow)
	return db, codec, ledger, season, cellToLocation
}

func dailyToken(t *testing.T, codec *utils.TokenCodec, locationID string) string {
	t.Helper()
	token, err := codec.GenerateDailyToken(locationID, utils.TodayTokenDate(fixedNow()))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestCheckInEarnsSquare(t *testing.T) {
	db, codec, ledger, season, cells := setupSeason(t)

	token := dailyToken(t, codec, cells[0])
	result, err := ledger.CheckIn(context.Background(), 1, token, "device-a")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if !result.EarnedSquare {
		t.Fatal("first visit did not earn the square")
	}
	if result.EarnedIndex == nil || *result.EarnedIndex != 0 {
		t.Fatalf("earned index = %v, want 0", result.EarnedIndex)
	}
	if result.BoardComplete {
		t.Fatal("one check-in reported a complete board")
	}
	if len(result.NewRowRewards) != 0 {
		t.Fatalf("unexpected row rewards %v", result.NewRowRewards)
	}

	var progress models.Progress
	if err := db.Where("user_id = ? AND season_id = ?", 1, season.ID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	wantEarned := models.IntList{0, models.FreeSpaceIndex}
	if len(progress.EarnedIndices) != 2 || progress.EarnedIndices[0] != wantEarned[0] || progress.EarnedIndices[1] != wantEarned[1] {
		t.Fatalf("earned = %v, want %v", progress.EarnedIndices, wantEarned)
	}

	var logged int64
	db.Model(&models.CheckIn{}).Where("user_id = ?", 1).Count(&logged)
	if logged != 1 {
		t.Fatalf("check-in log has %d rows, want 1", logged)
	}
}

func TestCheckInCooldownBlocks(t *testing.T) {
	db, codec, ledger, season, cells := setupSeason(t)

	token := dailyToken(t, codec, cells[0])
	if _, err := ledger.CheckIn(context.Background(), 1, token, "device-a"); err != nil {
		t.Fatalf("first check-in: %v", err)
	}

	again := dailyToken(t, codec, cells[0])
	if _, err := ledger.CheckIn(context.Background(), 1, again, "device-a"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("got %v, want ErrRateLimited", err)
	}

	// The blocked attempt must be written nowhere.
	var progress models.Progress
	if err := db.Where("user_id = ? AND season_id = ?", 1, season.ID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(progress.EarnedIndices) != 2 {
		t.Fatalf("progress changed by blocked check-in: %v", progress.EarnedIndices)
	}
	var logged int64
	db.Model(&models.CheckIn{}).Where("user_id = ?", 1).Count(&logged)
	if logged != 1 {
		t.Fatalf("blocked check-in was logged, count=%d", logged)
	}
}

func TestCheckInRepeatVisitIsInert(t *testing.T) {
	db, codec, ledger, _, cells := setupSeason(t)

	token := dailyToken(t, codec, cells[0])
	if _, err := ledger.CheckIn(context.Background(), 1, token, "device-a"); err != nil {
		t.Fatalf("first check-in: %v", err)
	}

	// Past the cooldown, a repeat visit is logged but earns nothing.
	later := fixedNow().Add(25 * time.Hour)
	ledger.WithClock(func() time.Time { return later })
	token2, err := utils.NewTokenCodec(testSecret).GenerateDailyToken(cells[0], utils.TodayTokenDate(later))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	result, err := ledger.CheckIn(context.Background(), 1, token2, "device-a")
	if err != nil {
		t.Fatalf("repeat check-in: %v", err)
	}
	if result.EarnedSquare {
		t.Fatal("repeat visit earned a square")
	}
	if result.EarnedIndex != nil {
		t.Fatalf("repeat visit earned index %d", *result.EarnedIndex)
	}

	var logged int64
	db.Model(&models.CheckIn{}).Where("user_id = ?", 1).Count(&logged)
	if logged != 2 {
		t.Fatalf("check-in log has %d rows, want 2", logged)
	}
}

func TestCheckInUnboundLocationLogsOnly(t *testing.T) {
	db, codec, ledger, _, _ := setupSeason(t)

	// An active location that is not on this season's board.
	extra := createLocations(t, db, 1)[0]
	token := dailyToken(t, codec, extra.ID)
	result, err := ledger.CheckIn(context.Background(), 1, token, "device-a")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if result.EarnedSquare || result.EarnedIndex != nil {
		t.Fatalf("off-board location earned progress: %+v", result)
	}
	var logged int64
	db.Model(&models.CheckIn{}).Where("user_id = ?", 1).Count(&logged)
	if logged != 1 {
		t.Fatalf("check-in log has %d rows, want 1", logged)
	}
}

func TestCheckInRowCompletionIssuesRewardOnce(t *testing.T) {
	db, codec, ledger, season, cells := setupSeason(t)

	// Row 2 passes through the free cell: pre-earn all of it except cell 10.
	seedProgress(t, db, 1, season.ID, []int{11, 13, 14, models.FreeSpaceIndex})

	token := dailyToken(t, codec, cells[10])
	result, err := ledger.CheckIn(context.Background(), 1, token, "device-a")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if len(result.NewRowRewards) != 1 {
		t.Fatalf("row rewards = %v, want exactly one", result.NewRowRewards)
	}
	if result.NewRowRewards[0].Row != 2 {
		t.Fatalf("completed row = %d, want 2", result.NewRowRewards[0].Row)
	}

	var count int64
	db.Model(&models.IssuedReward{}).
		Where("user_id = ? AND season_id = ? AND type = ?", 1, season.ID, models.RewardTypeRow).
		Count(&count)
	if count != 1 {
		t.Fatalf("issued row rewards = %d, want 1", count)
	}

	// A later check-in elsewhere must not re-issue the row reward.
	later := fixedNow().Add(25 * time.Hour)
	ledger.WithClock(func() time.Time { return later })
	token2, err := utils.NewTokenCodec(testSecret).GenerateDailyToken(cells[0], utils.TodayTokenDate(later))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	result2, err := ledger.CheckIn(context.Background(), 1, token2, "device-a")
	if err != nil {
		t.Fatalf("second check-in: %v", err)
	}
	if len(result2.NewRowRewards) != 0 {
		t.Fatalf("second check-in re-issued rewards: %v", result2.NewRowRewards)
	}
	db.Model(&models.IssuedReward{}).
		Where("user_id = ? AND season_id = ? AND type = ?", 1, season.ID, models.RewardTypeRow).
		Count(&count)
	if count != 1 {
		t.Fatalf("issued row rewards after retry = %d, want 1", count)
	}
}

func TestCheckInBoardCompletion(t *testing.T) {
	db, codec, ledger, season, cells := setupSeason(t)

	// Everything earned except cell 24.
	var earned []int
	for i := 0; i < 24; i++ {
		earned = append(earned, i)
	}
	seedProgress(t, db, 1, season.ID, earned)

	token := dailyToken(t, codec, cells[24])
	result, err := ledger.CheckIn(context.Background(), 1, token, "device-a")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if !result.BoardComplete {
		t.Fatal("board not reported complete")
	}
	if !result.RaffleEntryCreated {
		t.Fatal("raffle entry not created on completion")
	}

	var raffles int64
	db.Model(&models.RaffleEntry{}).Where("user_id = ? AND season_id = ?", 1, season.ID).Count(&raffles)
	if raffles != 1 {
		t.Fatalf("raffle entries = %d, want 1", raffles)
	}

	var boardRewards int64
	db.Model(&models.IssuedReward{}).
		Where("user_id = ? AND season_id = ? AND type = ?", 1, season.ID, models.RewardTypeBoardRaffle).
		Count(&boardRewards)
	if boardRewards != 1 {
		t.Fatalf("board rewards = %d, want 1", boardRewards)
	}

	// A later inert visit must not create a second entry.
	later := fixedNow().Add(25 * time.Hour)
	ledger.WithClock(func() time.Time { return later })
	token2, err := utils.NewTokenCodec(testSecret).GenerateDailyToken(cells[24], utils.TodayTokenDate(later))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	result2, err := ledger.CheckIn(context.Background(), 1, token2, "device-a")
	if err != nil {
		t.Fatalf("repeat check-in: %v", err)
	}
	if result2.RaffleEntryCreated {
		t.Fatal("repeat visit created a second raffle entry")
	}
	db.Model(&models.RaffleEntry{}).Where("user_id = ? AND season_id = ?", 1, season.ID).Count(&raffles)
	if raffles != 1 {
		t.Fatalf("raffle entries after repeat = %d, want 1", raffles)
	}
}

func TestCheckInRejectsBadTokens(t *testing.T) {
	_, codec, ledger, _, cells := setupSeason(t)

	if _, err := ledger.CheckIn(context.Background(), 1, "garbage", "device-a"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("got %v, want ErrInvalidCredential", err)
	}

	// Yesterday's token is well signed but stale.
	stale, err := codec.GenerateDailyToken(cells[0], "2026-02-23")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ledger.CheckIn(context.Background(), 1, stale, "device-a"); !errors.Is(err, ErrCredentialExpired) {
		t.Fatalf("got %v, want ErrCredentialExpired", err)
	}
}

func TestCheckInNoActiveSeason(t *testing.T) {
	db := setupTestDB(t)
	locations := createLocations(t, db, 1)

	codec := utils.NewTokenCodec(testSecret)
	ledger := NewLedger(db, codec, DefaultCooldown).WithClock(fixedNow)

	token := dailyToken(t, codec, locations[0].ID)
	if _, err := ledger.CheckIn(context.Background(), 1, token, "device-a"); !errors.Is(err, ErrNoActiveSeason) {
		t.Fatalf("got %v, want ErrNoActiveSeason", err)
	}
}

func seedProgress(t *testing.T, db *gorm.DB, userID uint, seasonID string, earned []int) {
	t.Helper()
	progress := models.Progress{
		UserID:           userID,
		SeasonID:         seasonID,
		EarnedIndices:    models.NormalizeEarnedIndices(append(earned, models.FreeSpaceIndex)),
		EarnedByLocation: models.TimeMap{},
		CompletedRows:    models.CompletedRows(append(earned, models.FreeSpaceIndex)),
		BoardComplete:    false,
	}
	if err := db.Create(&progress).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
}
