package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/localpass/localpass/models"
)

func TestRotateBuildsFullBoard(t *testing.T) {
	db := setupTestDB(t)
	createLocations(t, db, 24)

	rotator := NewRotator(db, "Ventura", rand.New(rand.NewSource(1)))
	season, err := rotator.Rotate(context.Background())
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	var squares []models.BoardSquare
	if err := db.Where("season_id = ?", season.ID).Order("cell_index ASC").Find(&squares).Error; err != nil {
		t.Fatalf("load squares: %v", err)
	}
	if len(squares) != 25 {
		t.Fatalf("got %d squares, want 25", len(squares))
	}

	seen := make(map[string]int)
	for _, sq := range squares {
		if sq.CellIndex == models.FreeSpaceIndex {
			if sq.LocationID != nil {
				t.Fatalf("free cell bound to location %s", *sq.LocationID)
			}
			continue
		}
		if sq.LocationID == nil {
			t.Fatalf("cell %d has no location", sq.CellIndex)
		}
		seen[*sq.LocationID]++
	}
	if len(seen) != 24 {
		t.Fatalf("board uses %d distinct locations, want 24", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("location %s placed %d times", id, count)
		}
	}

	var defs []models.RewardDefinition
	if err := db.Where("season_id = ?", season.ID).Find(&defs).Error; err != nil {
		t.Fatalf("load definitions: %v", err)
	}
	if len(defs) != models.BoardSize+1 {
		t.Fatalf("got %d reward definitions, want %d", len(defs), models.BoardSize+1)
	}
}

func TestRotateInsufficientLocations(t *testing.T) {
	db := setupTestDB(t)
	createLocations(t, db, 23)

	rotator := NewRotator(db, "Ventura", rand.New(rand.NewSource(1)))
	if _, err := rotator.Rotate(context.Background()); !errors.Is(err, ErrInsufficientLocations) {
		t.Fatalf("got %v, want ErrInsufficientLocations", err)
	}
}

func TestRotateDeactivatesPreviousSeason(t *testing.T) {
	db := setupTestDB(t)
	createLocations(t, db, 24)

	rotator := NewRotator(db, "Ventura", rand.New(rand.NewSource(1)))
	first, err := rotator.Rotate(context.Background())
	if err != nil {
		t.Fatalf("first rotate: %v", err)
	}
	second, err := rotator.Rotate(context.Background())
	if err != nil {
		t.Fatalf("second rotate: %v", err)
	}

	var active []models.Season
	if err := db.Where("active = ?", true).Find(&active).Error; err != nil {
		t.Fatalf("load active seasons: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("active seasons = %+v, want only %s", active, second.ID)
	}

	var prev models.Season
	if err := db.First(&prev, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("load first season: %v", err)
	}
	if prev.Active {
		t.Fatal("first season still active after rotation")
	}
}

func TestWeekBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Wednesday local time; the week should anchor on the preceding Monday.
	now := time.Date(2026, 2, 25, 15, 30, 0, 0, loc)
	start, end := weekBounds(now)

	if start.Weekday() != time.Monday {
		t.Fatalf("week starts on %s, want Monday", start.Weekday())
	}
	wantStart := time.Date(2026, 2, 23, 0, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Fatalf("start = %s, want %s", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 7)) {
		t.Fatalf("end = %s, want start+7d", end)
	}

	// A Monday anchors its own week.
	monday := time.Date(2026, 2, 23, 8, 0, 0, 0, loc)
	start, _ = weekBounds(monday)
	if !start.Equal(wantStart) {
		t.Fatalf("monday start = %s, want %s", start, wantStart)
	}
}
