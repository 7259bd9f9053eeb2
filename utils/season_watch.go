package utils

import (
	"time"

	"github.com/localpass/localpass/config"
	"github.com/localpass/localpass/models"
)

// StartSeasonWatcher launches a background goroutine that periodically checks
// whether the active season has run past its end date and warns operators.
// Rotation stays admin-triggered; the watcher only surfaces the lag.
func StartSeasonWatcher(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			var season models.Season
			if err := db.Where("active = ?", true).First(&season).Error; err != nil {
				continue
			}
			if time.Now().After(season.EndsAt) {
				if Sugar != nil {
					Sugar.Warnf("active season %s ended at %s; rotation overdue",
						season.ID, season.EndsAt.Format(time.RFC3339))
				}
			}
		}
	}()
}
