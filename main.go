package main

import (
	"time"

	"github.com/localpass/localpass/config"
	"github.com/localpass/localpass/models"
	"github.com/localpass/localpass/routes"
	"github.com/localpass/localpass/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Location{},
		&models.Season{},
		&models.BoardSquare{},
		&models.Progress{},
		&models.CheckIn{},
		&models.RewardDefinition{},
		&models.IssuedReward{},
		&models.RaffleEntry{},
	)

	r := routes.SetupRouter(db)

	// Warn when the active season outlives its week (best-effort)
	utils.StartSeasonWatcher(30 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
