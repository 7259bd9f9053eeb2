package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/localpass/localpass/config"
	"github.com/localpass/localpass/controllers"
	"github.com/localpass/localpass/middleware"
	"github.com/localpass/localpass/services"
	"github.com/localpass/localpass/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	codec := utils.NewTokenCodec(cfg.TokenSecret)
	cooldown := time.Duration(cfg.CooldownHours) * time.Hour

	ledger := services.NewLedger(db, codec, cooldown)
	rewards := services.NewRewardService(db)
	rotator := services.NewRotator(db, cfg.City, nil)

	tokenController := controllers.NewTokenController(db, codec)
	checkInController := controllers.NewCheckInController(ledger)
	boardController := controllers.NewBoardController(db)
	rewardController := controllers.NewRewardController(rewards)
	adminController := controllers.NewAdminController(db, rotator)

	api := r.Group("/api/v1")

	// Public: locations poll this to render the daily QR code.
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.GET("/token", tokenController.GetDailyToken)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/checkin", checkInController.CheckIn)
	protected.GET("/board", boardController.GetBoard)
	protected.GET("/rewards", rewardController.ListRewards)
	protected.POST("/rewards/:id/redeem", rewardController.Redeem)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired(cfg.AdminUserIDs))
	admin.POST("/seed", adminController.Seed)
	admin.POST("/season/rotate", adminController.RotateSeason)
	admin.GET("/analytics", adminController.GetAnalytics)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
