package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/veyralune/lifequest/api/rest"
	"github.com/veyralune/lifequest/audit"
	"github.com/veyralune/lifequest/cache"
	"github.com/veyralune/lifequest/config"
	dbadapter "github.com/veyralune/lifequest/db"
	"github.com/veyralune/lifequest/game/progression"
	mw "github.com/veyralune/lifequest/middleware"
	"github.com/veyralune/lifequest/model"
	"github.com/veyralune/lifequest/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if err := model.SeedQuestTemplates(db); err != nil {
		log.Fatalf("db seed: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Progression engine ----
	roller := progression.NewRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
	prog := progression.NewService(db, c, roller, cfg.Progression, auditSvc, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	loc := cfg.Progression.Location()
	sched.AddDailyAt("daily_maintenance", cfg.Progression.BatchHour, loc, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		now := time.Now().In(loc)
		if err := prog.ResetWeeklyXP(ctx, now); err != nil {
			logger.Error("weekly XP reset failed", zap.Error(err))
		}
		if err := prog.ResetMonthlyXP(ctx, now); err != nil {
			logger.Error("monthly XP reset failed", zap.Error(err))
		}
		if err := prog.ExpireOverdueQuests(ctx, now); err != nil {
			logger.Error("quest expiry failed", zap.Error(err))
		}
		if _, err := prog.GenerateDailyQuests(ctx, now); err != nil {
			logger.Error("quest generation failed", zap.Error(err))
		}
	})
	sched.AddTicker("leaderboard_refresh", 10*time.Minute, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := prog.RefreshLeaderboard(ctx); err != nil {
			logger.Error("leaderboard refresh failed", zap.Error(err))
		}
	})

	// ---- HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mw.TraceID())
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security, prog, logger)
	actH := apirest.NewActivityHandler(db, prog, logger)
	questH := apirest.NewQuestHandler(db, prog, logger)
	progH := apirest.NewProgressHandler(db)
	rankH := apirest.NewRankingHandler(db, c, logger)
	adminH := apirest.NewAdminHandler(db, prog, sched, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		userG := api.Group("")
		userG.Use(mw.Auth(cfg.Security, c))
		userG.POST("/activities", actH.Log)
		userG.GET("/activities", actH.History)
		userG.POST("/streaks/:area/freeze", actH.UseFreeze)
		userG.POST("/logins", actH.DailyLogin)
		userG.GET("/progress", progH.Overview)
		userG.GET("/quests", questH.List)
		userG.POST("/quests", questH.Accept)
		userG.POST("/quests/:id/complete", questH.Complete)
		userG.GET("/quests/recommended", questH.Recommended)
		userG.GET("/quests/templates", questH.Templates)

		rankG := api.Group("/ranking")
		rankG.GET("/xp", rankH.TopXP)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
		adminG.POST("/batch/:job", adminH.RunBatch)
		adminG.POST("/users/:id/ban", adminH.BanUser)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
