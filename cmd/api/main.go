package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-facility-api/api/swagger"
	"github.com/noah-isme/campus-facility-api/internal/handler"
	"github.com/noah-isme/campus-facility-api/internal/middleware"
	"github.com/noah-isme/campus-facility-api/internal/repository"
	"github.com/noah-isme/campus-facility-api/internal/service"
	rediscache "github.com/noah-isme/campus-facility-api/pkg/cache"
	"github.com/noah-isme/campus-facility-api/pkg/config"
	"github.com/noah-isme/campus-facility-api/pkg/database"
	"github.com/noah-isme/campus-facility-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-facility-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-facility-api/pkg/middleware/requestid"
)

// @title Campus Facility API
// @version 0.1.0
// @description Scheduling and reservation backend for campus rooms and equipment
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		redisClient = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	semesterRepo := repository.NewSemesterRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	roomResRepo := repository.NewRoomReservationRepository(db)
	equipResRepo := repository.NewEquipmentReservationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	auditSvc := service.NewAuditService(activityRepo, service.AuditQueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
	}, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	authSvc := service.NewAuthService(userRepo, auditSvc, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "campus-facility-api",
		CleanupInterval:    cfg.Auth.CleanupInterval,
	})
	authSvc.StartCleanup(ctx)
	defer authSvc.StopCleanup()

	metricsSvc := service.NewMetricsService()
	semesterSvc := service.NewSemesterService(semesterRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, nil, logr)
	equipmentSvc := service.NewEquipmentService(equipmentRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, semesterRepo, auditSvc, nil, logr)
	timetableSvc := service.NewTimetableService(scheduleRepo, roomResRepo, semesterRepo, redisClient, service.TimetableCacheConfig{
		Enabled: cfg.Timetable.CacheEnabled,
		TTL:     cfg.Timetable.CacheTTL,
	}, metricsSvc, logr)
	roomResSvc := service.NewRoomReservationService(roomResRepo, roomRepo, auditSvc, nil, logr)
	equipResSvc := service.NewEquipmentReservationService(equipResRepo, equipmentRepo, auditSvc, nil, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardCounterSet{
		Rooms:                 roomRepo,
		Equipment:             equipmentRepo,
		Schedules:             scheduleRepo,
		RoomReservations:      roomResRepo,
		EquipmentReservations: equipResRepo,
		Users:                 userRepo,
	}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:                  handler.NewAuthHandler(authSvc),
		Semesters:             handler.NewSemesterHandler(semesterSvc),
		Rooms:                 handler.NewRoomHandler(roomSvc),
		Equipment:             handler.NewEquipmentHandler(equipmentSvc),
		Schedules:             handler.NewScheduleHandler(scheduleSvc),
		Timetable:             handler.NewTimetableHandler(timetableSvc),
		RoomReservations:      handler.NewRoomReservationHandler(roomResSvc),
		EquipmentReservations: handler.NewEquipmentReservationHandler(equipResSvc),
		Activities:            handler.NewActivityHandler(auditSvc),
		Dashboard:             handler.NewDashboardHandler(dashboardSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
