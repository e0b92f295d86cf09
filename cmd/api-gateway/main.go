package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unilink-bg/unilink-api/api/swagger"
	"github.com/unilink-bg/unilink-api/internal/handler"
	"github.com/unilink-bg/unilink-api/internal/middleware"
	"github.com/unilink-bg/unilink-api/internal/models"
	"github.com/unilink-bg/unilink-api/internal/repository"
	"github.com/unilink-bg/unilink-api/internal/service"
	"github.com/unilink-bg/unilink-api/pkg/cache"
	"github.com/unilink-bg/unilink-api/pkg/config"
	"github.com/unilink-bg/unilink-api/pkg/database"
	"github.com/unilink-bg/unilink-api/pkg/logger"
	corsmiddleware "github.com/unilink-bg/unilink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unilink-bg/unilink-api/pkg/middleware/requestid"
)

// @title UniLink API
// @version 1.0.0
// @description University portal: registration, approval workflow and role dashboards
// @BasePath /api/v1
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	specialtyRepo := repository.NewSpecialtyRepository(db)
	jobPostingRepo := repository.NewJobPostingRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	sessions := cache.NewSessionStore(redisClient)

	authService := service.NewAuthService(userRepo, sessions, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	registrationService := service.NewRegistrationService(registrationRepo, userRepo, specialtyRepo, jobPostingRepo, validate, logr)
	approvalService := service.NewApprovalService(userRepo, logr, service.ApprovalConfig{
		PasswordLength: cfg.Approval.PasswordLength,
		MaxBatchSize:   cfg.Approval.MaxBatchSize,
	})
	dashboardService := service.NewDashboardService(userRepo, logr)
	userService := service.NewUserService(userRepo, validate, logr)
	specialtyService := service.NewSpecialtyService(specialtyRepo, userRepo, validate, logr)
	jobPostingService := service.NewJobPostingService(jobPostingRepo, userRepo, validate, logr)
	applicationService := service.NewApplicationService(applicationRepo, userRepo, logr)
	exportService := service.NewExportService(applicationRepo, userRepo, logr, service.ExportConfig{
		Enabled: cfg.Exports.Enabled,
		MaxRows: cfg.Exports.MaxRows,
	})
	metricsService := service.NewMetricsService(db)

	authHandler := handler.NewAuthHandler(authService, userService, cfg.Portal)
	registrationHandler := handler.NewRegistrationHandler(registrationService, cfg.Portal)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, cfg.Portal)
	identityHandler := handler.NewIdentityHandler(userService, approvalService)
	specialtyHandler := handler.NewSpecialtyHandler(specialtyService)
	jobPostingHandler := handler.NewJobPostingHandler(jobPostingService)
	applicationHandler := handler.NewApplicationHandler(applicationService, exportService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	registration := api.Group("/registration")
	{
		registration.GET("/options", registrationHandler.Options)
		registration.POST("/student", registrationHandler.RegisterStudent)
		registration.POST("/lecturer", registrationHandler.RegisterLecturer)
	}

	portal := api.Group("/portal")
	portal.Use(middleware.JWTOrRedirect(authService, cfg.Portal.LoginPath))
	{
		portal.GET("/dashboard", dashboardHandler.Dispatch)
		portal.GET("/dashboard/student", dashboardHandler.Student)
		portal.GET("/dashboard/lecturer", dashboardHandler.Lecturer)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/identities/approve", identityHandler.Approve)
		admin.GET("/identities", identityHandler.List)
		admin.GET("/identities/:id", identityHandler.Get)
		admin.PUT("/identities/:id", identityHandler.Update)

		admin.GET("/specialties", specialtyHandler.List)
		admin.POST("/specialties", specialtyHandler.Create)
		admin.GET("/specialties/:id", specialtyHandler.Get)
		admin.PUT("/specialties/:id", specialtyHandler.Update)
		admin.DELETE("/specialties/:id", specialtyHandler.Delete)

		admin.GET("/job-postings", jobPostingHandler.List)
		admin.POST("/job-postings", jobPostingHandler.Create)
		admin.GET("/job-postings/:id", jobPostingHandler.Get)
		admin.PUT("/job-postings/:id", jobPostingHandler.Update)
		admin.DELETE("/job-postings/:id", jobPostingHandler.Delete)

		admin.GET("/applications/student", applicationHandler.ListStudent)
		admin.GET("/applications/student/export", applicationHandler.ExportStudent)
		admin.GET("/applications/student/:id", applicationHandler.GetStudent)
		admin.PUT("/applications/student/:id/status", applicationHandler.ChangeStudentStatus)

		admin.GET("/applications/lecturer", applicationHandler.ListLecturer)
		admin.GET("/applications/lecturer/export", applicationHandler.ExportLecturer)
		admin.GET("/applications/lecturer/:id", applicationHandler.GetLecturer)
		admin.PUT("/applications/lecturer/:id/status", applicationHandler.ChangeLecturerStatus)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
