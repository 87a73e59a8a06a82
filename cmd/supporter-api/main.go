package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-supporter-api/api/swagger"
	"github.com/noah-isme/course-supporter-api/internal/handler"
	"github.com/noah-isme/course-supporter-api/internal/middleware"
	"github.com/noah-isme/course-supporter-api/internal/repository"
	"github.com/noah-isme/course-supporter-api/internal/service"
	"github.com/noah-isme/course-supporter-api/internal/shaper"
	"github.com/noah-isme/course-supporter-api/pkg/cache"
	"github.com/noah-isme/course-supporter-api/pkg/config"
	"github.com/noah-isme/course-supporter-api/pkg/database"
	"github.com/noah-isme/course-supporter-api/pkg/export"
	"github.com/noah-isme/course-supporter-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-supporter-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-supporter-api/pkg/middleware/requestid"
)

// @title Course Supporter API
// @version 1.0.0
// @description Administrative course and user supporter for the learning platform
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const cacheKeyPrefix = "supporter:"

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	location, err := time.LoadLocation(cfg.Site.DisplayTimezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid display timezone", "timezone", cfg.Site.DisplayTimezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	readiness := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.CoursesEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			// the catalogue cache is optional; serve uncached
			logr.Warn("redis unavailable, course cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, cacheKeyPrefix)
			readiness["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CoursesTTL, logr, cacheRepo != nil)

	courseRepo := repository.NewCourseRepository(db).WithMetrics(metrics)
	categoryRepo := repository.NewCategoryRepository(db)
	enrolmentRepo := repository.NewEnrolmentRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	capabilityRepo := repository.NewCapabilityRepository(db).WithMetrics(metrics)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	shape := shaper.New(shaper.Options{
		BaseURL:             cfg.Site.BaseURL,
		Location:            location,
		LegacyTimestamps:    cfg.Site.LegacyTimestampFormat,
		StudentArchetype:    cfg.Site.StudentArchetype,
		EnabledEnrolPlugins: cfg.Site.EnabledEnrolPlugins,
	})
	validate := service.NewValidator()

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	authz := service.NewAuthorizationService(capabilityRepo, courseRepo, categoryRepo, metrics, logr)
	settingsSvc := service.NewSettingsService(settingRepo, cfg.Supporter, logr)
	courseSvc := service.NewCourseService(service.CourseStores{
		Courses:    courseRepo,
		Categories: categoryRepo,
		Enrolments: enrolmentRepo,
		Roles:      roleRepo,
		Users:      userRepo,
		Activities: activityRepo,
	}, authz, settingsSvc, cacheSvc, shape, service.CourseServiceConfig{
		Location:               location,
		HashSelfEnrolPasswords: cfg.Site.HashSelfEnrolPasswords,
		CacheTTL:               cfg.Cache.CoursesTTL,
	}, validate, logr)
	userSvc := service.NewUserService(userRepo, courseRepo, roleRepo, categoryRepo, authz, settingsSvc, shape, logr)
	exportSvc := service.NewExportService(courseSvc, export.NewCSVExporter(';'), export.NewPDFExporter(), validate, logr)

	metricsHandler := handler.NewMetricsHandler(metrics, readiness)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(auditRepo, logr, action, resource)
	}
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), middleware.JWT(tokens), audit, handler.Handlers{
		Courses:    handler.NewCourseHandler(courseSvc),
		Users:      handler.NewUserHandler(userSvc),
		Categories: handler.NewCategoryHandler(courseSvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Export:     handler.NewExportHandler(exportSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
