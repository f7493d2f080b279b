package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unimol-dev/exam-sessions-api/api/swagger"
	"github.com/unimol-dev/exam-sessions-api/internal/handler"
	"github.com/unimol-dev/exam-sessions-api/internal/middleware"
	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/repository"
	"github.com/unimol-dev/exam-sessions-api/internal/seed"
	"github.com/unimol-dev/exam-sessions-api/internal/service"
	"github.com/unimol-dev/exam-sessions-api/pkg/cache"
	"github.com/unimol-dev/exam-sessions-api/pkg/config"
	"github.com/unimol-dev/exam-sessions-api/pkg/logger"
	corsmiddleware "github.com/unimol-dev/exam-sessions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unimol-dev/exam-sessions-api/pkg/middleware/requestid"
)

// @title Exam Sessions API
// @version 1.0.0
// @description Exam session scheduling, enrollment and grade recording
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	examRepo := repository.NewExamRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()
	gradeRepo := repository.NewGradeRepository()

	var redisClient *redis.Client
	if cfg.StatsCache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, statistics cache disabled", "error", err)
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	examSvc := service.NewExamService(examRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, examRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, examRepo, cacheRepo, cfg.StatsCache, validate, logr)
	authSvc := service.NewAuthService(cfg.JWT)
	metricsSvc := service.NewMetricsService()

	if cfg.Seed.Enabled {
		if err := seed.Load(context.Background(), examSvc, enrollmentSvc, gradeSvc, logr); err != nil {
			logr.Sugar().Warnw("demo seed failed", "error", err)
		}
	}

	examHandler := handler.NewExamHandler(examSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	exams := api.Group("/exams")
	{
		exams.GET("", examHandler.List)
		exams.POST("", middleware.JWT(authSvc), staff, examHandler.Create)
		exams.GET("/calendar", examHandler.Calendar)
		exams.GET("/available", examHandler.Available)
		exams.GET("/course/:courseId", examHandler.ByCourse)
		exams.GET("/teacher/:teacherId", examHandler.ByTeacher)
		exams.GET("/:id", examHandler.Get)
		exams.GET("/:id/exists", examHandler.Exists)
		exams.GET("/:id/info", examHandler.Info)
		exams.PATCH("/:id/status", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), examHandler.UpdateStatus)
		exams.POST("/:id/enroll", middleware.OptionalJWT(authSvc), enrollmentHandler.Enroll)
		exams.GET("/:id/enrollments", enrollmentHandler.ListByExam)
		exams.POST("/:id/grades", middleware.JWT(authSvc), staff, gradeHandler.Record)
		exams.GET("/:id/grades", gradeHandler.ListByExam)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", enrollmentHandler.List)
		enrollments.GET("/my", middleware.OptionalJWT(authSvc), enrollmentHandler.ListMine)
		enrollments.GET("/student/:studentId", enrollmentHandler.ListByStudent)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.DELETE("/:id", middleware.OptionalJWT(authSvc), enrollmentHandler.Cancel)
	}

	grades := api.Group("/grades")
	{
		grades.GET("/my", middleware.OptionalJWT(authSvc), gradeHandler.ListMine)
		grades.GET("/student/:studentId", gradeHandler.ListByStudent)
		grades.GET("/course/:courseId/statistics", gradeHandler.CourseStatistics)
		if cfg.Exports.Enabled {
			grades.GET("/course/:courseId/export", gradeHandler.ExportCourseReport)
		}
		grades.GET("/:id", gradeHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
