package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classwork-tracker-api/internal/config"
	"github.com/noah-isme/classwork-tracker-api/internal/database"
	"github.com/noah-isme/classwork-tracker-api/internal/handler"
	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
	"github.com/noah-isme/classwork-tracker-api/internal/router"
	"github.com/noah-isme/classwork-tracker-api/internal/service"
	"github.com/noah-isme/classwork-tracker-api/internal/session"
	"github.com/noah-isme/classwork-tracker-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// The cache is optional; without Redis every list read hits sqlite.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var mail mailer.Mailer
	if cfg.MailConfigured() {
		mail = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	} else {
		mail = mailer.NewLog(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	sessions := session.NewManager(cfg.SessionHashKey, cfg.SessionBlockKey, cfg.AppEnv == "production")

	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	authService := service.NewAuthService(teacherRepo, validate, logger)
	classService := service.NewClassService(classRepo, studentRepo, activityRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, studentRepo, activityRepo, redisClient, cfg.DashboardCacheTTL, mail, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, classRepo, redisClient, cfg.DashboardCacheTTL, validate, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	adminService := service.NewAdminService(adminRepo, activityRepo, logger)

	authHandler := handler.NewAuthHandler(authService, sessions, logger)
	classHandler := handler.NewClassHandler(classService, sessions, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, submissionService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		Sessions:          sessions,
		AuthHandler:       authHandler,
		ClassHandler:      classHandler,
		AssignmentHandler: assignmentHandler,
		StudentHandler:    studentHandler,
		AdminHandler:      adminHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
