package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/config"
	"github.com/noah-isme/school-console/internal/database"
	"github.com/noah-isme/school-console/internal/handler"
	"github.com/noah-isme/school-console/internal/middleware"
	"github.com/noah-isme/school-console/internal/repository"
	"github.com/noah-isme/school-console/internal/router"
	"github.com/noah-isme/school-console/internal/service"
	"github.com/noah-isme/school-console/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Token:   cfg.BackendToken,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}

	db, err := database.OpenActivityStore(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open activity store: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer drainNATS(natsConn)
	}

	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()
	activityStream := service.NewActivityStream(redisClient, natsConn, logger)
	activityStream.Start(streamCtx)

	studentRepo := repository.NewStudentRepository(client)
	teacherRepo := repository.NewTeacherRepository(client)
	classRepo := repository.NewClassRepository(client)
	feeTypeRepo := repository.NewFeeTypeRepository(client)
	voucherRepo := repository.NewVoucherRepository(client)
	attendanceRepo := repository.NewAttendanceRepository(client)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, activityStream, logger)
	dashboardService := service.NewDashboardService(studentRepo, classRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)
	uploadService := service.NewUploadService(cfg.UploadMaxMB, logger)
	exportService := service.NewExportService(logger)

	screens := &service.Screens{
		Students:   studentRepo,
		Teachers:   teacherRepo,
		Classes:    classRepo,
		FeeTypes:   feeTypeRepo,
		Vouchers:   voucherRepo,
		Attendance: attendanceRepo,
		Validation: service.NewValidation(),
		Auditor:    service.NewMutationAuditor(activityService, dashboardService, logger),
		Logger:     logger,
	}

	var limiterStorage fiber.Storage
	if redisClient != nil {
		limiterStorage = database.NewRedisStorage(redisClient, "school-console:limiter:")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		Views:        web.NewEngine(!cfg.IsProduction()),
		ErrorHandler: handler.ErrorHandler(logger),
		BodyLimit:    (cfg.UploadMaxMB*2 + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, CORSOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, activityService, logger),
		StudentHandler:    handler.NewStudentHandler(screens, uploadService, exportService, logger),
		TeacherHandler:    handler.NewTeacherHandler(screens, uploadService, exportService, logger),
		ClassHandler:      handler.NewClassHandler(screens, exportService, logger),
		FeeTypeHandler:    handler.NewFeeTypeHandler(screens, exportService, logger),
		VoucherHandler:    handler.NewVoucherHandler(screens, exportService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(screens, exportService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, activityStream, logger),
		MutationLimiter:   middleware.RateLimit("console", cfg.RateLimitMax, cfg.RateLimitWindow, limiterStorage),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("backend", client.BaseURL()).Msg("console listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func drainNATS(conn *nats.Conn) {
	if err := conn.Drain(); err != nil {
		conn.Close()
	}
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
