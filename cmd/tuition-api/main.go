package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tuition-portal-api/api/swagger"
	"github.com/noah-isme/tuition-portal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tuition-portal-api/internal/middleware"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/repository"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	"github.com/noah-isme/tuition-portal-api/internal/service"
	"github.com/noah-isme/tuition-portal-api/migrations"
	"github.com/noah-isme/tuition-portal-api/pkg/cache"
	"github.com/noah-isme/tuition-portal-api/pkg/config"
	"github.com/noah-isme/tuition-portal-api/pkg/database"
	"github.com/noah-isme/tuition-portal-api/pkg/identity"
	"github.com/noah-isme/tuition-portal-api/pkg/jobs"
	"github.com/noah-isme/tuition-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tuition-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tuition-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/tuition-portal-api/pkg/storage"
)

// @title Tuition Portal API
// @version 1.0.0
// @description Booking, scheduling and live-session access for a small-group tuition centre.
// @BasePath /api/v1
// @schemes http https
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
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	migrator, err := database.NewMigrator(db, migrations.FS, ".", logr)
	if err != nil {
		logr.Fatal("failed to init migrator", zap.Error(err))
	}
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrator.Up(context.Background()); err != nil {
			logr.Fatal("migration failed", zap.Error(err))
		}
		return
	}
	if cfg.Migrations.AutoMigrate {
		if err := migrator.Up(context.Background()); err != nil {
			logr.Fatal("migration failed", zap.Error(err))
		}
	}

	clock, err := schedule.NewVenueClock(cfg.Access.VenueTimezone)
	if err != nil {
		logr.Fatal("invalid venue timezone", zap.String("tz", cfg.Access.VenueTimezone), zap.Error(err))
	}
	policy := schedule.WindowPolicy{
		OpensEarly:      cfg.Access.OpensEarly,
		ClosesLate:      cfg.Access.ClosesLate,
		DefaultDuration: cfg.Access.DefaultDuration,
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cacheRepo != nil)

	profileRepo := repository.NewProfileRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	procedureRepo := repository.NewProcedureRepository(db)
	blockRunRepo := repository.NewBlockRunRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	noteRepo := repository.NewSessionNoteRepository(db)
	studentProfileRepo := repository.NewStudentProfileRepository(db)
	bespokeRepo := repository.NewBespokeRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	remote := service.NewRemoteCaller(cfg.Remote.Timeout, metricsSvc, logr)

	authSvc := service.NewAuthService(profileRepo, logr, service.AuthConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	profileSvc := service.NewProfileService(profileRepo, auditRepo, validate, logr)
	slotSvc := service.NewSlotService(slotRepo, auditRepo, cacheSvc, cfg.Catalog.CacheTTL, validate, logr)
	instanceSvc := service.NewInstanceService(instanceRepo, enrollmentRepo, auditRepo, validate, logr)
	bookingSvc := service.NewBookingService(procedureRepo, slotRepo, studentProfileRepo, remote, clock, validate, logr)
	blockSvc := service.NewBlockService(service.BlockServiceDeps{
		Procedures: procedureRepo,
		Instances:  instanceRepo,
		Runs:       blockRunRepo,
		Roster:     enrollmentRepo,
		Slots:      slotRepo,
		Audit:      auditRepo,
		Remote:     remote,
		Metrics:    metricsSvc,
		Clock:      clock,
	}, validate, logr)
	portalSvc := service.NewPortalService(instanceRepo, enrollmentRepo, clock, policy, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, instanceRepo, enrollmentRepo, validate, logr)
	noteSvc := service.NewSessionNoteService(noteRepo, instanceRepo, enrollmentRepo, validate, logr)
	studentProfileSvc := service.NewStudentProfileService(studentProfileRepo, validate, logr)
	bespokeSvc := service.NewBespokeService(bespokeRepo, slotRepo, validate, logr)
	idp := identity.NewClient(cfg.Identity.URL, cfg.Identity.ServiceKey, cfg.Identity.Timeout)
	tutorSvc := service.NewTutorService(tutorRepo, profileRepo, idp, auditRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, clock, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, auditRepo, cacheSvc, cfg.Catalog.CacheTTL, validate, logr)

	// Calendar branding is read once at startup.
	companyName := models.DefaultPlatformSettings.CompanyName
	if settings, err := settingsSvc.Get(context.Background()); err == nil && settings.CompanyName != "" {
		companyName = settings.CompanyName
	}
	calendarSvc := service.NewCalendarService(instanceRepo, enrollmentRepo, clock, policy, companyName, logr)

	var exportSvc *service.ExportService
	var exportSweeper *jobs.Ticker
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to init export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(attendanceSvc, instanceRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: 24 * time.Hour,
		}, validate, logr)
		exportSweeper = jobs.NewTicker("export-sweeper", func(ctx context.Context) error {
			removed, err := exportSvc.Cleanup(0)
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
			return err
		}, jobs.TickerConfig{Interval: time.Hour, Logger: logr})
	}

	var watcher *jobs.Ticker
	if cfg.Access.WatcherEnabled {
		accessWatcher := service.NewAccessWatcher(instanceRepo, metricsSvc, clock, policy, logr)
		watcher = jobs.NewTicker("access-watcher", accessWatcher.Tick, jobs.TickerConfig{
			Interval:   cfg.Access.TickInterval,
			RunOnStart: true,
			Logger:     logr,
		})
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeDeps{
		auth:     authSvc,
		audit:    auditRepo,
		metrics:  metricsHandler,
		me:       handler.NewAuthHandler(authSvc),
		portal:   handler.NewPortalHandler(portalSvc, calendarSvc),
		booking:  handler.NewBookingHandler(bookingSvc),
		blocks:   handler.NewBlockHandler(blockSvc),
		slots:    handler.NewSlotHandler(slotSvc),
		instance: handler.NewInstanceHandler(instanceSvc),
		sessions: handler.NewSessionHandler(noteSvc, attendanceSvc),
		onboard:  handler.NewStudentProfileHandler(studentProfileSvc),
		bespoke:  handler.NewBespokeHandler(bespokeSvc),
		tutors:   handler.NewTutorHandler(tutorSvc),
		profiles: handler.NewProfileHandler(profileSvc),
		content:  handler.NewContentHandler(announcementSvc, settingsSvc),
		exports:  exportHandler(exportSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watcher != nil {
		watcher.Start(ctx)
		defer watcher.Stop()
	}
	if exportSweeper != nil {
		exportSweeper.Start(ctx)
		defer exportSweeper.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func exportHandler(svc *service.ExportService) *handler.ExportHandler {
	if svc == nil {
		return nil
	}
	return handler.NewExportHandler(svc)
}
