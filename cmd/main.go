package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentiq/internal/caching"
	"dentiq/internal/config"
	"dentiq/internal/events"
	"dentiq/internal/handlers"
	"dentiq/internal/jobs"
	"dentiq/internal/jobs/background"
	"dentiq/internal/metrics"
	"dentiq/internal/migrations"
	"dentiq/internal/models"
	"dentiq/internal/repositories"
	"dentiq/internal/services"
	"dentiq/pkg/database"
	"dentiq/pkg/logger"

	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: "dentiq"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode reports a failed run and flushes the logger; os.Exit skips defers.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = random.String(32)
		log.Warn("using a generated JWT secret; tokens will not survive restarts")
	}

	// Database
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer database.ClosePool(pool, log)

	if cfg.MigrationsEnabled {
		if err := migrations.RunOnPool(pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	// Cache
	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient, log)

	// Object storage
	store, err := services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("document bucket unavailable", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
	}

	// Events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		conn, err := events.Connect(cfg.AMQPURL, 0, 2*time.Second)
		if err != nil {
			return err
		}
		publisher, err = events.NewAMQPPublisher(conn, cfg.AMQPExchange, log)
		if err != nil {
			_ = conn.Close()
			return err
		}
	} else {
		log.Info("AMQP_URL not set, events are discarded")
	}
	defer func() { _ = publisher.Close() }()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	planRepo := repositories.NewPlanRepository(pool)
	handPaymentRepo := repositories.NewHandPaymentRepository(pool)
	auditRepo := repositories.NewBillingAuditRepository(pool)
	patientRepo := repositories.NewPatientRepository(pool)
	appointmentRepo := repositories.NewAppointmentRepository(pool)
	catalogRepo := repositories.NewTreatmentCatalogRepository(pool)
	treatmentRepo := repositories.NewTreatmentRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	medicationRepo := repositories.NewMedicationRepository(pool)
	prescriptionRepo := repositories.NewPrescriptionRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	workingHoursRepo := repositories.NewWorkingHoursRepository(pool)
	documentRepo := repositories.NewPatientDocumentRepository(pool)
	financeRepo := repositories.NewFinanceRepository(pool)

	// Services
	handPaymentSvc := services.NewHandPaymentService(repositories.NewTxRunner(pool), handPaymentRepo, userRepo,
		planRepo, auditRepo, publisher, m, log)
	authSvc := services.NewAuthService(userRepo, handPaymentSvc, cfg.JWTSecret, cfg.JWTTTL, log)
	planSvc := services.NewPlanService(planRepo, log)
	financeSvc := services.NewFinanceService(financeRepo, cacheSvc, cfg.FinanceCacheTTL, log)
	verificationSvc := services.NewVerificationService(userRepo, cacheSvc, publisher, cfg.VerificationCodeTTL, log)
	documentSvc := services.NewDocumentService(documentRepo, patientRepo, store, cfg.DocumentURLTTL, log)
	patientSvc := services.NewPatientService(patientRepo, log)
	treatmentSvc := services.NewTreatmentService(treatmentRepo, patientRepo, catalogRepo, financeSvc, log)
	itemSvc := services.NewItemService(itemRepo, financeSvc, log)

	if cfg.AdminUsername != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// Background jobs
	scheduler, err := background.NewJobScheduler(
		jobs.NewExpirationSweep(handPaymentSvc, log),
		jobs.NewInventoryAlertService(userRepo, itemRepo, publisher, log),
		background.Intervals{ExpirationSweep: cfg.ExpirationSweepInterval, LowStockCheck: cfg.LowStockCheckInterval},
		m, log,
	)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	paymentSvc := services.NewPaymentService(paymentRepo, patientRepo, treatmentRepo, financeSvc, log)
	prescriptionSvc := services.NewPrescriptionService(prescriptionRepo, patientRepo, medicationRepo, log)
	healthChecks := map[string]handlers.Pinger{
		"database": pool,
		"redis": handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}

	e := newServer(cfg, registry, m)
	registerRoutes(e, cfg, routeDeps{
		users:         userRepo,
		expiration:    handPaymentSvc,
		health:        handlers.NewHealthHandlers(version, healthChecks),
		auth:          handlers.NewAuthHandlers(authSvc),
		plans:         handlers.NewPlanHandlers(planSvc),
		payments:      handlers.NewHandPaymentHandlers(handPaymentSvc),
		admin:         handlers.NewAdminHandlers(userRepo, handPaymentSvc),
		verify:        handlers.NewVerifyHandlers(verificationSvc),
		finance:       handlers.NewFinanceHandlers(financeSvc),
		documents:     handlers.NewDocumentHandlers(documentSvc),
		jobs:          handlers.NewJobHandlers(scheduler),
		patients:      handlers.NewPatientHandlers(patientSvc, treatmentSvc),
		appointments:  handlers.NewAppointmentHandlers(services.NewAppointmentService(appointmentRepo, patientRepo, log)),
		items:         handlers.NewItemHandlers(itemSvc),
		catalog:       handlers.NewResourceHandlers("catalog", services.NewTreatmentCatalogService(catalogRepo, log)),
		treatments:    handlers.NewResourceHandlers[models.Treatment]("treatments", treatmentSvc),
		clinicPay:     handlers.NewResourceHandlers("payments", paymentSvc),
		expenses:      handlers.NewResourceHandlers("expenses", services.NewExpenseService(expenseRepo, financeSvc, log)),
		medications:   handlers.NewResourceHandlers("medications", services.NewMedicationService(medicationRepo, log)),
		prescriptions: handlers.NewResourceHandlers("prescriptions", prescriptionSvc),
		employees:     handlers.NewResourceHandlers("employees", services.NewEmployeeService(employeeRepo, log)),
		workingHours:  handlers.NewResourceHandlers("working_hours", services.NewWorkingHoursService(workingHoursRepo, employeeRepo, log)),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port), zap.String("version", version))
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
