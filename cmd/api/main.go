// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/adapters/storage"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/internal/handlers"
	"github.com/pharmadesk/pharmadesk-be/internal/handlers/middleware"
	"github.com/pharmadesk/pharmadesk-be/internal/pkg/config"
	"github.com/pharmadesk/pharmadesk-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting pharmadesk inventory management system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	// Pull database credentials from Secrets Manager when configured
	if cfg.AWS.SecretName != "" {
		sm, err := config.NewAWSSecretsManager(cfg.AWS.Region, cfg.AWS.SecretName, slogger)
		if err != nil {
			slogger.Error("failed to initialize secrets manager", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := cfg.ApplyDatabaseSecrets(ctx, sm); err != nil {
			slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Migrations run automatically outside production
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	authService *services.AuthService

	authHandler         *handlers.AuthHandler
	orderHandler        *handlers.OrderHandler
	medicineHandler     *handlers.MedicineHandler
	inventoryHandler    *handlers.InventoryHandler
	patientHandler      *handlers.PatientHandler
	supplierHandler     *handlers.SupplierHandler
	prescriptionHandler *handlers.PrescriptionHandler
	invoiceHandler      *handlers.InvoiceHandler
	dashboardHandler    *handlers.DashboardHandler
	reportHandler       *handlers.ReportHandler
	healthHandler       *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		AcquireTimeout:     cfg.Database.AcquireTimeout,
		TxIsolation:        cfg.Database.TxIsolation,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	archive, err := storage.NewS3Archive(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report archive: %w", err)
	}

	// Repositories
	orderRepo := db.NewOrderRepository(database, slogger)
	medicineRepo := db.NewMedicineRepository(database, slogger)
	inventoryRepo := db.NewInventoryRepository(database, slogger)
	patientRepo := db.NewPatientRepository(database, slogger)
	supplierRepo := db.NewSupplierRepository(database, slogger)
	prescriptionRepo := db.NewPrescriptionRepository(database, slogger)
	staffRepo := db.NewStaffRepository(database, slogger)
	invoiceRepo := db.NewInvoiceRepository(database, slogger)

	// Services
	orderService := services.NewOrderService(orderRepo, cache, slogger)
	medicineService := services.NewMedicineService(medicineRepo, cache, slogger)
	inventoryService := services.NewInventoryService(inventoryRepo, slogger)
	patientService := services.NewPatientService(patientRepo, slogger)
	deps.authService = services.NewAuthService(
		staffRepo,
		cfg.Security.JWTSecret,
		cfg.Security.JWTExpiration,
		cfg.Security.BcryptCost,
		slogger,
	)

	// Handlers
	deps.authHandler = handlers.NewAuthHandler(deps.authService, slogger)
	deps.orderHandler = handlers.NewOrderHandler(orderService, slogger)
	deps.medicineHandler = handlers.NewMedicineHandler(medicineService, slogger)
	deps.inventoryHandler = handlers.NewInventoryHandler(inventoryService, slogger)
	deps.patientHandler = handlers.NewPatientHandler(patientService, slogger)
	deps.supplierHandler = handlers.NewSupplierHandler(supplierRepo, slogger)
	deps.prescriptionHandler = handlers.NewPrescriptionHandler(prescriptionRepo, slogger)
	deps.invoiceHandler = handlers.NewInvoiceHandler(invoiceRepo, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(database, cache, slogger)
	deps.reportHandler = handlers.NewReportHandler(deps.asynqClient, archive, cache, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	registerRoutes(mux, deps, slogger)

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.Recovery(slogger)(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.RequestID(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, slogger *slog.Logger) {
	apiV1 := "/api/v1"

	// session gate for everything except health and login
	authed := middleware.Authenticate(deps.authService, slogger)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}
	adminOnly := middleware.RequireRole(string(domain.RoleAdmin))

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Authentication
	mux.HandleFunc("POST "+apiV1+"/auth/login", deps.authHandler.Login)
	mux.Handle("POST "+apiV1+"/auth/register",
		authed(adminOnly(http.HandlerFunc(deps.authHandler.Register))))

	// Orders
	protect("POST "+apiV1+"/orders", deps.orderHandler.PlaceOrder)
	protect("GET "+apiV1+"/orders", deps.orderHandler.ListOrders)
	protect("GET "+apiV1+"/orders/{id}", deps.orderHandler.GetOrder)

	// Medicine catalog
	protect("GET "+apiV1+"/medicines", deps.medicineHandler.ListMedicines)
	protect("GET "+apiV1+"/medicines/{id}", deps.medicineHandler.GetMedicine)
	protect("POST "+apiV1+"/medicines", deps.medicineHandler.CreateMedicine)
	protect("PUT "+apiV1+"/medicines/{id}", deps.medicineHandler.UpdateMedicine)
	protect("DELETE "+apiV1+"/medicines/{id}", deps.medicineHandler.DeleteMedicine)

	// Inventory
	protect("GET "+apiV1+"/inventory", deps.inventoryHandler.ListInventory)
	protect("GET "+apiV1+"/inventory/low-stock", deps.inventoryHandler.ListLowStock)
	protect("GET "+apiV1+"/inventory/{medicineID}", deps.inventoryHandler.GetStock)
	protect("PUT "+apiV1+"/inventory/{medicineID}", deps.inventoryHandler.SetStock)

	// Patients
	protect("GET "+apiV1+"/patients", deps.patientHandler.ListPatients)
	protect("GET "+apiV1+"/patients/{id}", deps.patientHandler.GetPatient)
	protect("POST "+apiV1+"/patients", deps.patientHandler.CreatePatient)
	protect("PUT "+apiV1+"/patients/{id}", deps.patientHandler.UpdatePatient)
	protect("DELETE "+apiV1+"/patients/{id}", deps.patientHandler.DeletePatient)

	// Suppliers
	protect("GET "+apiV1+"/suppliers", deps.supplierHandler.ListSuppliers)
	protect("GET "+apiV1+"/suppliers/{id}", deps.supplierHandler.GetSupplier)
	protect("POST "+apiV1+"/suppliers", deps.supplierHandler.CreateSupplier)

	// Prescriptions
	protect("GET "+apiV1+"/prescriptions", deps.prescriptionHandler.ListPrescriptions)
	protect("GET "+apiV1+"/prescriptions/{id}", deps.prescriptionHandler.GetPrescription)
	protect("POST "+apiV1+"/prescriptions", deps.prescriptionHandler.CreatePrescription)

	// Billing
	protect("GET "+apiV1+"/invoices", deps.invoiceHandler.ListInvoices)
	protect("GET "+apiV1+"/invoices/{orderID}", deps.invoiceHandler.GetInvoice)

	// Dashboard
	protect("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)
	protect("GET "+apiV1+"/dashboard/analytics", deps.dashboardHandler.GetAnalytics)

	// Reports
	protect("POST "+apiV1+"/reports/sales", deps.reportHandler.RequestSalesReport)
	protect("POST "+apiV1+"/reports/stock", deps.reportHandler.RequestStockReport)
	protect("GET "+apiV1+"/reports/status/{jobId}", deps.reportHandler.ReportStatus)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
