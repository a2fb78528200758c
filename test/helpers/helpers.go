// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_pharmadesk",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_pharmadesk",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		AcquireTimeout:     time.Second * 5,
		TxIsolation:        "read_committed",
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for the container to accept connections
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../../migrations",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_pharmadesk",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			TxIsolation:        "read_committed",
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			BcryptCost:        4,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestOrder builds a valid order request
func CreateTestOrder(overrides ...func(*domain.Order)) *domain.Order {
	order := &domain.Order{
		PatientID: 1,
		OrderDate: time.Now().UTC(),
		Lines: []domain.OrderLine{
			{MedicineID: 1, Quantity: 2},
			{MedicineID: 2, Quantity: 1},
		},
	}

	for _, override := range overrides {
		override(order)
	}

	return order
}

// CreateTestMedicine builds a valid catalog entry
func CreateTestMedicine(overrides ...func(*domain.Medicine)) *domain.Medicine {
	med := &domain.Medicine{
		Name:         "Amoxicillin",
		GenericName:  "amoxicillin trihydrate",
		Category:     domain.CategoryAntibiotic,
		DosageForm:   domain.FormCapsule,
		Strength:     "500mg",
		Manufacturer: "Test Pharma",
		UnitPrice:    decimal.NewFromFloat(12.50),
		RequiresRx:   true,
	}

	for _, override := range overrides {
		override(med)
	}

	return med
}

// CreateTestPatient builds a valid patient record
func CreateTestPatient(overrides ...func(*domain.Patient)) *domain.Patient {
	dob := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	p := &domain.Patient{
		FirstName:   "Maria",
		LastName:    "Santos",
		DateOfBirth: &dob,
		Phone:       "555-0100",
		Email:       "maria.santos@example.com",
	}

	for _, override := range overrides {
		override(p)
	}

	return p
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"order_items",
		"orders",
		"prescription_items",
		"prescriptions",
		"inventory",
		"medicines",
		"patient_logs",
		"patients",
		"suppliers",
		"staff",
	}

	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedTestCatalog inserts a medicine with stock and a patient, returning
// their generated IDs for use in order placement tests.
func SeedTestCatalog(t *testing.T, pool *pgxpool.Pool, quantity int) (medicineID, patientID int64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx, `
		INSERT INTO medicines (name, category, dosage_form, unit_price, requires_prescription, created_at, updated_at)
		VALUES ('Ibuprofen', 'analgesic', 'tablet', 4.99, false, NOW(), NOW())
		RETURNING medicine_id`).Scan(&medicineID)
	require.NoError(t, err, "Failed to seed medicine")

	_, err = pool.Exec(ctx, `
		INSERT INTO inventory (medicine_id, quantity, reorder_level, updated_at)
		VALUES ($1, $2, 5, NOW())`, medicineID, quantity)
	require.NoError(t, err, "Failed to seed inventory")

	err = pool.QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, created_at, updated_at)
		VALUES ('Test', 'Patient', NOW(), NOW())
		RETURNING patient_id`).Scan(&patientID)
	require.NoError(t, err, "Failed to seed patient")

	return medicineID, patientID
}
