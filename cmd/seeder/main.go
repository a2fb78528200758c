// cmd/seeder/main.go
//
// Seeds a development database with a small pharmacy catalog: suppliers,
// medicines with opening stock, a handful of patients and the staff
// accounts needed to log into the admin UI. An optional Excel catalog can
// extend the built-in medicine list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
	"golang.org/x/crypto/bcrypt"
)

type seedSupplier struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

type seedMedicine struct {
	Name         string
	GenericName  string
	Category     string
	DosageForm   string
	Strength     string
	Manufacturer string
	Supplier     string // resolved to supplier_id by name
	UnitPrice    decimal.Decimal
	RequiresRx   bool
	Quantity     int
	ReorderLevel int
}

type seedPatient struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
	Email       string
	Address     string
	Allergies   string
}

type seedStaff struct {
	Username string
	FullName string
	Role     string
	Password string
}

func defaultSuppliers() []seedSupplier {
	return []seedSupplier{
		{"MediSupply Co", "Rita Okafor", "+1-555-0101", "orders@medisupply.example", "12 Harbor Way, Springfield"},
		{"PharmaDirect Ltd", "Tomas Vega", "+1-555-0102", "sales@pharmadirect.example", "400 Commerce Blvd, Riverton"},
		{"Global Generics", "Mei Chen", "+1-555-0103", "contact@globalgenerics.example", "77 Industrial Park, Lakeside"},
	}
}

func defaultMedicines() []seedMedicine {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []seedMedicine{
		{"Amoxicillin 500mg", "amoxicillin trihydrate", "antibiotic", "capsule", "500mg", "Global Generics", "Global Generics", price("8.50"), true, 240, 50},
		{"Azithromycin 250mg", "azithromycin dihydrate", "antibiotic", "tablet", "250mg", "Global Generics", "Global Generics", price("14.20"), true, 120, 30},
		{"Paracetamol 500mg", "acetaminophen", "analgesic", "tablet", "500mg", "MediSupply Co", "MediSupply Co", price("2.10"), false, 600, 100},
		{"Ibuprofen 200mg", "ibuprofen", "analgesic", "tablet", "200mg", "MediSupply Co", "MediSupply Co", price("3.40"), false, 450, 100},
		{"Cetirizine 10mg", "cetirizine hydrochloride", "antihistamine", "tablet", "10mg", "PharmaDirect Ltd", "PharmaDirect Ltd", price("4.75"), false, 300, 60},
		{"Loratadine 10mg", "loratadine", "antihistamine", "tablet", "10mg", "PharmaDirect Ltd", "PharmaDirect Ltd", price("5.10"), false, 280, 60},
		{"Lisinopril 10mg", "lisinopril dihydrate", "cardiovascular", "tablet", "10mg", "Global Generics", "Global Generics", price("6.90"), true, 180, 40},
		{"Atorvastatin 20mg", "atorvastatin calcium", "cardiovascular", "tablet", "20mg", "Global Generics", "Global Generics", price("9.30"), true, 200, 40},
		{"Omeprazole 20mg", "omeprazole", "gastrointestinal", "capsule", "20mg", "MediSupply Co", "MediSupply Co", price("7.25"), false, 260, 50},
		{"Salbutamol Inhaler", "salbutamol sulfate", "respiratory", "inhaler", "100mcg/dose", "PharmaDirect Ltd", "PharmaDirect Ltd", price("22.00"), true, 60, 15},
		{"Hydrocortisone Cream 1%", "hydrocortisone", "dermatological", "ointment", "1%", "MediSupply Co", "MediSupply Co", price("6.40"), false, 90, 20},
		{"Vitamin D3 1000IU", "cholecalciferol", "supplement", "capsule", "1000IU", "PharmaDirect Ltd", "PharmaDirect Ltd", price("11.80"), false, 320, 50},
	}
}

func defaultPatients() []seedPatient {
	dob := func(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

	return []seedPatient{
		{"Ana", "Silva", dob(1984, 3, 12), "+1-555-0201", "ana.silva@example.com", "18 Elm St, Springfield", "penicillin"},
		{"Brian", "Koech", dob(1972, 11, 3), "+1-555-0202", "brian.koech@example.com", "92 Oak Ave, Riverton", ""},
		{"Carla", "Nguyen", dob(1995, 7, 28), "+1-555-0203", "carla.nguyen@example.com", "7 Birch Rd, Lakeside", "sulfa drugs"},
		{"Derek", "Osei", dob(1961, 1, 19), "+1-555-0204", "derek.osei@example.com", "230 Maple Dr, Springfield", ""},
		{"Elena", "Marchetti", dob(2001, 9, 5), "+1-555-0205", "elena.marchetti@example.com", "55 Cedar Ln, Riverton", "latex"},
	}
}

func defaultStaff(adminPassword string) []seedStaff {
	return []seedStaff{
		{"admin", "System Administrator", "admin", adminPassword},
		{"jsmith", "Jordan Smith", "pharmacist", "pharmacist-dev-pass"},
		{"mlopez", "Maria Lopez", "cashier", "cashier-dev-pass"},
	}
}

func main() {
	var (
		catalogFile   = flag.String("catalog", "", "Optional Excel file with extra medicines")
		adminPassword = flag.String("admin-password", "admin-dev-pass", "Password for the seeded admin account")
		logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun        = flag.Bool("dry-run", false, "Preview changes without modifying database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "pharmadesk"),
		getEnv("DB_PASSWORD", "pharmadesk_dev_2026"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "pharmadesk"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	medicines := defaultMedicines()
	if *catalogFile != "" {
		extra, err := loadCatalog(*catalogFile)
		if err != nil {
			logger.Error("failed to load catalog file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		medicines = append(medicines, extra...)
		logger.Info("loaded extra medicines from catalog",
			slog.String("file", *catalogFile),
			slog.Int("count", len(extra)))
	}

	if *dryRun {
		logger.Info("dry run, nothing written",
			slog.Int("suppliers", len(defaultSuppliers())),
			slog.Int("medicines", len(medicines)),
			slog.Int("patients", len(defaultPatients())),
			slog.Int("staff", len(defaultStaff(*adminPassword))))
		return
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed(ctx, pool, medicines, *adminPassword, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete")
}

func seed(ctx context.Context, pool *pgxpool.Pool, medicines []seedMedicine, adminPassword string, logger *slog.Logger) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		supplierIDs, err := seedSuppliers(ctx, tx, logger)
		if err != nil {
			return err
		}
		if err := seedCatalog(ctx, tx, medicines, supplierIDs, logger); err != nil {
			return err
		}
		if err := seedPatients(ctx, tx, logger); err != nil {
			return err
		}
		return seedStaffAccounts(ctx, tx, adminPassword, logger)
	})
}

func seedSuppliers(ctx context.Context, tx pgx.Tx, logger *slog.Logger) (map[string]int64, error) {
	ids := make(map[string]int64)
	now := time.Now().UTC()

	for _, s := range defaultSuppliers() {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO suppliers (name, contact_person, phone, email, address, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
			RETURNING supplier_id`,
			s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, now,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("seeding supplier %q: %w", s.Name, err)
		}
		ids[s.Name] = id
	}

	logger.Info("suppliers seeded", slog.Int("count", len(ids)))
	return ids, nil
}

func seedCatalog(ctx context.Context, tx pgx.Tx, medicines []seedMedicine, supplierIDs map[string]int64, logger *slog.Logger) error {
	now := time.Now().UTC()

	for _, m := range medicines {
		var supplierID *int64
		if id, ok := supplierIDs[m.Supplier]; ok {
			supplierID = &id
		}

		var medicineID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO medicines (
				name, generic_name, category, dosage_form, strength,
				manufacturer, supplier_id, unit_price, requires_prescription,
				notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', $10, $10)
			RETURNING medicine_id`,
			m.Name, m.GenericName, m.Category, m.DosageForm, m.Strength,
			m.Manufacturer, supplierID, m.UnitPrice, m.RequiresRx, now,
		).Scan(&medicineID)
		if err != nil {
			return fmt.Errorf("seeding medicine %q: %w", m.Name, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO inventory (medicine_id, quantity, reorder_level, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (medicine_id) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				reorder_level = EXCLUDED.reorder_level,
				updated_at = EXCLUDED.updated_at`,
			medicineID, m.Quantity, m.ReorderLevel, now,
		)
		if err != nil {
			return fmt.Errorf("seeding inventory for %q: %w", m.Name, err)
		}
	}

	logger.Info("medicines seeded", slog.Int("count", len(medicines)))
	return nil
}

func seedPatients(ctx context.Context, tx pgx.Tx, logger *slog.Logger) error {
	now := time.Now().UTC()
	patients := defaultPatients()

	for _, p := range patients {
		_, err := tx.Exec(ctx, `
			INSERT INTO patients (
				first_name, last_name, date_of_birth, phone, email,
				address, allergies, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			p.FirstName, p.LastName, p.DateOfBirth, p.Phone, p.Email,
			p.Address, p.Allergies, now,
		)
		if err != nil {
			return fmt.Errorf("seeding patient %s %s: %w", p.FirstName, p.LastName, err)
		}
	}

	logger.Info("patients seeded", slog.Int("count", len(patients)))
	return nil
}

func seedStaffAccounts(ctx context.Context, tx pgx.Tx, adminPassword string, logger *slog.Logger) error {
	now := time.Now().UTC()
	accounts := defaultStaff(adminPassword)

	for _, s := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password for %q: %w", s.Username, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO staff (username, password_hash, full_name, role, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, $5, $5)
			ON CONFLICT (username) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				role = EXCLUDED.role,
				updated_at = EXCLUDED.updated_at`,
			s.Username, string(hash), s.FullName, s.Role, now,
		)
		if err != nil {
			return fmt.Errorf("seeding staff account %q: %w", s.Username, err)
		}
	}

	logger.Info("staff accounts seeded", slog.Int("count", len(accounts)))
	return nil
}

// loadCatalog reads extra medicines from an Excel sheet with the columns:
// name, generic name, category, dosage form, strength, manufacturer,
// supplier, unit price, requires rx, quantity, reorder level.
func loadCatalog(path string) ([]seedMedicine, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in catalog file")
	}
	sheet := file.Sheets[0]

	var medicines []seedMedicine
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		name := get(0)
		if name == "" {
			return nil
		}

		price, err := decimal.NewFromString(get(7))
		if err != nil {
			price = decimal.Zero
		}
		requiresRx := strings.EqualFold(get(8), "yes") || strings.EqualFold(get(8), "true")
		quantity, _ := strconv.Atoi(get(9))
		reorderLevel, _ := strconv.Atoi(get(10))

		medicines = append(medicines, seedMedicine{
			Name:         name,
			GenericName:  get(1),
			Category:     get(2),
			DosageForm:   get(3),
			Strength:     get(4),
			Manufacturer: get(5),
			Supplier:     get(6),
			UnitPrice:    price,
			RequiresRx:   requiresRx,
			Quantity:     quantity,
			ReorderLevel: reorderLevel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	return medicines, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
