//go:build integration
// +build integration

package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
)

type OrderRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.OrderRepository
	ctx    context.Context
}

func (s *OrderRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewOrderRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *OrderRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *OrderRepositorySuite) stockLevel(medicineID int64) int {
	var quantity int
	err := s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT quantity FROM inventory WHERE medicine_id = $1`, medicineID).Scan(&quantity)
	s.Require().NoError(err)
	return quantity
}

func (s *OrderRepositorySuite) TestCreateOrder_DecrementsInventory() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 20)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 3},
		},
	}

	result, err := s.repo.CreateOrder(s.ctx, order, true)
	s.NoError(err)
	s.NotZero(result.OrderID)
	s.Zero(result.SkippedDecrements)
	s.Equal(17, s.stockLevel(medicineID))

	saved, err := s.repo.FindByID(s.ctx, result.OrderID)
	s.NoError(err)
	s.Equal(patientID, saved.PatientID)
	s.Require().Len(saved.Lines, 1)
	s.Equal(medicineID, saved.Lines[0].MedicineID)
	s.Equal(3, saved.Lines[0].Quantity)
}

func (s *OrderRepositorySuite) TestCreateOrder_WithoutInventoryUpdate() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 20)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 3},
		},
	}

	result, err := s.repo.CreateOrder(s.ctx, order, false)
	s.NoError(err)
	s.NotZero(result.OrderID)
	s.Equal(20, s.stockLevel(medicineID), "stock must be untouched when updates are disabled")
}

func (s *OrderRepositorySuite) TestCreateOrder_InsufficientStockSkipsDecrement() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 2)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 5},
		},
	}

	result, err := s.repo.CreateOrder(s.ctx, order, true)
	s.NoError(err, "order must still succeed when stock is insufficient")
	s.Equal(1, result.SkippedDecrements)
	s.Equal(2, s.stockLevel(medicineID), "quantity must never go negative")

	saved, err := s.repo.FindByID(s.ctx, result.OrderID)
	s.NoError(err)
	s.Require().Len(saved.Lines, 1)
}

func (s *OrderRepositorySuite) TestCreateOrder_BadForeignKeyRollsBack() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 20)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 2},
			{MedicineID: 999999, Quantity: 1}, // no such medicine
		},
	}

	_, err := s.repo.CreateOrder(s.ctx, order, true)
	s.Error(err)
	s.ErrorIs(err, db.ErrForeignKey)

	var orderCount, itemCount int
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM order_items`).Scan(&itemCount))
	s.Zero(orderCount, "rollback must leave no order header")
	s.Zero(itemCount, "rollback must leave no order items")
	s.Equal(20, s.stockLevel(medicineID), "rollback must restore stock")

	var logCount int
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM patient_logs`).Scan(&logCount))
	s.Zero(logCount, "rollback must leave no patient log entry")
}

// Eight concurrent placements compete for a stock of 5 at 2 units each.
// The guarded UPDATE serializes on the inventory row, so exactly two
// decrements can land and the rest are skipped; the stored quantity must
// never go negative.
func (s *OrderRepositorySuite) TestCreateOrder_ConcurrentDecrementsNeverGoNegative() {
	const (
		workers  = 8
		perOrder = 2
		initial  = 5
	)
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, initial)

	results := make([]*ports.PlaceOrderResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order := &domain.Order{
				PatientID: patientID,
				Lines: []domain.OrderLine{
					{MedicineID: medicineID, Quantity: perOrder},
				},
			}
			results[i], errs[i] = s.repo.CreateOrder(s.ctx, order, true)
		}(i)
	}
	wg.Wait()

	skipped := 0
	for i := 0; i < workers; i++ {
		s.Require().NoError(errs[i], "placement %d must succeed regardless of stock", i)
		skipped += results[i].SkippedDecrements
	}

	final := s.stockLevel(medicineID)
	s.GreaterOrEqual(final, 0, "stored quantity must never go negative")
	s.Equal(initial-perOrder*(workers-skipped), final,
		"final stock must equal initial minus the non-skipped decrements")
	s.Equal(workers-initial/perOrder, skipped)
}

func (s *OrderRepositorySuite) TestCreateOrder_MultipleLines() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 50)

	var secondID int64
	err := s.testDB.PgxPool.QueryRow(s.ctx, `
		INSERT INTO medicines (name, category, dosage_form, unit_price, requires_prescription, created_at, updated_at)
		VALUES ('Paracetamol', 'analgesic', 'tablet', 2.10, false, NOW(), NOW())
		RETURNING medicine_id`).Scan(&secondID)
	s.Require().NoError(err)
	_, err = s.testDB.PgxPool.Exec(s.ctx, `
		INSERT INTO inventory (medicine_id, quantity, reorder_level, updated_at)
		VALUES ($1, 10, 5, NOW())`, secondID)
	s.Require().NoError(err)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 4},
			{MedicineID: secondID, Quantity: 10},
		},
	}

	result, err := s.repo.CreateOrder(s.ctx, order, true)
	s.NoError(err)
	s.Zero(result.SkippedDecrements)
	s.Equal(46, s.stockLevel(medicineID))
	s.Equal(0, s.stockLevel(secondID), "decrementing to exactly zero is allowed")
}

func (s *OrderRepositorySuite) TestListSummaries() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 20)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 2},
		},
	}
	_, err := s.repo.CreateOrder(s.ctx, order, false)
	s.Require().NoError(err)

	summaries, err := s.repo.ListSummaries(s.ctx)
	s.NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal("Test Patient", summaries[0].PatientName)
	s.Equal("Ibuprofen", summaries[0].MedicineName)
	s.Equal(2, summaries[0].Quantity)
	s.Require().NotNil(summaries[0].LastLogDate, "placement must leave a patient log entry")
}

func (s *OrderRepositorySuite) TestListSummaries_LatestLogDatePerPatient() {
	medicineID, patientID := helpers.SeedTestCatalog(s.T(), s.testDB.PgxPool, 20)

	order := &domain.Order{
		PatientID: patientID,
		Lines: []domain.OrderLine{
			{MedicineID: medicineID, Quantity: 1},
		},
	}
	_, err := s.repo.CreateOrder(s.ctx, order, false)
	s.Require().NoError(err)

	// A later manual log entry must win the MAX per patient.
	later := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	_, err = s.testDB.PgxPool.Exec(s.ctx, `
		INSERT INTO patient_logs (patient_id, activity, log_date)
		VALUES ($1, 'prescription reviewed', $2)`, patientID, later)
	s.Require().NoError(err)

	// A second patient with an order but no log rows lists with a null
	// log date.
	var quietPatientID, quietOrderID int64
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx, `
		INSERT INTO patients (first_name, last_name, created_at, updated_at)
		VALUES ('No', 'Logs', NOW(), NOW())
		RETURNING patient_id`).Scan(&quietPatientID))
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx, `
		INSERT INTO orders (patient_id) VALUES ($1)
		RETURNING order_id`, quietPatientID).Scan(&quietOrderID))
	_, err = s.testDB.PgxPool.Exec(s.ctx, `
		INSERT INTO order_items (order_id, medicine_id, quantity)
		VALUES ($1, $2, 1)`, quietOrderID, medicineID)
	s.Require().NoError(err)

	summaries, err := s.repo.ListSummaries(s.ctx)
	s.NoError(err)
	s.Require().Len(summaries, 2)

	byPatient := map[int64]domain.OrderSummary{}
	for _, sum := range summaries {
		byPatient[sum.PatientID] = sum
	}

	s.Require().NotNil(byPatient[patientID].LastLogDate)
	s.True(later.Equal(byPatient[patientID].LastLogDate.UTC()),
		"latest log entry must win per patient")
	s.Nil(byPatient[quietPatientID].LastLogDate,
		"patients with no log rows list with a null log date")
}

func (s *OrderRepositorySuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, 424242)
	s.ErrorIs(err, db.ErrNotFound)
}

func TestOrderRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositorySuite))
}
