// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// DashboardHandler serves the cached admin dashboard read models
type DashboardHandler struct {
	db     *db.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *db.Database, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardData is the main dashboard payload
type DashboardData struct {
	Timestamp    time.Time          `json:"timestamp"`
	Summary      DashboardSummary   `json:"summary"`
	LowStock     []LowStockEntry    `json:"low_stock"`
	RecentOrders []RecentOrderEntry `json:"recent_orders"`
}

// DashboardSummary holds the headline counters
type DashboardSummary struct {
	TotalMedicines int64           `json:"total_medicines"`
	TotalPatients  int64           `json:"total_patients"`
	TotalOrders    int64           `json:"total_orders"`
	LowStockCount  int64           `json:"low_stock_count"`
	RevenueMonth   decimal.Decimal `json:"revenue_month"`
}

// LowStockEntry is one medicine at or below its reorder level
type LowStockEntry struct {
	MedicineID   int64  `json:"medicine_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
}

// RecentOrderEntry is one row in the recent orders panel
type RecentOrderEntry struct {
	OrderID     int64     `json:"order_id"`
	PatientName string    `json:"patient_name"`
	ItemCount   int       `json:"item_count"`
	OrderDate   time.Time `json:"order_date"`
}

// AnalyticsData is the analytics payload for a period
type AnalyticsData struct {
	Period       string             `json:"period"`
	Timestamp    time.Time          `json:"timestamp"`
	OrdersPerDay []DailyOrderCount  `json:"orders_per_day"`
	TopMedicines []TopMedicineEntry `json:"top_medicines"`
	Revenue      decimal.Decimal    `json:"revenue"`
}

// DailyOrderCount is one point in the orders-per-day series
type DailyOrderCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// TopMedicineEntry is one medicine ranked by quantity ordered
type TopMedicineEntry struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

// GetAnalytics handles GET /api/v1/dashboard/analytics?period=
func (h *DashboardHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "analytics", period)
	var analytics AnalyticsData

	err := h.cache.GetOrSet(ctx, cacheKey, &analytics, func() (interface{}, error) {
		return h.loadAnalyticsData(ctx, period)
	}, 15*time.Minute)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load analytics",
			slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to load analytics")
		return
	}

	h.respondJSON(w, http.StatusOK, analytics)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	summaryQuery := `
		SELECT
			(SELECT COUNT(*) FROM medicines WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM patients WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM inventory WHERE quantity <= reorder_level),
			COALESCE((
				SELECT SUM(oi.quantity * m.unit_price)
				FROM orders o
				JOIN order_items oi ON oi.order_id = o.order_id
				JOIN medicines m ON m.medicine_id = oi.medicine_id
				WHERE o.order_date >= date_trunc('month', NOW())
			), 0)`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.Summary.TotalMedicines,
		&dashboard.Summary.TotalPatients,
		&dashboard.Summary.TotalOrders,
		&dashboard.Summary.LowStockCount,
		&dashboard.Summary.RevenueMonth,
	)
	if err != nil {
		return nil, err
	}

	lowStockQuery := `
		SELECT i.medicine_id, m.name, i.quantity, i.reorder_level
		FROM inventory i
		JOIN medicines m ON m.medicine_id = i.medicine_id
		WHERE i.quantity <= i.reorder_level AND m.deleted_at IS NULL
		ORDER BY i.quantity ASC
		LIMIT 10`

	rows, err := h.db.Query(ctx, lowStockQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry LowStockEntry
		if err := rows.Scan(&entry.MedicineID, &entry.Name, &entry.Quantity, &entry.ReorderLevel); err != nil {
			return nil, err
		}
		dashboard.LowStock = append(dashboard.LowStock, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT o.order_id,
		       p.first_name || ' ' || p.last_name AS patient_name,
		       COUNT(oi.item_id) AS item_count,
		       o.order_date
		FROM orders o
		JOIN patients p ON p.patient_id = o.patient_id
		LEFT JOIN order_items oi ON oi.order_id = o.order_id
		GROUP BY o.order_id, patient_name, o.order_date
		ORDER BY o.order_id DESC
		LIMIT 10`

	recentRows, err := h.db.Query(ctx, recentQuery)
	if err != nil {
		return nil, err
	}
	defer recentRows.Close()

	for recentRows.Next() {
		var entry RecentOrderEntry
		if err := recentRows.Scan(&entry.OrderID, &entry.PatientName, &entry.ItemCount, &entry.OrderDate); err != nil {
			return nil, err
		}
		dashboard.RecentOrders = append(dashboard.RecentOrders, entry)
	}
	if err := recentRows.Err(); err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (h *DashboardHandler) loadAnalyticsData(ctx context.Context, period string) (*AnalyticsData, error) {
	analytics := &AnalyticsData{
		Period:    period,
		Timestamp: time.Now(),
	}

	var since time.Time
	switch period {
	case "7d":
		since = time.Now().AddDate(0, 0, -7)
	case "90d":
		since = time.Now().AddDate(0, 0, -90)
	case "1y":
		since = time.Now().AddDate(-1, 0, 0)
	default:
		since = time.Now().AddDate(0, 0, -30)
	}

	perDayQuery := `
		SELECT date_trunc('day', order_date) AS day, COUNT(*)
		FROM orders
		WHERE order_date >= $1
		GROUP BY day
		ORDER BY day`

	rows, err := h.db.Query(ctx, perDayQuery, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point DailyOrderCount
		if err := rows.Scan(&point.Day, &point.Count); err != nil {
			return nil, err
		}
		analytics.OrdersPerDay = append(analytics.OrdersPerDay, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topQuery := `
		SELECT m.medicine_id, m.name, SUM(oi.quantity) AS quantity
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		JOIN medicines m ON m.medicine_id = oi.medicine_id
		WHERE o.order_date >= $1
		GROUP BY m.medicine_id, m.name
		ORDER BY quantity DESC
		LIMIT 10`

	topRows, err := h.db.Query(ctx, topQuery, since)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()

	for topRows.Next() {
		var entry TopMedicineEntry
		if err := topRows.Scan(&entry.MedicineID, &entry.Name, &entry.Quantity); err != nil {
			return nil, err
		}
		analytics.TopMedicines = append(analytics.TopMedicines, entry)
	}
	if err := topRows.Err(); err != nil {
		return nil, err
	}

	revenueQuery := `
		SELECT COALESCE(SUM(oi.quantity * m.unit_price), 0)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		JOIN medicines m ON m.medicine_id = oi.medicine_id
		WHERE o.order_date >= $1`

	if err := h.db.QueryRow(ctx, revenueQuery, since).Scan(&analytics.Revenue); err != nil {
		return nil, err
	}

	return analytics, nil
}

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
