// internal/handlers/reports_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/handlers"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
)

// stubArchive is a canned ReportArchive for handler tests.
type stubArchive struct {
	presignURL string
	presignErr error
}

func (s *stubArchive) StoreReport(ctx context.Context, reportType string, data []byte) (string, error) {
	return fmt.Sprintf("reports/%s/stub.xlsx", reportType), nil
}

func (s *stubArchive) FetchReport(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (s *stubArchive) PresignReport(ctx context.Context, key string, duration time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return s.presignURL, nil
}

func (s *stubArchive) ListReports(ctx context.Context, reportType string) ([]string, error) {
	return nil, nil
}

func (s *stubArchive) DeleteReport(ctx context.Context, key string) error {
	return nil
}

func (s *stubArchive) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func TestReportHandler_ReportStatus(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	archive := &stubArchive{presignURL: "https://archive.example.com/reports/sales/abc.xlsx?sig=x"}

	handler := handlers.NewReportHandler(nil, archive, cache, helpers.TestLogger())

	statusFor := func(t *testing.T, jobID string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/status/"+jobID, nil)
		req.SetPathValue("jobId", jobID)
		rec := httptest.NewRecorder()
		handler.ReportStatus(rec, req)
		return rec
	}

	t.Run("invalid job ID", func(t *testing.T) {
		rec := statusFor(t, "not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Invalid job ID format", body["error"])
	})

	t.Run("pending job", func(t *testing.T) {
		jobID := uuid.New().String()
		rec := statusFor(t, jobID)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, jobID, body["job_id"])
		assert.NotContains(t, body, "download_url")
	})

	t.Run("completed job", func(t *testing.T) {
		jobID := uuid.New().String()
		key := redis_a.BuildKey(redis_a.PrefixReport, jobID)
		require.NoError(t, cache.Set(context.Background(), key, "reports/sales/abc.xlsx"))

		rec := statusFor(t, jobID)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		assert.Equal(t, archive.presignURL, body["download_url"])
		assert.Equal(t, "15m", body["expires_in"])
	})

	t.Run("presign failure", func(t *testing.T) {
		jobID := uuid.New().String()
		key := redis_a.BuildKey(redis_a.PrefixReport, jobID)
		require.NoError(t, cache.Set(context.Background(), key, "reports/sales/gone.xlsx"))

		archive.presignErr = fmt.Errorf("bucket unreachable")
		defer func() { archive.presignErr = nil }()

		rec := statusFor(t, jobID)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Failed to generate download link", body["error"])
	})
}

func TestReportHandler_RequestSalesReport_Validation(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	// Validation failures never reach the queue, so a nil asynq client is fine.
	handler := handlers.NewReportHandler(nil, &stubArchive{}, cache, helpers.TestLogger())

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{
			name:          "malformed JSON",
			body:          `{"from": not-a-date}`,
			expectedError: "Invalid request body",
		},
		{
			name:          "from after to",
			body:          `{"from": "2026-02-01T00:00:00Z", "to": "2026-01-01T00:00:00Z"}`,
			expectedError: "from must be before to",
		},
		{
			name:          "from equals to",
			body:          `{"from": "2026-01-01T00:00:00Z", "to": "2026-01-01T00:00:00Z"}`,
			expectedError: "from must be before to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/sales",
				bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.RequestSalesReport(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}
