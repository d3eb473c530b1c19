package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/audit"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/cardscan"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/handler"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/parser"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/resolver"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/service"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/config"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/database"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/testutil"
)

type stubVision struct {
	configured bool
	reply      string
}

func (s *stubVision) Configured() bool { return s.configured }

func (s *stubVision) Complete(ctx context.Context, prompt, imageDataURL string) (string, error) {
	return s.reply, nil
}

func newTestRouter(v cardscan.VisionClient) http.Handler {
	return newTestRouterWithAudit(v, nil)
}

func newTestRouterWithAudit(v cardscan.VisionClient, auditRepo *audit.Repository) http.Handler {
	log := logger.New("test", "development")
	registry := parser.NewRegistry(
		parser.NewMailtoParser(),
		parser.NewTelParser(),
		parser.NewVCardParser(),
		resolver.New(&config.CrawlerConfig{BaseURL: "http://localhost:0", Timeout: 100 * time.Millisecond}, log),
		parser.NewPlainTextParser(),
	)
	svc := service.New(registry, nil, nil, log)
	scanner := cardscan.NewScanner(v, nil, nil, log)

	r := chi.NewRouter()
	r.Route("/api/v1", handler.NewHandler(svc, scanner, auditRepo, log).Routes)
	return r
}

func doJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScanQRCode(t *testing.T) {
	router := newTestRouter(&stubVision{})

	rec := doJSON(t, router, "/api/v1/scans/qrcode", `{"text":"ABC123XYZ"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Success bool   `json:"success"`
		Type    string `json:"type"`
		Data    struct {
			EntryCode  string  `json:"entryCode"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success || result.Type != "entry_code" {
		t.Errorf("result = %+v, want entry_code success", result)
	}
	if result.Data.EntryCode != "ABC123XYZ" || result.Data.Confidence != 1.0 {
		t.Errorf("data = %+v", result.Data)
	}
}

func TestScanQRCode_EmptyTextIsPipelineFailure(t *testing.T) {
	router := newTestRouter(&stubVision{})

	// An empty payload is a valid request; it produces a structured
	// failure result at 200, not a transport-level 400.
	rec := doJSON(t, router, "/api/v1/scans/qrcode", `{"text":""}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Error != "QR code text is empty" {
		t.Errorf("Error = %q, want %q", result.Error, "QR code text is empty")
	}
}

func TestScanQRCode_MalformedBody(t *testing.T) {
	router := newTestRouter(&stubVision{})

	rec := doJSON(t, router, "/api/v1/scans/qrcode", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanQRCodeBatch(t *testing.T) {
	router := newTestRouter(&stubVision{})

	rec := doJSON(t, router, "/api/v1/scans/qrcode/batch",
		`{"texts":["ABC123XYZ","mailto:a@b.com"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Results []struct {
			Success bool   `json:"success"`
			Type    string `json:"type"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0].Type != "entry_code" || result.Results[1].Type != "mailto" {
		t.Errorf("types = %s, %s", result.Results[0].Type, result.Results[1].Type)
	}
}

func TestScanQRCodeBatch_EmptyListRejected(t *testing.T) {
	router := newTestRouter(&stubVision{})

	rec := doJSON(t, router, "/api/v1/scans/qrcode/batch", `{"texts":[]}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanCard_MissingImageRejected(t *testing.T) {
	router := newTestRouter(&stubVision{configured: true})

	rec := doJSON(t, router, "/api/v1/scans/card", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanCard(t *testing.T) {
	router := newTestRouter(&stubVision{
		configured: true,
		reply:      `{"firstName":"Jane","lastName":"Smith"}`,
	})

	rec := doJSON(t, router, "/api/v1/scans/card", `{"image":"aGVsbG8="}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Details struct {
				FirstName string `json:"firstName"`
			} `json:"details"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success {
		t.Fatal("Success = false, want true")
	}
	if result.Data.Details.FirstName != "Jane" {
		t.Errorf("FirstName = %q, want Jane", result.Data.Details.FirstName)
	}
	if result.Data.Confidence != 0.33 {
		t.Errorf("Confidence = %v, want 0.33 (2 of 6 fields)", result.Data.Confidence)
	}
}

func TestScanCard_NotConfigured(t *testing.T) {
	router := newTestRouter(&stubVision{configured: false})

	rec := doJSON(t, router, "/api/v1/scans/card", `{"image":"aGVsbG8="}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Error == "" {
		t.Error("Error is empty, want a credential-missing message")
	}
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecentAudit(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	log := logger.New("test", "development")
	auditRepo := audit.NewRepository(database.NewWithDB(mockDB.DB, log), log)
	router := newTestRouterWithAudit(&stubVision{}, auditRepo)

	rows := sqlmock.NewRows([]string{
		"id", "scan_type", "payload_type", "success",
		"fields_extracted", "confidence", "duration_ms", "created_at",
	}).AddRow("scan-1", audit.ScanTypeQRCode, "mailto", true, "email", 1.0, 12, time.Now())
	mockDB.ExpectQuery("SELECT id, scan_type, payload_type, success, fields_extracted, confidence, duration_ms, created_at").
		WithArgs(50).
		WillReturnRows(rows)

	rec := doGet(t, router, "/api/v1/scans/audit")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result struct {
		Success bool `json:"success"`
		Data    []struct {
			ID          string  `json:"id"`
			ScanType    string  `json:"scanType"`
			PayloadType string  `json:"payloadType"`
			Confidence  float64 `json:"confidence"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if len(result.Data) != 1 {
		t.Fatalf("got %d entries, want 1", len(result.Data))
	}
	if result.Data[0].ID != "scan-1" || result.Data[0].ScanType != audit.ScanTypeQRCode {
		t.Errorf("entry = %+v", result.Data[0])
	}
	mockDB.AssertExpectations(t)
}

func TestRecentAudit_InvalidLimit(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	log := logger.New("test", "development")
	auditRepo := audit.NewRepository(database.NewWithDB(mockDB.DB, log), log)
	router := newTestRouterWithAudit(&stubVision{}, auditRepo)

	rec := doGet(t, router, "/api/v1/scans/audit?limit=abc")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecentAudit_NotEnabled(t *testing.T) {
	router := newTestRouter(&stubVision{})

	rec := doGet(t, router, "/api/v1/scans/audit")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var result struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Error.Code != "CONFIGURATION_ERROR" {
		t.Errorf("error code = %q, want CONFIGURATION_ERROR", result.Error.Code)
	}
}
