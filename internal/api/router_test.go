package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jskelly/legisync/internal/api/handler"
	"github.com/jskelly/legisync/internal/logger"
)

// TestRecoveryProducesDiagnostic500 verifies an unhandled panic surfaces as a
// 500 with the diagnostic body instead of dropping the connection.
func TestRecoveryProducesDiagnostic500(t *testing.T) {
	log := logger.New(&logger.Config{Level: "error", Format: "text"})
	importHandler := handler.NewImportHandler(nil, nil, nil, log, 119, 100)

	r := SetupRouter(importHandler, log, "test")
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "error" {
		t.Errorf("status field = %q, want error", body["status"])
	}
	if body["type"] != "unhandled" {
		t.Errorf("type field = %q, want unhandled", body["type"])
	}
	if body["message"] == "" || body["timestamp"] == "" {
		t.Errorf("diagnostic fields missing: %v", body)
	}
}

func TestHealthRoute(t *testing.T) {
	log := logger.New(&logger.Config{Level: "error", Format: "text"})
	importHandler := handler.NewImportHandler(nil, nil, nil, log, 119, 100)

	r := SetupRouter(importHandler, log, "test")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// TestImportRoutePreflight covers the trigger endpoint's OPTIONS contract
// through the fully assembled router.
func TestImportRoutePreflight(t *testing.T) {
	log := logger.New(&logger.Config{Level: "error", Format: "text"})
	importHandler := handler.NewImportHandler(nil, nil, nil, log, 119, 100)

	r := SetupRouter(importHandler, log, "test")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/import/legislators", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q, want GET, POST, OPTIONS", got)
	}
}
