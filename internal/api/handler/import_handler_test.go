package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jskelly/legisync/internal/config"
	"github.com/jskelly/legisync/internal/congress"
	"github.com/jskelly/legisync/internal/domain"
	"github.com/jskelly/legisync/internal/logger"
	"github.com/jskelly/legisync/internal/repository"
	"github.com/jskelly/legisync/internal/service"
)

// stubLister serves canned member lists per congress and records call order.
type stubLister struct {
	mu    sync.Mutex
	pages map[int][]congress.Member
	calls []int
}

func (s *stubLister) ListMembers(_ context.Context, congressNum int) ([]congress.Member, error) {
	s.mu.Lock()
	s.calls = append(s.calls, congressNum)
	s.mu.Unlock()
	return s.pages[congressNum], nil
}

type handlerFixture struct {
	handler  *ImportHandler
	lister   *stubLister
	lockRepo *repository.LockRepository
	router   *gin.Engine
}

func newFixture(t *testing.T, pages map[int][]congress.Member) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	log := logger.New(&logger.Config{Level: "error", Format: "text"})
	legislatorRepo := repository.NewLegislatorRepository(db)
	lockRepo := repository.NewLockRepository(db)

	lister := &stubLister{pages: pages}
	importService := service.NewImportService(lister, legislatorRepo, lockRepo, log, &service.ImportConfig{
		BatchSize:  10,
		BatchDelay: time.Millisecond,
	})

	h := NewImportHandler(importService, legislatorRepo, lockRepo, log, 101, 100)

	r := gin.New()
	r.GET("/api/v1/import/legislators", h.ImportLegislators)
	r.POST("/api/v1/import/legislators", h.ImportLegislators)
	r.GET("/api/v1/import/status", h.Status)

	return &handlerFixture{handler: h, lister: lister, lockRepo: lockRepo, router: r}
}

func member(id string) congress.Member {
	return congress.Member{BioguideID: id}
}

func (f *handlerFixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// TestImportLegislatorsDefaults verifies the configured default range is used
// when the request carries no query parameters.
func TestImportLegislatorsDefaults(t *testing.T) {
	f := newFixture(t, map[int][]congress.Member{
		101: {member("A000001"), member("A000002")},
		100: {member("A000003")},
	})

	w := f.do(t, http.MethodGet, "/api/v1/import/legislators")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var result domain.ImportResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != domain.ImportStatusSuccess {
		t.Errorf("Status = %q, want success", result.Status)
	}
	if result.Imported != 3 {
		t.Errorf("Imported = %d, want 3", result.Imported)
	}

	if got := f.lister.calls; len(got) != 2 || got[0] != 101 || got[1] != 100 {
		t.Errorf("sessions processed = %v, want [101 100]", got)
	}

	// Empty error list is omitted from the payload entirely
	if strings.Contains(w.Body.String(), "errors") {
		t.Errorf("response carries an errors key for a clean run: %s", w.Body.String())
	}
}

func TestImportLegislatorsExplicitRange(t *testing.T) {
	f := newFixture(t, map[int][]congress.Member{
		118: {member("A000009")},
	})

	w := f.do(t, http.MethodPost, "/api/v1/import/legislators?startCongress=118&endCongress=118")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := f.lister.calls; len(got) != 1 || got[0] != 118 {
		t.Errorf("sessions processed = %v, want [118]", got)
	}
}

func TestImportLegislatorsRejectsBadParams(t *testing.T) {
	testCases := []struct {
		name   string
		target string
	}{
		{"non-integer start", "/api/v1/import/legislators?startCongress=abc"},
		{"non-integer end", "/api/v1/import/legislators?endCongress=1.5"},
		{"reversed range", "/api/v1/import/legislators?startCongress=100&endCongress=101"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			w := f.do(t, http.MethodGet, tc.target)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if len(f.lister.calls) != 0 {
				t.Errorf("upstream called for an invalid request: %v", f.lister.calls)
			}
		})
	}
}

// TestImportLegislatorsLockedPassthrough: a held lock surfaces as a handled
// 200 response with the locked status, not an error code.
func TestImportLegislatorsLockedPassthrough(t *testing.T) {
	f := newFixture(t, map[int][]congress.Member{101: {member("A000001")}})

	if acquired, err := f.lockRepo.TryAcquire(context.Background(), service.LockKey(101, 100)); err != nil || !acquired {
		t.Fatalf("pre-acquire = (%v, %v), want (true, nil)", acquired, err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/import/legislators")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result domain.ImportResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != domain.ImportStatusLocked {
		t.Errorf("Status = %q, want locked", result.Status)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, map[int][]congress.Member{
		101: {member("A000001"), member("A000002")},
		100: nil,
	})

	// Populate the store through a run first
	if w := f.do(t, http.MethodGet, "/api/v1/import/legislators"); w.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200", w.Code)
	}

	w := f.do(t, http.MethodGet, "/api/v1/import/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var status StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Locked {
		t.Error("Locked = true with no import running, want false")
	}
	if status.Legislators != 2 {
		t.Errorf("Legislators = %d, want 2", status.Legislators)
	}
	if status.LockKey != service.LockKey(101, 100) {
		t.Errorf("LockKey = %q, want default-range key", status.LockKey)
	}
}
