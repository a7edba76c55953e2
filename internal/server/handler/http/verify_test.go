package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/educhain/records/internal/middleware"
	"github.com/educhain/records/internal/models"
	handler "github.com/educhain/records/internal/server/handler/http"
	"github.com/educhain/records/internal/service"
	"github.com/educhain/records/internal/token"
)

// fakeVerifyService records calls and returns preconfigured results.
type fakeVerifyService struct {
	called             bool
	receivedIdentifier string

	subject *service.VerifiedSubject
	err     error
}

func (f *fakeVerifyService) Verify(ctx context.Context, identifier string) (*service.VerifiedSubject, error) {
	f.called = true
	f.receivedIdentifier = identifier
	return f.subject, f.err
}

// fakeShareService records calls and returns preconfigured results.
type fakeShareService struct {
	link    string
	issued  token.Token
	subject *service.VerifiedSubject
	err     error
}

func (f *fakeShareService) IssueShareLink(ctx context.Context, studentID string, validity time.Duration) (string, token.Token, error) {
	return f.link, f.issued, f.err
}

func (f *fakeShareService) SharedRecords(ctx context.Context, rawToken string) (*service.VerifiedSubject, error) {
	return f.subject, f.err
}

func testSubject() *service.VerifiedSubject {
	return &service.VerifiedSubject{
		StudentID:     "STU-2024-001",
		Name:          "Alice Johnson",
		WalletAddress: "ST2TESTADDRESS",
		Records: []models.AcademicRecord{
			{ID: "REC-001", Course: "Blockchain Fundamentals", Grade: "A+", Year: 2023, Verified: true, TransactionID: "0xabc"},
		},
	}
}

// newTestRouter wires the handlers into the full router so URL
// parameters resolve as in production.
func newTestRouter(verify handler.VerifyService, share handler.ShareService) (http.Handler, func()) {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(1000),
		Burst:           1000,
		CleanupInterval: time.Hour,
	}, zap.NewNop())
	router := handler.NewRouter(
		&handler.VerifyHandler{VerifyService: verify},
		&handler.ShareHandler{ShareService: share},
		limiter,
		prometheus.NewRegistry(),
		zap.NewNop(),
	)
	return router, limiter.Stop
}

func TestVerifyHandler_Success(t *testing.T) {
	fake := &fakeVerifyService{subject: testSubject()}
	router, stop := newTestRouter(fake, &fakeShareService{})
	defer stop()

	req := httptest.NewRequest(http.MethodGet, "/api/verify/STU-2024-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want %q", ct, "application/json")
	}
	if fake.receivedIdentifier != "STU-2024-001" {
		t.Errorf("identifier = %q; want STU-2024-001", fake.receivedIdentifier)
	}

	var resp service.VerifiedSubject
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if resp.StudentID != "STU-2024-001" {
		t.Errorf("student id = %q; want STU-2024-001", resp.StudentID)
	}
	if len(resp.Records) != 1 {
		t.Errorf("got %d records; want 1", len(resp.Records))
	}
}

func TestVerifyHandler_NotFound(t *testing.T) {
	fake := &fakeVerifyService{err: service.ErrNotFound}
	router, stop := newTestRouter(fake, &fakeShareService{})
	defer stop()

	req := httptest.NewRequest(http.MethodGet, "/api/verify/STU-0000-000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want %d", w.Code, http.StatusNotFound)
	}
}

func TestVerifyHandler_ServiceError(t *testing.T) {
	fake := &fakeVerifyService{err: errors.New("db down")}
	router, stop := newTestRouter(fake, &fakeShareService{})
	defer stop()

	req := httptest.NewRequest(http.MethodGet, "/api/verify/STU-2024-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	router, stop := newTestRouter(&fakeVerifyService{}, &fakeShareService{})
	defer stop()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want %d", w.Code, http.StatusOK)
	}
}
