package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

type fakeSessionStore struct {
	upsertTenant int64
	upsertInput  SessionInput
	upsertResult *models.Session
	upsertErr    error
	getResult    *models.Session
	getErr       error
	listResult   []models.Session
	listFuture   bool
	releaseErr   error
	deleteErr    error
	deletedID    string
}

func (f *fakeSessionStore) ListForClass(ctx context.Context, tenantID int64, classID string, futureOnly bool) ([]models.Session, error) {
	f.listFuture = futureOnly
	return f.listResult, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, tenantID int64, id string) (*models.Session, error) {
	return f.getResult, f.getErr
}

func (f *fakeSessionStore) Upsert(ctx context.Context, tenantID int64, in SessionInput) (*models.Session, error) {
	f.upsertTenant = tenantID
	f.upsertInput = in
	return f.upsertResult, f.upsertErr
}

func (f *fakeSessionStore) ReleaseSeat(ctx context.Context, tenantID int64, sessionID string) (*models.Session, error) {
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	return f.getResult, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, tenantID int64, id string) error {
	f.deletedID = id
	return f.deleteErr
}

func withTenant(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(tenant.ContextTenantID, id)
		c.Next()
	}
}

func newSessionRouter(store *fakeSessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store)
	r := gin.New()
	r.Use(withTenant(7))
	r.GET("/classes/:id/sessions", h.ListForClass)
	r.GET("/sessions/:id", h.Get)
	r.POST("/sessions", h.Create)
	r.PUT("/sessions/:id", h.Update)
	r.POST("/sessions/:id/release-seat", h.ReleaseSeat)
	r.DELETE("/sessions/:id", h.Delete)
	return r
}

func TestCreateSessionParsesInput(t *testing.T) {
	store := &fakeSessionStore{upsertResult: &models.Session{ID: "sess-1", MaxSeats: 10, AvailableSeats: 10}}
	r := newSessionRouter(store)

	body := `{"id":"sess-1","class_id":"yoga-101","date":"2026-10-01","start_time":"09:00","end_time":"10:30","max_seats":10}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.upsertTenant != 7 {
		t.Fatalf("expected tenant 7, got %d", store.upsertTenant)
	}
	in := store.upsertInput
	if in.ID != "sess-1" || in.ClassID != "yoga-101" || in.MaxSeats != 10 {
		t.Fatalf("unexpected input: %+v", in)
	}
	want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	if !in.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, in.Date)
	}
}

func TestUpdateSessionUsesPathID(t *testing.T) {
	store := &fakeSessionStore{upsertResult: &models.Session{ID: "sess-9"}}
	r := newSessionRouter(store)

	body := `{"id":"ignored","class_id":"yoga-101","date":"2026-10-01","start_time":"09:00","end_time":"10:30"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/sessions/sess-9", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.upsertInput.ID != "sess-9" {
		t.Fatalf("expected path id sess-9, got %q", store.upsertInput.ID)
	}
}

func TestCreateSessionRejectsBadDate(t *testing.T) {
	store := &fakeSessionStore{}
	r := newSessionRouter(store)

	body := `{"class_id":"yoga-101","date":"October 1st","start_time":"09:00","end_time":"10:30"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	store := &fakeSessionStore{getErr: apperror.ErrNotFound}
	r := newSessionRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListSessionsFutureOnlyDefault(t *testing.T) {
	store := &fakeSessionStore{listResult: []models.Session{}}
	r := newSessionRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/classes/yoga-101/sessions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !store.listFuture {
		t.Fatal("expected futureOnly to default to true")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/classes/yoga-101/sessions?futureOnly=false", nil)
	r.ServeHTTP(w, req)
	if store.listFuture {
		t.Fatal("expected futureOnly=false to pass through")
	}
}

func TestReleaseSeatAtCapacity(t *testing.T) {
	store := &fakeSessionStore{releaseErr: apperror.ErrValidation}
	r := newSessionRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/sess-1/release-seat", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	store := &fakeSessionStore{}
	r := newSessionRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/sessions/sess-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if store.deletedID != "sess-1" {
		t.Fatalf("expected sess-1 deleted, got %q", store.deletedID)
	}
}

func TestSessionEndpointsRequireTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&fakeSessionStore{})
	r := gin.New()
	r.GET("/sessions/:id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/sess-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without tenant context, got %d", w.Code)
	}
}
