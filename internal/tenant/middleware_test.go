package tenant

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

func newAuthRouter(svc *TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, err := FromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tenant_id": id})
	})
	r.GET("/probe", handlers...)
	return r
}

func TestAuthenticateResolvesTenant(t *testing.T) {
	svc := NewTokenService("test-secret", 1)
	token, err := svc.Generate(7, "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	r := newAuthRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r := newAuthRouter(NewTokenService("test-secret", 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	r := newAuthRouter(NewTokenService("test-secret", 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	foreign, err := NewTokenService("other-secret", 1).Generate(7, "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	r := newAuthRouter(NewTokenService("test-secret", 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	svc := NewTokenService("test-secret", 1)
	memberToken, err := svc.Generate(7, "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	adminToken, err := svc.Generate(7, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	r := newAuthRouter(svc, RequireRole("admin"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestFromContextWithoutTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, err := FromContext(c); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
