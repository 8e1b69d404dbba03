package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

type fakeCatalogStore struct {
	listCategoriesInactive bool
	categories             []models.Category
	category               *models.Category
	categoryErr            error
	createdCategory        NewCategory
	categoryPatch          CategoryPatch

	listCategory string
	listSearch   string
	classes      []models.Class
	class        *models.Class
	classErr     error
	createdClass NewClass
	classPatch   ClassPatch
}

func (f *fakeCatalogStore) ListCategories(ctx context.Context, tenantID int64, includeInactive bool) ([]models.Category, error) {
	f.listCategoriesInactive = includeInactive
	return f.categories, nil
}

func (f *fakeCatalogStore) GetCategory(ctx context.Context, tenantID int64, id string) (*models.Category, error) {
	return f.category, f.categoryErr
}

func (f *fakeCatalogStore) CreateCategory(ctx context.Context, tenantID int64, in NewCategory) (*models.Category, error) {
	f.createdCategory = in
	return f.category, f.categoryErr
}

func (f *fakeCatalogStore) UpdateCategory(ctx context.Context, tenantID int64, id string, patch CategoryPatch) (*models.Category, error) {
	f.categoryPatch = patch
	return f.category, f.categoryErr
}

func (f *fakeCatalogStore) ListClasses(ctx context.Context, tenantID int64, category, search string) ([]models.Class, error) {
	f.listCategory = category
	f.listSearch = search
	return f.classes, nil
}

func (f *fakeCatalogStore) GetClass(ctx context.Context, tenantID int64, id string) (*models.Class, error) {
	return f.class, f.classErr
}

func (f *fakeCatalogStore) CreateClass(ctx context.Context, tenantID int64, in NewClass) (*models.Class, error) {
	f.createdClass = in
	return f.class, f.classErr
}

func (f *fakeCatalogStore) UpdateClass(ctx context.Context, tenantID int64, id string, patch ClassPatch) (*models.Class, error) {
	f.classPatch = patch
	return f.class, f.classErr
}

func newCatalogRouter(store *fakeCatalogStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(tenant.ContextTenantID, int64(3))
		c.Next()
	})
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:id", h.GetCategory)
	r.POST("/categories", h.CreateCategory)
	r.PUT("/categories/:id", h.UpdateCategory)
	r.GET("/classes", h.ListClasses)
	r.GET("/classes/:id", h.GetClass)
	r.POST("/classes", h.CreateClass)
	r.PUT("/classes/:id", h.UpdateClass)
	return r
}

func TestListCategoriesIncludeInactive(t *testing.T) {
	store := &fakeCatalogStore{categories: []models.Category{}}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.listCategoriesInactive {
		t.Fatal("expected inactive excluded by default")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories?includeInactive=true", nil))
	if !store.listCategoriesInactive {
		t.Fatal("expected includeInactive=true to pass through")
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	store := &fakeCatalogStore{categoryErr: apperror.ErrNotFound}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateCategoryRequiresID(t *testing.T) {
	store := &fakeCatalogStore{}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Yoga"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateCategorySparsePatch(t *testing.T) {
	store := &fakeCatalogStore{category: &models.Category{ID: "yoga"}}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/categories/yoga", strings.NewReader(`{"sort_order":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	p := store.categoryPatch
	if p.SortOrder == nil || *p.SortOrder != 5 {
		t.Fatalf("expected sort_order patch of 5, got %+v", p.SortOrder)
	}
	if p.Name != nil || p.DisplayName != nil || p.Icon != nil || p.Active != nil {
		t.Fatalf("expected omitted fields to stay nil, got %+v", p)
	}
}

func TestListClassesPassesFilters(t *testing.T) {
	store := &fakeCatalogStore{classes: []models.Class{}}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classes?category=all&search=intro", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.listCategory != "all" || store.listSearch != "intro" {
		t.Fatalf("expected filters to pass through, got %q %q", store.listCategory, store.listSearch)
	}
}

func TestListClassesEmptyResultIsArray(t *testing.T) {
	store := &fakeCatalogStore{classes: []models.Class{}}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classes?category=nonexistent", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if strings.TrimSpace(string(body.Data)) != "[]" {
		t.Fatalf("expected empty array, got %s", body.Data)
	}
}

func TestUpdateClassSparsePatch(t *testing.T) {
	store := &fakeCatalogStore{class: &models.Class{ID: "yoga-101"}}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/classes/yoga-101",
		strings.NewReader(`{"tuition_cents":4500,"badge":"Popular"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	p := store.classPatch
	if p.TuitionCents == nil || *p.TuitionCents != 4500 {
		t.Fatalf("expected tuition patch, got %+v", p.TuitionCents)
	}
	if p.Badge == nil || *p.Badge != "Popular" {
		t.Fatalf("expected badge patch, got %+v", p.Badge)
	}
	if p.Name != nil || p.Level != nil || p.Category != nil || p.Active != nil {
		t.Fatalf("expected omitted fields to stay nil, got %+v", p)
	}
}

func TestCreateClassValidationError(t *testing.T) {
	store := &fakeCatalogStore{classErr: apperror.ErrValidation}
	r := newCatalogRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/classes",
		strings.NewReader(`{"id":"yoga-101","name":"Yoga","level":"Beginner","tuition_cents":-5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
