package catalog

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/response"
)

// Store is the catalog persistence surface consumed by the handler.
type Store interface {
	ListCategories(ctx context.Context, tenantID int64, includeInactive bool) ([]models.Category, error)
	GetCategory(ctx context.Context, tenantID int64, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, tenantID int64, in NewCategory) (*models.Category, error)
	UpdateCategory(ctx context.Context, tenantID int64, id string, patch CategoryPatch) (*models.Category, error)
	ListClasses(ctx context.Context, tenantID int64, category, search string) ([]models.Class, error)
	GetClass(ctx context.Context, tenantID int64, id string) (*models.Class, error)
	CreateClass(ctx context.Context, tenantID int64, in NewClass) (*models.Class, error)
	UpdateClass(ctx context.Context, tenantID int64, id string, patch ClassPatch) (*models.Class, error)
}

// Handler handles catalog HTTP endpoints.
type Handler struct {
	store Store
	cache *Cache
}

// NewHandler creates a catalog handler. cache may be nil.
func NewHandler(store Store, cache *Cache) *Handler {
	return &Handler{store: store, cache: cache}
}

// ListCategories handles GET /categories. Query ?includeInactive=true also
// returns deactivated categories.
func (h *Handler) ListCategories(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	includeInactive := c.Query("includeInactive") == "true"

	variant := "categories:active"
	if includeInactive {
		variant = "categories:all"
	}
	var cached []models.Category
	if h.cache.GetList(c.Request.Context(), tenantID, variant, &cached) {
		response.OK(c, cached)
		return
	}

	list, err := h.store.ListCategories(c.Request.Context(), tenantID, includeInactive)
	if err != nil {
		response.Error(c, err, "failed to fetch categories")
		return
	}
	h.cache.SetList(c.Request.Context(), tenantID, variant, list)
	response.OK(c, list)
}

// GetCategory handles GET /categories/:id.
func (h *Handler) GetCategory(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	cat, err := h.store.GetCategory(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err, "category not found")
		return
	}
	response.OK(c, cat)
}

// CategoryRequest is the body for POST /categories.
type CategoryRequest struct {
	ID          string  `json:"id" binding:"required"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Icon        *string `json:"icon"`
	SortOrder   int     `json:"sort_order"`
	Active      *bool   `json:"active"`
}

// CreateCategory handles POST /categories (admin only).
func (h *Handler) CreateCategory(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat, err := h.store.CreateCategory(c.Request.Context(), tenantID, NewCategory{
		ID:          req.ID,
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		response.Error(c, err, "failed to create category")
		return
	}
	h.cache.Invalidate(c.Request.Context(), tenantID)
	response.Created(c, cat)
}

// CategoryPatchRequest is the body for PUT /categories/:id. Absent fields
// keep their prior values.
type CategoryPatchRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
	Active      *bool   `json:"active"`
}

// UpdateCategory handles PUT /categories/:id (admin only).
func (h *Handler) UpdateCategory(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req CategoryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat, err := h.store.UpdateCategory(c.Request.Context(), tenantID, c.Param("id"), CategoryPatch{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		response.Error(c, err, "category not found")
		return
	}
	h.cache.Invalidate(c.Request.Context(), tenantID)
	response.OK(c, cat)
}

// ListClasses handles GET /classes. Query ?category= filters by category
// ("all" means no filter) and ?search= matches name, summary and description.
func (h *Handler) ListClasses(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	category := c.Query("category")
	search := c.Query("search")

	variant := "classes:" + category + ":" + search
	var cached []models.Class
	if h.cache.GetList(c.Request.Context(), tenantID, variant, &cached) {
		response.OK(c, cached)
		return
	}

	list, err := h.store.ListClasses(c.Request.Context(), tenantID, category, search)
	if err != nil {
		response.Error(c, err, "failed to fetch classes")
		return
	}
	h.cache.SetList(c.Request.Context(), tenantID, variant, list)
	response.OK(c, list)
}

// GetClass handles GET /classes/:id.
func (h *Handler) GetClass(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	cl, err := h.store.GetClass(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err, "class not found")
		return
	}
	response.OK(c, cl)
}

// ClassRequest is the body for POST /classes.
type ClassRequest struct {
	ID            string  `json:"id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Level         string  `json:"level" binding:"required"`
	Duration      *string `json:"duration"`
	TuitionCents  int64   `json:"tuition_cents"`
	Category      string  `json:"category"`
	SortOrder     int     `json:"sort_order"`
	Badge         *string `json:"badge"`
	Summary       *string `json:"summary"`
	Description   *string `json:"description"`
	Highlights    *string `json:"highlights"`
	Equipment     *string `json:"equipment"`
	Prerequisites *string `json:"prerequisites"`
	Active        *bool   `json:"active"`
}

// CreateClass handles POST /classes (admin only).
func (h *Handler) CreateClass(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cl, err := h.store.CreateClass(c.Request.Context(), tenantID, NewClass{
		ID:            req.ID,
		Name:          req.Name,
		Level:         req.Level,
		Duration:      req.Duration,
		TuitionCents:  req.TuitionCents,
		Category:      req.Category,
		SortOrder:     req.SortOrder,
		Badge:         req.Badge,
		Summary:       req.Summary,
		Description:   req.Description,
		Highlights:    req.Highlights,
		Equipment:     req.Equipment,
		Prerequisites: req.Prerequisites,
		Active:        req.Active,
	})
	if err != nil {
		response.Error(c, err, "failed to create class")
		return
	}
	h.cache.Invalidate(c.Request.Context(), tenantID)
	response.Created(c, cl)
}

// ClassPatchRequest is the body for PUT /classes/:id. Absent fields keep
// their prior values.
type ClassPatchRequest struct {
	Name          *string `json:"name"`
	Level         *string `json:"level"`
	Duration      *string `json:"duration"`
	TuitionCents  *int64  `json:"tuition_cents"`
	Category      *string `json:"category"`
	SortOrder     *int    `json:"sort_order"`
	Badge         *string `json:"badge"`
	Summary       *string `json:"summary"`
	Description   *string `json:"description"`
	Highlights    *string `json:"highlights"`
	Equipment     *string `json:"equipment"`
	Prerequisites *string `json:"prerequisites"`
	Active        *bool   `json:"active"`
}

// UpdateClass handles PUT /classes/:id (admin only).
func (h *Handler) UpdateClass(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req ClassPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cl, err := h.store.UpdateClass(c.Request.Context(), tenantID, c.Param("id"), ClassPatch{
		Name:          req.Name,
		Level:         req.Level,
		Duration:      req.Duration,
		TuitionCents:  req.TuitionCents,
		Category:      req.Category,
		SortOrder:     req.SortOrder,
		Badge:         req.Badge,
		Summary:       req.Summary,
		Description:   req.Description,
		Highlights:    req.Highlights,
		Equipment:     req.Equipment,
		Prerequisites: req.Prerequisites,
		Active:        req.Active,
	})
	if err != nil {
		response.Error(c, err, "class not found")
		return
	}
	h.cache.Invalidate(c.Request.Context(), tenantID)
	response.OK(c, cl)
}
