package sessions

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/response"
)

// Store is the session persistence surface consumed by the handler.
type Store interface {
	ListForClass(ctx context.Context, tenantID int64, classID string, futureOnly bool) ([]models.Session, error)
	Get(ctx context.Context, tenantID int64, id string) (*models.Session, error)
	Upsert(ctx context.Context, tenantID int64, in SessionInput) (*models.Session, error)
	ReleaseSeat(ctx context.Context, tenantID int64, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, tenantID int64, id string) error
}

// Handler handles session HTTP endpoints.
type Handler struct {
	store Store
}

// NewHandler creates a sessions handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// ListForClass handles GET /classes/:id/sessions. Future scheduled sessions
// only, unless ?futureOnly=false.
func (h *Handler) ListForClass(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	futureOnly := c.Query("futureOnly") != "false"
	list, err := h.store.ListForClass(c.Request.Context(), tenantID, c.Param("id"), futureOnly)
	if err != nil {
		response.Error(c, err, "failed to fetch sessions")
		return
	}
	response.OK(c, list)
}

// Get handles GET /sessions/:id.
func (h *Handler) Get(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	s, err := h.store.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err, "session not found")
		return
	}
	response.OK(c, s)
}

// SessionRequest is the body for POST /sessions and PUT /sessions/:id.
type SessionRequest struct {
	ID         string  `json:"id"`
	ClassID    string  `json:"class_id" binding:"required"`
	Date       string  `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	Location   *string `json:"location"`
	Instructor *string `json:"instructor"`
	MaxSeats   int     `json:"max_seats"`
	Status     string  `json:"status"`
}

func (h *Handler) upsert(c *gin.Context, id string, created bool) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if id == "" {
		id = req.ID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}

	s, err := h.store.Upsert(c.Request.Context(), tenantID, SessionInput{
		ID:         id,
		ClassID:    req.ClassID,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Instructor: req.Instructor,
		MaxSeats:   req.MaxSeats,
		Status:     req.Status,
	})
	if err != nil {
		response.Error(c, err, "failed to save session")
		return
	}
	if created {
		response.Created(c, s)
		return
	}
	response.OK(c, s)
}

// Create handles POST /sessions (admin only). An existing id is edited in place.
func (h *Handler) Create(c *gin.Context) {
	h.upsert(c, "", true)
}

// Update handles PUT /sessions/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	h.upsert(c, c.Param("id"), false)
}

// ReleaseSeat handles POST /sessions/:id/release-seat (admin only). It is the
// explicit path for reclaiming capacity after a cancellation; registration
// status updates never release seats on their own.
func (h *Handler) ReleaseSeat(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	s, err := h.store.ReleaseSeat(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err, "session not found")
		return
	}
	response.OK(c, s)
}

// Delete handles DELETE /sessions/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	if err := h.store.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		response.Error(c, err, "session not found")
		return
	}
	response.NoContent(c)
}
