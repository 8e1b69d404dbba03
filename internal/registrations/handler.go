package registrations

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/queue"
	"github.com/bzt-portal/training-scheduler/pkg/response"
)

// Store is the registration persistence surface consumed by the handler.
type Store interface {
	Create(ctx context.Context, tenantID int64, in NewRegistration) (*models.Registration, error)
	List(ctx context.Context, tenantID int64, f Filters) ([]Detail, error)
	UpdateStatus(ctx context.Context, tenantID int64, id uuid.UUID, status string) error
}

// Notifier enqueues post-commit notification jobs. Implemented by pkg/queue.
type Notifier interface {
	EnqueueConfirmationEmail(ctx context.Context, payload queue.ConfirmationEmailPayload) error
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a registrations handler. notifier may be nil.
func NewHandler(store Store, notifier Notifier, logger *zap.Logger) *Handler {
	return &Handler{store: store, notifier: notifier, logger: logger}
}

// CreateRequest is the body for POST /registrations.
type CreateRequest struct {
	TransactionID   string  `json:"transaction_id" binding:"required"`
	ClassID         string  `json:"class_id" binding:"required"`
	SessionID       string  `json:"session_id" binding:"required"`
	FirstName       string  `json:"first_name" binding:"required"`
	LastName        string  `json:"last_name" binding:"required"`
	Email           string  `json:"email" binding:"required"`
	Phone           *string `json:"phone"`
	ExperienceLevel *string `json:"experience_level"`
	AmountCents     int64   `json:"amount_cents"`
	Status          string  `json:"status"`
	AuthCode        *string `json:"auth_code"`
	WaiverAccepted  bool    `json:"waiver_accepted"`
	RulesAccepted   bool    `json:"rules_accepted"`
}

// Create handles POST /registrations. The insert and the seat consumption
// commit as one unit; a full session answers 409.
func (h *Handler) Create(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	reg, err := h.store.Create(c.Request.Context(), tenantID, NewRegistration{
		TransactionID:   req.TransactionID,
		ClassID:         req.ClassID,
		SessionID:       req.SessionID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		ExperienceLevel: req.ExperienceLevel,
		AmountCents:     req.AmountCents,
		Status:          req.Status,
		AuthCode:        req.AuthCode,
		WaiverAccepted:  req.WaiverAccepted,
		RulesAccepted:   req.RulesAccepted,
	})
	if err != nil {
		response.Error(c, err, "failed to create registration")
		return
	}

	if h.notifier != nil {
		err := h.notifier.EnqueueConfirmationEmail(c.Request.Context(), queue.ConfirmationEmailPayload{
			TenantID:       tenantID,
			RegistrationID: reg.ID,
			RecipientEmail: reg.Email,
			ClassID:        reg.ClassID,
			SessionID:      reg.SessionID,
		})
		if err != nil {
			h.logger.Warn("enqueue confirmation email", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		}
	}
	response.Created(c, reg)
}

// List handles GET /registrations (admin only). Filters: class_id,
// session_id, status, email; exact matches, AND-combined.
func (h *Handler) List(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	list, err := h.store.List(c.Request.Context(), tenantID, Filters{
		ClassID:   c.Query("class_id"),
		SessionID: c.Query("session_id"),
		Status:    c.Query("status"),
		Email:     c.Query("email"),
	})
	if err != nil {
		response.Error(c, err, "failed to fetch registrations")
		return
	}
	response.OK(c, list)
}

// StatusRequest is the body for PUT /registrations/:id/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /registrations/:id/status (admin only). Seat
// release is a separate capacity operation and never happens here.
func (h *Handler) UpdateStatus(c *gin.Context) {
	tenantID, err := tenant.FromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		response.BadRequest(c, "status is required")
		return
	}
	if err := h.store.UpdateStatus(c.Request.Context(), tenantID, id, req.Status); err != nil {
		response.Error(c, err, "registration not found")
		return
	}
	response.OK(c, gin.H{"message": "registration status updated"})
}
