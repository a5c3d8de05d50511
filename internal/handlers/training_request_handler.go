package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
)

// ======================================================
// HANDLER
// ======================================================

type TrainingRequestHandler struct {
	db            *gorm.DB
	notifications *notification.Service
}

func NewTrainingRequestHandler(
	db *gorm.DB,
	notifications *notification.Service,
) *TrainingRequestHandler {
	return &TrainingRequestHandler{
		db:            db,
		notifications: notifications,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTrainingRequestRequest struct {
	Topic       string  `json:"topic" binding:"required"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
}

type ApplyRequest struct {
	Message      string  `json:"message"`
	ProposedRate float64 `json:"proposed_rate" binding:"required"`
}

// ======================================================
// CLIENT SIDE
// ======================================================

func (h *TrainingRequestHandler) Create(c *gin.Context) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateTrainingRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A topic is required.")
		return
	}

	tr := models.TrainingRequest{
		StudentID:   studentID,
		Topic:       req.Topic,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      "open",
	}

	if err := h.db.Create(&tr).Error; err != nil {
		httperr.Internal(c, "failed_to_create_request", "Could not post the request.")
		return
	}

	c.JSON(http.StatusCreated, tr)
}

func (h *TrainingRequestHandler) ListOpen(c *gin.Context) {
	var requests []models.TrainingRequest
	if err := h.db.Preload("Student").
		Where("status = 'open'").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		httperr.Internal(c, "failed_to_list_requests", "Could not load requests.")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ======================================================
// TRAINER SIDE
// ======================================================

func (h *TrainingRequestHandler) Apply(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextUserID).(uint)

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid request id.")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A proposed rate is required.")
		return
	}

	var tr models.TrainingRequest
	if err := h.db.First(&tr, requestID).Error; err != nil {
		httperr.NotFound(c, "request_not_found", "Training request not found.")
		return
	}
	if tr.Status != "open" {
		httperr.BadRequest(c, "request_closed", "This request is no longer open.")
		return
	}

	app := models.TrainingApplication{
		RequestID:    tr.ID,
		TrainerID:    trainerID,
		Message:      req.Message,
		ProposedRate: req.ProposedRate,
		Status:       "pending",
	}

	if err := h.db.Create(&app).Error; err != nil {
		httperr.Internal(c, "failed_to_apply", "Could not submit the application.")
		return
	}

	_ = h.notifications.Notify(c.Request.Context(), tr.StudentID, notification.TypeTrainingApplicationReceived, map[string]any{
		"request_id":     tr.ID,
		"application_id": app.ID,
		"topic":          tr.Topic,
	})

	c.JSON(http.StatusCreated, app)
}

// ======================================================
// DECISION
// ======================================================

func (h *TrainingRequestHandler) decide(c *gin.Context, accept bool) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)

	applicationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid application id.")
		return
	}

	var app models.TrainingApplication
	if err := h.db.Preload("Request").First(&app, applicationID).Error; err != nil {
		httperr.NotFound(c, "application_not_found", "Application not found.")
		return
	}

	if app.Request.StudentID != studentID {
		httperr.Forbidden(c, "not_request_owner", "Only the request owner can decide.")
		return
	}
	if app.Status != "pending" {
		httperr.BadRequest(c, "already_decided", "This application was already decided.")
		return
	}

	status := "rejected"
	typ := notification.TypeTrainingApplicationRejected
	if accept {
		status = "accepted"
		typ = notification.TypeTrainingApplicationAccepted
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TrainingApplication{}).
			Where("id = ?", app.ID).
			Update("status", status).Error; err != nil {
			return err
		}

		// Accepting closes the request.
		if accept {
			return tx.Model(&models.TrainingRequest{}).
				Where("id = ?", app.RequestID).
				Update("status", "closed").Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_decide", "Could not update the application.")
		return
	}

	_ = h.notifications.Notify(c.Request.Context(), app.TrainerID, typ, map[string]any{
		"request_id": app.RequestID,
		"topic":      app.Request.Topic,
	})

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *TrainingRequestHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

func (h *TrainingRequestHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}
