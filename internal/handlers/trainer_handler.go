package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/audit"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

type TrainerHandler struct {
	db            *gorm.DB
	notifications *notification.Service
	audit         *audit.Dispatcher
}

func NewTrainerHandler(
	db *gorm.DB,
	notifications *notification.Service,
	auditDispatcher *audit.Dispatcher,
) *TrainerHandler {
	return &TrainerHandler{
		db:            db,
		notifications: notifications,
		audit:         auditDispatcher,
	}
}

// ======================================================
// PUBLIC LISTING
// ======================================================

func (h *TrainerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Preload("User").Where("approved = true")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(skills) LIKE ? OR LOWER(bio) LIKE ?", like, like)
	}

	var trainers []models.TrainerProfile
	if err := q.
		Order("rating DESC").
		Find(&trainers).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_trainers",
		})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

func (h *TrainerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid trainer id.")
		return
	}

	var profile models.TrainerProfile
	if err := h.db.Preload("User").
		Where("user_id = ? AND approved = true", id).
		First(&profile).Error; err != nil {
		httperr.NotFound(c, "trainer_not_found", businessMessage("trainer_not_found"))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ======================================================
// ADMIN APPROVAL
// ======================================================

func (h *TrainerHandler) setApproval(c *gin.Context, approve bool) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid trainer id.")
		return
	}
	trainerID := uint(id)

	var profile models.TrainerProfile
	if err := h.db.Where("user_id = ?", trainerID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "trainer_not_found", businessMessage("trainer_not_found"))
		return
	}

	updates := map[string]any{"approved": approve}
	action := "trainer_rejected"
	typ := notification.TypeTrainerRejected
	if approve {
		now := timezone.Now()
		updates["approved_at"] = &now
		action = "trainer_approved"
		typ = notification.TypeTrainerApproved
	}

	if err := h.db.Model(&models.TrainerProfile{}).
		Where("user_id = ?", trainerID).
		Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_trainer", "Could not update the trainer.")
		return
	}

	_ = h.notifications.Notify(c.Request.Context(), trainerID, typ, nil)

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   action,
		Entity:   "trainer_profile",
		EntityID: &profile.ID,
	})

	c.JSON(http.StatusOK, gin.H{"approved": approve})
}

func (h *TrainerHandler) Approve(c *gin.Context) {
	h.setApproval(c, true)
}

func (h *TrainerHandler) Reject(c *gin.Context) {
	h.setApproval(c, false)
}
