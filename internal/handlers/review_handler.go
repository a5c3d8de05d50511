package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
)

type ReviewHandler struct {
	db            *gorm.DB
	notifications *notification.Service
}

func NewReviewHandler(db *gorm.DB, notifications *notification.Service) *ReviewHandler {
	return &ReviewHandler{db: db, notifications: notifications}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create posts a review for a completed booking; one per booking, and the
// trainer's cached rating is recomputed in the same transaction.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A rating between 1 and 5 is required.")
		return
	}

	var b models.Booking
	if err := h.db.
		Where("id = ? AND student_id = ?", bookingID, userID).
		First(&b).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", businessMessage("booking_not_found"))
		return
	}

	if domain.Status(b.Status) != domain.StatusCompleted {
		httperr.BadRequest(c, "invalid_state", "Only completed sessions can be reviewed.")
		return
	}

	review := models.Review{
		BookingID:  b.ID,
		ReviewerID: userID,
		TrainerID:  b.TrainerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		// Recompute the trainer's cached aggregate.
		var agg struct {
			Avg   float64
			Count int
		}
		if err := tx.Model(&models.Review{}).
			Select("AVG(rating) as avg, COUNT(*) as count").
			Where("trainer_id = ?", b.TrainerID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&models.TrainerProfile{}).
			Where("user_id = ?", b.TrainerID).
			Updates(map[string]any{
				"rating":       agg.Avg,
				"review_count": agg.Count,
			}).Error
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			httperr.Conflict(c, "review_exists", "This booking already has a review.")
			return
		}
		httperr.Internal(c, "failed_to_create_review", "Could not save the review.")
		return
	}

	_ = h.notifications.Notify(c.Request.Context(), b.TrainerID, notification.TypeReviewReceived, map[string]any{
		"booking_id": b.ID,
		"rating":     req.Rating,
	})

	c.JSON(http.StatusCreated, review)
}

// ListForTrainer is public: reviews of an approved trainer.
func (h *ReviewHandler) ListForTrainer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid trainer id.")
		return
	}

	var reviews []models.Review
	if err := h.db.
		Where("trainer_id = ?", id).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Could not load reviews.")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
