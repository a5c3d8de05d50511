package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/dto"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/httpresp"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	ucBooking "github.com/skilloop/skilloop-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC   *ucBooking.CreateBooking
	cancelUC   *ucBooking.CancelBooking
	completeUC *ucBooking.CompleteBooking
	checkUC    *ucBooking.CheckConflicts
	repo       domain.Repository
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.CancelBooking,
	completeUC *ucBooking.CompleteBooking,
	checkUC *ucBooking.CheckConflicts,
	repo domain.Repository,
) *BookingHandler {
	return &BookingHandler{
		createUC:   createUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		checkUC:    checkUC,
		repo:       repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	TrainerID     uint   `json:"trainer_id" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	TrainingTopic string `json:"training_topic" binding:"required"`
}

type CheckConflictsRequest struct {
	TrainerID        uint   `json:"trainer_id" binding:"required"`
	StartTime        string `json:"start_time" binding:"required"`
	EndTime          string `json:"end_time" binding:"required"`
	ExcludeBookingID uint   `json:"exclude_booking_id"`
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	start, end, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Times must be RFC3339.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		StudentID:     studentID,
		TrainerID:     req.TrainerID,
		StartTime:     start,
		EndTime:       end,
		TrainingTopic: req.TrainingTopic,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// CHECK CONFLICTS (read-only pre-check)
// ======================================================

func (h *BookingHandler) CheckConflicts(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid conflict check data.")
		return
	}

	start, end, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Times must be RFC3339.")
		return
	}

	conflict, err := h.checkUC.Execute(c.Request.Context(), ucBooking.CheckConflictsInput{
		TrainerID:        req.TrainerID,
		ClientID:         clientID,
		StartTime:        start,
		EndTime:          end,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if conflict == nil {
		c.JSON(http.StatusOK, gin.H{"has_conflict": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_conflict":        true,
		"message":             conflict.Message,
		"conflicting_booking": conflict.Booking,
	})
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.completeUC.Execute(c.Request.Context(), adminID, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// LIST
// ======================================================

func toListDTO(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:            b.ID,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			TrainingTopic: b.TrainingTopic,
			TotalAmount:   b.TotalAmount,
			TrainerName:   b.Trainer.Name,
			StudentName:   b.Student.Name,
		})
	}
	return out
}

// ListMine is the client view of the calendar.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.repo.ListBookingsForStudent(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, toListDTO(bookings))
}

// ListAsTrainer is the trainer view.
func (h *BookingHandler) ListAsTrainer(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.repo.ListBookingsForTrainer(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, toListDTO(bookings))
}
