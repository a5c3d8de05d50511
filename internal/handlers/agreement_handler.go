package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	agreementdomain "github.com/skilloop/skilloop-api/internal/domain/agreement"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	ucAgreement "github.com/skilloop/skilloop-api/internal/usecase/agreement"
)

type AgreementHandler struct {
	createUC *ucAgreement.CreateAgreement
	signUC   *ucAgreement.SignAgreement
	repo     agreementdomain.Repository
}

func NewAgreementHandler(
	createUC *ucAgreement.CreateAgreement,
	signUC *ucAgreement.SignAgreement,
	repo agreementdomain.Repository,
) *AgreementHandler {
	return &AgreementHandler{
		createUC: createUC,
		signUC:   signUC,
		repo:     repo,
	}
}

// ======================================================
// CREATE (first sign action creates the agreement)
// ======================================================

func (h *AgreementHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	ag, err := h.createUC.Execute(c.Request.Context(), userID, uint(bookingID))
	if err != nil {
		if httperr.IsBusiness(err, "agreement_exists") {
			httperr.Conflict(c, "agreement_exists", businessMessage("agreement_exists"))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ag)
}

// ======================================================
// GET
// ======================================================

func (h *AgreementHandler) GetForBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	ag, err := h.repo.GetAgreementByBooking(c.Request.Context(), uint(bookingID))
	if err != nil {
		httperr.NotFound(c, "agreement_not_found", businessMessage("agreement_not_found"))
		return
	}

	c.JSON(http.StatusOK, ag)
}

// ======================================================
// SIGN
// ======================================================

type SignAgreementRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *AgreementHandler) Sign(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	agreementID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid agreement id.")
		return
	}

	var req SignAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A sign action is required.")
		return
	}

	result, err := h.signUC.Execute(c.Request.Context(), ucAgreement.SignInput{
		AgreementID: uint(agreementID),
		UserID:      userID,
		Action:      agreementdomain.Action(req.Action),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agreement": result.Agreement,
		"booking":   result.Booking,
		"completed": result.Completed,
		"rejected":  result.Rejected,
	})
}
