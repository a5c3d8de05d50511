package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/otp"
)

type OTPHandler struct {
	otp *otp.Service
}

func NewOTPHandler(svc *otp.Service) *OTPHandler {
	return &OTPHandler{otp: svc}
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

func (h *OTPHandler) Send(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A phone number is required.")
		return
	}

	if err := h.otp.Send(c.Request.Context(), req.PhoneNumber); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Code sent.",
	})
}

func (h *OTPHandler) Verify(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Phone number and code are required.")
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.PhoneNumber, req.Code); err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": businessMessage(code),
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Phone number verified.",
	})
}
