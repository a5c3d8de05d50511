package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/audit"
	"github.com/skilloop/skilloop-api/internal/currency"
	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/payment/bmc"
	"github.com/skilloop/skilloop-api/internal/payment/paypal"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db            *gorm.DB
	paypal        *paypal.Client
	bmc           *bmc.Client
	notifications *notification.Service
	audit         *audit.Dispatcher
}

func NewPaymentHandler(
	db *gorm.DB,
	paypalClient *paypal.Client,
	bmcClient *bmc.Client,
	notifications *notification.Service,
	auditDispatcher *audit.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		db:            db,
		paypal:        paypalClient,
		bmc:           bmcClient,
		notifications: notifications,
		audit:         auditDispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePayPalOrderRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Reference   string  `json:"reference"`
	BookingID   uint    `json:"bookingId" binding:"required"`
}

type CapturePayPalRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	BookingID uint   `json:"bookingId" binding:"required"`
}

type VerifyBMCRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	BookingID     uint   `json:"bookingId" binding:"required"`
}

func (h *PaymentHandler) loadBookingForUser(c *gin.Context, bookingID uint) (*models.Booking, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var b models.Booking
	if err := h.db.
		Where("id = ? AND (trainer_id = ? OR student_id = ?)", bookingID, userID, userID).
		First(&b).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", businessMessage("booking_not_found"))
		return nil, false
	}
	return &b, true
}

// ======================================================
// CREATE PAYPAL ORDER
// ======================================================

func (h *PaymentHandler) CreatePayPalOrder(c *gin.Context) {
	var req CreatePayPalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid order data.")
		return
	}

	if !orderCurrencyAllowed(req.Currency) {
		httperr.BadRequest(c, "unsupported_currency", businessMessage("unsupported_currency"))
		return
	}

	b, ok := h.loadBookingForUser(c, req.BookingID)
	if !ok {
		return
	}

	amount := req.Amount
	if amount <= 0 {
		amount = b.TotalAmount
	}

	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	description := req.Description
	if description == "" {
		description = "Skilloop training session: " + b.TrainingTopic
	}

	order, err := h.paypal.CreateOrder(c.Request.Context(), paypal.CreateOrderInput{
		AmountINR:   amount,
		Description: description,
		Reference:   reference,
	})
	if err != nil {
		log.Println("paypal create order error:", err)
		paymentError(c, err)
		return
	}

	approval, err := order.ApprovalLink()
	if err != nil {
		paymentError(c, err)
		return
	}

	if err := h.db.Model(&models.Booking{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"payment_status":         string(domain.PaymentPending),
			"payment_url":            approval,
			"payment_transaction_id": order.ID,
		}).Error; err != nil {
		httperr.Internal(c, "failed_to_update_booking", "Could not record the order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ======================================================
// CAPTURE PAYPAL PAYMENT
// ======================================================

func (h *PaymentHandler) CapturePayPalPayment(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CapturePayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid capture data.")
		return
	}

	b, ok := h.loadBookingForUser(c, req.BookingID)
	if !ok {
		return
	}

	capture, err := h.paypal.CaptureOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		log.Println("paypal capture error:", err)
		paymentError(c, err)
		return
	}

	confirmed := capture.Status == "COMPLETED"

	rows, err := h.settleBooking(c, b, confirmed, capture.CaptureID())
	if err != nil {
		if _, isBusiness := httperr.BusinessCode(err); isBusiness {
			writeError(c, err)
			return
		}
		httperr.Internal(c, "failed_to_update_booking", "Could not record the capture.")
		return
	}

	h.notifications.PublishCreated(c.Request.Context(), rows)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "payment_captured",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"order_id": req.OrderID, "status": capture.Status},
	})

	c.JSON(http.StatusOK, capture)
}

// ======================================================
// VERIFY BMC PAYMENT
// ======================================================

func (h *PaymentHandler) VerifyBMCPayment(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req VerifyBMCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid verification data.")
		return
	}

	b, ok := h.loadBookingForUser(c, req.BookingID)
	if !ok {
		return
	}

	support, err := h.bmc.VerifyTransaction(c.Request.Context(), req.TransactionID)
	if err != nil {
		if code, okCode := httperr.BusinessCode(err); okCode && code == "transaction_not_found" {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": businessMessage(code),
			})
			return
		}
		log.Println("bmc verify error:", err)
		paymentError(c, err)
		return
	}

	rows, err := h.settleBooking(c, b, support.Paid(), req.TransactionID)
	if err != nil {
		if _, isBusiness := httperr.BusinessCode(err); isBusiness {
			writeError(c, err)
			return
		}
		httperr.Internal(c, "failed_to_update_booking", "Could not record the payment.")
		return
	}

	h.notifications.PublishCreated(c.Request.Context(), rows)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "payment_verified",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"transaction_id": req.TransactionID, "provider": "bmc"},
	})

	c.JSON(http.StatusOK, gin.H{
		"success": support.Paid(),
		"message": bmcVerifyMessage(support.Paid()),
		"paymentData": gin.H{
			"transaction_id": support.SupportID,
			"amount":         support.Amount(),
			"payer_name":     support.PayerName,
		},
	})
}

// ======================================================
// SETTLEMENT
// ======================================================

// settleBooking applies the capture outcome. On success the booking flip
// and the payment_received rows for both parties commit together; on
// failure only payment_status moves, the booking stays pending so the
// payer can re-initiate.
func (h *PaymentHandler) settleBooking(
	c *gin.Context,
	b *models.Booking,
	confirmed bool,
	transactionID string,
) ([]models.Notification, error) {

	var rows []models.Notification

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if !confirmed {
			domain.FailPayment(b)
			return tx.Save(b).Error
		}

		if err := domain.ConfirmPayment(b, transactionID, timezone.Now()); err != nil {
			return err
		}
		if err := tx.Save(b).Error; err != nil {
			return err
		}

		for _, recipient := range []uint{b.StudentID, b.TrainerID} {
			n, err := notification.Build(recipient, notification.TypePaymentReceived, map[string]any{
				"booking_id": b.ID,
				"topic":      b.TrainingTopic,
				"amount":     b.TotalAmount,
			})
			if err != nil {
				return err
			}
			if err := tx.Create(n).Error; err != nil {
				return err
			}
			rows = append(rows, *n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// orderCurrencyAllowed accepts the empty string (the client lets the server
// pick) or the platform base currency. Orders are priced in INR; the USD
// conversion for the gateway happens inside the paypal client.
func orderCurrencyAllowed(code string) bool {
	return code == "" || strings.EqualFold(code, currency.BaseCode)
}

// bmcVerifyMessage renders the verify outcome. The feed also returns
// refunded supports, which must not read as a successful payment.
func bmcVerifyMessage(paid bool) string {
	if paid {
		return "Payment verified."
	}
	return "The transaction was found but no settled payment is attached to it."
}

// paymentError maps provider failures onto the serverless contract: any
// internal/provider failure is a 500 with the error envelope.
func paymentError(c *gin.Context, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		httperr.Internal(c, code, businessMessage(code))
		return
	}
	httperr.Internal(c, "provider_error", businessMessage("provider_error"))
}
