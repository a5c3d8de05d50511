package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/notification"
)

type NotificationHandler struct {
	service    *notification.Service
	subscriber notification.Subscriber
}

func NewNotificationHandler(
	service *notification.Service,
	subscriber notification.Subscriber,
) *NotificationHandler {
	return &NotificationHandler{
		service:    service,
		subscriber: subscriber,
	}
}

// ======================================================
// FETCH
// ======================================================

func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	rows, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Could not load notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_count_notifications", "Could not count notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// ======================================================
// MUTATIONS
// ======================================================

type MarkReadRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A list of ids is required.")
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Could not update notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	updated, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Could not update notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// ======================================================
// REALTIME (SSE)
// ======================================================

// Stream forwards the user's realtime events as server-sent events until
// the client disconnects. Clients treat each event as an invalidation
// signal and refetch the list and the unread count.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	events := make(chan notification.Event, 16)
	cancel, err := h.subscriber.Subscribe(c.Request.Context(), userID, func(ev notification.Event) {
		select {
		case events <- ev:
		default:
			// Slow consumer: drop, the next refetch catches up anyway.
		}
	})
	if err != nil {
		httperr.Internal(c, "failed_to_subscribe", "Could not open the stream.")
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				return true
			}
			c.SSEvent("notification", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
