package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/currency"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
)

type CurrencyHandler struct {
	db       *gorm.DB
	detector *currency.Detector
}

func NewCurrencyHandler(db *gorm.DB, detector *currency.Detector) *CurrencyHandler {
	return &CurrencyHandler{db: db, detector: detector}
}

func (h *CurrencyHandler) List(c *gin.Context) {
	out := make([]currency.Currency, 0, len(currency.Supported))
	for _, cur := range currency.Supported {
		out = append(out, cur)
	}
	c.JSON(http.StatusOK, gin.H{"currencies": out, "base": currency.BaseCode})
}

// Detect guesses a currency from the caller's IP. A signed-in user who
// picked a currency by hand keeps it; auto-detect never overrides.
func (h *CurrencyHandler) Detect(c *gin.Context) {
	if userID, ok := c.Get(middleware.ContextUserID); ok {
		var user models.User
		if err := h.db.First(&user, userID).Error; err == nil && user.ManualCurrency {
			cur, _ := currency.Get(user.PreferredCurrency)
			c.JSON(http.StatusOK, gin.H{"currency": cur, "source": "preference"})
			return
		}
	}

	ip := c.Query("ip")
	if ip == "" {
		ip = c.ClientIP()
	}

	cur := h.detector.Detect(c.Request.Context(), ip)
	c.JSON(http.StatusOK, gin.H{"currency": cur, "source": "geo"})
}
