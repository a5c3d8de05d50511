package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/currency"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/storage"
)

type MeHandler struct {
	db       *gorm.DB
	uploader *storage.Uploader
}

func NewMeHandler(db *gorm.DB, uploader *storage.Uploader) *MeHandler {
	return &MeHandler{db: db, uploader: uploader}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":                 user.ID,
			"name":               user.Name,
			"email":              user.Email,
			"phone":              user.Phone,
			"role":               user.Role,
			"avatar_url":         user.AvatarURL,
			"preferred_currency": user.PreferredCurrency,
			"manual_currency":    user.ManualCurrency,
		},
	}

	if user.Role == middleware.RoleTrainer {
		var profile models.TrainerProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			resp["trainer_profile"] = profile
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ======================================================
// CURRENCY PREFERENCE
// ======================================================

type UpdateCurrencyRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdateCurrency stores a manual choice and suppresses future auto-detect.
func (h *MeHandler) UpdateCurrency(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A currency code is required.")
		return
	}

	cur, err := currency.Get(req.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"preferred_currency": cur.Code,
			"manual_currency":    true,
		}).Error; err != nil {
		httperr.Internal(c, "failed_to_update_currency", "Could not save the currency.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": cur})
}

// ======================================================
// AVATAR UPLOAD
// ======================================================

func (h *MeHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "An avatar file is required.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Could not read the upload.")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("avatars/%d.webp", userID)
	url, err := h.uploader.UploadAvatar(c.Request.Context(), key, src)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_avatar", "Could not save the avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
