package handler

import (
	"earn-server/internal/account/processor"
	"earn-server/internal/apierrors"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	referral "earn-server/internal/referral/processor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor *processor.AccountProcessor
	logger    *observability.Logger
}

func New(processor *processor.AccountProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// UpdateSettingsRequest represents a partial settings update
type UpdateSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	AutoPlay             *bool   `json:"autoPlay,omitempty"`
	Theme                *string `json:"theme,omitempty" binding:"omitempty,oneof=light dark"`
	Language             *string `json:"language,omitempty" binding:"omitempty,min=2,max=8"`
}

// HandleLaunch applies the launch parameters and returns the user's state
func (h *Handler) HandleLaunch(c *gin.Context) {
	identity, ok := telegram.IdentityFrom(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	result, err := h.processor.Launch(c.Request.Context(), referral.Launch{
		UserID:     identity.UserID(),
		FirstName:  identity.FirstName,
		StartParam: identity.StartParam,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleGetSettings(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	settings, err := h.processor.Settings(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *Handler) HandleUpdateSettings(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	settings, err := h.processor.UpdateSettings(c.Request.Context(), userID, ledger.SettingsPatch{
		NotificationsEnabled: req.NotificationsEnabled,
		AutoPlay:             req.AutoPlay,
		Theme:                req.Theme,
		Language:             req.Language,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
