package handler

import (
	"earn-server/internal/apierrors"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"earn-server/internal/rewards/processor"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor *processor.RewardProcessor
	logger    *observability.Logger
}

func New(processor *processor.RewardProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleWatchAd shows one rewarded ad and credits the reward
func (h *Handler) HandleWatchAd(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	result, err := h.processor.Watch(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithDetails(c, err, result.Outcome)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandlePopupAd shows the periodic popup ad when it is due. A popup that
// fails to load still answers 200 with the failed outcome and no reward.
func (h *Handler) HandlePopupAd(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	result, err := h.processor.Popup(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, processor.ErrPopupNotDue) {
			apierrors.RespondWithDetails(c, err, gin.H{"nextPopupAt": result.NextPopupAt})
			return
		}
		apierrors.RespondWithDetails(c, err, result.Outcome)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleInAppConfig returns the in-app interstitial settings
func (h *Handler) HandleInAppConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.processor.InAppConfig())
}
