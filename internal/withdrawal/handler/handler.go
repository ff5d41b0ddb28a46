package handler

import (
	"earn-server/internal/apierrors"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"earn-server/internal/withdrawal/processor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor *processor.WithdrawalProcessor
	logger    *observability.Logger
}

func New(processor *processor.WithdrawalProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// ConfirmWithdrawalRequest carries the confirmation code typed by the user
type ConfirmWithdrawalRequest struct {
	Code string `json:"code" binding:"max=64"`
}

// HandleBeginWithdrawal shows the mandatory withdrawal ad
func (h *Handler) HandleBeginWithdrawal(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	result, err := h.processor.Begin(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithDetails(c, err, result.Outcome)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleConfirmWithdrawal debits the withdrawal after the ad was watched
func (h *Handler) HandleConfirmWithdrawal(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	var req ConfirmWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.processor.Confirm(c.Request.Context(), userID, req.Code)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleCancelWithdrawal closes an open confirmation prompt
func (h *Handler) HandleCancelWithdrawal(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	if !h.processor.Cancel(c.Request.Context(), userID) {
		apierrors.RespondWithError(c, processor.ErrConfirmationNotStarted)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleListWithdrawals returns the withdrawal history, newest first
func (h *Handler) HandleListWithdrawals(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	withdrawals, err := h.processor.History(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

