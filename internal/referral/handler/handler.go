package handler

import (
	"earn-server/internal/apierrors"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"earn-server/internal/referral/processor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor *processor.ReferralProcessor
	logger    *observability.Logger
}

func New(processor *processor.ReferralProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// ApplyReferralRequest represents an inbound referral code entered after launch
type ApplyReferralRequest struct {
	Code string `json:"code" binding:"required,max=64"`
}

// HandleGetSummary returns the referral code, link and referred members
func (h *Handler) HandleGetSummary(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	summary, err := h.processor.Summary(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HandleGetCode returns the user's referral code, creating it on first use
func (h *Handler) HandleGetCode(c *gin.Context) {
	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	code, err := h.processor.ReferralCode(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":      code,
		"shareLink": h.processor.ShareLink(code),
	})
}

// HandleApplyCode applies a referral code the user typed in
func (h *Handler) HandleApplyCode(c *gin.Context) {
	ctx := c.Request.Context()

	var req ApplyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	userID, ok := telegram.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("unauthorized"))
		return
	}

	launch := processor.Launch{UserID: userID, StartParam: req.Code}
	if identity, ok := telegram.IdentityFrom(c); ok {
		launch.FirstName = identity.FirstName
	}

	result, err := h.processor.AcceptInbound(ctx, launch)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
