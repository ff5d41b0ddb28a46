package api

import (
	accountHandler "earn-server/internal/account/handler"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"earn-server/internal/ratelimit"
	referralHandler "earn-server/internal/referral/handler"
	rewardHandler "earn-server/internal/rewards/handler"
	withdrawalHandler "earn-server/internal/withdrawal/handler"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router            *gin.RouterGroup
	authHandler       telegram.Handler
	rateLimiter       *ratelimit.Service
	accountHandler    accountHandler.Handler
	rewardHandler     rewardHandler.Handler
	withdrawalHandler withdrawalHandler.Handler
	referralHandler   referralHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authHandler telegram.Handler,
	rateLimiter *ratelimit.Service,
	accountHandler accountHandler.Handler,
	rewardHandler rewardHandler.Handler,
	withdrawalHandler withdrawalHandler.Handler,
	referralHandler referralHandler.Handler,
) API {
	return API{
		router:            router,
		authHandler:       authHandler,
		rateLimiter:       rateLimiter,
		accountHandler:    accountHandler,
		rewardHandler:     rewardHandler,
		withdrawalHandler: withdrawalHandler,
		referralHandler:   referralHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	a.router.GET("/metrics", observability.MetricsHandler())

	apiGroup := a.router.Group("/api", a.authHandler.HandleInitDataMiddleware)
	if a.rateLimiter != nil {
		apiGroup.Use(a.rateLimiter.Middleware())
	}
	{
		apiGroup.GET("/me", a.accountHandler.HandleLaunch)
		apiGroup.GET("/settings", a.accountHandler.HandleGetSettings)
		apiGroup.PUT("/settings", a.accountHandler.HandleUpdateSettings)

		adsGroup := apiGroup.Group("/ads")
		adsGroup.POST("/watch", a.rewardHandler.HandleWatchAd)
		adsGroup.POST("/popup", a.rewardHandler.HandlePopupAd)
		adsGroup.GET("/inapp", a.rewardHandler.HandleInAppConfig)

		withdrawalGroup := apiGroup.Group("/withdrawals")
		withdrawalGroup.GET("", a.withdrawalHandler.HandleListWithdrawals)
		withdrawalGroup.POST("/begin", a.withdrawalHandler.HandleBeginWithdrawal)
		withdrawalGroup.POST("/confirm", a.withdrawalHandler.HandleConfirmWithdrawal)
		withdrawalGroup.DELETE("/pending", a.withdrawalHandler.HandleCancelWithdrawal)

		referralGroup := apiGroup.Group("/referrals")
		referralGroup.GET("", a.referralHandler.HandleGetSummary)
		referralGroup.GET("/code", a.referralHandler.HandleGetCode)
		referralGroup.POST("/apply", a.referralHandler.HandleApplyCode)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
