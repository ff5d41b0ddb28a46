package telegram

import (
	"earn-server/internal/config"
	"earn-server/internal/observability"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderInitData = "X-Telegram-Init-Data"

	contextUserID   = "User-ID"
	contextIdentity = "Telegram-Identity"
)

type Handler struct {
	validator *Validator
	devMode   bool
	devUserID int64
	logger    *observability.Logger
}

func New(cfg config.TelegramConfig, logger *observability.Logger) Handler {
	return Handler{
		validator: NewValidator(cfg.BotToken, cfg.InitDataMaxAge),
		devMode:   cfg.DevMode,
		devUserID: cfg.DevUserID,
		logger:    logger,
	}
}

// initData reads the init data from the dedicated header or from an
// "Authorization: tma <data>" header.
func initData(c *gin.Context) string {
	if v := c.GetHeader(HeaderInitData); v != "" {
		return v
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "tma ") {
		return strings.TrimPrefix(auth, "tma ")
	}
	return ""
}

// HandleInitDataMiddleware authenticates the request from signed webapp init
// data. In dev mode a request without init data runs as the dev user.
func (h *Handler) HandleInitDataMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	raw := initData(c)
	var (
		id  Identity
		err error
	)
	if raw == "" && h.devMode {
		id = Identity{ID: h.devUserID, FirstName: "Developer", StartParam: c.Query("ref")}
	} else {
		id, err = h.validator.Validate(raw)
	}
	if err != nil {
		h.logger.Warn(ctx, "rejected init data: "+err.Error())
		status := http.StatusUnauthorized
		if errors.Is(err, ErrMissingInitData) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "invalid init data", "code": "INVALID_INIT_DATA"})
		c.Abort()
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: id.UserID()})
	c.Request = c.Request.WithContext(ctx)
	SetIdentity(c, id)
	c.Next()
}

// SetIdentity stores id as the authenticated user of the request.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(contextUserID, id.UserID())
	c.Set(contextIdentity, id)
}

// UserID returns the authenticated user id.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(contextUserID)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// IdentityFrom returns the authenticated launch identity.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
