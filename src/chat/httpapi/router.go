// Package httpapi exposes the chat boundary over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/chat"
)

const (
	DefaultUserHeader = "X-User-ID"
	userIDKey         = "user_id"
)

// Config configures the router.
type Config struct {
	Chat           chat.Boundary
	Logger         *slog.Logger
	UserHeader     string
	AllowedOrigins []string
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

type handler struct {
	chat   chat.Boundary
	logger *slog.Logger
}

// NewRouter builds the gin engine serving the chat API.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.UserHeader == "" {
		cfg.UserHeader = DefaultUserHeader
	}
	h := &handler{chat: cfg.Chat, logger: cfg.Logger.With("component", "httpapi")}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", cfg.UserHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler(time.Now()))

	api := router.Group("/api", requireUser(cfg.UserHeader))
	{
		api.POST("/chat", h.sendMessage)
		api.GET("/conversations", h.listConversations)
		api.GET("/conversations/:id", h.getConversation)
		api.DELETE("/conversations/:id", h.deleteConversation)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("not_found", "route not found", false))
	})

	return router
}

// requireUser takes the caller identity from header; requests without one
// are rejected before reaching a handler.
func requireUser(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(header))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unauthorized", "missing "+header+" header", false))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (h *handler) sendMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperr.KindValidation.String(), "request body must be JSON with a non-empty message", false))
		return
	}
	reply, err := h.chat.SendMessage(c.Request.Context(), c.GetString(userIDKey), req.Message, req.ConversationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *handler) listConversations(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		h.fail(c, err)
		return
	}
	convs, err := h.chat.ListConversations(c.Request.Context(), c.GetString(userIDKey), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *handler) getConversation(c *gin.Context) {
	transcript, err := h.chat.GetConversation(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transcript)
}

func (h *handler) deleteConversation(c *gin.Context) {
	if err := h.chat.DeleteConversation(c.Request.Context(), c.GetString(userIDKey), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) fail(c *gin.Context, err error) {
	pub := apperr.Public(err)
	if pub.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "kind", apperr.KindOf(err).String(), "error", err)
	}
	c.JSON(pub.Status, errorBody(pub.Code, pub.Message, pub.Retryable))
}

func errorBody(code, message string, retryable bool) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message, "retryable": retryable}}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validationf("httpapi.queryInt", "%s must be a non-negative integer", key)
	}
	return n, nil
}
