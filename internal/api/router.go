package api

import (
	"time"

	"github.com/botdesk/botdesk/internal/api/account"
	"github.com/botdesk/botdesk/internal/api/bots"
	"github.com/botdesk/botdesk/internal/api/chat"
	"github.com/botdesk/botdesk/internal/api/middleware"
	"github.com/botdesk/botdesk/internal/api/widget"
	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	TokenTTL     time.Duration
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	accountService *service.AccountService,
	botService *service.BotService,
	widgetService *service.WidgetService,
	chatService *service.ChatService,
	verifier *auth.Verifier,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Widget loader script
	SetupStaticRoutes(r)

	// Account API (public)
	accountHandler := account.NewHandler(accountService, cfg.TokenTTL)
	accountGroup := r.Group("/api/auth")
	accountHandler.RegisterRoutes(accountGroup)

	// Chat API (first-party or widget credential, checked per request)
	chatHandler := chat.NewHandler(chatService, verifier)
	chatGroup := r.Group("/api")
	chatHandler.RegisterRoutes(chatGroup)

	// Widget API (public, based on bot_id)
	widgetHandler := widget.NewHandler(widgetService)
	widgetGroup := r.Group("/api/widget")
	widgetHandler.RegisterRoutes(widgetGroup)

	// Bot management API (requires first-party auth)
	botsHandler := bots.NewHandler(botService, widgetService)
	botsGroup := r.Group("/api/bots")
	botsGroup.Use(middleware.Auth(verifier))
	botsHandler.RegisterRoutes(botsGroup)

	return r
}
