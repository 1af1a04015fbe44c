package widget

import (
	"errors"
	"net/http"

	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler handles the public widget API
type Handler struct {
	widgetService *service.WidgetService
}

// NewHandler creates a new widget handler
func NewHandler(widgetService *service.WidgetService) *Handler {
	return &Handler{widgetService: widgetService}
}

// RegisterRoutes registers widget routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:bot_id", h.GetBot)
}

// GetBot returns the widget-visible fields of a bot. No credential is
// required; only name and description are exposed.
func (h *Handler) GetBot(c *gin.Context) {
	bot, err := h.widgetService.PublicBot(c.Request.Context(), c.Param("bot_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bot": bot})
}
