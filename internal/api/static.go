package api

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/widget.js
var staticFS embed.FS

// SetupStaticRoutes serves the widget loader script referenced by embed
// snippets.
func SetupStaticRoutes(r *gin.Engine) {
	r.GET("/widget.js", func(c *gin.Context) {
		c.Header("Content-Type", "application/javascript")
		c.Header("Cache-Control", "public, max-age=3600")
		c.FileFromFS("static/widget.js", http.FS(staticFS))
	})
}
