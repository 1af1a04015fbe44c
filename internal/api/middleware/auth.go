package middleware

import (
	"net/http"
	"strings"

	"github.com/botdesk/botdesk/internal/auth"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key the auth middleware stores the
// authenticated user ID under.
const UserIDKey = "auth_user_id"

// CookieName is the first-party auth cookie.
const CookieName = "auth_token"

// FirstPartyMode resolves the request's first-party credential into an
// explicit auth mode: bearer header wins over cookie.
func FirstPartyMode(c *gin.Context) auth.Mode {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return auth.Mode{Kind: auth.ModeBearer, Value: strings.TrimPrefix(header, "Bearer ")}
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return auth.Mode{Kind: auth.ModeCookie, Value: cookie}
	}
	return auth.Mode{Kind: auth.ModeNone}
}

// Auth returns a middleware requiring a valid first-party credential.
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := verifier.VerifyFirstParty(FirstPartyMode(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID stored by Auth.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
