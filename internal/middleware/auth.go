package middleware

import (
	"net/http"

	"PawPlanner_WebClient/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ClientCookieName = "pawplan_client"
	ClientIDKey      = "client_id"
)

// ClientIdentity makes sure every request carries a valid client token,
// minting a new client when the cookie is missing or invalid.
func ClientIdentity(issuer *auth.TokenIssuer, secureCookie bool, logger *zap.Logger) gin.HandlerFunc {
	maxAge := int(issuer.TTL().Seconds())

	return func(c *gin.Context) {
		if tokenString, err := c.Cookie(ClientCookieName); err == nil && tokenString != "" {
			claims, err := issuer.ValidateToken(tokenString)
			if err == nil {
				c.Set(ClientIDKey, claims.ClientID)
				c.Next()
				return
			}
			logger.Debug("replacing invalid client token", zap.Error(err))
		}

		clientID, tokenString, err := issuer.NewClient()
		if err != nil {
			logger.Error("failed to mint client token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client session"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookieName, tokenString, maxAge, "/", "", secureCookie, true)
		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

// ClientID returns the id set by ClientIdentity.
func ClientID(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}
