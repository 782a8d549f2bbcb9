package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opaldesk/accounts-backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextNickname = "nickname"
)

// TokenVerifier validates a bearer token and extracts its identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*types.Identity, error)
}

// AccountProvisioner guarantees an account row exists for a verified
// identity, creating one on first sight.
type AccountProvisioner interface {
	EnsureUser(ctx context.Context, identity *types.Identity) (*types.FullUserProfile, error)
}

// AuthMiddleware verifies the bearer token and provisions the account
// row before the handler runs. Anything unexpected fails closed with 401.
func AuthMiddleware(verifier TokenVerifier, provisioner AccountProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Missing or invalid authorization header",
			})
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Printf("[AuthMiddleware] Token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if _, err := provisioner.EnsureUser(c.Request.Context(), identity); err != nil {
			log.Printf("[AuthMiddleware] Provisioning failed for %s: %v", identity.Sub, err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, identity.Sub)
		c.Set(ContextEmail, identity.Email)
		c.Set(ContextNickname, identity.Nickname)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the identity context when a valid
// bearer token is present and lets everything else through anonymously.
// No provisioning happens here.
func OptionalAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if ok {
			if identity, err := verifier.Verify(c.Request.Context(), token); err == nil {
				c.Set(ContextUserID, identity.Sub)
				c.Set(ContextEmail, identity.Email)
				c.Set(ContextNickname, identity.Nickname)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
