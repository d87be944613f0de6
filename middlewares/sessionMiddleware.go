package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
)

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "unauthorized", "message": "unauthorized"})
}

func requestToken(c *gin.Context) string {
	if token := c.Request.Header.Get("token"); token != "" {
		return token
	}
	auth := c.Request.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// SessionMiddleware resolves the session token, when one is sent, into the request context.
// The token must verify and still be live in redis. Without a redis client only the signature is checked.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.JwtValidate(token)
		if err != nil {
			unauthorized(c)
			return
		}
		if config.GetRedisDB() != nil {
			username, exists, err := models.SessionUsername(token)
			if err != nil || !exists || username != claims.Username {
				unauthorized(c)
				return
			}
		}

		c.Request = c.Request.WithContext(withSession(c.Request.Context(), token, claims))
		c.Next()
	}
}

func withSession(ctx context.Context, token string, claims *utils.JwtCustomClaim) context.Context {
	ctx = utils.SetTokenInContext(ctx, token)
	ctx = utils.SetUsernameInContext(ctx, claims.Username)
	ctx = utils.SetUserIdInContext(ctx, claims.ID)
	return utils.SetRoleInContext(ctx, claims.Role)
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok || username == "" {
			unauthorized(c)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := utils.GetRoleFromContext(c.Request.Context()); role != string(models.UserRoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "forbidden", "message": "admin role required"})
			return
		}
		c.Next()
	}
}
