package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/finhub-saas/identity-service/pkg/helpers"
	"github.com/finhub-saas/identity-service/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserRoleKey  = "userRole"
)

// Auth validates the access token cookie and ensures the Redis session it was
// issued against is still alive. It sets userID, userEmail, and userRole in
// the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.Error(c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}
		// A token from a rotated-out session is no longer valid.
		if claims.SessionID != "" && data["sid"] != claims.SessionID {
			response.Error(c, http.StatusUnauthorized, "session expired", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, data["user_id"])
		c.Set(CtxUserEmailKey, data["email"])
		c.Set(CtxUserRoleKey, data["role"])
		c.Next()
	}
}
