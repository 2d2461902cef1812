package middleware

import (
	"net/http"
	"strings"

	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PractitionerAuthMiddleware verifies the bearer token issued by the auth service
// and stores its subject as "practitionerID". Tokens the auth service has revoked
// are marked in redis under RevokedTokenPrefix+sha256(token); a nil client skips
// that check.
func PractitionerAuthMiddleware(revoked *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		practitionerID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || practitionerID == "" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		if revoked != nil {
			key := utils.RevokedTokenPrefix + utils.HashToken(tokenString)
			n, err := revoked.Exists(c.Request.Context(), key).Result()
			switch {
			case err != nil:
				// The signature already checked out; a cache outage should not lock everyone out.
				logger.Error("Error checking revoked token cache", zap.Error(err))
			case n > 0:
				logger.Info("Revoked token presented", zap.String("practitionerID", practitionerID))
				abortUnauthorized(c, "Token has been revoked")
				return
			}
		}

		c.Set("practitionerID", practitionerID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
		Message: utils.ErrUnauthorized.Message,
		Code:    utils.ErrUnauthorized.Code,
		Details: details,
	})
}
