package handlers

import (
	"fmt"

	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger set by RequestLogger, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// practitionerIDFrom reads the id set by PractitionerAuthMiddleware and writes a
// 401 when it is missing.
func practitionerIDFrom(c *gin.Context) (string, bool) {
	v, exists := c.Get("practitionerID")
	id, _ := v.(string)
	if !exists || id == "" {
		utils.RespondError(c, utils.ErrUnauthorized)
		return "", false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	getLogger(c).Debug("Rejected request body", zap.Error(err))
	utils.RespondError(c, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err))
}
