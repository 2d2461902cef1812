package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"herbimmortal/services/notification"
	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	Service notification.NotificationService
}

func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			utils.RespondError(c, fmt.Errorf("%w: limit must be between 1 and 200, got %q", utils.ErrInvalidInput, raw))
			return
		}
		limit = n
	}

	items, err := h.Service.ListForPractitioner(c.Request.Context(), practitionerID, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
