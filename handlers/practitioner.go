package handlers

import (
	"net/http"

	"herbimmortal/models"
	"herbimmortal/services/availability"
	"herbimmortal/services/practitioner"
	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
)

type PractitionerHandler struct {
	Service      practitioner.PractitionerService
	Availability *availability.Store
}

func NewPractitionerHandler(service practitioner.PractitionerService, store *availability.Store) *PractitionerHandler {
	return &PractitionerHandler{Service: service, Availability: store}
}

func (h *PractitionerHandler) GetProfileHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}
	profile, err := h.Service.GetProfile(c.Request.Context(), practitionerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfileHandler applies a partial profile; a present availability array
// replaces the whole weekly template.
func (h *PractitionerHandler) UpdateProfileHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	var update models.PractitionerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Service.UpdateProfile(c.Request.Context(), practitionerID, update)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PractitionerHandler) GetAvailabilityHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}
	tpl, err := h.Availability.GetTemplate(c.Request.Context(), practitionerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}
