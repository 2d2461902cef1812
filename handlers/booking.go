package handlers

import (
	"net/http"
	"strings"

	"herbimmortal/models"
	"herbimmortal/services/booking"
	"herbimmortal/services/calendar"
	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service  booking.BookingService
	Calendar *calendar.Service
}

func NewBookingHandler(service booking.BookingService, cal *calendar.Service) *BookingHandler {
	return &BookingHandler{Service: service, Calendar: cal}
}

// ListBookingsHandler returns the caller's bookings ordered by date and start time.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	filter := models.BookingFilter{
		PractitionerID: practitionerID,
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, models.BookingStatus(s))
			}
		}
	}

	bookings, err := h.Service.ListForPractitioner(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	var cmd models.CreateBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cmd.PractitionerID = practitionerID

	created, err := h.Service.Create(c.Request.Context(), cmd)
	if err != nil {
		getLogger(c).Info("Booking rejected",
			zap.String("practitionerID", practitionerID),
			zap.String("code", utils.CodeOf(err)),
			zap.Error(err),
		)
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	b, err := h.Service.Get(c.Request.Context(), practitionerID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusRequest struct {
	Status models.BookingStatus `json:"status"`
	// NewStatus is accepted for older dashboard builds.
	NewStatus       models.BookingStatus `json:"newStatus"`
	ExpectedVersion *int                 `json:"expected_version"`
	Reason          string               `json:"reason"`
}

func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status := req.Status
	if status == "" {
		status = req.NewStatus
	}

	updated, err := h.Service.Transition(c.Request.Context(), practitionerID, models.TransitionCommand{
		BookingID:       c.Param("id"),
		NewStatus:       status,
		ActingParty:     models.PartyPractitioner,
		Reason:          req.Reason,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		getLogger(c).Info("Status change rejected",
			zap.String("bookingID", c.Param("id")),
			zap.String("status", string(status)),
			zap.String("code", utils.CodeOf(err)),
		)
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CalendarHandler serves ?view=day|week|month&date=YYYY-MM-DD (defaults: week, today).
func (h *BookingHandler) CalendarHandler(c *gin.Context) {
	practitionerID, ok := practitionerIDFrom(c)
	if !ok {
		return
	}

	view := models.Granularity(c.DefaultQuery("view", string(models.GranularityWeek)))
	result, err := h.Calendar.View(c.Request.Context(), practitionerID, view, c.Query("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
