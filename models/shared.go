package models

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingNoShow    = "booking.no_show"
)

// BookingEvent is the payload of the booking:event background task.
type BookingEvent struct {
	Type           string        `json:"type"`
	BookingID      string        `json:"booking_id"`
	PractitionerID string        `json:"practitioner_id"`
	PatientID      string        `json:"patient_id"`
	Status         BookingStatus `json:"status"`
	Date           string        `json:"date"`
	StartTime      LocalTime     `json:"start_time"`
	Reason         string        `json:"reason,omitempty"`
}

// EventTypeFor names the event emitted when a booking enters status.
func EventTypeFor(status BookingStatus) string {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCompleted:
		return EventBookingCompleted
	case StatusCancelled:
		return EventBookingCancelled
	case StatusNoShow:
		return EventBookingNoShow
	}
	return EventBookingCreated
}
