package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status holds its slot.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type ConsultationType string

const (
	ConsultationVideo    ConsultationType = "video"
	ConsultationChat     ConsultationType = "chat"
	ConsultationAudio    ConsultationType = "audio"
	ConsultationInPerson ConsultationType = "in_person"
)

func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationVideo, ConsultationChat, ConsultationAudio, ConsultationInPerson:
		return true
	}
	return false
}

// ActingParty identifies who requested a status change.
type ActingParty string

const (
	PartyPractitioner ActingParty = "practitioner"
	PartyPatient      ActingParty = "patient"
	PartySystem       ActingParty = "system"
)

func (p ActingParty) Valid() bool {
	return p == PartyPractitioner || p == PartyPatient || p == PartySystem
}

// Booking is a scheduled consultation. Bookings are never deleted; cancelled
// and no-show records are kept for history.
type Booking struct {
	ID               string           `bson:"id" json:"id"`
	PractitionerID   string           `bson:"practitioner_id" json:"practitioner_id"`
	PatientID        string           `bson:"patient_id" json:"patient_id"`
	Date             string           `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime        LocalTime        `bson:"start_time" json:"start_time"`
	EndTime          LocalTime        `bson:"end_time" json:"end_time"`
	DurationMinutes  int              `bson:"duration_minutes" json:"duration_minutes"`
	ConsultationType ConsultationType `bson:"consultation_type" json:"consultation_type"`
	Status           BookingStatus    `bson:"status" json:"status"`
	PrimaryConcern   string           `bson:"primary_concern,omitempty" json:"primary_concern,omitempty"`
	Notes            string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Amount           float64          `bson:"amount" json:"amount"`
	OffTemplate      bool             `bson:"off_template" json:"off_template"`
	CancelledBy      ActingParty      `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancelReason     string           `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	Version          int              `bson:"version" json:"version"`
	// Active mirrors Status.IsActive() so the store can index live slots only.
	Active    bool      `bson:"active" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Slot returns the booked interval.
func (b Booking) Slot() TimeSlot {
	return TimeSlot{Start: b.StartTime, End: b.EndTime}
}

// CreateBookingCommand is the validated input of booking creation.
// PractitionerID comes from the caller's identity, never from the body.
type CreateBookingCommand struct {
	PractitionerID   string           `json:"-"`
	PatientID        string           `json:"patient_id"`
	Date             string           `json:"date"`
	StartTime        LocalTime        `json:"start_time"`
	EndTime          LocalTime        `json:"end_time"`
	DurationMinutes  int              `json:"duration_minutes"`
	ConsultationType ConsultationType `json:"consultation_type"`
	PrimaryConcern   string           `json:"primary_concern"`
	Notes            string           `json:"notes"`
	Amount           float64          `json:"amount"`
	// Override bypasses the availability template (never the overlap check).
	Override bool `json:"override"`
	// AutoConfirm creates the booking directly in the confirmed state.
	AutoConfirm bool `json:"auto_confirm"`
}

// TransitionCommand requests a status change.
type TransitionCommand struct {
	BookingID       string
	NewStatus       BookingStatus
	ActingParty     ActingParty
	Reason          string
	ExpectedVersion *int
}

// BookingPatch lists the mutable fields of a stored booking.
type BookingPatch struct {
	Status       *BookingStatus
	CancelledBy  *ActingParty
	CancelReason *string
	UpdatedAt    time.Time
}

// BookingFilter narrows a practitioner's bookings. Empty fields do not filter.
type BookingFilter struct {
	PractitionerID string
	DateFrom       string
	DateTo         string
	Statuses       []BookingStatus
}
