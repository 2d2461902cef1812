package bookingRepo

import (
	"context"

	"herbimmortal/models"
)

// Expected is the state a conditional update must still observe for it to apply.
type Expected struct {
	Status  models.BookingStatus
	Version int
}

// BookingRepository is the persistence boundary for bookings.
//
// Insert rejects a second active booking starting at the same practitioner/date/time
// with utils.ErrSlotConflict. Update is a compare-and-swap: it applies patch only if
// the stored booking still matches expected, bumping Version, and otherwise fails
// with utils.ErrStaleUpdate (or utils.ErrBookingNotFound when id is unknown).
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByPractitioner(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, id string, expected Expected, patch models.BookingPatch) (*models.Booking, error)
}

// applyPatch mutates b in place. The memory driver applies it directly; the
// mongo driver mirrors the same fields with $set and $inc in Update.
func applyPatch(b *models.Booking, patch models.BookingPatch) {
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.CancelledBy != nil {
		b.CancelledBy = *patch.CancelledBy
	}
	if patch.CancelReason != nil {
		b.CancelReason = *patch.CancelReason
	}
	b.UpdatedAt = patch.UpdatedAt
	b.Active = b.Status.IsActive()
	b.Version++
}

func matches(b models.Booking, filter models.BookingFilter) bool {
	if filter.PractitionerID != "" && b.PractitionerID != filter.PractitionerID {
		return false
	}
	if filter.DateFrom != "" && b.Date < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && b.Date > filter.DateTo {
		return false
	}
	if len(filter.Statuses) == 0 {
		return true
	}
	for _, s := range filter.Statuses {
		if b.Status == s {
			return true
		}
	}
	return false
}
