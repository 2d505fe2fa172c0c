package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// NewInvalidDateRangeError reports a check-out that is not after check-in.
func NewInvalidDateRangeError(checkIn, checkOut time.Time) error {
	return domain.NewValidationErrorWithDetails("check-out must be after check-in", map[string]any{
		"reason":    "invalid_date_range",
		"check_in":  checkIn,
		"check_out": checkOut,
	})
}

// NewInvalidStatusTransitionError reports a transition the role may not perform.
func NewInvalidStatusTransitionError(from, to BookingStatus, role staff.Role) error {
	return domain.NewError(domain.KindInvalidStatusTransition,
		fmt.Sprintf("%s cannot move a booking from %s to %s", role, from, to),
		map[string]any{
			"from":    string(from),
			"to":      string(to),
			"role":    string(role),
			"allowed": AllowedTransitions(from, role),
		})
}

// NewInvalidStatusForTransferError reports a room transfer outside pending/awaiting_payment.
func NewInvalidStatusForTransferError(status BookingStatus) error {
	return domain.NewError(domain.KindInvalidStatusForTransfer,
		fmt.Sprintf("bookings in status %s cannot be transferred", status),
		map[string]any{
			"status":  string(status),
			"allowed": []BookingStatus{StatusPending, StatusAwaitingPayment},
		})
}

// Conflict describes the booking that already holds a room for part of a requested stay.
type Conflict struct {
	BookingID     uuid.UUID
	BookingNumber string
	CheckIn       time.Time
	CheckOut      time.Time
}

// NewRoomUnavailableError reports that the room is held by another active
// booking for part of [checkIn, checkOut). conflict may be nil when the
// clashing booking could not be identified.
func NewRoomUnavailableError(roomID uuid.UUID, checkIn, checkOut time.Time, conflict *Conflict) error {
	details := map[string]any{
		"room_id":   roomID.String(),
		"check_in":  checkIn,
		"check_out": checkOut,
	}
	msg := fmt.Sprintf("room %s is not available between %s and %s",
		roomID, checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339))
	if conflict != nil {
		details["conflicting_booking_id"] = conflict.BookingID.String()
		details["conflicting_booking_number"] = conflict.BookingNumber
		details["conflicting_check_in"] = conflict.CheckIn
		details["conflicting_check_out"] = conflict.CheckOut
		msg = fmt.Sprintf("%s (booked by %s from %s to %s)", msg, conflict.BookingNumber,
			conflict.CheckIn.Format(time.RFC3339), conflict.CheckOut.Format(time.RFC3339))
	}
	return domain.NewError(domain.KindRoomUnavailable, msg, details)
}
