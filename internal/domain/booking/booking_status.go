package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusAwaitingPayment BookingStatus = "awaiting_payment"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusCheckedIn       BookingStatus = "checked_in"
	StatusCheckedOut      BookingStatus = "checked_out"
	StatusCompleted       BookingStatus = "completed"
	StatusCancelled       BookingStatus = "cancelled"
	StatusNoShow          BookingStatus = "no_show"
	StatusRefunded        BookingStatus = "refunded"
)

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []BookingStatus {
	return []BookingStatus{
		StatusPending,
		StatusAwaitingPayment,
		StatusConfirmed,
		StatusCheckedIn,
		StatusCheckedOut,
		StatusCompleted,
		StatusCancelled,
		StatusNoShow,
		StatusRefunded,
	}
}

// ActiveStatuses are the statuses that hold a room and count toward overlap checks.
// The bookings_no_overlap constraint in the schema lists the same values.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{
		StatusPending,
		StatusAwaitingPayment,
		StatusConfirmed,
		StatusCheckedIn,
	}
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCompleted, StatusCancelled, StatusNoShow, StatusRefunded:
		return true
	}
	return false
}

// IsActive returns true if a booking in this status occupies its room.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// IsTerminal returns true if no role can move a booking out of this status.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// AllowsTransfer returns true if the booking's room or dates may still be changed.
func (s BookingStatus) AllowsTransfer() bool {
	return s == StatusPending || s == StatusAwaitingPayment
}

// Label returns the display name shown by the back office.
func (s BookingStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusAwaitingPayment:
		return "Awaiting payment"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCheckedIn:
		return "Checked in"
	case StatusCheckedOut:
		return "Checked out"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusNoShow:
		return "No-show"
	case StatusRefunded:
		return "Refunded"
	}
	return "Unknown"
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
