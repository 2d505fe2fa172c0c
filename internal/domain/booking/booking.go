package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a room reservation.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	customerID    *uuid.UUID
	roomID        *uuid.UUID
	status        BookingStatus

	checkIn        time.Time
	checkOut       time.Time
	numberOfNights int
	actualCheckIn  *time.Time
	actualCheckOut *time.Time

	totalAmount    int64
	advancePayment int64
	totalGuests    int

	notes        string
	cancelledAt  *time.Time
	cancelReason string

	version   int64
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewBookingParams holds the inputs for creating a booking.
type NewBookingParams struct {
	CustomerID     *uuid.UUID
	RoomID         uuid.UUID
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfNights int // optional; when set it must match the stay
	TotalAmount    int64
	AdvancePayment int64
	TotalGuests    int
	Notes          string
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking validates the request and creates a pending booking. Nothing here
// checks room availability; that is enforced atomically when the booking is saved.
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.RoomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	nights, err := NightsBetween(p.CheckIn, p.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := checkSuppliedNights(p.NumberOfNights, nights); err != nil {
		return nil, err
	}
	if err := validateGuests(p.TotalGuests); err != nil {
		return nil, err
	}
	if err := validateAmounts(p.TotalAmount, p.AdvancePayment); err != nil {
		return nil, err
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	roomID := p.RoomID
	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		bookingNumber:  bookingNumber,
		customerID:     p.CustomerID,
		roomID:         &roomID,
		status:         StatusPending,
		checkIn:        p.CheckIn.UTC(),
		checkOut:       p.CheckOut.UTC(),
		numberOfNights: nights,
		totalAmount:    p.TotalAmount,
		advancePayment: p.AdvancePayment,
		totalGuests:    p.TotalGuests,
		notes:          p.Notes,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Snapshot is the full persisted state of a booking, used to rebuild the aggregate.
type Snapshot struct {
	ID             uuid.UUID
	BookingNumber  string
	CustomerID     *uuid.UUID
	RoomID         *uuid.UUID
	Status         BookingStatus
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfNights int
	ActualCheckIn  *time.Time
	ActualCheckOut *time.Time
	TotalAmount    int64
	AdvancePayment int64
	TotalGuests    int
	Notes          string
	CancelledAt    *time.Time
	CancelReason   string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(s Snapshot) *Booking {
	return &Booking{
		id:             s.ID,
		bookingNumber:  s.BookingNumber,
		customerID:     s.CustomerID,
		roomID:         s.RoomID,
		status:         s.Status,
		checkIn:        s.CheckIn,
		checkOut:       s.CheckOut,
		numberOfNights: s.NumberOfNights,
		actualCheckIn:  s.ActualCheckIn,
		actualCheckOut: s.ActualCheckOut,
		totalAmount:    s.TotalAmount,
		advancePayment: s.AdvancePayment,
		totalGuests:    s.TotalGuests,
		notes:          s.Notes,
		cancelledAt:    s.CancelledAt,
		cancelReason:   s.CancelReason,
		version:        s.Version,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		deletedAt:      s.DeletedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// CustomerID returns the guest's customer ID, or nil for walk-ins without a profile.
func (b *Booking) CustomerID() *uuid.UUID { return b.customerID }

// RoomID returns the reserved room's ID.
func (b *Booking) RoomID() *uuid.UUID { return b.roomID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CheckIn returns the scheduled arrival.
func (b *Booking) CheckIn() time.Time { return b.checkIn }

// CheckOut returns the scheduled departure.
func (b *Booking) CheckOut() time.Time { return b.checkOut }

// NumberOfNights returns the number of charged nights.
func (b *Booking) NumberOfNights() int { return b.numberOfNights }

// ActualCheckIn returns when the guest actually checked in.
func (b *Booking) ActualCheckIn() *time.Time { return b.actualCheckIn }

// ActualCheckOut returns when the guest actually checked out.
func (b *Booking) ActualCheckOut() *time.Time { return b.actualCheckOut }

// TotalAmount returns the stay total in minor currency units.
func (b *Booking) TotalAmount() int64 { return b.totalAmount }

// AdvancePayment returns the deposit in minor currency units.
func (b *Booking) AdvancePayment() int64 { return b.advancePayment }

// TotalGuests returns the number of guests.
func (b *Booking) TotalGuests() int { return b.totalGuests }

// Notes returns free-form notes.
func (b *Booking) Notes() string { return b.notes }

// CancelledAt returns when the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelReason returns the cancellation reason.
func (b *Booking) CancelReason() string { return b.cancelReason }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// DeletedAt returns the soft-delete timestamp.
func (b *Booking) DeletedAt() *time.Time { return b.deletedAt }

// IsDeleted reports whether the booking has been soft-deleted.
func (b *Booking) IsDeleted() bool { return b.deletedAt != nil }

// --- Behavior ---

// AllowedTransitions returns the statuses role may move this booking to.
func (b *Booking) AllowedTransitions(role staff.Role) []BookingStatus {
	return AllowedTransitions(b.status, role)
}

// ChangeStatus moves the booking to target on behalf of role and applies the
// side effects of the target status. It returns false without touching the
// booking when target equals the current status.
func (b *Booking) ChangeStatus(target BookingStatus, role staff.Role) (bool, error) {
	if !target.IsValid() {
		return false, domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
	}
	if target == b.status {
		return false, nil
	}
	if !IsTransitionAllowed(b.status, target, role) {
		return false, NewInvalidStatusTransitionError(b.status, target, role)
	}

	now := time.Now().UTC()
	switch target {
	case StatusCheckedIn:
		b.actualCheckIn = &now
	case StatusCheckedOut:
		b.actualCheckOut = &now
	case StatusCancelled:
		b.cancelledAt = &now
	}
	b.status = target
	b.updatedAt = now
	return true, nil
}

// Cancel cancels the booking and records the reason. No refund is issued.
func (b *Booking) Cancel(role staff.Role, reason string) (bool, error) {
	changed, err := b.ChangeStatus(StatusCancelled, role)
	if err != nil || !changed {
		return changed, err
	}
	b.cancelReason = reason
	return true, nil
}

// Transfer moves the booking to another room and/or date range and reprices
// it at pricePerNight. Only pending and awaiting_payment bookings may move.
func (b *Booking) Transfer(roomID uuid.UUID, checkIn, checkOut time.Time, pricing PricingStrategy, pricePerNight int64) error {
	if !b.status.AllowsTransfer() {
		return NewInvalidStatusForTransferError(b.status)
	}
	if roomID == uuid.Nil {
		return domain.NewValidationError("room ID is required")
	}
	nights, err := NightsBetween(checkIn, checkOut)
	if err != nil {
		return err
	}
	total, err := pricing.Calculate(PricingParams{PricePerNight: pricePerNight, Nights: nights})
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}
	if err := validateAmounts(total, b.advancePayment); err != nil {
		return err
	}

	b.roomID = &roomID
	b.checkIn = checkIn.UTC()
	b.checkOut = checkOut.UTC()
	b.numberOfNights = nights
	b.totalAmount = total
	b.updatedAt = time.Now().UTC()
	return nil
}

// DetailsUpdate is a partial update of the booking's non-status fields.
type DetailsUpdate struct {
	TotalGuests    *int
	Notes          *string
	AdvancePayment *int64
}

// UpdateDetails applies a partial update. Status is never touched here.
func (b *Booking) UpdateDetails(u DetailsUpdate) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "edit")
	}
	if u.TotalGuests != nil {
		if err := validateGuests(*u.TotalGuests); err != nil {
			return err
		}
	}
	if u.AdvancePayment != nil {
		if err := validateAmounts(b.totalAmount, *u.AdvancePayment); err != nil {
			return err
		}
	}

	if u.TotalGuests != nil {
		b.totalGuests = *u.TotalGuests
	}
	if u.AdvancePayment != nil {
		b.advancePayment = *u.AdvancePayment
	}
	if u.Notes != nil {
		b.notes = *u.Notes
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkDeleted soft-deletes the booking.
func (b *Booking) MarkDeleted() error {
	if b.deletedAt != nil {
		return domain.NewInvalidStateError("deleted", "deleted")
	}
	now := time.Now().UTC()
	b.deletedAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
