package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a booking listing. Zero values mean "no filter".
// From/To select bookings whose stay intersects [From, To).
type ListFilter struct {
	Status     BookingStatus
	RoomID     *uuid.UUID
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// RefundOutcome reports how many payments a booking refund touched.
type RefundOutcome struct {
	PaymentsRefunded  int64
	PaymentsCancelled int64
}

// CustomerStats is the derived booking history of a customer.
type CustomerStats struct {
	TotalBookings int64
	TotalSpent    int64
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a non-deleted booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// List retrieves bookings matching the filter with pagination, newest check-in first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// FindConflicting returns an active booking on roomID whose stay overlaps
	// [checkIn, checkOut), ignoring exclude. It returns nil when there is none.
	FindConflicting(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, exclude *uuid.UUID) (*Booking, error)

	// FindActiveByRooms returns the active bookings of the given rooms that
	// intersect [from, to), grouped by room ID. Checked-in stays are included
	// even when their check-out is already past, so overdue guests show up.
	FindActiveByRooms(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]*Booking, error)

	// FindArrivals returns non-deleted bookings whose check-in falls in [from, to).
	FindArrivals(ctx context.Context, from, to time.Time) ([]*Booking, error)

	// FindDepartures returns non-deleted bookings whose check-out falls in [from, to).
	FindDepartures(ctx context.Context, from, to time.Time) ([]*Booking, error)

	// StatsForCustomer computes the customer's booking count and spend.
	StatsForCustomer(ctx context.Context, customerID uuid.UUID) (CustomerStats, error)

	// Save persists a new booking. An overlap with another active booking on
	// the same room fails with a RoomUnavailable error.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	// Room/date changes are subject to the same overlap check as Save.
	Update(ctx context.Context, booking *Booking) error

	// UpdateWithRefund persists a refunded booking and, in the same
	// transaction, refunds its paid payments and cancels its pending ones.
	UpdateWithRefund(ctx context.Context, booking *Booking, refundedAt time.Time) (RefundOutcome, error)
}
