package booking

import "time"

// Occupancy is the derived front-desk state of a room at a point in time.
type Occupancy string

const (
	OccupancyVacant           Occupancy = "vacant"
	OccupancyUpcomingCheckIn  Occupancy = "upcoming_checkin"
	OccupancyOccupied         Occupancy = "occupied"
	OccupancyUpcomingCheckOut Occupancy = "upcoming_checkout"
	OccupancyOverdueCheckOut  Occupancy = "overdue_checkout"
)

// Label returns the display label for the occupancy state.
func (o Occupancy) Label() string {
	switch o {
	case OccupancyVacant:
		return "Vacant"
	case OccupancyUpcomingCheckIn:
		return "Arriving today"
	case OccupancyOccupied:
		return "Occupied"
	case OccupancyUpcomingCheckOut:
		return "Departing today"
	case OccupancyOverdueCheckOut:
		return "Overdue check-out"
	default:
		return string(o)
	}
}

// EndOfDay returns the first instant of the calendar day after t, in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// DeriveOccupancy computes a room's occupancy from its bookings at now.
// Calendar days are taken in now's location. A checked-in guest always wins
// over an arrival expected the same day.
func DeriveOccupancy(bookings []*Booking, now time.Time) Occupancy {
	endOfToday := EndOfDay(now)

	for _, b := range bookings {
		if b == nil || b.IsDeleted() || b.Status() != StatusCheckedIn {
			continue
		}
		switch {
		case !now.Before(b.CheckOut()):
			return OccupancyOverdueCheckOut
		case b.CheckOut().Before(endOfToday):
			return OccupancyUpcomingCheckOut
		default:
			return OccupancyOccupied
		}
	}

	for _, b := range bookings {
		if b == nil || b.IsDeleted() || !b.Status().IsActive() {
			continue
		}
		if b.CheckIn().Before(endOfToday) && b.CheckOut().After(now) {
			return OccupancyUpcomingCheckIn
		}
	}
	return OccupancyVacant
}
