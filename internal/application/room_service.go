package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/domain"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

// RoomRequest holds the editable attributes of a room.
type RoomRequest struct {
	Name          string   `json:"name" binding:"required"`
	RoomType      string   `json:"room_type" binding:"required"`
	PricePerNight int64    `json:"price_per_night" binding:"required"`
	MaxGuests     int      `json:"max_guests" binding:"required"`
	Amenities     []string `json:"amenities"`
	Status        string   `json:"status"`
}

func (r RoomRequest) attributes() roomDomain.Attributes {
	return roomDomain.Attributes{
		Name:          r.Name,
		RoomType:      roomDomain.RoomType(r.RoomType),
		PricePerNight: r.PricePerNight,
		MaxGuests:     r.MaxGuests,
		Amenities:     r.Amenities,
		Status:        roomDomain.Status(r.Status),
	}
}

// RoomMapEntry is one tile of the front-desk room map.
type RoomMapEntry struct {
	Room           RoomDTO     `json:"room"`
	Occupancy      string      `json:"occupancy"`
	OccupancyLabel string      `json:"occupancy_label"`
	Booking        *BookingRef `json:"booking,omitempty"`
}

// BookingRef identifies the booking that drives a room's occupancy.
type BookingRef struct {
	ID            uuid.UUID `json:"id"`
	BookingNumber string    `json:"booking_number"`
	Status        string    `json:"status"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
}

// RoomService is the application service for room inventory and the room map.
type RoomService struct {
	repo     roomDomain.RoomRepository
	bookings bookingDomain.BookingRepository
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService. Calendar days on the room map are
// taken in loc.
func NewRoomService(
	repo roomDomain.RoomRepository,
	bookings bookingDomain.BookingRepository,
	loc *time.Location,
	logger *zap.Logger,
) *RoomService {
	if loc == nil {
		loc = time.UTC
	}
	return &RoomService{
		repo:     repo,
		bookings: bookings,
		location: loc,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateRoom adds a room to the inventory.
func (s *RoomService) CreateRoom(ctx context.Context, req RoomRequest) (*RoomDTO, error) {
	rm, err := roomDomain.NewRoom(req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rm); err != nil {
		return nil, err
	}
	s.logger.Info("room created", zap.String("room_id", rm.ID().String()), zap.String("name", rm.Name()))
	result := toRoomDTO(rm)
	return &result, nil
}

// GetRoom retrieves a room by ID.
func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListRooms retrieves rooms with pagination.
func (s *RoomService) ListRooms(ctx context.Context, filter roomDomain.ListFilter, page, limit int) (*domain.PaginatedResult[RoomDTO], error) {
	rooms, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateRoom replaces a room's attributes.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID uuid.UUID, req RoomRequest) (*RoomDTO, error) {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := rm.Update(req.attributes()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom soft-deletes a room that holds no current or future active booking.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}

	now := s.now().In(s.location)
	active, err := s.bookings.FindActiveByRooms(ctx, []uuid.UUID{roomID}, now, farFuture)
	if err != nil {
		return err
	}
	if n := len(active[roomID]); n > 0 {
		return domain.NewError(domain.KindConflict, "room still has active bookings", map[string]any{
			"room_id":         roomID.String(),
			"active_bookings": n,
		})
	}

	rm.MarkDeleted()
	if err := s.repo.Update(ctx, rm); err != nil {
		return err
	}
	s.logger.Info("room deleted", zap.String("room_id", roomID.String()))
	return nil
}

var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// RoomMap derives the occupancy of every room at the current instant.
// Nothing is cached; every call reads the latest bookings.
func (s *RoomService) RoomMap(ctx context.Context) ([]RoomMapEntry, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	ids := make([]uuid.UUID, len(rooms))
	for i, rm := range rooms {
		ids[i] = rm.ID()
	}
	byRoom, err := s.bookings.FindActiveByRooms(ctx, ids, now, bookingDomain.EndOfDay(now))
	if err != nil {
		return nil, err
	}

	entries := make([]RoomMapEntry, len(rooms))
	for i, rm := range rooms {
		bookings := byRoom[rm.ID()]
		occ := bookingDomain.DeriveOccupancy(bookings, now)
		entries[i] = RoomMapEntry{
			Room:           toRoomDTO(rm),
			Occupancy:      string(occ),
			OccupancyLabel: occ.Label(),
			Booking:        occupancyBooking(bookings, occ),
		}
	}
	return entries, nil
}

// occupancyBooking picks the booking that explains occ.
func occupancyBooking(bookings []*bookingDomain.Booking, occ bookingDomain.Occupancy) *BookingRef {
	want := func(b *bookingDomain.Booking) bool { return b.Status().IsActive() }
	switch occ {
	case bookingDomain.OccupancyVacant:
		return nil
	case bookingDomain.OccupancyOccupied, bookingDomain.OccupancyUpcomingCheckOut, bookingDomain.OccupancyOverdueCheckOut:
		want = func(b *bookingDomain.Booking) bool { return b.Status() == bookingDomain.StatusCheckedIn }
	}
	for _, b := range bookings {
		if want(b) {
			return &BookingRef{
				ID:            b.ID(),
				BookingNumber: b.BookingNumber(),
				Status:        string(b.Status()),
				CheckIn:       b.CheckIn(),
				CheckOut:      b.CheckOut(),
			}
		}
	}
	return nil
}
