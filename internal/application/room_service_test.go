package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/domain"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

func newRoomService(rooms *MockRoomRepository, bookings *MockBookingRepository, now time.Time) *RoomService {
	svc := NewRoomService(rooms, bookings, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func stayFor(roomID uuid.UUID, status bookingDomain.BookingStatus, in, out time.Time) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(bookingDomain.Snapshot{
		ID:             uuid.New(),
		BookingNumber:  "BK-MAP001",
		RoomID:         &roomID,
		Status:         status,
		CheckIn:        in,
		CheckOut:       out,
		NumberOfNights: 1,
		TotalGuests:    1,
		Version:        1,
	})
}

func TestCreateRoom_ValidatesAttributes(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := newRoomService(rooms, new(MockBookingRepository), time.Now())

	_, err := svc.CreateRoom(context.Background(), RoomRequest{
		Name:          "201",
		RoomType:      "penthouse",
		PricePerNight: 100000,
		MaxGuests:     2,
	})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	rooms.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateRoom_DuplicateNameConflicts(t *testing.T) {
	rooms := new(MockRoomRepository)
	rooms.On("Save", mock.Anything, mock.Anything).Return(domain.NewConflictError("room name already exists"))
	svc := newRoomService(rooms, new(MockBookingRepository), time.Now())

	_, err := svc.CreateRoom(context.Background(), RoomRequest{
		Name:          "201",
		RoomType:      "family",
		PricePerNight: 100000,
		MaxGuests:     4,
	})

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreateRoom_DefaultsStatusAndAmenities(t *testing.T) {
	rooms := new(MockRoomRepository)
	rooms.On("Save", mock.Anything, mock.Anything).Return(nil)
	svc := newRoomService(rooms, new(MockBookingRepository), time.Now())

	dto, err := svc.CreateRoom(context.Background(), RoomRequest{
		Name:          " 202 ",
		RoomType:      "standard",
		PricePerNight: 40000,
		MaxGuests:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, "202", dto.Name)
	assert.Equal(t, "available", dto.Status)
	assert.NotNil(t, dto.Amenities)
}

func TestDeleteRoom_RejectsRoomWithActiveBookings(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rooms := new(MockRoomRepository)
	bookings := new(MockBookingRepository)
	rm := newTestRoom(t, 2, 50000)

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	bookings.On("FindActiveByRooms", mock.Anything, []uuid.UUID{rm.ID()}, now, mock.Anything).
		Return(map[uuid.UUID][]*bookingDomain.Booking{
			rm.ID(): {stayFor(rm.ID(), bookingDomain.StatusConfirmed, now.Add(24*time.Hour), now.Add(72*time.Hour))},
		}, nil)

	err := newRoomService(rooms, bookings, now).DeleteRoom(context.Background(), rm.ID())

	assert.True(t, errors.Is(err, domain.ErrConflict))
	rooms.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteRoom_SoftDeletesIdleRoom(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rooms := new(MockRoomRepository)
	bookings := new(MockBookingRepository)
	rm := newTestRoom(t, 2, 50000)

	rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	rooms.On("Update", mock.Anything, mock.MatchedBy(func(r *roomDomain.Room) bool { return r.IsDeleted() })).Return(nil)
	bookings.On("FindActiveByRooms", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID][]*bookingDomain.Booking{}, nil)

	err := newRoomService(rooms, bookings, now).DeleteRoom(context.Background(), rm.ID())

	require.NoError(t, err)
	rooms.AssertExpectations(t)
}

func TestRoomMap_DerivesOccupancyPerRoom(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rooms := new(MockRoomRepository)
	bookings := new(MockBookingRepository)

	vacant := newTestRoom(t, 2, 50000)
	arriving := newTestRoom(t, 2, 50000)
	occupied := newTestRoom(t, 2, 50000)
	departing := newTestRoom(t, 2, 50000)
	overdue := newTestRoom(t, 2, 50000)

	arrival := stayFor(arriving.ID(), bookingDomain.StatusConfirmed, now.Add(4*time.Hour), now.Add(48*time.Hour))
	inHouse := stayFor(occupied.ID(), bookingDomain.StatusCheckedIn, now.Add(-24*time.Hour), now.Add(48*time.Hour))
	leaving := stayFor(departing.ID(), bookingDomain.StatusCheckedIn, now.Add(-48*time.Hour), now.Add(2*time.Hour))
	late := stayFor(overdue.ID(), bookingDomain.StatusCheckedIn, now.Add(-72*time.Hour), now.Add(-24*time.Hour))

	rooms.On("ListAll", mock.Anything).Return([]*roomDomain.Room{vacant, arriving, occupied, departing, overdue}, nil)
	bookings.On("FindActiveByRooms", mock.Anything, mock.Anything, now, bookingDomain.EndOfDay(now)).
		Return(map[uuid.UUID][]*bookingDomain.Booking{
			arriving.ID():  {arrival},
			occupied.ID():  {inHouse},
			departing.ID(): {leaving},
			overdue.ID():   {late},
		}, nil)

	entries, err := newRoomService(rooms, bookings, now).RoomMap(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 5)

	got := make(map[uuid.UUID]RoomMapEntry, len(entries))
	for _, e := range entries {
		got[e.Room.ID] = e
	}
	assert.Equal(t, "vacant", got[vacant.ID()].Occupancy)
	assert.Nil(t, got[vacant.ID()].Booking)
	assert.Equal(t, "upcoming_checkin", got[arriving.ID()].Occupancy)
	assert.Equal(t, arrival.ID(), got[arriving.ID()].Booking.ID)
	assert.Equal(t, "occupied", got[occupied.ID()].Occupancy)
	assert.Equal(t, "upcoming_checkout", got[departing.ID()].Occupancy)
	assert.Equal(t, "overdue_checkout", got[overdue.ID()].Occupancy)
	assert.Equal(t, "Overdue check-out", got[overdue.ID()].OccupancyLabel)
	assert.Equal(t, late.ID(), got[overdue.ID()].Booking.ID)
}

func TestRoomMap_CheckedInWinsOverArrival(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rooms := new(MockRoomRepository)
	bookings := new(MockBookingRepository)
	rm := newTestRoom(t, 2, 50000)

	inHouse := stayFor(rm.ID(), bookingDomain.StatusCheckedIn, now.Add(-24*time.Hour), now.Add(3*time.Hour))
	next := stayFor(rm.ID(), bookingDomain.StatusConfirmed, now.Add(5*time.Hour), now.Add(48*time.Hour))

	rooms.On("ListAll", mock.Anything).Return([]*roomDomain.Room{rm}, nil)
	bookings.On("FindActiveByRooms", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID][]*bookingDomain.Booking{rm.ID(): {next, inHouse}}, nil)

	entries, err := newRoomService(rooms, bookings, now).RoomMap(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "upcoming_checkout", entries[0].Occupancy)
	assert.Equal(t, inHouse.ID(), entries[0].Booking.ID)
}
