package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hotelhub/service-booking/internal/common/kafka"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
	paymentDomain "github.com/hotelhub/service-booking/internal/domain/payment"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockBookingRepository) FindConflicting(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, exclude *uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindActiveByRooms(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]*bookingDomain.Booking, error) {
	args := m.Called(ctx, roomIDs, from, to)
	return args.Get(0).(map[uuid.UUID][]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindArrivals(ctx context.Context, from, to time.Time) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindDepartures(ctx context.Context, from, to time.Time) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) StatsForCustomer(ctx context.Context, customerID uuid.UUID) (bookingDomain.CustomerStats, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(bookingDomain.CustomerStats), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateWithRefund(ctx context.Context, bk *bookingDomain.Booking, refundedAt time.Time) (bookingDomain.RefundOutcome, error) {
	args := m.Called(ctx, bk, refundedAt)
	return args.Get(0).(bookingDomain.RefundOutcome), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*roomDomain.Room, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context, filter roomDomain.ListFilter, page, limit int) ([]*roomDomain.Room, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]*roomDomain.Room), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoomRepository) ListAll(ctx context.Context) ([]*roomDomain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*roomDomain.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	return m.Called(ctx, rm).Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	return m.Called(ctx, rm).Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*customerDomain.Customer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*customerDomain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter customerDomain.ListFilter, page, limit int) ([]*customerDomain.Customer, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]*customerDomain.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customerDomain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*paymentDomain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

// eventOfType matches a CloudEvent argument by type.
func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.CloudEvent) bool { return e.Type == eventType })
}
