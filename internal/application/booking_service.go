package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/contract"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// CreateBookingRequest holds the data needed to create a new booking.
// TotalAmount defaults to the room's nightly price times the number of nights.
type CreateBookingRequest struct {
	CustomerID     *uuid.UUID `json:"customer_id"`
	RoomID         uuid.UUID  `json:"room_id" binding:"required"`
	CheckIn        time.Time  `json:"check_in" binding:"required"`
	CheckOut       time.Time  `json:"check_out" binding:"required"`
	NumberOfNights int        `json:"number_of_nights"`
	TotalAmount    *int64     `json:"total_amount"`
	AdvancePayment int64      `json:"advance_payment"`
	TotalGuests    int        `json:"total_guests" binding:"required"`
	Notes          string     `json:"notes"`
}

// TransferBookingRequest moves a booking to another room and/or dates.
type TransferBookingRequest struct {
	RoomID   uuid.UUID `json:"room_id" binding:"required"`
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
}

// UpdateBookingRequest is a partial update of a booking's details.
type UpdateBookingRequest struct {
	TotalGuests    *int    `json:"total_guests"`
	Notes          *string `json:"notes"`
	AdvancePayment *int64  `json:"advance_payment"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	rooms     roomDomain.RoomRepository
	customers customerDomain.CustomerRepository
	pricing   bookingDomain.PricingStrategy
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	rooms roomDomain.RoomRepository,
	customers customerDomain.CustomerRepository,
	pricing bookingDomain.PricingStrategy,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		rooms:     rooms,
		customers: customers,
		pricing:   pricing,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the request and stores a pending booking. Input
// errors are reported before any lookup; room availability is decided
// atomically by the store.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if req.RoomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if err := bookingDomain.ValidateStayRequest(req.CheckIn, req.CheckOut, req.NumberOfNights,
		req.TotalGuests, req.TotalAmount, req.AdvancePayment); err != nil {
		return nil, err
	}
	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if err := rm.AcceptsGuests(req.TotalGuests); err != nil {
		return nil, err
	}

	var cust *customerDomain.Customer
	if req.CustomerID != nil {
		cust, err = s.customers.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if err := cust.CanBook(); err != nil {
			return nil, err
		}
	}

	var total int64
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	} else {
		nights, err := bookingDomain.NightsBetween(req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, err
		}
		total, err = s.pricing.Calculate(bookingDomain.PricingParams{
			PricePerNight: rm.PricePerNight(),
			Nights:        nights,
		})
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
		}
	}

	bk, err := bookingDomain.NewBooking(bookingDomain.NewBookingParams{
		CustomerID:     req.CustomerID,
		RoomID:         req.RoomID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		NumberOfNights: req.NumberOfNights,
		TotalAmount:    total,
		AdvancePayment: req.AdvancePayment,
		TotalGuests:    req.TotalGuests,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("room_id", req.RoomID.String()),
	)

	evt := contract.BookingCreatedEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		RoomID:         req.RoomID,
		CustomerID:     bk.CustomerID(),
		CheckIn:        bk.CheckIn(),
		CheckOut:       bk.CheckOut(),
		NumberOfNights: bk.NumberOfNights(),
		TotalAmount:    bk.TotalAmount(),
		AdvancePayment: bk.AdvancePayment(),
		CreatedBy:      actor.UserID,
		OccurredAt:     time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contract.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	result.Room = toRoomSummary(rm)
	result.Customer = toCustomerSummary(cust)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, bk)
}

// ListBookings retrieves bookings matching the filter with pagination.
func (s *BookingService) ListBookings(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	dtos, err := s.presentAll(ctx, bookings)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// AllowedTransitions lists the statuses the role may move the booking to.
func (s *BookingService) AllowedTransitions(ctx context.Context, bookingID uuid.UUID, role staff.Role) (*TransitionsDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &TransitionsDTO{
		BookingID: bk.ID(),
		Current:   StatusOption{Value: string(bk.Status()), Label: bk.Status().Label()},
		Role:      string(role),
		Allowed:   toStatusOptions(bk.AllowedTransitions(role)),
	}, nil
}

// ChangeStatus moves a booking to target on behalf of actor, applying the
// side effects of the target status. Requesting the current status returns the
// booking unchanged without writing.
func (s *BookingService) ChangeStatus(ctx context.Context, bookingID uuid.UUID, target bookingDomain.BookingStatus, actor Actor) (*BookingDTO, error) {
	switch target {
	case bookingDomain.StatusCancelled:
		return s.CancelBooking(ctx, bookingID, actor, "")
	case bookingDomain.StatusRefunded:
		return s.RefundBooking(ctx, bookingID, actor)
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	changed, err := bk.ChangeStatus(target, actor.Role)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.present(ctx, bk)
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, bk, from, actor, "")
	return s.present(ctx, bk)
}

// RequestPayment moves a booking to awaiting_payment.
func (s *BookingService) RequestPayment(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusAwaitingPayment, actor)
}

// ConfirmBooking confirms a pending or awaiting_payment booking.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusConfirmed, actor)
}

// CheckIn records the guest's arrival.
func (s *BookingService) CheckIn(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusCheckedIn, actor)
}

// CheckOut records the guest's departure.
func (s *BookingService) CheckOut(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusCheckedOut, actor)
}

// CompleteBooking closes a checked-out booking.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusCompleted, actor)
}

// MarkNoShow records that the guest never arrived.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	return s.ChangeStatus(ctx, bookingID, bookingDomain.StatusNoShow, actor)
}

// ConfirmAfterPayment confirms a booking awaiting payment once its payment has
// been captured, acting as the least-privileged front-desk role. Bookings in
// any other status are left as they are and reported with confirmed=false.
func (s *BookingService) ConfirmAfterPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, bool, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if bk.Status() != bookingDomain.StatusAwaitingPayment {
		dto, err := s.present(ctx, bk)
		return dto, false, err
	}
	dto, err := s.ChangeStatus(ctx, bookingID, bookingDomain.StatusConfirmed, Actor{Role: staff.LeastPrivileged})
	if err != nil {
		return nil, false, err
	}
	return dto, true, nil
}

// CancelBooking cancels a booking. No refund is issued.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	changed, err := bk.Cancel(actor.Role, reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.present(ctx, bk)
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, bk, from, actor, reason)
	return s.present(ctx, bk)
}

// RefundBooking moves a booking to refunded and, in the same transaction,
// refunds its paid payments and cancels its pending ones.
func (s *BookingService) RefundBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	changed, err := bk.ChangeStatus(bookingDomain.StatusRefunded, actor.Role)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.present(ctx, bk)
	}

	bk.IncrementVersion()
	outcome, err := s.repo.UpdateWithRefund(ctx, bk, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking refunded",
		zap.String("booking_id", bk.ID().String()),
		zap.Int64("payments_refunded", outcome.PaymentsRefunded),
		zap.Int64("payments_cancelled", outcome.PaymentsCancelled),
	)

	s.publishStatusChanged(ctx, bk, from, actor, "")
	evt := contract.BookingRefundedEvent{
		BookingID:         bk.ID(),
		BookingNumber:     bk.BookingNumber(),
		PaymentsRefunded:  outcome.PaymentsRefunded,
		PaymentsCancelled: outcome.PaymentsCancelled,
		RefundedBy:        actor.UserID,
		OccurredAt:        time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contract.BookingRefunded, bk.ID().String(), evt)

	return s.present(ctx, bk)
}

// TransferBooking moves a pending or awaiting_payment booking to another room
// and/or dates, repricing it at the new room's nightly rate.
func (s *BookingService) TransferBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, req TransferBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.Status().AllowsTransfer() {
		return nil, bookingDomain.NewInvalidStatusForTransferError(bk.Status())
	}
	if req.RoomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if _, err := bookingDomain.NightsBetween(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if err := rm.AcceptsGuests(bk.TotalGuests()); err != nil {
		return nil, err
	}

	var fromRoom uuid.UUID
	if bk.RoomID() != nil {
		fromRoom = *bk.RoomID()
	}

	if err := bk.Transfer(req.RoomID, req.CheckIn, req.CheckOut, s.pricing, rm.PricePerNight()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking transferred",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from_room_id", fromRoom.String()),
		zap.String("to_room_id", req.RoomID.String()),
	)

	evt := contract.BookingTransferredEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		FromRoomID:     fromRoom,
		ToRoomID:       req.RoomID,
		CheckIn:        bk.CheckIn(),
		CheckOut:       bk.CheckOut(),
		NumberOfNights: bk.NumberOfNights(),
		TotalAmount:    bk.TotalAmount(),
		TransferredBy:  actor.UserID,
		OccurredAt:     time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contract.BookingTransferred, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	result.Room = toRoomSummary(rm)
	if err := s.attachCustomer(ctx, bk, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBookingDetails applies a partial update that never touches status.
func (s *BookingService) UpdateBookingDetails(ctx context.Context, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if req.TotalGuests != nil && bk.RoomID() != nil {
		rm, err := s.rooms.FindByID(ctx, *bk.RoomID())
		if err != nil {
			return nil, err
		}
		if err := rm.AcceptsGuests(*req.TotalGuests); err != nil {
			return nil, err
		}
	}

	if err := bk.UpdateDetails(bookingDomain.DetailsUpdate{
		TotalGuests:    req.TotalGuests,
		Notes:          req.Notes,
		AdvancePayment: req.AdvancePayment,
	}); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}
	return s.present(ctx, bk)
}

// DeleteBooking soft-deletes a booking. Only admins and managers may delete.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) error {
	if actor.Role != staff.RoleAdmin && actor.Role != staff.RoleManager {
		return domain.NewForbiddenError("only admins and managers can delete bookings")
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := bk.MarkDeleted(); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("booking deleted",
		zap.String("booking_id", bk.ID().String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

// FindConflictingBooking returns the active booking that holds roomID for part
// of [checkIn, checkOut), or nil. It is a diagnostic read and reserves nothing.
func (s *BookingService) FindConflictingBooking(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, exclude *uuid.UUID) (*BookingDTO, error) {
	if !checkOut.After(checkIn) {
		return nil, bookingDomain.NewInvalidDateRangeError(checkIn, checkOut)
	}
	bk, err := s.repo.FindConflicting(ctx, roomID, checkIn, checkOut, exclude)
	if err != nil {
		return nil, err
	}
	if bk == nil {
		return nil, nil
	}
	return s.present(ctx, bk)
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.List(ctx, bookingDomain.ListFilter{}, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	dtos, err := s.presentAll(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func (s *BookingService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, from bookingDomain.BookingStatus, actor Actor, reason string) {
	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(bk.Status())),
		zap.String("role", string(actor.Role)),
	)
	evt := contract.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		From:          string(from),
		To:            string(bk.Status()),
		Role:          string(actor.Role),
		ChangedBy:     actor.UserID,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contract.BookingStatusChanged, bk.ID().String(), evt)
}

// present converts a booking to its response, attaching room and customer summaries.
func (s *BookingService) present(ctx context.Context, bk *bookingDomain.Booking) (*BookingDTO, error) {
	dtos, err := s.presentAll(ctx, []*bookingDomain.Booking{bk})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *BookingService) presentAll(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	var roomIDs, customerIDs []uuid.UUID
	for _, bk := range bookings {
		if bk.RoomID() != nil {
			roomIDs = append(roomIDs, *bk.RoomID())
		}
		if bk.CustomerID() != nil {
			customerIDs = append(customerIDs, *bk.CustomerID())
		}
	}

	rooms, err := s.rooms.FindByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
		if bk.RoomID() != nil {
			dtos[i].Room = toRoomSummary(rooms[*bk.RoomID()])
		}
		if bk.CustomerID() != nil {
			dtos[i].Customer = toCustomerSummary(customers[*bk.CustomerID()])
		}
	}
	return dtos, nil
}

func (s *BookingService) attachCustomer(ctx context.Context, bk *bookingDomain.Booking, dto *BookingDTO) error {
	if bk.CustomerID() == nil {
		return nil
	}
	customers, err := s.customers.FindByIDs(ctx, []uuid.UUID{*bk.CustomerID()})
	if err != nil {
		return err
	}
	dto.Customer = toCustomerSummary(customers[*bk.CustomerID()])
	return nil
}
