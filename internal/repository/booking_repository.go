package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelhub/service-booking/internal/common/database"
	"github.com/hotelhub/service-booking/internal/common/domain"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
)

// noOverlapConstraint is the exclusion constraint that keeps active stays on
// one room from intersecting.
const noOverlapConstraint = "bookings_no_overlap"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BookingNumber  string         `gorm:"uniqueIndex;not null;size:20"`
	CustomerID     *uuid.UUID     `gorm:"type:uuid;index"`
	RoomID         *uuid.UUID     `gorm:"type:uuid;index"`
	CheckIn        time.Time      `gorm:"not null;index"`
	CheckOut       time.Time      `gorm:"not null;index"`
	NumberOfNights int            `gorm:"not null"`
	ActualCheckIn  *time.Time     `gorm:""`
	ActualCheckOut *time.Time     `gorm:""`
	TotalAmount    int64          `gorm:"not null"`
	AdvancePayment int64          `gorm:"not null;default:0"`
	TotalGuests    int            `gorm:"not null"`
	Status         string         `gorm:"not null;size:20;index"`
	Notes          *string        `gorm:""`
	CancelledAt    *time.Time     `gorm:""`
	CancelReason   *string        `gorm:""`
	Version        int64          `gorm:"not null;default:1"`
	CreatedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time      `gorm:"not null"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a non-deleted booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

func applyBookingFilter(q *gorm.DB, f bookingDomain.ListFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}
	return q
}

// List retrieves bookings matching the filter with pagination.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := applyBookingFilter(r.db.WithContext(ctx).Model(&BookingModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := applyBookingFilter(r.db.WithContext(ctx), filter).
		Order("check_in DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// FindConflicting returns the earliest active booking on roomID overlapping
// [checkIn, checkOut), or nil.
func (r *GormBookingRepository) FindConflicting(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, exclude *uuid.UUID) (*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatusValues()).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var model BookingModel
	if err := q.Order("check_in ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conflicting booking: %w", err)
	}
	return toDomainBooking(&model)
}

// FindActiveByRooms returns active bookings of the given rooms intersecting
// [from, to). Checked-in stays are returned even after their check-out has passed.
func (r *GormBookingRepository) FindActiveByRooms(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]*bookingDomain.Booking, error) {
	out := make(map[uuid.UUID][]*bookingDomain.Booking, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("room_id IN ?", roomIDs).
		Where("status IN ?", activeStatusValues()).
		Where("check_in < ?", to).
		Where("(check_out > ? OR status = ?)", from, string(bookingDomain.StatusCheckedIn)).
		Order("check_in ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active bookings by rooms: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, err
	}
	for _, bk := range bookings {
		if bk.RoomID() != nil {
			out[*bk.RoomID()] = append(out[*bk.RoomID()], bk)
		}
	}
	return out, nil
}

// FindArrivals returns bookings whose check-in falls in [from, to).
func (r *GormBookingRepository) FindArrivals(ctx context.Context, from, to time.Time) ([]*bookingDomain.Booking, error) {
	return r.findBetween(ctx, "check_in", from, to)
}

// FindDepartures returns bookings whose check-out falls in [from, to).
func (r *GormBookingRepository) FindDepartures(ctx context.Context, from, to time.Time) ([]*bookingDomain.Booking, error) {
	return r.findBetween(ctx, "check_out", from, to)
}

func (r *GormBookingRepository) findBetween(ctx context.Context, column string, from, to time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where(column+" >= ? AND "+column+" < ?", from, to).
		Order(column + " ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by %s: %w", column, err)
	}
	return toDomainBookings(models)
}

// StatsForCustomer counts the customer's non-deleted bookings and sums their totals.
func (r *GormBookingRepository) StatsForCustomer(ctx context.Context, customerID uuid.UUID) (bookingDomain.CustomerStats, error) {
	var row struct {
		TotalBookings int64
		TotalSpent    int64
	}
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("count(*) AS total_bookings, COALESCE(SUM(total_amount), 0) AS total_spent").
		Where("customer_id = ?", customerID).
		Scan(&row).Error; err != nil {
		return bookingDomain.CustomerStats{}, fmt.Errorf("failed to compute customer stats: %w", err)
	}
	return bookingDomain.CustomerStats{TotalBookings: row.TotalBookings, TotalSpent: row.TotalSpent}, nil
}

// Save inserts a new booking in a transaction. The exclusion constraint makes
// the availability check and the insert a single atomic step.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		if database.IsExclusionViolation(err, noOverlapConstraint) {
			return r.roomUnavailable(ctx, bk)
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateBooking(tx, bk)
	})
	if err != nil {
		if database.IsExclusionViolation(err, noOverlapConstraint) {
			return r.roomUnavailable(ctx, bk)
		}
		return err
	}
	return nil
}

// UpdateWithRefund persists the refunded booking and settles its payments in one transaction.
func (r *GormBookingRepository) UpdateWithRefund(ctx context.Context, bk *bookingDomain.Booking, refundedAt time.Time) (bookingDomain.RefundOutcome, error) {
	var outcome bookingDomain.RefundOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateBooking(tx, bk); err != nil {
			return err
		}

		refunded := tx.Model(&PaymentModel{}).
			Where("booking_id = ? AND payment_status = ?", bk.ID(), "paid").
			Updates(map[string]interface{}{
				"payment_status": "refunded",
				"refunded_at":    refundedAt,
				"updated_at":     refundedAt,
			})
		if refunded.Error != nil {
			return fmt.Errorf("failed to refund payments: %w", refunded.Error)
		}
		outcome.PaymentsRefunded = refunded.RowsAffected

		cancelled := tx.Model(&PaymentModel{}).
			Where("booking_id = ? AND payment_status = ?", bk.ID(), "pending").
			Updates(map[string]interface{}{
				"payment_status": "cancelled",
				"updated_at":     refundedAt,
			})
		if cancelled.Error != nil {
			return fmt.Errorf("failed to cancel pending payments: %w", cancelled.Error)
		}
		outcome.PaymentsCancelled = cancelled.RowsAffected
		return nil
	})
	if err != nil {
		return bookingDomain.RefundOutcome{}, err
	}
	return outcome, nil
}

// updateBooking writes every mutable column, guarded by the previous version.
// IncrementVersion must have been called on bk.
func updateBooking(tx *gorm.DB, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	expectedVersion := bk.Version() - 1

	result := tx.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"customer_id":      model.CustomerID,
			"room_id":          model.RoomID,
			"check_in":         model.CheckIn,
			"check_out":        model.CheckOut,
			"number_of_nights": model.NumberOfNights,
			"actual_check_in":  model.ActualCheckIn,
			"actual_check_out": model.ActualCheckOut,
			"total_amount":     model.TotalAmount,
			"advance_payment":  model.AdvancePayment,
			"total_guests":     model.TotalGuests,
			"status":           model.Status,
			"notes":            model.Notes,
			"cancelled_at":     model.CancelledAt,
			"cancel_reason":    model.CancelReason,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
			"deleted_at":       model.DeletedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// roomUnavailable builds the RoomUnavailable error for bk, naming the clashing
// booking when it can still be found.
func (r *GormBookingRepository) roomUnavailable(ctx context.Context, bk *bookingDomain.Booking) error {
	var roomID uuid.UUID
	if bk.RoomID() != nil {
		roomID = *bk.RoomID()
	}
	self := bk.ID()

	var conflict *bookingDomain.Conflict
	if other, err := r.FindConflicting(ctx, roomID, bk.CheckIn(), bk.CheckOut(), &self); err == nil && other != nil {
		conflict = &bookingDomain.Conflict{
			BookingID:     other.ID(),
			BookingNumber: other.BookingNumber(),
			CheckIn:       other.CheckIn(),
			CheckOut:      other.CheckOut(),
		}
	}
	return bookingDomain.NewRoomUnavailableError(roomID, bk.CheckIn(), bk.CheckOut(), conflict)
}

func activeStatusValues() []string {
	statuses := bookingDomain.ActiveStatuses()
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	model := &BookingModel{
		ID:             bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		CustomerID:     bk.CustomerID(),
		RoomID:         bk.RoomID(),
		CheckIn:        bk.CheckIn(),
		CheckOut:       bk.CheckOut(),
		NumberOfNights: bk.NumberOfNights(),
		ActualCheckIn:  bk.ActualCheckIn(),
		ActualCheckOut: bk.ActualCheckOut(),
		TotalAmount:    bk.TotalAmount(),
		AdvancePayment: bk.AdvancePayment(),
		TotalGuests:    bk.TotalGuests(),
		Status:         string(bk.Status()),
		Notes:          nullableString(bk.Notes()),
		CancelledAt:    bk.CancelledAt(),
		CancelReason:   nullableString(bk.CancelReason()),
		Version:        bk.Version(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
	}
	if bk.DeletedAt() != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *bk.DeletedAt(), Valid: true}
	}
	return model
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}

	return bookingDomain.ReconstructBooking(bookingDomain.Snapshot{
		ID:             m.ID,
		BookingNumber:  m.BookingNumber,
		CustomerID:     m.CustomerID,
		RoomID:         m.RoomID,
		Status:         status,
		CheckIn:        m.CheckIn,
		CheckOut:       m.CheckOut,
		NumberOfNights: m.NumberOfNights,
		ActualCheckIn:  m.ActualCheckIn,
		ActualCheckOut: m.ActualCheckOut,
		TotalAmount:    m.TotalAmount,
		AdvancePayment: m.AdvancePayment,
		TotalGuests:    m.TotalGuests,
		Notes:          stringValue(m.Notes),
		CancelledAt:    m.CancelledAt,
		CancelReason:   stringValue(m.CancelReason),
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAt,
	}), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
