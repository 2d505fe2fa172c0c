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
	paymentDomain "github.com/hotelhub/service-booking/internal/domain/payment"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

func newTestPayment(status paymentDomain.Status) *paymentDomain.Payment {
	now := time.Now().UTC()
	s := paymentDomain.Snapshot{
		ID:        uuid.New(),
		BookingID: uuid.New(),
		Amount:    100000,
		Type:      paymentDomain.TypeAdvancePayment,
		Method:    paymentDomain.MethodBankTransfer,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == paymentDomain.StatusPaid || status == paymentDomain.StatusRefunded {
		s.PaidAt = &now
	}
	if status == paymentDomain.StatusRefunded {
		s.RefundedAt = &now
	}
	return paymentDomain.ReconstructPayment(s)
}

func TestRecordPayment_RejectsRefundedBooking(t *testing.T) {
	payments := new(MockPaymentRepository)
	bookings := new(MockBookingRepository)
	bk := newTestBooking(bookingDomain.StatusRefunded, uuid.New())
	bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	_, err := NewPaymentService(payments, bookings, zap.NewNop()).RecordPayment(context.Background(), bk.ID(), RecordPaymentRequest{
		Amount:        50000,
		PaymentType:   "room_charge",
		PaymentMethod: "cash",
	})

	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecordPayment_PaidSetsPaidAt(t *testing.T) {
	payments := new(MockPaymentRepository)
	bookings := new(MockBookingRepository)
	bk := newTestBooking(bookingDomain.StatusConfirmed, uuid.New())
	bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	payments.On("Save", mock.Anything, mock.Anything).Return(nil)

	dto, err := NewPaymentService(payments, bookings, zap.NewNop()).RecordPayment(context.Background(), bk.ID(), RecordPaymentRequest{
		Amount:        50000,
		PaymentType:   "room_charge",
		PaymentMethod: "card",
		PaymentStatus: "paid",
	})

	require.NoError(t, err)
	assert.Equal(t, "paid", dto.PaymentStatus)
	assert.NotNil(t, dto.PaidAt)
	assert.Equal(t, bk.ID(), dto.BookingID)
}

func TestRecordPayment_RejectsUnknownMethod(t *testing.T) {
	payments := new(MockPaymentRepository)
	bookings := new(MockBookingRepository)
	bk := newTestBooking(bookingDomain.StatusPending, uuid.New())
	bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	_, err := NewPaymentService(payments, bookings, zap.NewNop()).RecordPayment(context.Background(), bk.ID(), RecordPaymentRequest{
		Amount:        50000,
		PaymentType:   "room_charge",
		PaymentMethod: "crypto",
	})

	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdatePayment_RefundedIsImmutable(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusRefunded)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	amount := int64(1)

	_, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		UpdatePayment(context.Background(), p.ID(), frontDesk(), UpdatePaymentRequest{Amount: &amount})

	assert.True(t, errors.Is(err, domain.ErrPaymentImmutable))
	payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePayment_AmountAndStatus(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPending)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	payments.On("Update", mock.Anything, p).Return(nil)
	amount := int64(75000)
	status := "paid"

	dto, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		UpdatePayment(context.Background(), p.ID(), frontDesk(), UpdatePaymentRequest{Amount: &amount, PaymentStatus: &status})

	require.NoError(t, err)
	assert.Equal(t, int64(75000), dto.Amount)
	assert.Equal(t, "paid", dto.PaymentStatus)
}

func TestUpdatePayment_RefundStatusForbiddenForFrontDesk(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPaid)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil).Maybe()
	status := "refunded"

	_, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		UpdatePayment(context.Background(), p.ID(), frontDesk(), UpdatePaymentRequest{PaymentStatus: &status})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, paymentDomain.StatusPaid, p.Status())
	assert.Nil(t, p.RefundedAt())
	payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePayment_ManagerRefundStatusRecordsRefund(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPaid)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	payments.On("Update", mock.Anything, p).Return(nil)
	status := "refunded"

	dto, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		UpdatePayment(context.Background(), p.ID(), Actor{UserID: uuid.New(), Role: staff.RoleManager},
			UpdatePaymentRequest{PaymentStatus: &status})

	require.NoError(t, err)
	assert.Equal(t, "refunded", dto.PaymentStatus)
	assert.NotNil(t, dto.RefundedAt)
}

func TestVerifyPayment_RequiresPaid(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPending)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)

	_, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		VerifyPayment(context.Background(), p.ID(), frontDesk())

	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestVerifyPayment_RecordsVerifier(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPaid)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	payments.On("Update", mock.Anything, p).Return(nil)
	actor := frontDesk()

	dto, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		VerifyPayment(context.Background(), p.ID(), actor)

	require.NoError(t, err)
	require.NotNil(t, dto.VerifiedBy)
	assert.Equal(t, actor.UserID, *dto.VerifiedBy)
	assert.NotNil(t, dto.VerifiedAt)
}

func TestRefundPayment_ForbiddenForFrontDesk(t *testing.T) {
	payments := new(MockPaymentRepository)

	_, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		RefundPayment(context.Background(), uuid.New(), frontDesk())

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	payments.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRefundPayment_ManagerRefundsPaid(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusPaid)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	payments.On("Update", mock.Anything, p).Return(nil)

	dto, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		RefundPayment(context.Background(), p.ID(), Actor{UserID: uuid.New(), Role: staff.RoleManager})

	require.NoError(t, err)
	assert.Equal(t, "refunded", dto.PaymentStatus)
	assert.NotNil(t, dto.RefundedAt)
}

func TestMarkPaymentCaptured_FromFailed(t *testing.T) {
	payments := new(MockPaymentRepository)
	p := newTestPayment(paymentDomain.StatusFailed)
	payments.On("FindByID", mock.Anything, p.ID()).Return(p, nil)
	payments.On("Update", mock.Anything, p).Return(nil)

	dto, err := NewPaymentService(payments, new(MockBookingRepository), zap.NewNop()).
		MarkPaymentCaptured(context.Background(), p.ID())

	require.NoError(t, err)
	assert.Equal(t, "paid", dto.PaymentStatus)
}

func TestListPayments_UnknownBooking(t *testing.T) {
	payments := new(MockPaymentRepository)
	bookings := new(MockBookingRepository)
	id := uuid.New()
	bookings.On("FindByID", mock.Anything, id).Return(nil, domain.NewNotFoundError("booking", id.String()))

	_, err := NewPaymentService(payments, bookings, zap.NewNop()).ListPayments(context.Background(), id)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	payments.AssertNotCalled(t, "ListByBooking", mock.Anything, mock.Anything)
}
