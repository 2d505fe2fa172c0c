package payment

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

func newTestPayment(t *testing.T, status Status) *Payment {
	t.Helper()
	p, err := NewPayment(NewPaymentParams{
		BookingID: uuid.New(),
		Amount:    100_000,
		Type:      TypeAdvancePayment,
		Method:    MethodBankTransfer,
		Status:    status,
	})
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newTestPayment(t, "")
	assert.Equal(t, StatusPending, p.Status())
	assert.Nil(t, p.PaidAt())

	paid := newTestPayment(t, StatusPaid)
	assert.NotNil(t, paid.PaidAt())
}

func TestNewPayment_Validation(t *testing.T) {
	tests := []struct {
		name string
		p    NewPaymentParams
	}{
		{"no booking", NewPaymentParams{Amount: 1, Type: TypeRoomCharge, Method: MethodCash}},
		{"zero amount", NewPaymentParams{BookingID: uuid.New(), Type: TypeRoomCharge, Method: MethodCash}},
		{"bad type", NewPaymentParams{BookingID: uuid.New(), Amount: 1, Type: "tip", Method: MethodCash}},
		{"bad method", NewPaymentParams{BookingID: uuid.New(), Amount: 1, Type: TypeRoomCharge, Method: "cheque"}},
		{"born refunded", NewPaymentParams{BookingID: uuid.New(), Amount: 1, Type: TypeRoomCharge, Method: MethodCash, Status: StatusRefunded}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.p)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestRefundedPaymentIsImmutable(t *testing.T) {
	p := newTestPayment(t, StatusPaid)
	require.NoError(t, p.Refund())
	require.NotNil(t, p.RefundedAt())

	assert.True(t, errors.Is(p.ChangeAmount(5), domain.ErrPaymentImmutable))
	assert.True(t, errors.Is(p.ChangeStatus(StatusPaid), domain.ErrPaymentImmutable))
	assert.True(t, errors.Is(p.ChangeStatus(StatusRefunded), domain.ErrPaymentImmutable))
	assert.True(t, errors.Is(p.Verify(uuid.New()), domain.ErrPaymentImmutable))
	assert.True(t, errors.Is(p.Refund(), domain.ErrPaymentImmutable))
	assert.Equal(t, int64(100_000), p.Amount())
}

func TestRefund_RequiresPaid(t *testing.T) {
	p := newTestPayment(t, StatusPending)
	assert.True(t, errors.Is(p.Refund(), domain.ErrInvalidState))
}

func TestMarkPaid_FromFailed(t *testing.T) {
	p := newTestPayment(t, StatusPending)
	require.NoError(t, p.MarkFailed())
	require.NoError(t, p.MarkPaid())

	assert.Equal(t, StatusPaid, p.Status())
	assert.NotNil(t, p.PaidAt())
	assert.NoError(t, p.MarkPaid())
}

func TestVerify(t *testing.T) {
	p := newTestPayment(t, StatusPending)
	assert.True(t, errors.Is(p.Verify(uuid.New()), domain.ErrInvalidState))

	require.NoError(t, p.MarkPaid())
	by := uuid.New()
	require.NoError(t, p.Verify(by))
	assert.Equal(t, by, *p.VerifiedBy())
}

func TestChangeStatus_RefundedIsNotAStatusCorrection(t *testing.T) {
	p := newTestPayment(t, StatusPaid)

	err := p.ChangeStatus(StatusRefunded)

	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, StatusPaid, p.Status())
	assert.Nil(t, p.RefundedAt())
}

func TestChangeStatus_Disallowed(t *testing.T) {
	p := newTestPayment(t, StatusPending)
	require.NoError(t, p.ChangeStatus(StatusCancelled))

	assert.True(t, errors.Is(p.ChangeStatus(StatusFailed), domain.ErrInvalidState))
	assert.NoError(t, p.ChangeStatus(StatusCancelled))
}
