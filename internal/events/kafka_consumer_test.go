package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/common/kafka"
	"github.com/hotelhub/service-booking/internal/contract"
)

type mockSettler struct {
	mock.Mock
}

func (m *mockSettler) MarkPaymentCaptured(ctx context.Context, id uuid.UUID) (*application.PaymentDTO, error) {
	args := m.Called(ctx, id)
	dto, _ := args.Get(0).(*application.PaymentDTO)
	return dto, args.Error(1)
}

func (m *mockSettler) MarkPaymentFailed(ctx context.Context, id uuid.UUID) (*application.PaymentDTO, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(0)
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) ConfirmAfterPayment(ctx context.Context, id uuid.UUID) (*application.BookingDTO, bool, error) {
	args := m.Called(ctx, id)
	return nil, args.Bool(0), args.Error(1)
}

func newTestConsumer() (*PaymentEventConsumer, *mockSettler, *mockConfirmer) {
	s, c := new(mockSettler), new(mockConfirmer)
	return &PaymentEventConsumer{payments: s, bookings: c, logger: zap.NewNop()}, s, c
}

func capturedFor(evt contract.PaymentCapturedEvent) *application.PaymentDTO {
	return &application.PaymentDTO{ID: evt.PaymentID, BookingID: evt.BookingID, PaymentStatus: "paid"}
}

func message(t *testing.T, eventType string, data any) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("payment-gateway", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: contract.TopicPaymentEvents, Value: raw}
}

func TestHandleMessage_CapturedSettlesAndConfirms(t *testing.T) {
	consumer, settler, confirmer := newTestConsumer()
	evt := contract.PaymentCapturedEvent{PaymentID: uuid.New(), BookingID: uuid.New(), Amount: 100000}

	settler.On("MarkPaymentCaptured", mock.Anything, evt.PaymentID).Return(capturedFor(evt), nil)
	confirmer.On("ConfirmAfterPayment", mock.Anything, evt.BookingID).Return(true, nil)

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentCaptured, evt))

	require.NoError(t, err)
	settler.AssertExpectations(t)
	confirmer.AssertExpectations(t)
}

func TestHandleMessage_FailedMarksPayment(t *testing.T) {
	consumer, settler, confirmer := newTestConsumer()
	evt := contract.PaymentFailedEvent{PaymentID: uuid.New(), BookingID: uuid.New(), Reason: "card declined"}

	settler.On("MarkPaymentFailed", mock.Anything, evt.PaymentID).Return(nil)

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentFailed, evt))

	require.NoError(t, err)
	settler.AssertExpectations(t)
	confirmer.AssertNotCalled(t, "ConfirmAfterPayment", mock.Anything, mock.Anything)
}

func TestHandleMessage_MalformedIsSkipped(t *testing.T) {
	consumer, settler, _ := newTestConsumer()

	err := consumer.handleMessage(context.Background(), kafkago.Message{Value: []byte("{not json")})

	assert.NoError(t, err)
	settler.AssertNotCalled(t, "MarkPaymentCaptured", mock.Anything, mock.Anything)
}

func TestHandleMessage_UnknownTypeIsIgnored(t *testing.T) {
	consumer, settler, _ := newTestConsumer()

	err := consumer.handleMessage(context.Background(), message(t, "payment.disputed", map[string]string{"id": "x"}))

	assert.NoError(t, err)
	settler.AssertNotCalled(t, "MarkPaymentCaptured", mock.Anything, mock.Anything)
}

func TestHandleMessage_DomainRejectionIsNotRetried(t *testing.T) {
	consumer, settler, confirmer := newTestConsumer()
	evt := contract.PaymentCapturedEvent{PaymentID: uuid.New(), BookingID: uuid.New()}

	settler.On("MarkPaymentCaptured", mock.Anything, evt.PaymentID).
		Return(nil, domain.NewNotFoundError("payment", evt.PaymentID.String()))

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentCaptured, evt))

	assert.NoError(t, err)
	confirmer.AssertNotCalled(t, "ConfirmAfterPayment", mock.Anything, mock.Anything)
}

func TestHandleMessage_InfrastructureErrorIsRetried(t *testing.T) {
	consumer, settler, _ := newTestConsumer()
	evt := contract.PaymentCapturedEvent{PaymentID: uuid.New(), BookingID: uuid.New()}

	settler.On("MarkPaymentCaptured", mock.Anything, evt.PaymentID).Return(nil, errors.New("connection reset"))

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentCaptured, evt))

	assert.Error(t, err)
}

func TestHandleMessage_VersionConflictIsRetried(t *testing.T) {
	consumer, settler, confirmer := newTestConsumer()
	evt := contract.PaymentCapturedEvent{PaymentID: uuid.New(), BookingID: uuid.New()}

	settler.On("MarkPaymentCaptured", mock.Anything, evt.PaymentID).Return(capturedFor(evt), nil)
	confirmer.On("ConfirmAfterPayment", mock.Anything, evt.BookingID).
		Return(false, domain.NewConflictError("booking was modified concurrently"))

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentCaptured, evt))

	assert.Error(t, err)
}

func TestHandleMessage_CapturedForOtherBookingSkipsConfirm(t *testing.T) {
	consumer, settler, confirmer := newTestConsumer()
	evt := contract.PaymentCapturedEvent{PaymentID: uuid.New(), BookingID: uuid.New(), Amount: 100000}

	settler.On("MarkPaymentCaptured", mock.Anything, evt.PaymentID).
		Return(&application.PaymentDTO{ID: evt.PaymentID, BookingID: uuid.New(), PaymentStatus: "paid"}, nil)

	err := consumer.handleMessage(context.Background(), message(t, contract.PaymentCaptured, evt))

	require.NoError(t, err)
	settler.AssertExpectations(t)
	confirmer.AssertNotCalled(t, "ConfirmAfterPayment", mock.Anything, mock.Anything)
}
