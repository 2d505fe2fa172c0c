package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/common/kafka"
	"github.com/hotelhub/service-booking/internal/contract"
)

// PaymentSettler applies gateway outcomes to stored payments.
type PaymentSettler interface {
	MarkPaymentCaptured(ctx context.Context, paymentID uuid.UUID) (*application.PaymentDTO, error)
	MarkPaymentFailed(ctx context.Context, paymentID uuid.UUID) (*application.PaymentDTO, error)
}

// BookingConfirmer confirms bookings once their payment is captured.
type BookingConfirmer interface {
	ConfirmAfterPayment(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, bool, error)
}

// PaymentEventConsumer listens to payment gateway events, settles the matching
// payment and confirms bookings that were awaiting it.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	payments PaymentSettler
	bookings BookingConfirmer
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	payments PaymentSettler,
	bookings BookingConfirmer,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contract.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		payments: payments,
		bookings: bookings,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contract.PaymentCaptured:
		return c.handleCaptured(ctx, cloudEvent)
	case contract.PaymentFailed:
		return c.handleFailed(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleCaptured(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contract.PaymentCapturedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCapturedEvent data", zap.Error(err))
		return nil
	}

	c.logger.Info("processing payment captured event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	payment, err := c.payments.MarkPaymentCaptured(ctx, evt.PaymentID)
	if err != nil {
		return c.settleError("failed to mark payment captured", evt.PaymentID, err)
	}
	if payment.BookingID != evt.BookingID {
		c.logger.Warn("captured payment belongs to a different booking; skipping confirmation",
			zap.String("payment_id", evt.PaymentID.String()),
			zap.String("event_booking_id", evt.BookingID.String()),
			zap.String("payment_booking_id", payment.BookingID.String()),
		)
		return nil
	}

	_, confirmed, err := c.bookings.ConfirmAfterPayment(ctx, evt.BookingID)
	if err != nil {
		return c.settleError("failed to confirm booking after payment", evt.PaymentID, err)
	}
	if confirmed {
		c.logger.Info("booking confirmed after payment",
			zap.String("booking_id", evt.BookingID.String()),
		)
	}
	return nil
}

func (c *PaymentEventConsumer) handleFailed(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contract.PaymentFailedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentFailedEvent data", zap.Error(err))
		return nil
	}

	if _, err := c.payments.MarkPaymentFailed(ctx, evt.PaymentID); err != nil {
		return c.settleError("failed to mark payment failed", evt.PaymentID, err)
	}
	c.logger.Info("payment marked failed",
		zap.String("payment_id", evt.PaymentID.String()),
		zap.String("reason", evt.Reason),
	)
	return nil
}

// settleError logs err. Domain errors other than version conflicts are dropped;
// anything else is returned so the message is redelivered.
func (c *PaymentEventConsumer) settleError(msg string, paymentID uuid.UUID, err error) error {
	c.logger.Error(msg,
		zap.String("payment_id", paymentID.String()),
		zap.Error(err),
	)
	if domain.KindOf(err) != "" && domain.KindOf(err) != domain.KindConflict {
		return nil
	}
	return err
}
