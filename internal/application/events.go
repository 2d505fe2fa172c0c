package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/kafka"
	"github.com/hotelhub/service-booking/internal/contract"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// EventPublisher publishes CloudEvents to a topic. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   staff.Role
}

// publishEvent wraps data in a CloudEvent keyed by subject and publishes it.
// Failures are logged; the operation that produced the event has already committed.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, eventType, subject string, data interface{}) {
	if publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(contract.Source, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, contract.TopicBookingEvents, cloudEvent.WithSubject(subject)); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", contract.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
