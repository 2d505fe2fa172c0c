// Package contract defines the Kafka topics, CloudEvent types and payloads
// exchanged with other hotel services.
package contract

import (
	"time"

	"github.com/google/uuid"
)

// Source is the CloudEvents source of everything this service publishes.
const Source = "service-booking"

// Topics.
const (
	TopicBookingEvents = "hotel.booking.events"
	TopicPaymentEvents = "hotel.payment.events"
)

// Booking event types.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingTransferred   = "booking.transferred"
	BookingRefunded      = "booking.refunded"
)

// Payment event types.
const (
	PaymentCaptured = "payment.captured"
	PaymentFailed   = "payment.failed"
)

// BookingCreatedEvent is published after a booking is stored.
type BookingCreatedEvent struct {
	BookingID      uuid.UUID  `json:"booking_id"`
	BookingNumber  string     `json:"booking_number"`
	RoomID         uuid.UUID  `json:"room_id"`
	CustomerID     *uuid.UUID `json:"customer_id,omitempty"`
	CheckIn        time.Time  `json:"check_in"`
	CheckOut       time.Time  `json:"check_out"`
	NumberOfNights int        `json:"number_of_nights"`
	TotalAmount    int64      `json:"total_amount"`
	AdvancePayment int64      `json:"advance_payment"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// BookingStatusChangedEvent is published after every persisted status change.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Role          string    `json:"role"`
	ChangedBy     uuid.UUID `json:"changed_by"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingTransferredEvent is published after a room or date change.
type BookingTransferredEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	FromRoomID     uuid.UUID `json:"from_room_id"`
	ToRoomID       uuid.UUID `json:"to_room_id"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	NumberOfNights int       `json:"number_of_nights"`
	TotalAmount    int64     `json:"total_amount"`
	TransferredBy  uuid.UUID `json:"transferred_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingRefundedEvent is published after a booking refund commits.
type BookingRefundedEvent struct {
	BookingID         uuid.UUID `json:"booking_id"`
	BookingNumber     string    `json:"booking_number"`
	PaymentsRefunded  int64     `json:"payments_refunded"`
	PaymentsCancelled int64     `json:"payments_cancelled"`
	RefundedBy        uuid.UUID `json:"refunded_by"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// PaymentCapturedEvent is consumed when the payment gateway settles a payment.
type PaymentCapturedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentFailedEvent is consumed when the payment gateway rejects a payment.
type PaymentFailedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
