package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

// Type is what a payment is for.
type Type string

const (
	TypeRoomCharge     Type = "room_charge"
	TypeAdvancePayment Type = "advance_payment"
	TypeExtraService   Type = "extra_service"
)

// IsValid returns true if the type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeRoomCharge, TypeAdvancePayment, TypeExtraService:
		return true
	}
	return false
}

// Label returns the display name of the payment type.
func (t Type) Label() string {
	switch t {
	case TypeRoomCharge:
		return "Room charge"
	case TypeAdvancePayment:
		return "Advance payment"
	case TypeExtraService:
		return "Extra service"
	}
	return "Unknown"
}

// Method is how the guest paid.
type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodCard         Method = "card"
	MethodEWallet      Method = "e_wallet"
)

// IsValid returns true if the method is recognized.
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCard, MethodEWallet:
		return true
	}
	return false
}

// Label returns the display name of the payment method.
func (m Method) Label() string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodBankTransfer:
		return "Bank transfer"
	case MethodCard:
		return "Card"
	case MethodEWallet:
		return "E-wallet"
	}
	return "Unknown"
}

// Status is the settlement state of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display name of the payment status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPaid:
		return "Paid"
	case StatusFailed:
		return "Failed"
	case StatusRefunded:
		return "Refunded"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// statusTransitions lists the moves UpdatePayment may make. Refunds go
// through Refund so that refunded_at is always recorded.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusFailed, StatusCancelled},
	StatusFailed:    {StatusPending, StatusCancelled},
	StatusPaid:      {StatusPending},
	StatusCancelled: {StatusPending},
}

// Payment is money received (or expected) against a booking.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	amount        int64
	paymentType   Type
	paymentMethod Method
	status        Status
	paidAt        *time.Time
	verifiedAt    *time.Time
	verifiedBy    *uuid.UUID
	refundedAt    *time.Time
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPaymentParams holds the inputs for recording a payment.
type NewPaymentParams struct {
	BookingID uuid.UUID
	Amount    int64
	Type      Type
	Method    Method
	Status    Status // pending or paid; empty means pending
	Notes     string
}

// NewPayment validates and records a payment.
func NewPayment(p NewPaymentParams) (*Payment, error) {
	if p.BookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if p.Amount <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive")
	}
	if !p.Type.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment type: %s", p.Type))
	}
	if !p.Method.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", p.Method))
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.Status != StatusPending && p.Status != StatusPaid {
		return nil, domain.NewValidationError("a new payment must be pending or paid")
	}

	now := time.Now().UTC()
	pay := &Payment{
		id:            uuid.New(),
		bookingID:     p.BookingID,
		amount:        p.Amount,
		paymentType:   p.Type,
		paymentMethod: p.Method,
		status:        p.Status,
		notes:         p.Notes,
		createdAt:     now,
		updatedAt:     now,
	}
	if p.Status == StatusPaid {
		pay.paidAt = &now
	}
	return pay, nil
}

// Snapshot is the persisted state of a payment.
type Snapshot struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Amount     int64
	Type       Type
	Method     Method
	Status     Status
	PaidAt     *time.Time
	VerifiedAt *time.Time
	VerifiedBy *uuid.UUID
	RefundedAt *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReconstructPayment rebuilds a Payment from persistence data (no validation).
func ReconstructPayment(s Snapshot) *Payment {
	return &Payment{
		id:            s.ID,
		bookingID:     s.BookingID,
		amount:        s.Amount,
		paymentType:   s.Type,
		paymentMethod: s.Method,
		status:        s.Status,
		paidAt:        s.PaidAt,
		verifiedAt:    s.VerifiedAt,
		verifiedBy:    s.VerifiedBy,
		refundedAt:    s.RefundedAt,
		notes:         s.Notes,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

// --- Getters ---

// ID returns the payment's unique identifier.
func (p *Payment) ID() uuid.UUID { return p.id }

// BookingID returns the booking the payment belongs to.
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }

// Amount returns the amount in minor currency units.
func (p *Payment) Amount() int64 { return p.amount }

// Type returns what the payment covers.
func (p *Payment) Type() Type { return p.paymentType }

// Method returns how the guest paid.
func (p *Payment) Method() Method { return p.paymentMethod }

// Status returns the current payment status.
func (p *Payment) Status() Status { return p.status }

// PaidAt returns when the payment was settled.
func (p *Payment) PaidAt() *time.Time { return p.paidAt }

// VerifiedAt returns when staff verified the payment.
func (p *Payment) VerifiedAt() *time.Time { return p.verifiedAt }

// VerifiedBy returns the staff user who verified the payment.
func (p *Payment) VerifiedBy() *uuid.UUID { return p.verifiedBy }

// RefundedAt returns when the payment was refunded.
func (p *Payment) RefundedAt() *time.Time { return p.refundedAt }

// Notes returns free-form notes.
func (p *Payment) Notes() string { return p.notes }

// CreatedAt returns the creation timestamp.
func (p *Payment) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

func (p *Payment) ensureMutable() error {
	if p.status == StatusRefunded {
		return NewPaymentImmutableError(p.id)
	}
	return nil
}

// ChangeAmount corrects the amount of a payment that has not been refunded.
func (p *Payment) ChangeAmount(amount int64) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if amount <= 0 {
		return domain.NewValidationError("payment amount must be positive")
	}
	p.amount = amount
	p.updatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus applies a manual status correction. A same-status request is a
// no-op. Refunds only go through Refund.
func (p *Payment) ChangeStatus(target Status) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", target))
	}
	if target == p.status {
		return nil
	}
	if target == StatusRefunded {
		return domain.NewInvalidStateError(string(p.status), string(target))
	}
	allowed := false
	for _, s := range statusTransitions[p.status] {
		if s == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.NewInvalidStateError(string(p.status), string(target))
	}

	now := time.Now().UTC()
	switch target {
	case StatusPaid:
		p.paidAt = &now
	case StatusPending:
		p.paidAt = nil
		p.verifiedAt = nil
		p.verifiedBy = nil
	}
	p.status = target
	p.updatedAt = now
	return nil
}

// MarkPaid settles a pending or failed payment. Paying an already paid payment is a no-op.
func (p *Payment) MarkPaid() error {
	if p.status == StatusPaid {
		return nil
	}
	if p.status == StatusFailed {
		if err := p.ChangeStatus(StatusPending); err != nil {
			return err
		}
	}
	return p.ChangeStatus(StatusPaid)
}

// MarkFailed records a failed settlement attempt.
func (p *Payment) MarkFailed() error {
	return p.ChangeStatus(StatusFailed)
}

// Verify records that a staff member has checked the payment against the till or bank.
func (p *Payment) Verify(by uuid.UUID) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.status != StatusPaid {
		return domain.NewInvalidStateError(string(p.status), "verified")
	}
	now := time.Now().UTC()
	p.verifiedAt = &now
	p.verifiedBy = &by
	p.updatedAt = now
	return nil
}

// Refund returns a paid payment to the guest. A refunded payment can never change again.
func (p *Payment) Refund() error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.status != StatusPaid {
		return domain.NewInvalidStateError(string(p.status), string(StatusRefunded))
	}
	now := time.Now().UTC()
	p.status = StatusRefunded
	p.refundedAt = &now
	p.updatedAt = now
	return nil
}

// NewPaymentImmutableError reports an attempt to change a refunded payment.
func NewPaymentImmutableError(id uuid.UUID) error {
	return domain.NewError(domain.KindPaymentImmutable,
		fmt.Sprintf("payment %s has been refunded and cannot be changed", id),
		map[string]any{"payment_id": id.String()})
}

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error)
	Save(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
}
