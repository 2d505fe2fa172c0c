package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/domain"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	paymentDomain "github.com/hotelhub/service-booking/internal/domain/payment"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// RecordPaymentRequest records money received against a booking.
type RecordPaymentRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	PaymentType   string `json:"payment_type" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes"`
}

// UpdatePaymentRequest corrects a payment's amount and/or status.
type UpdatePaymentRequest struct {
	Amount        *int64  `json:"amount"`
	PaymentStatus *string `json:"payment_status"`
}

// PaymentService is the application service for booking payments.
type PaymentService struct {
	repo     paymentDomain.PaymentRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repo paymentDomain.PaymentRepository,
	bookings bookingDomain.BookingRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{repo: repo, bookings: bookings, logger: logger}
}

// RecordPayment adds a payment to a booking that has not been refunded or cancelled.
func (s *PaymentService) RecordPayment(ctx context.Context, bookingID uuid.UUID, req RecordPaymentRequest) (*PaymentDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() == bookingDomain.StatusRefunded || bk.Status() == bookingDomain.StatusCancelled {
		return nil, domain.NewInvalidStateError(string(bk.Status()), "payment")
	}

	p, err := paymentDomain.NewPayment(paymentDomain.NewPaymentParams{
		BookingID: bookingID,
		Amount:    req.Amount,
		Type:      paymentDomain.Type(req.PaymentType),
		Method:    paymentDomain.Method(req.PaymentMethod),
		Status:    paymentDomain.Status(req.PaymentStatus),
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", p.ID().String()),
		zap.String("booking_id", bookingID.String()),
		zap.Int64("amount", p.Amount()),
	)
	result := toPaymentDTO(p)
	return &result, nil
}

// ListPayments returns the payments of a booking.
func (s *PaymentService) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]PaymentDTO, error) {
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos, nil
}

// UpdatePayment corrects the amount and/or status of a payment. Refunded
// payments cannot be changed. Setting the status to refunded is a refund and
// needs the same roles as RefundPayment.
func (s *PaymentService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, actor Actor, req UpdatePaymentRequest) (*PaymentDTO, error) {
	refund := req.PaymentStatus != nil && paymentDomain.Status(*req.PaymentStatus) == paymentDomain.StatusRefunded
	if refund && !canRefund(actor) {
		return nil, domain.NewForbiddenError("only admins and managers can refund payments")
	}
	return s.mutate(ctx, paymentID, func(p *paymentDomain.Payment) error {
		if req.Amount != nil {
			if err := p.ChangeAmount(*req.Amount); err != nil {
				return err
			}
		}
		switch {
		case refund:
			return p.Refund()
		case req.PaymentStatus != nil:
			return p.ChangeStatus(paymentDomain.Status(*req.PaymentStatus))
		}
		return nil
	})
}

// VerifyPayment records that actor checked a paid payment.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID uuid.UUID, actor Actor) (*PaymentDTO, error) {
	return s.mutate(ctx, paymentID, func(p *paymentDomain.Payment) error {
		return p.Verify(actor.UserID)
	})
}

// RefundPayment refunds a single paid payment. The booking's status is not touched.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID, actor Actor) (*PaymentDTO, error) {
	if !canRefund(actor) {
		return nil, domain.NewForbiddenError("only admins and managers can refund payments")
	}
	dto, err := s.mutate(ctx, paymentID, func(p *paymentDomain.Payment) error {
		return p.Refund()
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment refunded",
		zap.String("payment_id", paymentID.String()),
		zap.String("refunded_by", actor.UserID.String()),
	)
	return dto, nil
}

// MarkPaymentCaptured settles a payment reported captured by the gateway.
func (s *PaymentService) MarkPaymentCaptured(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	return s.mutate(ctx, paymentID, func(p *paymentDomain.Payment) error {
		return p.MarkPaid()
	})
}

// MarkPaymentFailed records a gateway failure.
func (s *PaymentService) MarkPaymentFailed(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	return s.mutate(ctx, paymentID, func(p *paymentDomain.Payment) error {
		return p.MarkFailed()
	})
}

func canRefund(actor Actor) bool {
	return actor.Role == staff.RoleAdmin || actor.Role == staff.RoleManager
}

func (s *PaymentService) mutate(ctx context.Context, paymentID uuid.UUID, apply func(*paymentDomain.Payment) error) (*PaymentDTO, error) {
	p, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	result := toPaymentDTO(p)
	return &result, nil
}
