package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelhub/service-booking/internal/common/domain"
	paymentDomain "github.com/hotelhub/service-booking/internal/domain/payment"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount        int64      `gorm:"not null"`
	PaymentType   string     `gorm:"not null;size:20"`
	PaymentMethod string     `gorm:"not null;size:20"`
	PaymentStatus string     `gorm:"not null;size:20;index"`
	PaidAt        *time.Time `gorm:""`
	VerifiedAt    *time.Time `gorm:""`
	VerifiedBy    *uuid.UUID `gorm:"type:uuid"`
	RefundedAt    *time.Time `gorm:""`
	Notes         *string    `gorm:""`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of PaymentRepository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID retrieves a payment by its unique identifier.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", id.String())
		}
		return nil, fmt.Errorf("failed to find payment by ID: %w", err)
	}
	return toDomainPayment(&model), nil
}

// ListByBooking returns a booking's payments, oldest first.
func (r *GormPaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	payments := make([]*paymentDomain.Payment, len(models))
	for i := range models {
		payments[i] = toDomainPayment(&models[i])
	}
	return payments, nil
}

// Save persists a new payment.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	if err := r.db.WithContext(ctx).Create(toPaymentModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Update persists changes to a payment. A row already refunded in the
// database is never overwritten.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)
	result := r.db.WithContext(ctx).
		Model(&PaymentModel{}).
		Where("id = ? AND payment_status <> ?", model.ID, "refunded").
		Updates(map[string]interface{}{
			"amount":         model.Amount,
			"payment_status": model.PaymentStatus,
			"paid_at":        model.PaidAt,
			"verified_at":    model.VerifiedAt,
			"verified_by":    model.VerifiedBy,
			"refunded_at":    model.RefundedAt,
			"notes":          model.Notes,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return paymentDomain.NewPaymentImmutableError(p.ID())
	}
	return nil
}

// --- Conversion Helpers ---

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		PaymentType:   string(p.Type()),
		PaymentMethod: string(p.Method()),
		PaymentStatus: string(p.Status()),
		PaidAt:        p.PaidAt(),
		VerifiedAt:    p.VerifiedAt(),
		VerifiedBy:    p.VerifiedBy(),
		RefundedAt:    p.RefundedAt(),
		Notes:         nullableString(p.Notes()),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toDomainPayment(m *PaymentModel) *paymentDomain.Payment {
	return paymentDomain.ReconstructPayment(paymentDomain.Snapshot{
		ID:         m.ID,
		BookingID:  m.BookingID,
		Amount:     m.Amount,
		Type:       paymentDomain.Type(m.PaymentType),
		Method:     paymentDomain.Method(m.PaymentMethod),
		Status:     paymentDomain.Status(m.PaymentStatus),
		PaidAt:     m.PaidAt,
		VerifiedAt: m.VerifiedAt,
		VerifiedBy: m.VerifiedBy,
		RefundedAt: m.RefundedAt,
		Notes:      stringValue(m.Notes),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	})
}
