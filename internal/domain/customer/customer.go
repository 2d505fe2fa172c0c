package customer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

// CustomerType classifies a guest for front-desk handling.
type CustomerType string

const (
	TypeRegular   CustomerType = "regular"
	TypeVIP       CustomerType = "vip"
	TypeBlacklist CustomerType = "blacklist"
)

// IsValid returns true if the type is recognized.
func (t CustomerType) IsValid() bool {
	switch t {
	case TypeRegular, TypeVIP, TypeBlacklist:
		return true
	}
	return false
}

// Label returns the display name of the customer type.
func (t CustomerType) Label() string {
	switch t {
	case TypeRegular:
		return "Regular"
	case TypeVIP:
		return "VIP"
	case TypeBlacklist:
		return "Blacklisted"
	}
	return "Unknown"
}

// Profile holds the editable fields of a customer.
type Profile struct {
	FullName     string
	Email        string
	Phone        string
	IDCard       string
	Address      string
	CustomerType CustomerType
	Notes        string
}

func (p *Profile) normalize() error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.FullName == "" {
		return domain.NewValidationError("full name is required")
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return domain.NewValidationError(fmt.Sprintf("invalid email: %s", p.Email))
		}
	}
	if p.CustomerType == "" {
		p.CustomerType = TypeRegular
	}
	if !p.CustomerType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid customer type: %s", p.CustomerType))
	}
	return nil
}

// Customer is a hotel guest.
type Customer struct {
	id        uuid.UUID
	profile   Profile
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCustomer validates the profile and creates a customer.
func NewCustomer(p Profile) (*Customer, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Customer{id: uuid.New(), profile: p, createdAt: now, updatedAt: now}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence data (no validation).
func ReconstructCustomer(id uuid.UUID, p Profile, createdAt, updatedAt time.Time, deletedAt *time.Time) *Customer {
	return &Customer{id: id, profile: p, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt}
}

func (c *Customer) ID() uuid.UUID { return c.id }
func (c *Customer) Profile() Profile { return c.profile }
func (c *Customer) FullName() string { return c.profile.FullName }
func (c *Customer) Type() CustomerType { return c.profile.CustomerType }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }
func (c *Customer) DeletedAt() *time.Time { return c.deletedAt }

// IsBlacklisted reports whether the customer may not make new bookings.
func (c *Customer) IsBlacklisted() bool { return c.profile.CustomerType == TypeBlacklist }

// Update replaces the profile.
func (c *Customer) Update(p Profile) error {
	if err := p.normalize(); err != nil {
		return err
	}
	c.profile = p
	c.updatedAt = time.Now().UTC()
	return nil
}

// CanBook returns a validation error for blacklisted customers.
func (c *Customer) CanBook() error {
	if c.IsBlacklisted() {
		return domain.NewValidationErrorWithDetails("customer is blacklisted", map[string]any{
			"customer_id":   c.id.String(),
			"customer_type": string(c.profile.CustomerType),
		})
	}
	return nil
}

// ListFilter narrows a customer listing. Search matches name, email or phone.
type ListFilter struct {
	Search       string
	CustomerType CustomerType
}

// CustomerRepository defines the persistence contract for customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByIDs returns the non-deleted customers among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Customer, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Customer, int64, error)
	Save(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
}
