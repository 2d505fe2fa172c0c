package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelhub/service-booking/internal/common/domain"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
)

// CustomerModel is the GORM model for the customers table.
type CustomerModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FullName     string         `gorm:"not null;size:200;index"`
	Email        *string        `gorm:"size:255"`
	Phone        *string        `gorm:"size:32;index"`
	IDCard       *string        `gorm:"column:id_card;size:64"`
	Address      *string        `gorm:""`
	CustomerType string         `gorm:"not null;size:20;default:'regular'"`
	Notes        *string        `gorm:""`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the GORM model.
func (CustomerModel) TableName() string {
	return "customers"
}

// GormCustomerRepository is the GORM-based implementation of CustomerRepository.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository.
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID retrieves a non-deleted customer.
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Customer", id.String())
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}
	return toDomainCustomer(&model), nil
}

// FindByIDs returns the non-deleted customers among ids, keyed by ID.
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*customerDomain.Customer, error) {
	out := make(map[uuid.UUID]*customerDomain.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers by IDs: %w", err)
	}
	for i := range models {
		c := toDomainCustomer(&models[i])
		out[c.ID()] = c
	}
	return out, nil
}

func applyCustomerFilter(q *gorm.DB, f customerDomain.ListFilter) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("(full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", like, like, like)
	}
	if f.CustomerType != "" {
		q = q.Where("customer_type = ?", string(f.CustomerType))
	}
	return q
}

// List retrieves customers matching the filter with pagination.
func (r *GormCustomerRepository) List(ctx context.Context, filter customerDomain.ListFilter, page, limit int) ([]*customerDomain.Customer, int64, error) {
	var total int64
	if err := applyCustomerFilter(r.db.WithContext(ctx).Model(&CustomerModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var models []CustomerModel
	offset := (page - 1) * limit
	if err := applyCustomerFilter(r.db.WithContext(ctx), filter).
		Order("full_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]*customerDomain.Customer, len(models))
	for i := range models {
		customers[i] = toDomainCustomer(&models[i])
	}
	return customers, total, nil
}

// Save persists a new customer.
func (r *GormCustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	if err := r.db.WithContext(ctx).Create(toCustomerModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// Update persists changes to an existing customer.
func (r *GormCustomerRepository) Update(ctx context.Context, c *customerDomain.Customer) error {
	model := toCustomerModel(c)
	result := r.db.WithContext(ctx).
		Model(&CustomerModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"full_name":     model.FullName,
			"email":         model.Email,
			"phone":         model.Phone,
			"id_card":       model.IDCard,
			"address":       model.Address,
			"customer_type": model.CustomerType,
			"notes":         model.Notes,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Customer", c.ID().String())
	}
	return nil
}

// --- Conversion Helpers ---

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toCustomerModel(c *customerDomain.Customer) *CustomerModel {
	p := c.Profile()
	model := &CustomerModel{
		ID:           c.ID(),
		FullName:     p.FullName,
		Email:        nullableString(p.Email),
		Phone:        nullableString(p.Phone),
		IDCard:       nullableString(p.IDCard),
		Address:      nullableString(p.Address),
		CustomerType: string(p.CustomerType),
		Notes:        nullableString(p.Notes),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
	if c.DeletedAt() != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *c.DeletedAt(), Valid: true}
	}
	return model
}

func toDomainCustomer(m *CustomerModel) *customerDomain.Customer {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}
	return customerDomain.ReconstructCustomer(m.ID, customerDomain.Profile{
		FullName:     m.FullName,
		Email:        stringValue(m.Email),
		Phone:        stringValue(m.Phone),
		IDCard:       stringValue(m.IDCard),
		Address:      stringValue(m.Address),
		CustomerType: customerDomain.CustomerType(m.CustomerType),
		Notes:        stringValue(m.Notes),
	}, m.CreatedAt, m.UpdatedAt, deletedAt)
}
