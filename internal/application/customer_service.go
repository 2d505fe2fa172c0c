package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/domain"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
)

// CustomerRequest holds the editable fields of a customer.
type CustomerRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IDCard       string `json:"id_card"`
	Address      string `json:"address"`
	CustomerType string `json:"customer_type"`
	Notes        string `json:"notes"`
}

func (r CustomerRequest) profile() customerDomain.Profile {
	return customerDomain.Profile{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		IDCard:       r.IDCard,
		Address:      r.Address,
		CustomerType: customerDomain.CustomerType(r.CustomerType),
		Notes:        r.Notes,
	}
}

// CustomerService is the application service for guest records.
type CustomerService struct {
	repo     customerDomain.CustomerRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(
	repo customerDomain.CustomerRepository,
	bookings bookingDomain.BookingRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{repo: repo, bookings: bookings, logger: logger}
}

// CreateCustomer registers a guest.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerDTO, error) {
	c, err := customerDomain.NewCustomer(req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("customer_id", c.ID().String()))
	result := toCustomerDTO(c)
	return &result, nil
}

// GetCustomer retrieves a customer with derived booking stats.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.bookings.StatsForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	result := toCustomerDTO(c)
	result.TotalBookings = &stats.TotalBookings
	result.TotalSpent = &stats.TotalSpent
	return &result, nil
}

// ListCustomers retrieves customers with pagination.
func (s *CustomerService) ListCustomers(ctx context.Context, filter customerDomain.ListFilter, page, limit int) (*domain.PaginatedResult[CustomerDTO], error) {
	customers, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateCustomer replaces a customer's profile.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID uuid.UUID, req CustomerRequest) (*CustomerDTO, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.profile()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	result := toCustomerDTO(c)
	return &result, nil
}
