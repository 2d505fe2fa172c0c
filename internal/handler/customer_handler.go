package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/common/response"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
)

// CustomerUseCases is implemented by *application.CustomerService.
type CustomerUseCases interface {
	CreateCustomer(ctx context.Context, req application.CustomerRequest) (*application.CustomerDTO, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*application.CustomerDTO, error)
	ListCustomers(ctx context.Context, filter customerDomain.ListFilter, page, limit int) (*domain.PaginatedResult[application.CustomerDTO], error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, req application.CustomerRequest) (*application.CustomerDTO, error)
}

// CustomerHandler handles HTTP requests for guest records.
type CustomerHandler struct {
	service CustomerUseCases
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service CustomerUseCases) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	customers := r.Group("/api/v1/customers")
	customers.Use(middleware.AuthMiddleware(jwtManager))
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
	}
}

// CreateCustomer handles POST /api/v1/customers.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req application.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListCustomers handles GET /api/v1/customers?search=&customer_type=.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := customerDomain.ListFilter{
		Search:       c.Query("search"),
		CustomerType: customerDomain.CustomerType(c.Query("customer_type")),
	}
	page, limit := parsePagination(c)

	result, err := h.service.ListCustomers(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetCustomer handles GET /api/v1/customers/:id.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID, ok := parseID(c, "customer")
	if !ok {
		return
	}

	result, err := h.service.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCustomer handles PUT /api/v1/customers/:id.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customerID, ok := parseID(c, "customer")
	if !ok {
		return
	}

	var req application.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCustomer(c.Request.Context(), customerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
