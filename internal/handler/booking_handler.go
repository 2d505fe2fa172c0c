package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/common/response"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// BookingUseCases is the part of the booking service the HTTP layer drives.
// *application.BookingService implements it.
type BookingUseCases interface {
	CreateBooking(ctx context.Context, actor application.Actor, req application.CreateBookingRequest) (*application.BookingDTO, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
	ListBookings(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) (*domain.PaginatedResult[application.BookingDTO], error)
	AllowedTransitions(ctx context.Context, bookingID uuid.UUID, role staff.Role) (*application.TransitionsDTO, error)
	ChangeStatus(ctx context.Context, bookingID uuid.UUID, target bookingDomain.BookingStatus, actor application.Actor) (*application.BookingDTO, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, actor application.Actor, reason string) (*application.BookingDTO, error)
	TransferBooking(ctx context.Context, bookingID uuid.UUID, actor application.Actor, req application.TransferBookingRequest) (*application.BookingDTO, error)
	UpdateBookingDetails(ctx context.Context, bookingID uuid.UUID, req application.UpdateBookingRequest) (*application.BookingDTO, error)
	DeleteBooking(ctx context.Context, bookingID uuid.UUID, actor application.Actor) error
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service BookingUseCases
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingUseCases) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", middleware.RequireRole(staff.RoleAdmin, staff.RoleManager), h.DeleteBooking)
		bookings.GET("/:id/transitions", h.AllowedTransitions)
		bookings.POST("/:id/status", h.UpdateStatus)
		bookings.POST("/:id/request-payment", h.transitionTo(bookingDomain.StatusAwaitingPayment))
		bookings.POST("/:id/confirm", h.transitionTo(bookingDomain.StatusConfirmed))
		bookings.POST("/:id/check-in", h.transitionTo(bookingDomain.StatusCheckedIn))
		bookings.POST("/:id/check-out", h.transitionTo(bookingDomain.StatusCheckedOut))
		bookings.POST("/:id/complete", h.transitionTo(bookingDomain.StatusCompleted))
		bookings.POST("/:id/no-show", h.transitionTo(bookingDomain.StatusNoShow))
		bookings.POST("/:id/refund", h.transitionTo(bookingDomain.StatusRefunded))
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/transfer", h.TransferBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter, err := parseBookingFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, limit := parsePagination(c)

	result, err := h.service.ListBookings(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PATCH /api/v1/bookings/:id. Status is never changed here.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBookingDetails(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), bookingID, actor); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// AllowedTransitions handles GET /api/v1/bookings/:id/transitions.
func (h *BookingHandler) AllowedTransitions(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.AllowedTransitions(c.Request.Context(), bookingID, actor.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus handles POST /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	target, err := bookingDomain.ParseBookingStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var result *application.BookingDTO
	if target == bookingDomain.StatusCancelled {
		result, err = h.service.CancelBooking(c.Request.Context(), bookingID, actor, req.Reason)
	} else {
		result, err = h.service.ChangeStatus(c.Request.Context(), bookingID, target, actor)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// transitionTo returns a handler for one of the named lifecycle endpoints.
func (h *BookingHandler) transitionTo(target bookingDomain.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseID(c, "booking")
		if !ok {
			return
		}
		actor, ok := actorFrom(c)
		if !ok {
			return
		}

		result, err := h.service.ChangeStatus(c.Request.Context(), bookingID, target, actor)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, result)
	}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, actor, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TransferBooking handles POST /api/v1/bookings/:id/transfer.
func (h *BookingHandler) TransferBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.TransferBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.TransferBooking(c.Request.Context(), bookingID, actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseBookingFilter reads the optional list filters from the query string.
func parseBookingFilter(c *gin.Context) (bookingDomain.ListFilter, error) {
	var filter bookingDomain.ListFilter

	if raw := c.Query("status"); raw != "" {
		status, err := bookingDomain.ParseBookingStatus(raw)
		if err != nil {
			return filter, domain.NewValidationError(err.Error())
		}
		filter.Status = status
	}
	for param, dst := range map[string]**uuid.UUID{
		"room_id":     &filter.RoomID,
		"customer_id": &filter.CustomerID,
	} {
		if raw := c.Query(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return filter, domain.NewValidationError("invalid " + param)
			}
			*dst = &id
		}
	}
	for param, dst := range map[string]**time.Time{
		"from": &filter.From,
		"to":   &filter.To,
	} {
		if raw := c.Query(param); raw != "" {
			t, err := parseTime(raw)
			if err != nil {
				return filter, domain.NewValidationError("invalid " + param + ": expected RFC 3339 or YYYY-MM-DD")
			}
			*dst = &t
		}
	}
	return filter, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseID reads the :id path parameter, writing a 400 when it is not a UUID.
func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom returns the authenticated caller, writing a 401 when absent.
func actorFrom(c *gin.Context) (application.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return application.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return application.Actor{}, false
	}
	return application.Actor{UserID: userID, Role: role}, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
