package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/common/response"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// PaymentUseCases is implemented by *application.PaymentService.
type PaymentUseCases interface {
	RecordPayment(ctx context.Context, bookingID uuid.UUID, req application.RecordPaymentRequest) (*application.PaymentDTO, error)
	ListPayments(ctx context.Context, bookingID uuid.UUID) ([]application.PaymentDTO, error)
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, actor application.Actor, req application.UpdatePaymentRequest) (*application.PaymentDTO, error)
	VerifyPayment(ctx context.Context, paymentID uuid.UUID, actor application.Actor) (*application.PaymentDTO, error)
	RefundPayment(ctx context.Context, paymentID uuid.UUID, actor application.Actor) (*application.PaymentDTO, error)
}

// PaymentHandler handles HTTP requests for booking payments.
type PaymentHandler struct {
	service PaymentUseCases
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service PaymentUseCases) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookingPayments := r.Group("/api/v1/bookings/:id/payments")
	bookingPayments.Use(authMW)
	{
		bookingPayments.GET("", h.ListPayments)
		bookingPayments.POST("", h.RecordPayment)
	}

	payments := r.Group("/api/v1/payments")
	payments.Use(authMW)
	{
		payments.PATCH("/:id", h.UpdatePayment)
		payments.POST("/:id/verify", h.VerifyPayment)
		payments.POST("/:id/refund", middleware.RequireRole(staff.RoleAdmin, staff.RoleManager), h.RefundPayment)
	}
}

// RecordPayment handles POST /api/v1/bookings/:id/payments.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var req application.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RecordPayment(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPayments handles GET /api/v1/bookings/:id/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.ListPayments(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePayment handles PATCH /api/v1/payments/:id.
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	paymentID, ok := parseID(c, "payment")
	if !ok {
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePayment(c.Request.Context(), paymentID, actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// VerifyPayment handles POST /api/v1/payments/:id/verify.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	paymentID, ok := parseID(c, "payment")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.VerifyPayment(c.Request.Context(), paymentID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RefundPayment handles POST /api/v1/payments/:id/refund.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	paymentID, ok := parseID(c, "payment")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.RefundPayment(c.Request.Context(), paymentID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
