package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/common/response"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminUseCases is implemented by *application.BookingService.
type AdminUseCases interface {
	ListAllBookings(ctx context.Context, page, limit int) ([]application.BookingDTO, int64, error)
	GetBookingStats(ctx context.Context) (*application.BookingStatsDTO, error)
}

// FrontDeskExporter is implemented by *application.ExportService.
type FrontDeskExporter interface {
	ExportFrontDesk(ctx context.Context, date time.Time) ([]byte, string, error)
}

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service  AdminUseCases
	exporter FrontDeskExporter
	location *time.Location
}

// NewAdminBookingHandler creates a new AdminBookingHandler. Export dates are
// read in loc.
func NewAdminBookingHandler(service AdminUseCases, exporter FrontDeskExporter, loc *time.Location) *AdminBookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminBookingHandler{service: service, exporter: exporter, location: loc}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(staff.RoleAdmin, staff.RoleManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/exports/front-desk", h.ExportFrontDesk)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ExportFrontDesk handles GET /api/v1/admin/exports/front-desk?date=YYYY-MM-DD.
// The date defaults to today.
func (h *AdminBookingHandler) ExportFrontDesk(c *gin.Context) {
	date := time.Now().In(h.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			response.BadRequest(c, "invalid date: expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	data, filename, err := h.exporter.ExportFrontDesk(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
