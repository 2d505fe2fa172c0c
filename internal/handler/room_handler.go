package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/domain"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/common/response"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

// RoomUseCases is implemented by *application.RoomService.
type RoomUseCases interface {
	CreateRoom(ctx context.Context, req application.RoomRequest) (*application.RoomDTO, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*application.RoomDTO, error)
	ListRooms(ctx context.Context, filter roomDomain.ListFilter, page, limit int) (*domain.PaginatedResult[application.RoomDTO], error)
	UpdateRoom(ctx context.Context, roomID uuid.UUID, req application.RoomRequest) (*application.RoomDTO, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
	RoomMap(ctx context.Context) ([]application.RoomMapEntry, error)
}

// ConflictFinder looks up the booking holding a room for part of a stay.
// *application.BookingService implements it.
type ConflictFinder interface {
	FindConflictingBooking(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, exclude *uuid.UUID) (*application.BookingDTO, error)
}

// RoomHandler handles HTTP requests for room inventory and the room map.
type RoomHandler struct {
	service   RoomUseCases
	conflicts ConflictFinder
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service RoomUseCases, conflicts ConflictFinder) *RoomHandler {
	return &RoomHandler{service: service, conflicts: conflicts}
}

// RegisterRoutes registers room routes. Inventory changes need a manager or admin.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	managers := middleware.RequireRole(staff.RoleAdmin, staff.RoleManager)

	rooms := r.Group("/api/v1/rooms")
	rooms.Use(authMW)
	{
		rooms.POST("", managers, h.CreateRoom)
		rooms.GET("", h.ListRooms)
		rooms.GET("/map", h.RoomMap)
		rooms.GET("/:id", h.GetRoom)
		rooms.PUT("/:id", managers, h.UpdateRoom)
		rooms.DELETE("/:id", managers, h.DeleteRoom)
		rooms.GET("/:id/conflicts", h.FindConflict)
	}
}

// CreateRoom handles POST /api/v1/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRooms handles GET /api/v1/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	filter := roomDomain.ListFilter{
		RoomType: roomDomain.RoomType(c.Query("room_type")),
		Status:   roomDomain.Status(c.Query("status")),
	}
	page, limit := parsePagination(c)

	result, err := h.service.ListRooms(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := parseID(c, "room")
	if !ok {
		return
	}

	result, err := h.service.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRoom handles PUT /api/v1/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := parseID(c, "room")
	if !ok {
		return
	}

	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoom(c.Request.Context(), roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := parseID(c, "room")
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), roomID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// RoomMap handles GET /api/v1/rooms/map.
func (h *RoomHandler) RoomMap(c *gin.Context) {
	result, err := h.service.RoomMap(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// FindConflict handles GET /api/v1/rooms/:id/conflicts?check_in=&check_out=&exclude=.
// The data field is null when the range is free.
func (h *RoomHandler) FindConflict(c *gin.Context) {
	roomID, ok := parseID(c, "room")
	if !ok {
		return
	}

	checkIn, err := parseTime(c.Query("check_in"))
	if err != nil {
		response.BadRequest(c, "invalid check_in")
		return
	}
	checkOut, err := parseTime(c.Query("check_out"))
	if err != nil {
		response.BadRequest(c, "invalid check_out")
		return
	}
	var exclude *uuid.UUID
	if raw := c.Query("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid exclude")
			return
		}
		exclude = &id
	}

	result, err := h.conflicts.FindConflictingBooking(c.Request.Context(), roomID, checkIn, checkOut, exclude)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"available": result == nil, "conflict": result})
}
