package room

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

// RoomType classifies a room for pricing and display.
type RoomType string

const (
	TypeStandard RoomType = "standard"
	TypeDeluxe   RoomType = "deluxe"
	TypeSuperior RoomType = "superior"
	TypeFamily   RoomType = "family"
)

// IsValid returns true if the type is recognized.
func (t RoomType) IsValid() bool {
	switch t {
	case TypeStandard, TypeDeluxe, TypeSuperior, TypeFamily:
		return true
	}
	return false
}

// Label returns the display name of the room type.
func (t RoomType) Label() string {
	switch t {
	case TypeStandard:
		return "Standard"
	case TypeDeluxe:
		return "Deluxe"
	case TypeSuperior:
		return "Superior"
	case TypeFamily:
		return "Family"
	}
	return "Unknown"
}

// Status is the housekeeping state of a room. Occupancy is derived from
// bookings and is not part of it.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusNotClean    Status = "not_clean"
	StatusClean       Status = "clean"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusNotClean, StatusClean:
		return true
	}
	return false
}

// Label returns the display name of the housekeeping status.
func (s Status) Label() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusMaintenance:
		return "Under maintenance"
	case StatusNotClean:
		return "Needs cleaning"
	case StatusClean:
		return "Clean"
	}
	return "Unknown"
}

// Room is a bookable unit of inventory.
type Room struct {
	id            uuid.UUID
	name          string
	roomType      RoomType
	pricePerNight int64
	maxGuests     int
	amenities     []string
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// Attributes are the editable fields of a room.
type Attributes struct {
	Name          string
	RoomType      RoomType
	PricePerNight int64
	MaxGuests     int
	Amenities     []string
	Status        Status
}

func (a *Attributes) normalize() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return domain.NewValidationError("room name is required")
	}
	if !a.RoomType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid room type: %s", a.RoomType))
	}
	if a.PricePerNight <= 0 {
		return domain.NewValidationError("price per night must be positive")
	}
	if a.MaxGuests < 1 {
		return domain.NewValidationError("max guests must be at least 1")
	}
	if a.Status == "" {
		a.Status = StatusAvailable
	}
	if !a.Status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid room status: %s", a.Status))
	}
	if a.Amenities == nil {
		a.Amenities = []string{}
	}
	return nil
}

// NewRoom validates the attributes and creates a room.
func NewRoom(attrs Attributes) (*Room, error) {
	if err := attrs.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Room{
		id:            uuid.New(),
		name:          attrs.Name,
		roomType:      attrs.RoomType,
		pricePerNight: attrs.PricePerNight,
		maxGuests:     attrs.MaxGuests,
		amenities:     attrs.Amenities,
		status:        attrs.Status,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(id uuid.UUID, attrs Attributes, createdAt, updatedAt time.Time, deletedAt *time.Time) *Room {
	return &Room{
		id:            id,
		name:          attrs.Name,
		roomType:      attrs.RoomType,
		pricePerNight: attrs.PricePerNight,
		maxGuests:     attrs.MaxGuests,
		amenities:     attrs.Amenities,
		status:        attrs.Status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
	}
}

func (r *Room) ID() uuid.UUID { return r.id }
func (r *Room) Name() string { return r.name }
func (r *Room) RoomType() RoomType { return r.roomType }
func (r *Room) PricePerNight() int64 { return r.pricePerNight }
func (r *Room) MaxGuests() int { return r.maxGuests }
func (r *Room) Amenities() []string { return r.amenities }
func (r *Room) Status() Status { return r.status }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }
func (r *Room) DeletedAt() *time.Time { return r.deletedAt }
func (r *Room) IsDeleted() bool { return r.deletedAt != nil }

// Update replaces the editable attributes.
func (r *Room) Update(attrs Attributes) error {
	if err := attrs.normalize(); err != nil {
		return err
	}
	r.name = attrs.Name
	r.roomType = attrs.RoomType
	r.pricePerNight = attrs.PricePerNight
	r.maxGuests = attrs.MaxGuests
	r.amenities = attrs.Amenities
	r.status = attrs.Status
	r.updatedAt = time.Now().UTC()
	return nil
}

// AcceptsGuests returns a validation error when guests exceed the room's capacity.
func (r *Room) AcceptsGuests(guests int) error {
	if guests > r.maxGuests {
		return domain.NewValidationErrorWithDetails("too many guests for this room", map[string]any{
			"room_id":      r.id.String(),
			"max_guests":   r.maxGuests,
			"total_guests": guests,
		})
	}
	return nil
}

// MarkDeleted soft-deletes the room.
func (r *Room) MarkDeleted() {
	now := time.Now().UTC()
	r.deletedAt = &now
	r.updatedAt = now
}

// ListFilter narrows a room listing.
type ListFilter struct {
	RoomType RoomType
	Status   Status
}

// RoomRepository defines the persistence contract for rooms.
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	// FindByIDs returns the non-deleted rooms among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Room, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Room, int64, error)
	// ListAll returns every non-deleted room ordered by name.
	ListAll(ctx context.Context) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error
}
