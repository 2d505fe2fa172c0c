package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelhub/service-booking/internal/common/database"
	"github.com/hotelhub/service-booking/internal/common/domain"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

const roomNameConstraint = "rooms_name_key"

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"not null;size:64"`
	RoomType      string          `gorm:"not null;size:20"`
	PricePerNight int64           `gorm:"not null"`
	MaxGuests     int             `gorm:"not null"`
	Amenities     json.RawMessage `gorm:"type:jsonb;not null"`
	Status        string          `gorm:"not null;size:20"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a non-deleted room.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model)
}

// FindByIDs returns the non-deleted rooms among ids, keyed by ID.
func (r *GormRoomRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*roomDomain.Room, error) {
	out := make(map[uuid.UUID]*roomDomain.Room, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []RoomModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find rooms by IDs: %w", err)
	}
	for i := range models {
		rm, err := toDomainRoom(&models[i])
		if err != nil {
			return nil, err
		}
		out[rm.ID()] = rm
	}
	return out, nil
}

func applyRoomFilter(q *gorm.DB, f roomDomain.ListFilter) *gorm.DB {
	if f.RoomType != "" {
		q = q.Where("room_type = ?", string(f.RoomType))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}

// List retrieves rooms matching the filter with pagination, ordered by name.
func (r *GormRoomRepository) List(ctx context.Context, filter roomDomain.ListFilter, page, limit int) ([]*roomDomain.Room, int64, error) {
	var total int64
	if err := applyRoomFilter(r.db.WithContext(ctx).Model(&RoomModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	var models []RoomModel
	offset := (page - 1) * limit
	if err := applyRoomFilter(r.db.WithContext(ctx), filter).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms, err := toDomainRooms(models)
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// ListAll returns every non-deleted room ordered by name.
func (r *GormRoomRepository) ListAll(ctx context.Context) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return toDomainRooms(models)
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	model, err := toRoomModel(rm)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if database.IsUniqueViolation(err, roomNameConstraint) {
			return domain.NewConflictError(fmt.Sprintf("room %q already exists", rm.Name()))
		}
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update persists changes to an existing room, including soft deletion.
func (r *GormRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	model, err := toRoomModel(rm)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":            model.Name,
			"room_type":       model.RoomType,
			"price_per_night": model.PricePerNight,
			"max_guests":      model.MaxGuests,
			"amenities":       model.Amenities,
			"status":          model.Status,
			"updated_at":      model.UpdatedAt,
			"deleted_at":      model.DeletedAt,
		})
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error, roomNameConstraint) {
			return domain.NewConflictError(fmt.Sprintf("room %q already exists", rm.Name()))
		}
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", rm.ID().String())
	}
	return nil
}

// --- Conversion Helpers ---

func toRoomModel(rm *roomDomain.Room) (*RoomModel, error) {
	amenities := rm.Amenities()
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, err := json.Marshal(amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amenities: %w", err)
	}

	model := &RoomModel{
		ID:            rm.ID(),
		Name:          rm.Name(),
		RoomType:      string(rm.RoomType()),
		PricePerNight: rm.PricePerNight(),
		MaxGuests:     rm.MaxGuests(),
		Amenities:     amenitiesJSON,
		Status:        string(rm.Status()),
		CreatedAt:     rm.CreatedAt(),
		UpdatedAt:     rm.UpdatedAt(),
	}
	if rm.DeletedAt() != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *rm.DeletedAt(), Valid: true}
	}
	return model, nil
}

func toDomainRoom(m *RoomModel) (*roomDomain.Room, error) {
	amenities := []string{}
	if len(m.Amenities) > 0 {
		if err := json.Unmarshal(m.Amenities, &amenities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
		}
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}

	return roomDomain.ReconstructRoom(m.ID, roomDomain.Attributes{
		Name:          m.Name,
		RoomType:      roomDomain.RoomType(m.RoomType),
		PricePerNight: m.PricePerNight,
		MaxGuests:     m.MaxGuests,
		Amenities:     amenities,
		Status:        roomDomain.Status(m.Status),
	}, m.CreatedAt, m.UpdatedAt, deletedAt), nil
}

func toDomainRooms(models []RoomModel) ([]*roomDomain.Room, error) {
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rm, err := toDomainRoom(&models[i])
		if err != nil {
			return nil, err
		}
		rooms[i] = rm
	}
	return rooms, nil
}
