package application

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	customerDomain "github.com/hotelhub/service-booking/internal/domain/customer"
	paymentDomain "github.com/hotelhub/service-booking/internal/domain/payment"
	roomDomain "github.com/hotelhub/service-booking/internal/domain/room"
)

// RoomSummary is the room attached to a booking response.
type RoomSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	RoomType      string    `json:"room_type"`
	PricePerNight int64     `json:"price_per_night"`
}

// CustomerSummary is the customer attached to a booking response.
type CustomerSummary struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	CustomerType string    `json:"customer_type"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID             uuid.UUID        `json:"id"`
	BookingNumber  string           `json:"booking_number"`
	CustomerID     *uuid.UUID       `json:"customer_id,omitempty"`
	RoomID         *uuid.UUID       `json:"room_id,omitempty"`
	Status         string           `json:"status"`
	StatusLabel    string           `json:"status_label"`
	CheckIn        time.Time        `json:"check_in"`
	CheckOut       time.Time        `json:"check_out"`
	NumberOfNights int              `json:"number_of_nights"`
	ActualCheckIn  *time.Time       `json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time       `json:"actual_check_out,omitempty"`
	TotalAmount    int64            `json:"total_amount"`
	AdvancePayment int64            `json:"advance_payment"`
	TotalGuests    int              `json:"total_guests"`
	Notes          string           `json:"notes,omitempty"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Version        int64            `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Room           *RoomSummary     `json:"room,omitempty"`
	Customer       *CustomerSummary `json:"customer,omitempty"`
}

// StatusOption is a status value with its display label.
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TransitionsDTO lists where the caller may move a booking next.
type TransitionsDTO struct {
	BookingID uuid.UUID      `json:"booking_id"`
	Current   StatusOption   `json:"current"`
	Role      string         `json:"role"`
	Allowed   []StatusOption `json:"allowed"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	RoomType      string    `json:"room_type"`
	RoomTypeLabel string    `json:"room_type_label"`
	PricePerNight int64     `json:"price_per_night"`
	MaxGuests     int       `json:"max_guests"`
	Amenities     []string  `json:"amenities"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomerDTO is the response representation of a customer.
type CustomerDTO struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IDCard        string    `json:"id_card,omitempty"`
	Address       string    `json:"address,omitempty"`
	CustomerType  string    `json:"customer_type"`
	TypeLabel     string    `json:"customer_type_label"`
	Notes         string    `json:"notes,omitempty"`
	TotalBookings *int64    `json:"total_bookings,omitempty"`
	TotalSpent    *int64    `json:"total_spent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	Amount        int64      `json:"amount"`
	PaymentType   string     `json:"payment_type"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	StatusLabel   string     `json:"status_label"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	VerifiedBy    *uuid.UUID `json:"verified_by,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// --- Conversion Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:             bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		CustomerID:     bk.CustomerID(),
		RoomID:         bk.RoomID(),
		Status:         string(bk.Status()),
		StatusLabel:    bk.Status().Label(),
		CheckIn:        bk.CheckIn(),
		CheckOut:       bk.CheckOut(),
		NumberOfNights: bk.NumberOfNights(),
		ActualCheckIn:  bk.ActualCheckIn(),
		ActualCheckOut: bk.ActualCheckOut(),
		TotalAmount:    bk.TotalAmount(),
		AdvancePayment: bk.AdvancePayment(),
		TotalGuests:    bk.TotalGuests(),
		Notes:          bk.Notes(),
		CancelledAt:    bk.CancelledAt(),
		CancelReason:   bk.CancelReason(),
		Version:        bk.Version(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
	}
}

func toRoomSummary(rm *roomDomain.Room) *RoomSummary {
	if rm == nil {
		return nil
	}
	return &RoomSummary{
		ID:            rm.ID(),
		Name:          rm.Name(),
		RoomType:      string(rm.RoomType()),
		PricePerNight: rm.PricePerNight(),
	}
}

func toCustomerSummary(c *customerDomain.Customer) *CustomerSummary {
	if c == nil {
		return nil
	}
	p := c.Profile()
	return &CustomerSummary{
		ID:           c.ID(),
		FullName:     p.FullName,
		Phone:        p.Phone,
		CustomerType: string(p.CustomerType),
	}
}

func toStatusOptions(statuses []bookingDomain.BookingStatus) []StatusOption {
	out := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		out[i] = StatusOption{Value: string(s), Label: s.Label()}
	}
	return out
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	amenities := rm.Amenities()
	if amenities == nil {
		amenities = []string{}
	}
	return RoomDTO{
		ID:            rm.ID(),
		Name:          rm.Name(),
		RoomType:      string(rm.RoomType()),
		RoomTypeLabel: rm.RoomType().Label(),
		PricePerNight: rm.PricePerNight(),
		MaxGuests:     rm.MaxGuests(),
		Amenities:     amenities,
		Status:        string(rm.Status()),
		StatusLabel:   rm.Status().Label(),
		CreatedAt:     rm.CreatedAt(),
		UpdatedAt:     rm.UpdatedAt(),
	}
}

func toCustomerDTO(c *customerDomain.Customer) CustomerDTO {
	p := c.Profile()
	return CustomerDTO{
		ID:           c.ID(),
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		IDCard:       p.IDCard,
		Address:      p.Address,
		CustomerType: string(p.CustomerType),
		TypeLabel:    p.CustomerType.Label(),
		Notes:        p.Notes,
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		PaymentType:   string(p.Type()),
		PaymentMethod: string(p.Method()),
		PaymentStatus: string(p.Status()),
		StatusLabel:   p.Status().Label(),
		PaidAt:        p.PaidAt(),
		VerifiedAt:    p.VerifiedAt(),
		VerifiedBy:    p.VerifiedBy(),
		RefundedAt:    p.RefundedAt(),
		Notes:         p.Notes(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}
