package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

func validAttrs() Attributes {
	return Attributes{
		Name:          " 101 ",
		RoomType:      TypeDeluxe,
		PricePerNight: 150_000,
		MaxGuests:     2,
	}
}

func TestNewRoom(t *testing.T) {
	r, err := NewRoom(validAttrs())

	require.NoError(t, err)
	assert.Equal(t, "101", r.Name())
	assert.Equal(t, StatusAvailable, r.Status())
	assert.NotNil(t, r.Amenities())
}

func TestNewRoom_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Attributes)
	}{
		{"blank name", func(a *Attributes) { a.Name = "  " }},
		{"unknown type", func(a *Attributes) { a.RoomType = "penthouse" }},
		{"zero price", func(a *Attributes) { a.PricePerNight = 0 }},
		{"no capacity", func(a *Attributes) { a.MaxGuests = 0 }},
		{"unknown status", func(a *Attributes) { a.Status = "occupied" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAttrs()
			tt.mutate(&a)
			_, err := NewRoom(a)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestRoom_AcceptsGuests(t *testing.T) {
	r, err := NewRoom(validAttrs())
	require.NoError(t, err)

	assert.NoError(t, r.AcceptsGuests(2))
	assert.True(t, errors.Is(r.AcceptsGuests(3), domain.ErrValidation))
}

func TestLabels(t *testing.T) {
	for _, rt := range []RoomType{TypeStandard, TypeDeluxe, TypeSuperior, TypeFamily} {
		assert.NotEqual(t, "Unknown", rt.Label())
	}
	for _, s := range []Status{StatusAvailable, StatusMaintenance, StatusNotClean, StatusClean} {
		assert.NotEqual(t, "Unknown", s.Label())
	}
}
