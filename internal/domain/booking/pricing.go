package booking

import (
	"fmt"
	"math"
)

// PricingStrategy defines the interface for calculating a stay's total.
type PricingStrategy interface {
	// Calculate returns the total in minor currency units.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	PricePerNight int64
	Nights        int
}

// StandardPricingStrategy charges the room's nightly rate for every night.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Calculate returns price_per_night * nights.
func (s *StandardPricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.PricePerNight < 0 {
		return 0, fmt.Errorf("price per night cannot be negative")
	}
	if params.Nights <= 0 {
		return 0, fmt.Errorf("nights must be positive")
	}
	if params.PricePerNight > 0 && int64(params.Nights) > math.MaxInt64/params.PricePerNight {
		return 0, fmt.Errorf("stay total overflows")
	}
	return params.PricePerNight * int64(params.Nights), nil
}
