package booking

import (
	"time"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

const day = 24 * time.Hour

// NightsBetween returns the number of nights charged for a stay: the whole-day
// difference between check-in and check-out, rounded up.
func NightsBetween(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, NewInvalidDateRangeError(checkIn, checkOut)
	}
	d := checkOut.Sub(checkIn)
	nights := int(d / day)
	if d%day != 0 {
		nights++
	}
	return nights, nil
}

// Overlaps reports whether the half-open intervals [aIn, aOut) and [bIn, bOut) intersect.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// validateAmounts checks the commercial bounds shared by creation, transfer and edits.
func validateAmounts(totalAmount, advancePayment int64) error {
	if totalAmount < 0 {
		return domain.NewValidationErrorWithDetails("total amount cannot be negative", map[string]any{
			"total_amount": totalAmount,
		})
	}
	if advancePayment < 0 {
		return domain.NewValidationErrorWithDetails("advance payment cannot be negative", map[string]any{
			"advance_payment": advancePayment,
		})
	}
	if advancePayment > totalAmount {
		return domain.NewValidationErrorWithDetails("advance payment cannot exceed total amount", map[string]any{
			"advance_payment": advancePayment,
			"total_amount":    totalAmount,
		})
	}
	return nil
}

// ValidateStayRequest checks the parts of a booking request that need no
// lookup. A nil total defers the advance bound until the stay is priced.
func ValidateStayRequest(checkIn, checkOut time.Time, numberOfNights, guests int, total *int64, advance int64) error {
	nights, err := NightsBetween(checkIn, checkOut)
	if err != nil {
		return err
	}
	if err := checkSuppliedNights(numberOfNights, nights); err != nil {
		return err
	}
	if err := validateGuests(guests); err != nil {
		return err
	}
	if total != nil {
		return validateAmounts(*total, advance)
	}
	if advance < 0 {
		return domain.NewValidationErrorWithDetails("advance payment cannot be negative", map[string]any{
			"advance_payment": advance,
		})
	}
	return nil
}

func checkSuppliedNights(supplied, nights int) error {
	if supplied != 0 && supplied != nights {
		return domain.NewValidationErrorWithDetails("number of nights does not match the stay", map[string]any{
			"number_of_nights": supplied,
			"expected":         nights,
		})
	}
	return nil
}

func validateGuests(guests int) error {
	if guests < 1 {
		return domain.NewValidationErrorWithDetails("total guests must be at least 1", map[string]any{
			"total_guests": guests,
		})
	}
	return nil
}
