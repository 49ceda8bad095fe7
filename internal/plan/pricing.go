package plan

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CycleDays is the fixed billing month length used for proration. It is not
// calendar aware.
const CycleDays = 30

// ErrInvalidRemainingDays is returned when remainingDays is outside
// [0, CycleDays].
var ErrInvalidRemainingDays = errors.New("invalid remaining days")

var cycleLength = decimal.NewFromInt(CycleDays)

// Quote is the result of pricing a mid-cycle plan switch.
type Quote struct {
	CurrentPlan   Plan
	NewPlan       Plan
	RemainingDays int

	// DailyRateDifference is (new - current) / CycleDays.
	DailyRateDifference decimal.Decimal
	// ProratedPrice is DailyRateDifference * RemainingDays, negative on a
	// downgrade.
	ProratedPrice decimal.Decimal
	// ChargeAmount is ProratedPrice rounded to the minor currency unit, half
	// away from zero.
	ChargeAmount int64
}

// Direction reports "upgrade", "downgrade" or "flat".
func (q Quote) Direction() string {
	switch q.ProratedPrice.Sign() {
	case 1:
		return "upgrade"
	case -1:
		return "downgrade"
	default:
		if q.NewPlan.Price > q.CurrentPlan.Price {
			return "upgrade"
		}
		if q.NewPlan.Price < q.CurrentPlan.Price {
			return "downgrade"
		}
		return "flat"
	}
}

// ValidateRemainingDays checks that days lies within one billing cycle.
func ValidateRemainingDays(days int) error {
	if days < 0 || days > CycleDays {
		return fmt.Errorf("%w: remainingDays must be between 0 and %d", ErrInvalidRemainingDays, CycleDays)
	}
	return nil
}

// ProrateUpgrade prices switching from current to next with remainingDays
// left in a CycleDays cycle. It has no side effects.
//
// The product is formed before dividing so that results which terminate
// (such as (30-34)/30*15 = -2) are exact.
func ProrateUpgrade(current, next Plan, remainingDays int) (Quote, error) {
	if err := ValidateRemainingDays(remainingDays); err != nil {
		return Quote{}, err
	}

	diff := decimal.NewFromInt(next.Price - current.Price)
	prorated := diff.Mul(decimal.NewFromInt(int64(remainingDays))).Div(cycleLength)

	return Quote{
		CurrentPlan:         current,
		NewPlan:             next,
		RemainingDays:       remainingDays,
		DailyRateDifference: diff.Div(cycleLength),
		ProratedPrice:       prorated,
		ChargeAmount:        prorated.Round(0).IntPart(),
	}, nil
}
