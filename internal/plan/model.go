package plan

import (
	"fmt"
	"strings"
)

// MaxNameLength bounds the plan name in characters.
const MaxNameLength = 255

// Plan represents a row in the plans table. Price is in the smallest
// currency unit.
type Plan struct {
	ID    int64
	Name  string
	Price int64
}

// Validate checks the mutable fields of a plan. The returned error wraps
// ErrInvalidPlan.
func Validate(name string, price int64) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	case len([]rune(name)) > MaxNameLength:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidPlan, MaxNameLength)
	case price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPlan)
	}
	return nil
}
