// Package ledger models subscriptions, their billing cycle activations and
// the orders that pay for them. Rows are written by the billing cycle
// process; this service only reads them.
package ledger

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrialing  Status = "trialing"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// CycleType is the length of a billing cycle.
type CycleType string

const (
	CycleMonthly CycleType = "monthly"
	CycleYearly  CycleType = "yearly"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusTrialing:  true,
	StatusPastDue:   true,
	StatusCancelled: true,
	StatusExpired:   true,
}

var validCycleTypes = map[CycleType]bool{
	CycleMonthly: true,
	CycleYearly:  true,
}

// ParseStatus converts a stored value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", fmt.Errorf("unknown subscription status %q", s)
	}
	return st, nil
}

// ParseCycleType converts a stored value into a CycleType.
func ParseCycleType(s string) (CycleType, error) {
	ct := CycleType(s)
	if !validCycleTypes[ct] {
		return "", fmt.Errorf("unknown cycle type %q", s)
	}
	return ct, nil
}

// Subscription ties a team to a plan.
type Subscription struct {
	ID        int64
	Status    Status
	TeamID    int64
	PlanID    int64
	PlanName  string // transient, joined from plans
	Orders    []Order
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activation records one billing cycle of a subscription.
type Activation struct {
	ID             int64
	ActivationDate time.Time
	CycleType      CycleType
	CycleNumber    int
	AmountPaid     int64
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Order is a payment event for one activation of a subscription.
type Order struct {
	ID             int64
	PaidFor        bool
	SubscriptionID int64
	Activation     Activation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
