// Package campaign contains the financial-facing slice of the Campaign
// aggregate: its fund ledger and donation eligibility rules.
package campaign

import (
	"errors"
	"time"

	"github.com/fundflow/fundflow/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a campaign cannot be found.
	ErrNotFound = errors.New("campaign not found")

	// ErrCannotAcceptDonation is returned when a campaign's eligibility
	// rules reject a new donation.
	ErrCannotAcceptDonation = errors.New("campaign cannot accept donation")

	// ErrGoalRequired is returned when a campaign has no positive goal amount.
	ErrGoalRequired = errors.New("campaign goal amount must be positive")
)

// Status represents the lifecycle state of a campaign.
type Status string

// Campaign states.
const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Campaign is the fund ledger for a fundraising campaign. It owns its
// running total: only completed or refunded donation transitions may
// adjust it, and always by exactly the triggering donation's amount.
type Campaign struct {
	ID            uuid.UUID
	Title         string
	Status        Status
	GoalAmount    *money.Money
	CurrentAmount *money.Money
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Builder provides a fluent API for constructing Campaign instances.
type Builder struct {
	c Campaign
}

// New creates a new Builder with a fresh UUID and active status.
func New() *Builder {
	return &Builder{c: Campaign{
		ID:        uuid.New(),
		Status:    StatusActive,
		CreatedAt: time.Now(),
	}}
}

// WithID sets the campaign id.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.c.ID = id
	return b
}

// WithTitle sets the campaign title.
func (b *Builder) WithTitle(title string) *Builder {
	b.c.Title = title
	return b
}

// WithStatus sets the campaign status (hydration).
func (b *Builder) WithStatus(s Status) *Builder {
	b.c.Status = s
	return b
}

// WithGoal sets the fundraising goal. This is a mandatory field.
func (b *Builder) WithGoal(goal *money.Money) *Builder {
	b.c.GoalAmount = goal
	return b
}

// WithCurrentAmount sets the accumulated total (hydration).
func (b *Builder) WithCurrentAmount(current *money.Money) *Builder {
	b.c.CurrentAmount = current
	return b
}

// WithSchedule sets the campaign's start and end dates.
func (b *Builder) WithSchedule(start, end time.Time) *Builder {
	b.c.StartDate = start
	b.c.EndDate = end
	return b
}

// Build finalizes construction, validating all invariants.
func (b *Builder) Build() (*Campaign, error) {
	if !b.c.GoalAmount.IsPositive() {
		return nil, ErrGoalRequired
	}
	if b.c.CurrentAmount == nil {
		b.c.CurrentAmount = money.Zero(b.c.GoalAmount.Currency())
	}
	if !b.c.CurrentAmount.IsSameCurrency(b.c.GoalAmount) {
		return nil, money.ErrCurrencyMismatch
	}
	c := b.c
	return &c, nil
}

// CanAcceptDonation reports whether the campaign accepts new donations
// right now: it must be active, within its schedule, and short of goal.
// The predicate is pure; it never mutates the campaign.
func (c *Campaign) CanAcceptDonation() bool {
	return c.CanAcceptAt(time.Now())
}

// CanAcceptAt is CanAcceptDonation against an explicit clock,
// keeping eligibility scenarios deterministic in tests.
func (c *Campaign) CanAcceptAt(now time.Time) bool {
	if c.Status != StatusActive {
		return false
	}
	if c.StartDate.After(now) {
		return false
	}
	if !c.EndDate.After(now) {
		return false
	}
	reached, err := c.CurrentAmount.GreaterThanOrEqual(c.GoalAmount)
	if err != nil {
		return false
	}
	return !reached
}

// GoalReached reports whether the accumulated total has reached the goal.
func (c *Campaign) GoalReached() bool {
	reached, err := c.CurrentAmount.GreaterThanOrEqual(c.GoalAmount)
	if err != nil {
		return false
	}
	return reached
}

// AcceptDonation adds a completed donation's amount to the running
// total. Reaching or exceeding the goal flips the campaign to
// completed; the flip is idempotent.
//
// A currency mismatch aborts without touching the total.
func (c *Campaign) AcceptDonation(amount *money.Money) error {
	newTotal, err := c.CurrentAmount.Add(amount)
	if err != nil {
		return err
	}
	c.CurrentAmount = newTotal
	if c.GoalReached() && c.Status == StatusActive {
		c.Status = StatusCompleted
	}
	return nil
}

// ReverseDonation subtracts a refunded donation's amount from the
// running total. The subtraction is currency-checked and may never
// drive the ledger negative; either failure aborts without touching
// the total.
func (c *Campaign) ReverseDonation(amount *money.Money) error {
	newTotal, err := c.CurrentAmount.Subtract(amount)
	if err != nil {
		return err
	}
	c.CurrentAmount = newTotal
	return nil
}
