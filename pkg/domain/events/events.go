// Package events defines the domain events emitted after each committed
// donation transition. Exactly one event is published per transition,
// after the transaction commits; delivery is at-least-once and
// consumers must deduplicate.
package events

import (
	"time"

	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/google/uuid"
)

// Event is the marker interface for all domain events.
type Event interface {
	Type() string
}

// DonationEvent carries the fields common to every donation event.
type DonationEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	DonationID uuid.UUID    `json:"donation_id"`
	CampaignID uuid.UUID    `json:"campaign_id"`
	UserID     *uuid.UUID   `json:"user_id,omitempty"` // nil for anonymous donors
	Amount     *money.Money `json:"amount"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewDonationEvent builds the common payload from an aggregate.
func NewDonationEvent(d *donation.Donation) DonationEvent {
	return DonationEvent{
		EventID:    uuid.New(),
		DonationID: d.ID,
		CampaignID: d.CampaignID,
		UserID:     d.UserID,
		Amount:     d.Amount,
		OccurredAt: time.Now(),
	}
}

// DonationCreated is emitted when a donation is created in pending state.
type DonationCreated struct {
	DonationEvent
	PaymentMethod  string `json:"payment_method"`
	PaymentGateway string `json:"payment_gateway,omitempty"`
	Anonymous      bool   `json:"anonymous"`
	Recurring      bool   `json:"recurring"`
}

// DonationProcessing is emitted when a donation enters processing.
type DonationProcessing struct {
	DonationEvent
	TransactionID string `json:"transaction_id"`
}

// DonationCompleted is emitted when a donation's funds are accepted
// into the campaign ledger.
type DonationCompleted struct {
	DonationEvent
	CampaignGoalReached bool `json:"campaign_goal_reached"`
}

// DonationFailed is emitted when a donation fails.
type DonationFailed struct {
	DonationEvent
	FailureReason string `json:"failure_reason"`
}

// DonationCancelled is emitted when a donation is cancelled.
type DonationCancelled struct {
	DonationEvent
	Reason      string     `json:"reason,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
}

// DonationRefunded is emitted when a donation's funds are reversed out
// of the campaign ledger.
type DonationRefunded struct {
	DonationEvent
	RefundReason string    `json:"refund_reason"`
	ProcessedBy  uuid.UUID `json:"processed_by"`
}

// DonationStatusUpdated is emitted by the generalized status update,
// carrying the validated transition that was applied.
type DonationStatusUpdated struct {
	DonationEvent
	From donation.Status `json:"from"`
	To   donation.Status `json:"to"`
}

func (e DonationCreated) Type() string       { return "DonationCreated" }
func (e DonationProcessing) Type() string    { return "DonationProcessing" }
func (e DonationCompleted) Type() string     { return "DonationCompleted" }
func (e DonationFailed) Type() string        { return "DonationFailed" }
func (e DonationCancelled) Type() string     { return "DonationCancelled" }
func (e DonationRefunded) Type() string      { return "DonationRefunded" }
func (e DonationStatusUpdated) Type() string { return "DonationStatusUpdated" }

// EventTypes maps event type names to constructors, used by
// stream-backed buses to rehydrate envelopes.
var EventTypes = map[string]func() Event{
	"DonationCreated":       func() Event { return &DonationCreated{} },
	"DonationProcessing":    func() Event { return &DonationProcessing{} },
	"DonationCompleted":     func() Event { return &DonationCompleted{} },
	"DonationFailed":        func() Event { return &DonationFailed{} },
	"DonationCancelled":     func() Event { return &DonationCancelled{} },
	"DonationRefunded":      func() Event { return &DonationRefunded{} },
	"DonationStatusUpdated": func() Event { return &DonationStatusUpdated{} },
}
