// Package donation contains the Donation aggregate root and its payment
// state machine.
//
// A donation moves through a strictly ordered set of payment states
// (pending -> processing -> completed/failed/cancelled -> refunded).
// Every status write goes through the transition table in status.go;
// callers cannot bypass it.
package donation

import (
	"errors"
	"time"

	"github.com/fundflow/fundflow/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a donation cannot be found.
	ErrNotFound = errors.New("donation not found")

	// ErrAmountMustBePositive is returned when a donation amount is not positive.
	ErrAmountMustBePositive = errors.New("donation amount must be positive")

	// ErrCampaignRequired is returned when a donation has no campaign reference.
	ErrCampaignRequired = errors.New("campaignID is required")

	// ErrInvalidRecurringFrequency is returned when a recurring donation
	// carries an unknown frequency.
	ErrInvalidRecurringFrequency = errors.New("invalid recurring frequency")
)

// RecurringFrequency is the cadence of a recurring donation.
type RecurringFrequency string

// Supported recurring frequencies.
const (
	FrequencyMonthly   RecurringFrequency = "monthly"
	FrequencyQuarterly RecurringFrequency = "quarterly"
	FrequencyYearly    RecurringFrequency = "yearly"
)

// IsValid reports whether f is a supported frequency.
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Donation is the aggregate root for a single donation's financial
// lifecycle. It references its Campaign by id only; the campaign owns
// its own fund total.
//
// Invariants:
//   - Amount is positive at creation.
//   - Status changes only via the transition table (status.go).
//   - ProcessedAt/CompletedAt/FailedAt are set exactly once, on the
//     matching transition, and never cleared.
//   - Donations are never deleted; terminal states are the
//     deletion-equivalent.
type Donation struct {
	ID                    uuid.UUID
	CampaignID            uuid.UUID
	UserID                *uuid.UUID // nil for anonymous donations
	Amount                *money.Money
	Status                Status
	PaymentMethod         string
	PaymentGateway        string
	ExternalTransactionID string
	GatewayResponse       string // opaque gateway payload, stored as-is
	FailureReason         string
	CancellationReason    string
	RefundReason          string
	ProcessingFee         *money.Money
	Anonymous             bool
	Recurring             bool
	RecurringFrequency    RecurringFrequency
	Notes                 string

	DonatedAt   time.Time
	ProcessedAt *time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Builder provides a fluent API for constructing Donation instances,
// both fresh (pending) and hydrated from a data store.
type Builder struct {
	d Donation
}

// New creates a new Builder with a fresh UUID, pending status, and the
// current time as donation timestamp.
func New() *Builder {
	now := time.Now()
	return &Builder{d: Donation{
		ID:        uuid.New(),
		Status:    StatusPending,
		DonatedAt: now,
		CreatedAt: now,
	}}
}

// WithID sets the ID for the donation being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.d.ID = id
	return b
}

// WithCampaignID sets the campaign reference. This is a mandatory field.
func (b *Builder) WithCampaignID(id uuid.UUID) *Builder {
	b.d.CampaignID = id
	return b
}

// WithUserID sets the donor. A nil user means an anonymous donation.
func (b *Builder) WithUserID(id *uuid.UUID) *Builder {
	b.d.UserID = id
	return b
}

// WithAmount sets the donated amount. This is a mandatory field.
func (b *Builder) WithAmount(amount *money.Money) *Builder {
	b.d.Amount = amount
	return b
}

// WithPaymentMethod sets the payment method (e.g. "card", "bank_transfer").
func (b *Builder) WithPaymentMethod(method string) *Builder {
	b.d.PaymentMethod = method
	return b
}

// WithPaymentGateway sets the gateway that will process the donation.
func (b *Builder) WithPaymentGateway(gateway string) *Builder {
	b.d.PaymentGateway = gateway
	return b
}

// WithProcessingFee sets the gateway processing fee.
func (b *Builder) WithProcessingFee(fee *money.Money) *Builder {
	b.d.ProcessingFee = fee
	return b
}

// WithAnonymous marks the donation as anonymous.
func (b *Builder) WithAnonymous(anonymous bool) *Builder {
	b.d.Anonymous = anonymous
	return b
}

// WithRecurring marks the donation as recurring with the given frequency.
func (b *Builder) WithRecurring(frequency RecurringFrequency) *Builder {
	b.d.Recurring = true
	b.d.RecurringFrequency = frequency
	return b
}

// WithNotes attaches a free-form donor note.
func (b *Builder) WithNotes(notes string) *Builder {
	b.d.Notes = notes
	return b
}

// WithStatus sets the status directly. This is a hydration path for
// repositories and tests; new donations always start pending.
func (b *Builder) WithStatus(s Status) *Builder {
	b.d.Status = s
	return b
}

// WithExternalTransactionID sets the gateway transaction id (hydration).
func (b *Builder) WithExternalTransactionID(id string) *Builder {
	b.d.ExternalTransactionID = id
	return b
}

// WithGatewayResponse sets the raw gateway response blob (hydration).
func (b *Builder) WithGatewayResponse(resp string) *Builder {
	b.d.GatewayResponse = resp
	return b
}

// WithFailureReason sets the failure reason (hydration).
func (b *Builder) WithFailureReason(reason string) *Builder {
	b.d.FailureReason = reason
	return b
}

// WithCancellationReason sets the cancellation reason (hydration).
func (b *Builder) WithCancellationReason(reason string) *Builder {
	b.d.CancellationReason = reason
	return b
}

// WithRefundReason sets the refund reason (hydration).
func (b *Builder) WithRefundReason(reason string) *Builder {
	b.d.RefundReason = reason
	return b
}

// WithDonatedAt sets the donation timestamp (hydration).
func (b *Builder) WithDonatedAt(t time.Time) *Builder {
	b.d.DonatedAt = t
	return b
}

// WithLifecycleTimestamps sets the transition timestamps (hydration).
func (b *Builder) WithLifecycleTimestamps(processed, completed, failed *time.Time) *Builder {
	b.d.ProcessedAt = processed
	b.d.CompletedAt = completed
	b.d.FailedAt = failed
	return b
}

// Build finalizes construction, validating all invariants.
func (b *Builder) Build() (*Donation, error) {
	if b.d.CampaignID == uuid.Nil {
		return nil, ErrCampaignRequired
	}
	if !b.d.Amount.IsPositive() {
		return nil, ErrAmountMustBePositive
	}
	if !b.d.Status.IsValid() {
		return nil, ErrUnknownStatus
	}
	if b.d.Recurring && !b.d.RecurringFrequency.IsValid() {
		return nil, ErrInvalidRecurringFrequency
	}
	if b.d.ProcessingFee != nil && !b.d.ProcessingFee.IsSameCurrency(b.d.Amount) {
		return nil, money.ErrCurrencyMismatch
	}
	d := b.d
	return &d, nil
}

// CanBeProcessed reports whether the donation is awaiting processing.
func (d *Donation) CanBeProcessed() bool {
	return d.Status == StatusPending
}

// CanBeCancelled reports whether the donation may still be cancelled.
func (d *Donation) CanBeCancelled() bool {
	return d.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRefunded reports whether the donation may be refunded.
func (d *Donation) CanBeRefunded() bool {
	return d.Status.CanTransitionTo(StatusRefunded)
}

// Process moves the donation from pending to processing, recording the
// external gateway transaction id.
func (d *Donation) Process(transactionID string) error {
	if err := d.transitionTo(StatusProcessing); err != nil {
		return err
	}
	d.ExternalTransactionID = transactionID
	return nil
}

// Complete moves the donation from processing to completed.
func (d *Donation) Complete() error {
	return d.transitionTo(StatusCompleted)
}

// Fail moves the donation to failed, recording the reason.
func (d *Donation) Fail(reason string) error {
	if err := d.transitionTo(StatusFailed); err != nil {
		return err
	}
	d.FailureReason = reason
	return nil
}

// Cancel moves the donation to cancelled, recording the reason.
func (d *Donation) Cancel(reason string) error {
	if err := d.transitionTo(StatusCancelled); err != nil {
		return err
	}
	d.CancellationReason = reason
	return nil
}

// Refund moves a completed or partially refunded donation to refunded,
// recording the reason.
func (d *Donation) Refund(reason string) error {
	if err := d.transitionTo(StatusRefunded); err != nil {
		return err
	}
	d.RefundReason = reason
	return nil
}

// PartiallyRefund moves a completed donation to partially_refunded.
// The ledger is only adjusted on the final transition into refunded;
// partial refunds record status and reason.
func (d *Donation) PartiallyRefund(reason string) error {
	if err := d.transitionTo(StatusPartiallyRefunded); err != nil {
		return err
	}
	d.RefundReason = reason
	return nil
}

// ApplyStatus performs a generic, table-validated transition to the
// target status. It is the mutator behind externally supplied target
// states; the target must already have passed ParseStatus.
func (d *Donation) ApplyStatus(target Status) error {
	if !target.IsValid() {
		return ErrUnknownStatus
	}
	return d.transitionTo(target)
}

// NetAmount returns the donated amount minus the processing fee.
func (d *Donation) NetAmount() (*money.Money, error) {
	if d.ProcessingFee.IsZero() {
		return d.Amount, nil
	}
	return d.Amount.Subtract(d.ProcessingFee)
}

// transitionTo is the single mutation point of the status field. It
// validates the transition and stamps the matching lifecycle timestamp
// exactly once.
func (d *Donation) transitionTo(target Status) error {
	if err := ValidateTransition(d.Status, target); err != nil {
		return err
	}
	now := time.Now()
	switch target {
	case StatusProcessing:
		if d.ProcessedAt == nil {
			d.ProcessedAt = &now
		}
	case StatusCompleted:
		if d.CompletedAt == nil {
			d.CompletedAt = &now
		}
	case StatusFailed:
		if d.FailedAt == nil {
			d.FailedAt = &now
		}
	}
	d.Status = target
	return nil
}
