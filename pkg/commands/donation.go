// Package commands contains the command DTOs accepted by the donation
// lifecycle handlers. Each command is a plain data record; serialization
// is the caller's concern.
package commands

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// CreateDonation requests creation of a new pending donation.
type CreateDonation struct {
	CampaignID         uuid.UUID  `validate:"required"`
	UserID             *uuid.UUID // nil for anonymous donors
	Amount             float64    `validate:"required,gt=0"`
	Currency           string     `validate:"required,len=3"`
	PaymentMethod      string     `validate:"required"`
	PaymentGateway     string
	Anonymous          bool
	Recurring          bool
	RecurringFrequency string `validate:"required_if=Recurring true"`
	Notes              string
}

// Validate checks the command's field constraints.
func (c CreateDonation) Validate() error { return validate.Struct(c) }

// ProcessDonation requests the pending -> processing transition.
type ProcessDonation struct {
	DonationID        uuid.UUID `validate:"required"`
	TransactionID     string    `validate:"required"`
	GatewayResponseID string
}

// Validate checks the command's field constraints.
func (c ProcessDonation) Validate() error { return validate.Struct(c) }

// CompleteDonation requests the processing -> completed transition.
type CompleteDonation struct {
	DonationID        uuid.UUID `validate:"required"`
	GatewayResponseID string
}

// Validate checks the command's field constraints.
func (c CompleteDonation) Validate() error { return validate.Struct(c) }

// FailDonation requests a transition to failed.
type FailDonation struct {
	DonationID    uuid.UUID `validate:"required"`
	FailureReason string    `validate:"required"`
}

// Validate checks the command's field constraints.
func (c FailDonation) Validate() error { return validate.Struct(c) }

// CancelDonation requests a transition to cancelled.
type CancelDonation struct {
	DonationID uuid.UUID `validate:"required"`
	UserID     *uuid.UUID
	Reason     string
}

// Validate checks the command's field constraints.
func (c CancelDonation) Validate() error { return validate.Struct(c) }

// RefundDonation requests the completed -> refunded transition.
type RefundDonation struct {
	DonationID            uuid.UUID `validate:"required"`
	RefundReason          string    `validate:"required"`
	ProcessedByEmployeeID uuid.UUID `validate:"required"`
}

// Validate checks the command's field constraints.
func (c RefundDonation) Validate() error { return validate.Struct(c) }

// UpdatePaymentStatus requests a generalized transition to an
// externally supplied target status. The raw string is parsed and
// validated against the transition table before any field is written.
type UpdatePaymentStatus struct {
	DonationID uuid.UUID `validate:"required"`
	Status     string    `validate:"required"`
}

// Validate checks the command's field constraints.
func (c UpdatePaymentStatus) Validate() error { return validate.Struct(c) }
