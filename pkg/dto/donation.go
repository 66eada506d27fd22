// Package dto contains persistence-facing data transfer records.
// Update structs use pointer fields: nil means "leave the column alone".
package dto

import (
	"time"

	"github.com/google/uuid"
)

// DonationCreate carries the full column set for inserting a donation.
type DonationCreate struct {
	ID                 uuid.UUID
	CampaignID         uuid.UUID
	UserID             *uuid.UUID
	Amount             int64 // smallest currency unit
	Currency           string
	Status             string
	PaymentMethod      string
	PaymentGateway     string
	ProcessingFee      int64
	Anonymous          bool
	Recurring          bool
	RecurringFrequency string
	Notes              string
	DonatedAt          time.Time
}

// DonationUpdate carries a partial donation update.
type DonationUpdate struct {
	Status                *string
	ExternalTransactionID *string
	GatewayResponse       *string
	FailureReason         *string
	CancellationReason    *string
	RefundReason          *string
	ProcessedAt           *time.Time
	CompletedAt           *time.Time
	FailedAt              *time.Time
}

// DonationRead is a read-optimized projection of a donation row.
type DonationRead struct {
	ID                    uuid.UUID
	CampaignID            uuid.UUID
	UserID                *uuid.UUID
	Amount                float64
	Currency              string
	Status                string
	PaymentMethod         string
	PaymentGateway        string
	ExternalTransactionID string
	Anonymous             bool
	Recurring             bool
	DonatedAt             time.Time
	CompletedAt           *time.Time
}
