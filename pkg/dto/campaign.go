package dto

import "github.com/google/uuid"

// CampaignUpdate carries a partial campaign update. Only the ledger
// slice is writable from this module.
type CampaignUpdate struct {
	CurrentAmount *int64 // smallest currency unit
	Status        *string
}

// CampaignRead is a read-optimized projection of a campaign row.
type CampaignRead struct {
	ID            uuid.UUID
	Title         string
	Status        string
	GoalAmount    float64
	CurrentAmount float64
	Currency      string
}
