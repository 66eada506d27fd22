// Package repository defines the persistence contracts consumed by the
// donation lifecycle handlers. Implementations live in infra/repository.
package repository

import (
	"context"

	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/dto"
	"github.com/google/uuid"
)

// DonationRepository defines data access for the Donation aggregate.
// Inside a unit of work, Get hydrates the aggregate, mutators run in
// memory, and Update writes the changed columns back by id.
type DonationRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*donation.Donation, error)
	Create(ctx context.Context, create dto.DonationCreate) error
	Update(ctx context.Context, id uuid.UUID, update dto.DonationUpdate) error
}

// CampaignRepository defines data access for the Campaign fund ledger.
// GetForUpdate locks the campaign row for the duration of the enclosing
// transaction, serializing concurrent ledger adjustments.
type CampaignRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	Update(ctx context.Context, id uuid.UUID, update dto.CampaignUpdate) error
}
