package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/dto"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/fundflow/fundflow/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a campaign repository using the
// provided *gorm.DB (which may be a transaction session).
func NewCampaignRepository(db *gorm.DB) repository.CampaignRepository {
	return &campaignRepository{db: db}
}

// Get implements repository.CampaignRepository.
func (r *campaignRepository) Get(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate implements repository.CampaignRepository. The campaign
// row is locked (SELECT ... FOR UPDATE) until the enclosing transaction
// ends, serializing concurrent ledger adjustments.
func (r *campaignRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	return r.get(ctx, id, true)
}

func (r *campaignRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*campaign.Campaign, error) {
	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row Campaign
	if err := tx.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", campaign.ErrNotFound, id)
		}
		return nil, err
	}
	return hydrateCampaign(&row)
}

// Update implements repository.CampaignRepository.
func (r *campaignRepository) Update(ctx context.Context, id uuid.UUID, update dto.CampaignUpdate) error {
	updates := make(map[string]any)
	if update.CurrentAmount != nil {
		updates["current_amount"] = *update.CurrentAmount
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Campaign{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", campaign.ErrNotFound, id)
	}
	return nil
}

// hydrateCampaign rebuilds the aggregate from a database row.
func hydrateCampaign(row *Campaign) (*campaign.Campaign, error) {
	goal, err := money.NewFromSmallestUnit(row.GoalAmount, money.Code(row.Currency))
	if err != nil {
		return nil, err
	}
	current, err := money.NewFromSmallestUnit(row.CurrentAmount, money.Code(row.Currency))
	if err != nil {
		return nil, err
	}
	return campaign.New().
		WithID(row.ID).
		WithTitle(row.Title).
		WithStatus(campaign.Status(row.Status)).
		WithGoal(goal).
		WithCurrentAmount(current).
		WithSchedule(row.StartDate, row.EndDate).
		Build()
}
