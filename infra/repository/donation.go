// Package repository provides the GORM/Postgres implementations of the
// persistence contracts in pkg/repository.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/dto"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/fundflow/fundflow/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a donation repository using the
// provided *gorm.DB (which may be a transaction session).
func NewDonationRepository(db *gorm.DB) repository.DonationRepository {
	return &donationRepository{db: db}
}

// Get implements repository.DonationRepository.
func (r *donationRepository) Get(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	var row Donation
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", donation.ErrNotFound, id)
		}
		return nil, err
	}
	return hydrateDonation(&row)
}

// Create implements repository.DonationRepository.
func (r *donationRepository) Create(ctx context.Context, create dto.DonationCreate) error {
	row := Donation{
		ID:                 create.ID,
		CampaignID:         create.CampaignID,
		UserID:             create.UserID,
		Amount:             create.Amount,
		Currency:           create.Currency,
		Status:             create.Status,
		PaymentMethod:      create.PaymentMethod,
		PaymentGateway:     create.PaymentGateway,
		ProcessingFee:      create.ProcessingFee,
		Anonymous:          create.Anonymous,
		Recurring:          create.Recurring,
		RecurringFrequency: create.RecurringFrequency,
		Notes:              create.Notes,
		DonatedAt:          create.DonatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// Update implements repository.DonationRepository.
func (r *donationRepository) Update(ctx context.Context, id uuid.UUID, update dto.DonationUpdate) error {
	updates := mapDonationUpdate(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Donation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", donation.ErrNotFound, id)
	}
	return nil
}

// mapDonationUpdate maps the partial update DTO to a column map for
// GORM Updates. Nil fields leave columns untouched.
func mapDonationUpdate(update dto.DonationUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.ExternalTransactionID != nil {
		updates["external_transaction_id"] = *update.ExternalTransactionID
	}
	if update.GatewayResponse != nil {
		updates["gateway_response"] = *update.GatewayResponse
	}
	if update.FailureReason != nil {
		updates["failure_reason"] = *update.FailureReason
	}
	if update.CancellationReason != nil {
		updates["cancellation_reason"] = *update.CancellationReason
	}
	if update.RefundReason != nil {
		updates["refund_reason"] = *update.RefundReason
	}
	if update.ProcessedAt != nil {
		updates["processed_at"] = *update.ProcessedAt
	}
	if update.CompletedAt != nil {
		updates["completed_at"] = *update.CompletedAt
	}
	if update.FailedAt != nil {
		updates["failed_at"] = *update.FailedAt
	}
	return updates
}

// hydrateDonation rebuilds the aggregate from a database row.
func hydrateDonation(row *Donation) (*donation.Donation, error) {
	amount, err := money.NewFromSmallestUnit(row.Amount, money.Code(row.Currency))
	if err != nil {
		return nil, err
	}
	builder := donation.New().
		WithID(row.ID).
		WithCampaignID(row.CampaignID).
		WithUserID(row.UserID).
		WithAmount(amount).
		WithStatus(donation.Status(row.Status)).
		WithPaymentMethod(row.PaymentMethod).
		WithPaymentGateway(row.PaymentGateway).
		WithExternalTransactionID(row.ExternalTransactionID).
		WithGatewayResponse(row.GatewayResponse).
		WithFailureReason(row.FailureReason).
		WithCancellationReason(row.CancellationReason).
		WithRefundReason(row.RefundReason).
		WithAnonymous(row.Anonymous).
		WithNotes(row.Notes).
		WithDonatedAt(row.DonatedAt).
		WithLifecycleTimestamps(row.ProcessedAt, row.CompletedAt, row.FailedAt)
	if row.ProcessingFee > 0 {
		fee, err := money.NewFromSmallestUnit(row.ProcessingFee, money.Code(row.Currency))
		if err != nil {
			return nil, err
		}
		builder = builder.WithProcessingFee(fee)
	}
	if row.Recurring {
		builder = builder.WithRecurring(donation.RecurringFrequency(row.RecurringFrequency))
	}
	return builder.Build()
}

// MapRowToRead maps a donation row to its read-optimized projection.
func MapRowToRead(row *Donation) *dto.DonationRead {
	amount, _ := money.NewFromSmallestUnit(row.Amount, money.Code(row.Currency))
	return &dto.DonationRead{
		ID:                    row.ID,
		CampaignID:            row.CampaignID,
		UserID:                row.UserID,
		Amount:                amount.AmountFloat(),
		Currency:              row.Currency,
		Status:                row.Status,
		PaymentMethod:         row.PaymentMethod,
		PaymentGateway:        row.PaymentGateway,
		ExternalTransactionID: row.ExternalTransactionID,
		Anonymous:             row.Anonymous,
		Recurring:             row.Recurring,
		DonatedAt:             row.DonatedAt,
		CompletedAt:           row.CompletedAt,
	}
}
