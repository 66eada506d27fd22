package donation

import (
	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/dto"
)

func ptr[T any](v T) *T { return &v }

// mapCreate maps a freshly built aggregate to its insert record.
func mapCreate(d *donation.Donation) dto.DonationCreate {
	var fee int64
	if d.ProcessingFee != nil {
		fee = d.ProcessingFee.Amount()
	}
	return dto.DonationCreate{
		ID:                 d.ID,
		CampaignID:         d.CampaignID,
		UserID:             d.UserID,
		Amount:             d.Amount.Amount(),
		Currency:           d.Amount.CurrencyCode().String(),
		Status:             d.Status.String(),
		PaymentMethod:      d.PaymentMethod,
		PaymentGateway:     d.PaymentGateway,
		ProcessingFee:      fee,
		Anonymous:          d.Anonymous,
		Recurring:          d.Recurring,
		RecurringFrequency: string(d.RecurringFrequency),
		Notes:              d.Notes,
		DonatedAt:          d.DonatedAt,
	}
}

// dtoUpdateForStatus builds the baseline update record for a status
// transition: the new status plus whichever lifecycle timestamps the
// aggregate has stamped.
func dtoUpdateForStatus(d *donation.Donation) dto.DonationUpdate {
	return dto.DonationUpdate{
		Status:      ptr(d.Status.String()),
		ProcessedAt: d.ProcessedAt,
		CompletedAt: d.CompletedAt,
		FailedAt:    d.FailedAt,
	}
}

// mapLedger maps the campaign ledger slice to its update record.
func mapLedger(c *campaign.Campaign) dto.CampaignUpdate {
	return dto.CampaignUpdate{
		CurrentAmount: ptr(c.CurrentAmount.Amount()),
		Status:        ptr(string(c.Status)),
	}
}
