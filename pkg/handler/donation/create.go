package donation

import (
	"context"
	"log/slog"

	"github.com/fundflow/fundflow/pkg/commands"
	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/eventbus"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/fundflow/fundflow/pkg/repository"
)

// gatewayFeeRates holds the processing fee percentage charged per
// payment gateway. Unlisted gateways carry no fee.
var gatewayFeeRates = map[string]float64{
	"stripe": 2.9,
	"paypal": 3.4,
	"mollie": 1.8,
}

// CreateHandler creates a new pending donation after checking the
// campaign's eligibility rules.
type CreateHandler struct {
	base
}

// NewCreateHandler wires a CreateHandler.
func NewCreateHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *CreateHandler {
	return &CreateHandler{newBase(uow, bus, logger.With("handler", "CreateDonation"))}
}

// Handle validates the command, checks campaign eligibility, persists
// the pending donation, and publishes DonationCreated after commit.
// A campaign that cannot accept the donation rejects the command before
// any persistence occurs.
func (h *CreateHandler) Handle(
	ctx context.Context,
	cmd commands.CreateDonation,
) (*donation.Donation, error) {
	logger := h.logger.With("campaign_id", cmd.CampaignID)

	if err := cmd.Validate(); err != nil {
		logger.Warn("invalid command", "error", err)
		return nil, err
	}
	amount, err := money.New(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}
	fee, err := amount.Percentage(gatewayFeeRates[cmd.PaymentGateway])
	if err != nil {
		return nil, err
	}

	var d *donation.Donation
	err = h.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		campaignRepo, err := uow.CampaignRepository()
		if err != nil {
			return err
		}
		c, err := campaignRepo.Get(ctx, cmd.CampaignID)
		if err != nil {
			return err
		}
		if !c.CanAcceptDonation() {
			return campaign.ErrCannotAcceptDonation
		}

		builder := donation.New().
			WithCampaignID(cmd.CampaignID).
			WithUserID(cmd.UserID).
			WithAmount(amount).
			WithPaymentMethod(cmd.PaymentMethod).
			WithPaymentGateway(cmd.PaymentGateway).
			WithProcessingFee(fee).
			WithAnonymous(cmd.Anonymous).
			WithNotes(cmd.Notes)
		if cmd.Recurring {
			builder = builder.WithRecurring(donation.RecurringFrequency(cmd.RecurringFrequency))
		}
		d, err = builder.Build()
		if err != nil {
			return err
		}

		donationRepo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		return donationRepo.Create(ctx, mapCreate(d))
	})
	if err != nil {
		logger.Error("create donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation created", "donation_id", d.ID, "amount", d.Amount)
	h.publish(ctx, events.DonationCreated{
		DonationEvent:  events.NewDonationEvent(d),
		PaymentMethod:  d.PaymentMethod,
		PaymentGateway: d.PaymentGateway,
		Anonymous:      d.Anonymous,
		Recurring:      d.Recurring,
	})
	return d, nil
}
