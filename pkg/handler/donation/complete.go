package donation

import (
	"context"
	"log/slog"

	"github.com/fundflow/fundflow/pkg/commands"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/eventbus"
	"github.com/fundflow/fundflow/pkg/repository"
)

// CompleteHandler moves a processing donation to completed and adds its
// amount to the campaign fund ledger in the same transaction.
type CompleteHandler struct {
	base
}

// NewCompleteHandler wires a CompleteHandler.
func NewCompleteHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *CompleteHandler {
	return &CompleteHandler{newBase(uow, bus, logger.With("handler", "CompleteDonation"))}
}

// Handle applies the processing -> completed transition, adjusts the
// campaign ledger under a row lock, and publishes DonationCompleted
// after commit. Any failure rolls back both aggregates.
func (h *CompleteHandler) Handle(
	ctx context.Context,
	cmd commands.CompleteDonation,
) (*donation.Donation, error) {
	logger := h.logger.With("donation_id", cmd.DonationID)

	if err := cmd.Validate(); err != nil {
		logger.Warn("invalid command", "error", err)
		return nil, err
	}

	var (
		d           *donation.Donation
		goalReached bool
	)
	err := h.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		d, err = loadDonation(ctx, uow, cmd.DonationID)
		if err != nil {
			return err
		}
		// Transition legality is re-derived from the table here, not
		// from a cached guard, to avoid stale-guard bugs.
		if err = d.Complete(); err != nil {
			return err
		}
		if cmd.GatewayResponseID != "" {
			d.GatewayResponse = cmd.GatewayResponseID
		}

		c, err := loadCampaignForUpdate(ctx, uow, d.CampaignID)
		if err != nil {
			return err
		}
		if err = c.AcceptDonation(d.Amount); err != nil {
			return err
		}
		goalReached = c.GoalReached()

		donationRepo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		update := dtoUpdateForStatus(d)
		if d.GatewayResponse != "" {
			update.GatewayResponse = ptr(d.GatewayResponse)
		}
		if err = donationRepo.Update(ctx, d.ID, update); err != nil {
			return err
		}

		campaignRepo, err := uow.CampaignRepository()
		if err != nil {
			return err
		}
		return campaignRepo.Update(ctx, c.ID, mapLedger(c))
	})
	if err != nil {
		logger.Error("complete donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation completed",
		"amount", d.Amount, "campaign_goal_reached", goalReached)
	h.publish(ctx, events.DonationCompleted{
		DonationEvent:       events.NewDonationEvent(d),
		CampaignGoalReached: goalReached,
	})
	return d, nil
}
