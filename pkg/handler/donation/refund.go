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

// RefundHandler moves a completed (or partially refunded) donation to
// refunded and reverses its amount out of the campaign fund ledger in
// the same transaction.
type RefundHandler struct {
	base
}

// NewRefundHandler wires a RefundHandler.
func NewRefundHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *RefundHandler {
	return &RefundHandler{newBase(uow, bus, logger.With("handler", "RefundDonation"))}
}

// Handle applies the transition to refunded, subtracts the donation's
// amount from the campaign ledger under a row lock, and publishes
// DonationRefunded after commit.
//
// The ledger reversal is a currency-checked Money subtraction: a
// mismatch or a would-be-negative total aborts the whole transaction.
func (h *RefundHandler) Handle(
	ctx context.Context,
	cmd commands.RefundDonation,
) (*donation.Donation, error) {
	logger := h.logger.With("donation_id", cmd.DonationID)

	if err := cmd.Validate(); err != nil {
		logger.Warn("invalid command", "error", err)
		return nil, err
	}

	var d *donation.Donation
	err := h.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		d, err = loadDonation(ctx, uow, cmd.DonationID)
		if err != nil {
			return err
		}
		if err = d.Refund(cmd.RefundReason); err != nil {
			return err
		}

		c, err := loadCampaignForUpdate(ctx, uow, d.CampaignID)
		if err != nil {
			return err
		}
		if err = c.ReverseDonation(d.Amount); err != nil {
			return err
		}

		donationRepo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		update := dtoUpdateForStatus(d)
		update.RefundReason = ptr(d.RefundReason)
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
		logger.Error("refund donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation refunded", "reason", cmd.RefundReason)
	h.publish(ctx, events.DonationRefunded{
		DonationEvent: events.NewDonationEvent(d),
		RefundReason:  cmd.RefundReason,
		ProcessedBy:   cmd.ProcessedByEmployeeID,
	})
	return d, nil
}
