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

// UpdateStatusHandler is the generalized transition handler driven by
// an externally supplied target status string (e.g. a gateway webhook
// adapter). The raw string must parse to a known status and pass the
// same transition-table validation as the dedicated handlers; an
// unknown value is a hard validation failure, never a silent no-op.
type UpdateStatusHandler struct {
	base
}

// NewUpdateStatusHandler wires an UpdateStatusHandler.
func NewUpdateStatusHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *UpdateStatusHandler {
	return &UpdateStatusHandler{newBase(uow, bus, logger.With("handler", "UpdatePaymentStatus"))}
}

// Handle parses and applies the requested transition. Transitions into
// completed or refunded adjust the campaign ledger exactly like the
// dedicated handlers, so the ledger invariant holds no matter which
// entry point drove the transition. Publishes DonationStatusUpdated
// after commit.
func (h *UpdateStatusHandler) Handle(
	ctx context.Context,
	cmd commands.UpdatePaymentStatus,
) (*donation.Donation, error) {
	logger := h.logger.With("donation_id", cmd.DonationID, "target_status", cmd.Status)

	if err := cmd.Validate(); err != nil {
		logger.Warn("invalid command", "error", err)
		return nil, err
	}
	target, err := donation.ParseStatus(cmd.Status)
	if err != nil {
		logger.Warn("unknown target status", "error", err)
		return nil, err
	}

	var (
		d    *donation.Donation
		from donation.Status
	)
	err = h.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		d, err = loadDonation(ctx, uow, cmd.DonationID)
		if err != nil {
			return err
		}
		from = d.Status
		if err = d.ApplyStatus(target); err != nil {
			return err
		}

		// Ledger-affecting transitions adjust the campaign in the same
		// transaction, under the same row lock as the dedicated paths.
		switch target {
		case donation.StatusCompleted, donation.StatusRefunded:
			c, err := loadCampaignForUpdate(ctx, uow, d.CampaignID)
			if err != nil {
				return err
			}
			if target == donation.StatusCompleted {
				err = c.AcceptDonation(d.Amount)
			} else {
				err = c.ReverseDonation(d.Amount)
			}
			if err != nil {
				return err
			}
			campaignRepo, err := uow.CampaignRepository()
			if err != nil {
				return err
			}
			if err = campaignRepo.Update(ctx, c.ID, mapLedger(c)); err != nil {
				return err
			}
		}

		repo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		return repo.Update(ctx, d.ID, dtoUpdateForStatus(d))
	})
	if err != nil {
		logger.Error("update payment status failed", "error", err)
		return nil, err
	}

	logger.Info("donation status updated", "from", from, "to", target)
	h.publish(ctx, events.DonationStatusUpdated{
		DonationEvent: events.NewDonationEvent(d),
		From:          from,
		To:            target,
	})
	return d, nil
}
