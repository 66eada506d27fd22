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

// FailHandler moves a pending or processing donation to failed.
// Failed donations never touched the campaign ledger, so no ledger
// adjustment happens here.
type FailHandler struct {
	base
}

// NewFailHandler wires a FailHandler.
func NewFailHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *FailHandler {
	return &FailHandler{newBase(uow, bus, logger.With("handler", "FailDonation"))}
}

// Handle applies the transition to failed and publishes DonationFailed
// after commit.
func (h *FailHandler) Handle(
	ctx context.Context,
	cmd commands.FailDonation,
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
		if err = d.Fail(cmd.FailureReason); err != nil {
			return err
		}

		repo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		update := dtoUpdateForStatus(d)
		update.FailureReason = ptr(d.FailureReason)
		return repo.Update(ctx, d.ID, update)
	})
	if err != nil {
		logger.Error("fail donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation failed", "reason", cmd.FailureReason)
	h.publish(ctx, events.DonationFailed{
		DonationEvent: events.NewDonationEvent(d),
		FailureReason: cmd.FailureReason,
	})
	return d, nil
}
