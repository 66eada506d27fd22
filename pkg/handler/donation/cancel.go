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

// CancelHandler moves a pending or processing donation to cancelled.
// Cancellation is a business transition initiated by the donor or an
// operator, not a concurrency concept.
type CancelHandler struct {
	base
}

// NewCancelHandler wires a CancelHandler.
func NewCancelHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *CancelHandler {
	return &CancelHandler{newBase(uow, bus, logger.With("handler", "CancelDonation"))}
}

// Handle applies the transition to cancelled and publishes
// DonationCancelled after commit.
func (h *CancelHandler) Handle(
	ctx context.Context,
	cmd commands.CancelDonation,
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
		if err = d.Cancel(cmd.Reason); err != nil {
			return err
		}

		repo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		update := dtoUpdateForStatus(d)
		update.CancellationReason = ptr(d.CancellationReason)
		return repo.Update(ctx, d.ID, update)
	})
	if err != nil {
		logger.Error("cancel donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation cancelled", "reason", cmd.Reason)
	h.publish(ctx, events.DonationCancelled{
		DonationEvent: events.NewDonationEvent(d),
		Reason:        cmd.Reason,
		CancelledBy:   cmd.UserID,
	})
	return d, nil
}
