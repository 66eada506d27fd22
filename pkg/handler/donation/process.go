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

// ProcessHandler moves a pending donation into processing, recording
// the gateway transaction id.
type ProcessHandler struct {
	base
}

// NewProcessHandler wires a ProcessHandler.
func NewProcessHandler(
	uow repository.UnitOfWork,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *ProcessHandler {
	return &ProcessHandler{newBase(uow, bus, logger.With("handler", "ProcessDonation"))}
}

// Handle applies the pending -> processing transition and publishes
// DonationProcessing after commit.
func (h *ProcessHandler) Handle(
	ctx context.Context,
	cmd commands.ProcessDonation,
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
		if err = d.Process(cmd.TransactionID); err != nil {
			return err
		}
		if cmd.GatewayResponseID != "" {
			d.GatewayResponse = cmd.GatewayResponseID
		}

		repo, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		update := dtoUpdateForStatus(d)
		update.ExternalTransactionID = ptr(d.ExternalTransactionID)
		if d.GatewayResponse != "" {
			update.GatewayResponse = ptr(d.GatewayResponse)
		}
		return repo.Update(ctx, d.ID, update)
	})
	if err != nil {
		logger.Error("process donation failed", "error", err)
		return nil, err
	}

	logger.Info("donation processing", "transaction_id", cmd.TransactionID)
	h.publish(ctx, events.DonationProcessing{
		DonationEvent: events.NewDonationEvent(d),
		TransactionID: cmd.TransactionID,
	})
	return d, nil
}
