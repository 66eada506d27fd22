// Package donation contains the command handlers that drive a donation
// through its payment lifecycle. Each handler is a single atomic unit
// of work: load, validate the transition, mutate, persist, commit, and
// only then publish exactly one domain event.
package donation

import (
	"context"
	"log/slog"

	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/eventbus"
	"github.com/fundflow/fundflow/pkg/repository"
	"github.com/google/uuid"
)

// base carries the dependencies shared by every command handler.
type base struct {
	uow    repository.UnitOfWork
	bus    eventbus.EventBus
	logger *slog.Logger
}

func newBase(uow repository.UnitOfWork, bus eventbus.EventBus, logger *slog.Logger) base {
	return base{uow: uow, bus: bus, logger: logger}
}

// publish emits a domain event for an already-committed transition.
// Failures are logged and swallowed: the financial state change has
// happened, so the caller must not see a publish error. Delivery is
// at-least-once; downstream consumers deduplicate.
func (b base) publish(ctx context.Context, event events.Event) {
	if err := b.bus.Publish(ctx, event); err != nil {
		b.logger.Error("event publish failed after commit",
			"event_type", event.Type(), "error", err)
	}
}

// loadDonation fetches the aggregate inside the current transaction.
func loadDonation(
	ctx context.Context,
	uow repository.UnitOfWork,
	id uuid.UUID,
) (*donation.Donation, error) {
	repo, err := uow.DonationRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// loadCampaignForUpdate fetches the campaign with its row locked for
// the duration of the transaction, serializing concurrent ledger
// adjustments against the same campaign.
func loadCampaignForUpdate(
	ctx context.Context,
	uow repository.UnitOfWork,
	id uuid.UUID,
) (*campaign.Campaign, error) {
	repo, err := uow.CampaignRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetForUpdate(ctx, id)
}
