package donation_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	infrabus "github.com/fundflow/fundflow/infra/eventbus"
	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/dto"
	"github.com/fundflow/fundflow/pkg/eventbus"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/fundflow/fundflow/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// donationRow mirrors the donation table for the in-memory store.
type donationRow struct {
	create dto.DonationCreate

	externalTransactionID string
	gatewayResponse       string
	failureReason         string
	cancellationReason    string
	refundReason          string
	processedAt           *time.Time
	completedAt           *time.Time
	failedAt              *time.Time
}

// campaignRow mirrors the campaign table for the in-memory store.
type campaignRow struct {
	id            uuid.UUID
	title         string
	status        string
	goalAmount    int64
	currentAmount int64
	currency      string
	startDate     time.Time
	endDate       time.Time
}

// fakeStore is the shared backing state of the fake repositories,
// with per-table failure injection to exercise rollback paths.
type fakeStore struct {
	donations map[uuid.UUID]donationRow
	campaigns map[uuid.UUID]campaignRow

	failDonationUpdate bool
	failCampaignUpdate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		donations: make(map[uuid.UUID]donationRow),
		campaigns: make(map[uuid.UUID]campaignRow),
	}
}

var errInjected = errors.New("injected storage error")

type fakeDonationRepo struct{ store *fakeStore }

func (r *fakeDonationRepo) Get(_ context.Context, id uuid.UUID) (*donation.Donation, error) {
	row, ok := r.store.donations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", donation.ErrNotFound, id)
	}
	amount, err := money.NewFromSmallestUnit(row.create.Amount, money.Code(row.create.Currency))
	if err != nil {
		return nil, err
	}
	builder := donation.New().
		WithID(row.create.ID).
		WithCampaignID(row.create.CampaignID).
		WithUserID(row.create.UserID).
		WithAmount(amount).
		WithStatus(donation.Status(row.create.Status)).
		WithPaymentMethod(row.create.PaymentMethod).
		WithPaymentGateway(row.create.PaymentGateway).
		WithAnonymous(row.create.Anonymous).
		WithExternalTransactionID(row.externalTransactionID).
		WithGatewayResponse(row.gatewayResponse).
		WithFailureReason(row.failureReason).
		WithCancellationReason(row.cancellationReason).
		WithRefundReason(row.refundReason).
		WithDonatedAt(row.create.DonatedAt).
		WithLifecycleTimestamps(row.processedAt, row.completedAt, row.failedAt)
	if row.create.Recurring {
		builder = builder.WithRecurring(donation.RecurringFrequency(row.create.RecurringFrequency))
	}
	return builder.Build()
}

func (r *fakeDonationRepo) Create(_ context.Context, create dto.DonationCreate) error {
	r.store.donations[create.ID] = donationRow{create: create}
	return nil
}

func (r *fakeDonationRepo) Update(_ context.Context, id uuid.UUID, update dto.DonationUpdate) error {
	if r.store.failDonationUpdate {
		return errInjected
	}
	row, ok := r.store.donations[id]
	if !ok {
		return fmt.Errorf("%w: %s", donation.ErrNotFound, id)
	}
	if update.Status != nil {
		row.create.Status = *update.Status
	}
	if update.ExternalTransactionID != nil {
		row.externalTransactionID = *update.ExternalTransactionID
	}
	if update.GatewayResponse != nil {
		row.gatewayResponse = *update.GatewayResponse
	}
	if update.FailureReason != nil {
		row.failureReason = *update.FailureReason
	}
	if update.CancellationReason != nil {
		row.cancellationReason = *update.CancellationReason
	}
	if update.RefundReason != nil {
		row.refundReason = *update.RefundReason
	}
	if update.ProcessedAt != nil {
		row.processedAt = update.ProcessedAt
	}
	if update.CompletedAt != nil {
		row.completedAt = update.CompletedAt
	}
	if update.FailedAt != nil {
		row.failedAt = update.FailedAt
	}
	r.store.donations[id] = row
	return nil
}

type fakeCampaignRepo struct{ store *fakeStore }

func (r *fakeCampaignRepo) hydrate(row campaignRow) (*campaign.Campaign, error) {
	goal, err := money.NewFromSmallestUnit(row.goalAmount, money.Code(row.currency))
	if err != nil {
		return nil, err
	}
	current, err := money.NewFromSmallestUnit(row.currentAmount, money.Code(row.currency))
	if err != nil {
		return nil, err
	}
	return campaign.New().
		WithID(row.id).
		WithTitle(row.title).
		WithStatus(campaign.Status(row.status)).
		WithGoal(goal).
		WithCurrentAmount(current).
		WithSchedule(row.startDate, row.endDate).
		Build()
}

func (r *fakeCampaignRepo) Get(_ context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	row, ok := r.store.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", campaign.ErrNotFound, id)
	}
	return r.hydrate(row)
}

func (r *fakeCampaignRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	return r.Get(ctx, id)
}

func (r *fakeCampaignRepo) Update(_ context.Context, id uuid.UUID, update dto.CampaignUpdate) error {
	if r.store.failCampaignUpdate {
		return errInjected
	}
	row, ok := r.store.campaigns[id]
	if !ok {
		return fmt.Errorf("%w: %s", campaign.ErrNotFound, id)
	}
	if update.CurrentAmount != nil {
		row.currentAmount = *update.CurrentAmount
	}
	if update.Status != nil {
		row.status = *update.Status
	}
	r.store.campaigns[id] = row
	return nil
}

// fakeUoW implements repository.UnitOfWork over the fake store with
// snapshot-based rollback: if the transactional function errors, the
// store is restored, so no partial state is ever observable.
type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	donationsSnap := make(map[uuid.UUID]donationRow, len(u.store.donations))
	for k, v := range u.store.donations {
		donationsSnap[k] = v
	}
	campaignsSnap := make(map[uuid.UUID]campaignRow, len(u.store.campaigns))
	for k, v := range u.store.campaigns {
		campaignsSnap[k] = v
	}

	if err := fn(u); err != nil {
		u.store.donations = donationsSnap
		u.store.campaigns = campaignsSnap
		return err
	}
	return nil
}

func (u *fakeUoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.DonationRepository)(nil)).Elem():
		return &fakeDonationRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.CampaignRepository)(nil)).Elem():
		return &fakeCampaignRepo{store: u.store}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (u *fakeUoW) DonationRepository() (repository.DonationRepository, error) {
	return &fakeDonationRepo{store: u.store}, nil
}

func (u *fakeUoW) CampaignRepository() (repository.CampaignRepository, error) {
	return &fakeCampaignRepo{store: u.store}, nil
}

// erroringBus always fails to publish, exercising the logged-only
// post-commit failure path.
type erroringBus struct{}

func (erroringBus) Publish(context.Context, events.Event) error {
	return errors.New("bus unavailable")
}
func (erroringBus) Subscribe(string, eventbus.HandlerFunc) {}

var _ eventbus.EventBus = erroringBus{}

// testDeps bundles the fakes every handler test needs.
type testDeps struct {
	store  *fakeStore
	uow    *fakeUoW
	bus    *infrabus.MemoryEventBus
	logger *slog.Logger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testDeps{
		store:  store,
		uow:    &fakeUoW{store: store},
		bus:    infrabus.NewWithMemory(logger),
		logger: logger,
	}
}

// seedCampaign inserts an active campaign and returns its id.
func (d *testDeps) seedCampaign(t *testing.T, goal, current int64, currency string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	d.store.campaigns[id] = campaignRow{
		id:            id,
		title:         "test campaign",
		status:        string(campaign.StatusActive),
		goalAmount:    goal,
		currentAmount: current,
		currency:      currency,
		startDate:     time.Now().Add(-24 * time.Hour),
		endDate:       time.Now().Add(24 * time.Hour),
	}
	return id
}

// seedDonation inserts a donation row in the given status and returns its id.
func (d *testDeps) seedDonation(t *testing.T, campaignID uuid.UUID, amount int64, currency string, status donation.Status) uuid.UUID {
	t.Helper()
	id := uuid.New()
	d.store.donations[id] = donationRow{create: dto.DonationCreate{
		ID:            id,
		CampaignID:    campaignID,
		Amount:        amount,
		Currency:      currency,
		Status:        status.String(),
		PaymentMethod: "card",
		DonatedAt:     time.Now(),
	}}
	return id
}

func requireEventTypes(t *testing.T, bus *infrabus.MemoryEventBus, want ...string) {
	t.Helper()
	published := bus.Published()
	require.Len(t, published, len(want))
	for i, w := range want {
		require.Equal(t, w, published[i].Type())
	}
}
