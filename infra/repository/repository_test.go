package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/domain/donation"
	"github.com/fundflow/fundflow/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func donationColumns() []string {
	return []string{
		"id", "campaign_id", "user_id", "amount", "currency", "status",
		"payment_method", "payment_gateway", "external_transaction_id",
		"gateway_response", "failure_reason", "cancellation_reason",
		"refund_reason", "processing_fee", "anonymous", "recurring",
		"recurring_frequency", "notes", "donated_at",
	}
}

func TestDonationRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := donationRepository{db: db}
	id := uuid.New()
	campaignID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE id = .+`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(donationColumns()).AddRow(
			id, campaignID, nil, int64(5000), "EUR", "processing",
			"card", "stripe", "tx1", "", "", "", "", int64(145),
			false, false, "", "", time.Now(),
		))

	d, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, campaignID, d.CampaignID)
	assert.Equal(t, donation.StatusProcessing, d.Status)
	assert.Equal(t, int64(5000), int64(d.Amount.Amount()))
	assert.Equal(t, "tx1", d.ExternalTransactionID)
	assert.Nil(t, d.UserID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := donationRepository{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE id = .+`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(donationColumns()))

	_, err := repo.Get(context.Background(), id)
	require.ErrorIs(t, err, donation.ErrNotFound)
}

func TestDonationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := donationRepository{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "donations" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), dto.DonationCreate{
		ID:            uuid.New(),
		CampaignID:    uuid.New(),
		Amount:        5000,
		Currency:      "EUR",
		Status:        "pending",
		PaymentMethod: "card",
		DonatedAt:     time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := donationRepository{db: db}
	id := uuid.New()
	status := "processing"
	txID := "tx1"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "donations" SET (.+) WHERE id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), id, dto.DonationUpdate{
		Status:                &status,
		ExternalTransactionID: &txID,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := donationRepository{db: db}
	status := "processing"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "donations" SET (.+) WHERE id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), uuid.New(), dto.DonationUpdate{Status: &status})
	require.ErrorIs(t, err, donation.ErrNotFound)
}

func TestDonationRepository_Update_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := donationRepository{db: db}

	// An all-nil partial update is a no-op, no SQL issued.
	err := repo.Update(context.Background(), uuid.New(), dto.DonationUpdate{})
	require.NoError(t, err)
}

func campaignColumns() []string {
	return []string{
		"id", "title", "status", "goal_amount", "current_amount",
		"currency", "start_date", "end_date",
	}
}

func TestCampaignRepository_GetForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := campaignRepository{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = .+ FOR UPDATE`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(
			id, "clean water", "active", int64(10000), int64(6000),
			"EUR", time.Now().Add(-time.Hour), time.Now().Add(time.Hour),
		))

	c, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusActive, c.Status)
	assert.Equal(t, int64(6000), int64(c.CurrentAmount.Amount()))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := campaignRepository{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = .+`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(campaignColumns()))

	_, err := repo.Get(context.Background(), id)
	require.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestCampaignRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := campaignRepository{db: db}
	id := uuid.New()
	amount := int64(11000)
	status := "completed"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "campaigns" SET (.+) WHERE id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), id, dto.CampaignUpdate{
		CurrentAmount: &amount,
		Status:        &status,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
