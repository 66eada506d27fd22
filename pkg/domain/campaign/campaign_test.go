package campaign_test

import (
	"testing"
	"time"

	"github.com/fundflow/fundflow/pkg/domain/campaign"
	"github.com/fundflow/fundflow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeCampaign(t *testing.T, goal, current *money.Money) *campaign.Campaign {
	t.Helper()
	c, err := campaign.New().
		WithTitle("clean water").
		WithGoal(goal).
		WithCurrentAmount(current).
		WithSchedule(time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour)).
		Build()
	require.NoError(t, err)
	return c
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("defaults current amount to zero in goal currency", func(t *testing.T) {
		c, err := campaign.New().
			WithGoal(money.Must(100, "EUR")).
			WithSchedule(time.Now(), time.Now().Add(time.Hour)).
			Build()
		require.NoError(t, err)
		assert.True(t, c.CurrentAmount.IsZero())
		assert.Equal(t, money.EUR, c.CurrentAmount.CurrencyCode())
	})

	t.Run("requires positive goal", func(t *testing.T) {
		_, err := campaign.New().Build()
		assert.ErrorIs(t, err, campaign.ErrGoalRequired)
	})

	t.Run("rejects mixed-currency goal and total", func(t *testing.T) {
		_, err := campaign.New().
			WithGoal(money.Must(100, "EUR")).
			WithCurrentAmount(money.Must(10, "USD")).
			Build()
		assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
	})
}

func TestCanAcceptDonation(t *testing.T) {
	t.Parallel()
	now := time.Now()

	t.Run("active within schedule and short of goal", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), money.Must(60, "EUR"))
		assert.True(t, c.CanAcceptAt(now))
		assert.True(t, c.CanAcceptDonation())
	})

	t.Run("not yet started", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), nil)
		c.StartDate = now.Add(time.Hour)
		assert.False(t, c.CanAcceptAt(now))
	})

	t.Run("already ended", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), nil)
		c.EndDate = now.Add(-time.Hour)
		assert.False(t, c.CanAcceptAt(now))
	})

	t.Run("goal reached", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), money.Must(100, "EUR"))
		assert.False(t, c.CanAcceptAt(now))
	})

	t.Run("inactive status", func(t *testing.T) {
		for _, s := range []campaign.Status{
			campaign.StatusDraft, campaign.StatusCompleted, campaign.StatusCancelled,
		} {
			c := activeCampaign(t, money.Must(100, "EUR"), nil)
			c.Status = s
			assert.Falsef(t, c.CanAcceptAt(now), "status %s", s)
		}
	})
}

func TestAcceptDonation(t *testing.T) {
	t.Parallel()

	t.Run("accumulates total", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), money.Must(60, "EUR"))
		require.NoError(t, c.AcceptDonation(money.Must(30, "EUR")))
		assert.True(t, c.CurrentAmount.Equals(money.Must(90, "EUR")))
		assert.Equal(t, campaign.StatusActive, c.Status)
	})

	t.Run("flips to completed on goal reached", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), money.Must(60, "EUR"))
		require.NoError(t, c.AcceptDonation(money.Must(50, "EUR")))
		assert.True(t, c.CurrentAmount.Equals(money.Must(110, "EUR")))
		assert.Equal(t, campaign.StatusCompleted, c.Status)

		// The flip is idempotent: further completions accumulate but
		// do not re-trigger any state change.
		require.NoError(t, c.AcceptDonation(money.Must(5, "EUR")))
		assert.Equal(t, campaign.StatusCompleted, c.Status)
		assert.True(t, c.CurrentAmount.Equals(money.Must(115, "EUR")))
	})

	t.Run("currency mismatch leaves ledger untouched", func(t *testing.T) {
		c := activeCampaign(t, money.Must(100, "EUR"), money.Must(60, "EUR"))
		err := c.AcceptDonation(money.Must(10, "USD"))
		assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
		assert.True(t, c.CurrentAmount.Equals(money.Must(60, "EUR")))
	})
}

func TestReverseDonation(t *testing.T) {
	t.Parallel()

	t.Run("subtracts exactly the donation amount", func(t *testing.T) {
		c := activeCampaign(t, money.Must(500, "USD"), money.Must(250, "USD"))
		require.NoError(t, c.ReverseDonation(money.Must(100, "USD")))
		assert.True(t, c.CurrentAmount.Equals(money.Must(150, "USD")))
	})

	t.Run("never drives the ledger negative", func(t *testing.T) {
		c := activeCampaign(t, money.Must(500, "USD"), money.Must(50, "USD"))
		err := c.ReverseDonation(money.Must(100, "USD"))
		assert.ErrorIs(t, err, money.ErrNegativeResult)
		assert.True(t, c.CurrentAmount.Equals(money.Must(50, "USD")))
	})

	t.Run("currency mismatch leaves ledger untouched", func(t *testing.T) {
		c := activeCampaign(t, money.Must(500, "USD"), money.Must(250, "USD"))
		err := c.ReverseDonation(money.Must(100, "EUR"))
		assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
		assert.True(t, c.CurrentAmount.Equals(money.Must(250, "USD")))
	})
}

func TestMoneyConservation(t *testing.T) {
	t.Parallel()

	// current_amount must equal completed minus refunded, exactly,
	// regardless of interleaving.
	c := activeCampaign(t, money.Must(10000, "EUR"), nil)

	completions := []float64{10.50, 99.99, 0.01, 250, 33.33}
	refunds := []float64{99.99, 0.01}

	require.NoError(t, c.AcceptDonation(money.Must(completions[0], "EUR")))
	require.NoError(t, c.AcceptDonation(money.Must(completions[1], "EUR")))
	require.NoError(t, c.ReverseDonation(money.Must(refunds[0], "EUR")))
	require.NoError(t, c.AcceptDonation(money.Must(completions[2], "EUR")))
	require.NoError(t, c.AcceptDonation(money.Must(completions[3], "EUR")))
	require.NoError(t, c.ReverseDonation(money.Must(refunds[1], "EUR")))
	require.NoError(t, c.AcceptDonation(money.Must(completions[4], "EUR")))

	assert.Equal(t, int64(29383), c.CurrentAmount.Amount()) // 293.83 EUR
}
