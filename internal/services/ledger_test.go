package services

import (
	"context"
	"testing"

	"bankroll/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisRunsOnce(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.ledger(t).Genesis(context.Background(), TEST_GENESIS_SUPPLY)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(TEST_GENESIS_SUPPLY), env.balance(t, models.BANK_ID))

	_, err = env.ledger(t).Genesis(context.Background(), 0)
	require.Error(t, err)
}

func TestEnsureAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, 2, 500)

	require.NoError(t, env.ledger(t).EnsureAccount(ctx, 2))
	require.NoError(t, env.ledger(t).EnsureAccount(ctx, 2))

	balance, err := env.ledger(t).Balance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
	env.requireBalanced(t)
}

func TestPay(t *testing.T) {
	ctx := context.Background()

	t.Run("direct transfer", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, 2, 500)

		result, err := env.ledger(t).Pay(ctx, 2, 3, 200)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomePaid, result.Outcome)
		assert.Zero(t, result.Tax)
		assert.Equal(t, int64(300), env.balance(t, 2))
		assert.Equal(t, int64(200), env.balance(t, 3))
		env.requireBalanced(t)
	})

	t.Run("taxed transfer goes through the bank", func(t *testing.T) {
		env := newTestEnv(t, withEnv(ENV_PAYMENT_TAX_PERCENT, "10"))
		env.fund(t, 2, 500)
		bank := env.balance(t, models.BANK_ID)

		result, err := env.ledger(t).Pay(ctx, 2, 3, 200)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomePaid, result.Outcome)
		assert.Equal(t, int64(20), result.Tax)
		assert.Equal(t, int64(180), result.Net)
		assert.Equal(t, int64(300), env.balance(t, 2))
		assert.Equal(t, int64(180), env.balance(t, 3))
		assert.Equal(t, bank+20, env.balance(t, models.BANK_ID))
		env.requireBalanced(t)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, 2, 50)

		result, err := env.ledger(t).Pay(ctx, 2, 3, 200)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeInsufficientFunds, result.Outcome)
		assert.Equal(t, int64(50), env.balance(t, 2))
	})

	t.Run("invalid payments", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, 2, 500)
		service := env.ledger(t)

		for _, tt := range []struct{ from, to, amount int64 }{
			{2, 2, 10},
			{2, models.BANK_ID, 10},
			{models.BANK_ID, 2, 10},
			{2, 3, 0},
			{2, 3, -5},
		} {
			_, err := service.Pay(ctx, tt.from, tt.to, tt.amount)
			require.Error(t, err, "%d -> %d (%d)", tt.from, tt.to, tt.amount)
		}
		assert.Equal(t, int64(500), env.balance(t, 2))
	})
}

func TestGrant(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	service := env.ledger(t)

	outcome, err := service.Grant(ctx, 2, models.RICH_BADGE_BALANCE)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomePaid, outcome)

	badges, err := env.store.Badges(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, badges, models.BadgeRich)

	outcome, err = service.Grant(ctx, 2, 2*TEST_GENESIS_SUPPLY)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeBankInsolvent, outcome)

	_, err = service.Grant(ctx, models.BANK_ID, 10)
	require.Error(t, err)
}

func TestProfileAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fund(t, 2, 300)
	env.fund(t, 3, 700)
	service := env.ledger(t)

	profile, err := service.Profile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(300), profile.Account.Balance)
	assert.Equal(t, 1, profile.Progress.Level)

	txs, err := service.Transactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxKindGrant, txs[0].Kind)

	top, err := service.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].AccountID)
	assert.Equal(t, int64(2), top[1].AccountID)
}
