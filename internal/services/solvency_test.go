package services

import (
	"context"
	"testing"

	"bankroll/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassiveIncomeFor(t *testing.T) {
	tests := []struct {
		level      int
		multiplier float64
		want       int64
	}{
		{1, 1.0, 1},
		{9, 2.0, 2},
		{10, 1.0, 2},
		{19, 0.5, 1},
		{20, 1.0, 3},
		{35, 0.5, 1},
		{1, 0.5, 0},
		{20, 0.1, 0},
		{50, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PassiveIncomeFor(tt.level, tt.multiplier), "level %d x%.1f", tt.level, tt.multiplier)
	}
}

func TestReserve(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, 2, 700_000)

	reserve, err := env.solvency(t).Reserve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), reserve.Reserves)
	assert.Equal(t, int64(TEST_GENESIS_SUPPLY), reserve.GenesisSupply)
	assert.Equal(t, models.SolvencyAusterity, reserve.Status)
	assert.Equal(t, 0.5, reserve.Multiplier)
}

func TestRunPassiveIncome(t *testing.T) {
	ctx := context.Background()

	t.Run("pays active accounts and grants xp", func(t *testing.T) {
		env := newTestEnv(t)
		for _, id := range []int64{2, 3, models.BANK_ID} {
			require.NoError(t, env.presence.SetActive(ctx, id, true))
		}

		report, err := env.solvency(t).RunPassiveIncome(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SolvencyStimulus, report.Solvency.Status)
		assert.Equal(t, 3, report.Active)
		assert.Equal(t, 2, report.Paid)
		assert.Equal(t, int64(4), report.Total)

		for _, id := range []int64{2, 3} {
			assert.Equal(t, int64(2), env.balance(t, id))
			account, err := env.store.Account(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, int64(PASSIVE_XP), account.XP)
		}
		env.requireBalanced(t)
	})

	t.Run("higher levels earn more", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.progression(t).AddXP(ctx, 2, 2000)
		require.NoError(t, err)
		require.NoError(t, env.presence.SetActive(ctx, 2, true))

		report, err := env.solvency(t).RunPassiveIncome(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(PASSIVE_INCOME_LEVEL_20*2), report.Total)
	})

	t.Run("bankrupt bank pays nothing", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, 9, 960_000)
		require.NoError(t, env.presence.SetActive(ctx, 2, true))

		report, err := env.solvency(t).RunPassiveIncome(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SolvencyBankrupt, report.Solvency.Status)
		assert.Zero(t, report.Paid)
		assert.Zero(t, env.balance(t, 2))
	})

	t.Run("one tick at a time", func(t *testing.T) {
		env := newTestEnv(t)
		env.hold(t, LockKeyPassiveIncome())

		_, err := env.solvency(t).RunPassiveIncome(ctx)
		require.Error(t, err)
	})
}
