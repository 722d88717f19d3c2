package services

import (
	"context"
	"testing"

	"bankroll/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const PLAYER_ID = 42

func TestCoinflipFromGenesis(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, withGenesis(1_000_000_000))

	ok, err := env.ledger(t).Transfer(ctx, models.BANK_ID, PLAYER_ID, 500, models.TxKindGrant)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(500), env.balance(t, PLAYER_ID))
	assert.Equal(t, int64(999_999_500), env.balance(t, models.BANK_ID))

	result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 600)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeInsufficientFunds, result.Outcome)
	assert.Equal(t, int64(500), env.balance(t, PLAYER_ID))
	assert.Equal(t, int64(999_999_500), env.balance(t, models.BANK_ID))

	env.random.queueFloats(0.9)
	result, err = env.casino(t).Coinflip(ctx, PLAYER_ID, 500)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeLost, result.Outcome)
	assert.Zero(t, env.balance(t, PLAYER_ID))
	assert.Equal(t, int64(1_000_000_000), env.balance(t, models.BANK_ID))
	env.requireBalanced(t)
}

func TestCoinflip(t *testing.T) {
	ctx := context.Background()

	t.Run("win pays double from the bank", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 500)
		env.random.queueFloats(0.1)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeWon, result.Outcome)
		assert.Equal(t, int64(200), result.Payout)
		assert.Equal(t, int64(999), result.TableLimit)
		assert.Equal(t, int64(600), env.balance(t, PLAYER_ID))
		env.requireBalanced(t)
	})

	t.Run("loss keeps the bet in the bank", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 500)
		env.random.queueFloats(0.9)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeLost, result.Outcome)
		assert.Zero(t, result.Payout)
		assert.Equal(t, int64(400), env.balance(t, PLAYER_ID))
		assert.Equal(t, int64(TEST_GENESIS_SUPPLY-400), env.balance(t, models.BANK_ID))
		env.requireBalanced(t)
	})

	t.Run("bet above table limit", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 5000)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 1001)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeTableLimitExceeded, result.Outcome)
		assert.Equal(t, int64(5000), env.balance(t, PLAYER_ID))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 50)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeInsufficientFunds, result.Outcome)
		assert.Equal(t, int64(50), env.balance(t, PLAYER_ID))
	})

	t.Run("bank cannot pay keeps the escrow", func(t *testing.T) {
		env := newTestEnv(t, withRefusedPayouts(models.TxKindCasinoWin))
		env.fund(t, PLAYER_ID, 500)
		env.random.queueFloats(0.1)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeBankInsolvent, result.Outcome)
		assert.Equal(t, int64(400), env.balance(t, PLAYER_ID))
		env.requireBalanced(t)
	})

	t.Run("invalid bets", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 0)
		require.Error(t, err)

		_, err = env.casino(t).Coinflip(ctx, models.BANK_ID, 10)
		require.Error(t, err)
	})

	t.Run("concurrent wager is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 500)
		env.hold(t, LockKeyWager(PLAYER_ID))

		_, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.Error(t, err)
		assert.Equal(t, int64(500), env.balance(t, PLAYER_ID))
	})

	t.Run("rate limited", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 500)
		env.limiter.deny = true

		_, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.Error(t, err)
		assert.Equal(t, int64(500), env.balance(t, PLAYER_ID))
	})

	t.Run("rate limit disabled", func(t *testing.T) {
		env := newTestEnv(t, withEnv(ENV_WAGER_RATE_LIMIT_PER_MINUTE, "0"))
		env.fund(t, PLAYER_ID, 500)
		env.limiter.deny = true
		env.random.queueFloats(0.9)

		result, err := env.casino(t).Coinflip(ctx, PLAYER_ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeLost, result.Outcome)
	})
}

func TestSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("win shows three of a kind", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 100)
		env.random.queueFloats(0.01)

		result, err := env.casino(t).Slots(ctx, PLAYER_ID, 10)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeWon, result.Outcome)
		assert.Equal(t, int64(100), result.Payout)
		assert.Equal(t, int64(190), env.balance(t, PLAYER_ID))
		require.Len(t, result.Symbols, SLOTS_REEL_SIZE)
		assert.True(t, allSame(result.Symbols))
	})

	t.Run("loss never shows three of a kind", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 1000)

		for i := 0; i < 20; i++ {
			env.random.queueFloats(0.5)
			result, err := env.casino(t).Slots(ctx, PLAYER_ID, 10)
			require.NoError(t, err)
			assert.Equal(t, models.OutcomeLost, result.Outcome)
			require.Len(t, result.Symbols, SLOTS_REEL_SIZE)
			assert.False(t, allSame(result.Symbols))
		}
		assert.Equal(t, int64(800), env.balance(t, PLAYER_ID))
		env.requireBalanced(t)
	})

	t.Run("table limit shows no reels", func(t *testing.T) {
		env := newTestEnv(t)
		env.fund(t, PLAYER_ID, 5000)

		result, err := env.casino(t).Slots(ctx, PLAYER_ID, 2000)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeTableLimitExceeded, result.Outcome)
		assert.Empty(t, result.Symbols)
	})
}

func TestReel(t *testing.T) {
	reel, err := NewUniformReel(SlotSymbols)
	require.NoError(t, err)

	for _, symbol := range reel.Spin(50) {
		assert.Contains(t, SlotSymbols, symbol)
	}

	_, err = NewUniformReel([]string{})
	require.Error(t, err)
}
