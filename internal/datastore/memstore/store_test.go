package memstore

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"bankroll/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisMintsOnce(t *testing.T) {
	ctx := context.Background()
	s := New()

	minted, err := s.Genesis(ctx, 1000)
	require.NoError(t, err)
	assert.True(t, minted)

	minted, err = s.Genesis(ctx, 1000)
	require.NoError(t, err)
	assert.False(t, minted)

	balance, err := s.Balance(ctx, models.BANK_ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	badges, err := s.Badges(ctx, models.BANK_ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Badge{models.BadgeCentralBank}, badges)
}

func TestTransferInsufficientLeavesBalances(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Genesis(ctx, 100)
	require.NoError(t, err)

	ok, err := s.Transfer(ctx, models.BANK_ID, 7, 150, models.TxKindGrant)
	require.NoError(t, err)
	assert.False(t, ok)

	bank, _ := s.Balance(ctx, models.BANK_ID)
	user, _ := s.Balance(ctx, 7)
	assert.Equal(t, int64(100), bank)
	assert.Equal(t, int64(0), user)

	transactions, err := s.Transactions(ctx, models.BANK_ID, 10)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Genesis(ctx, 1000)
	require.NoError(t, err)
	ok, err := s.Transfer(ctx, models.BANK_ID, 1, 100, models.TxKindGrant)
	require.NoError(t, err)
	require.True(t, ok)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Transfer(ctx, 1, 2, 10, models.TxKindPayment)
			if err == nil && ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	balance, _ := s.Balance(ctx, 1)
	assert.Equal(t, int64(0), balance)

	total, err := s.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
}

func TestTransferRespectsCancelledContext(t *testing.T) {
	s := New()
	_, err := s.Genesis(context.Background(), 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Transfer(ctx, models.BANK_ID, 1, 10, models.TxKindGrant)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Genesis(ctx, 1000)
	require.NoError(t, err)
	_, err = s.Transfer(ctx, models.BANK_ID, 1, 60, models.TxKindGrant)
	require.NoError(t, err)

	outcome, err := s.Purchase(ctx, 1, "coffee", 50)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomePurchased, outcome)

	outcome, err = s.Purchase(ctx, 1, "coffee", 50)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAlreadyOwned, outcome)

	outcome, err = s.Purchase(ctx, 1, "pizza", 200)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeInsufficientFunds, outcome)

	items, err := s.Items(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee"}, items)
}

func TestEnsureAccountKeepsExistingState(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Genesis(ctx, 1000)
	require.NoError(t, err)
	ok, err := s.Transfer(ctx, models.BANK_ID, 1, 300, models.TxKindGrant)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.AddXP(ctx, 1, 150)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, s.EnsureAccount(ctx, 1))
	}

	account, err := s.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(300), account.Balance)
	assert.Equal(t, int64(150), account.XP)
	assert.Equal(t, 2, account.Level)

	supply, err := s.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), supply)
}

func TestAddXPKeepsLevelMonotonic(t *testing.T) {
	ctx := context.Background()
	s := New()

	change, err := s.AddXP(ctx, 1, 250)
	require.NoError(t, err)
	assert.Equal(t, 1, change.PrevLevel)
	assert.Equal(t, 3, change.Level)
	assert.True(t, change.LeveledUp())

	change, err = s.AddXP(ctx, 1, 0)
	require.NoError(t, err)
	assert.False(t, change.LeveledUp())

	random := rand.New(rand.NewSource(1))
	level := change.Level
	for i := 0; i < 200; i++ {
		change, err = s.AddXP(ctx, 1, random.Int63n(250))
		require.NoError(t, err)
		assert.Equal(t, models.LevelForXP(change.XP), change.Level)
		assert.GreaterOrEqual(t, change.Level, level)
		assert.Equal(t, level, change.PrevLevel)
		level = change.Level
	}
}

func TestPendingDistributionClaimedOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now().UTC()

	due := &models.PendingDistribution{ID: uuid.New(), SenderID: 1, TotalAmount: 120, Scope: "chat", DueTime: now.Add(-time.Minute)}
	later := &models.PendingDistribution{ID: uuid.New(), SenderID: 1, TotalAmount: 480, Scope: "chat", DueTime: now.Add(time.Hour)}
	require.NoError(t, s.InsertPendingDistribution(ctx, due))
	require.NoError(t, s.InsertPendingDistribution(ctx, later))

	pendings, err := s.DuePendingDistributions(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, pendings, 1)
	assert.Equal(t, due.ID, pendings[0].ID)

	claimed, err := s.ClaimPendingDistribution(ctx, due.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = s.ClaimPendingDistribution(ctx, due.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	count, err := s.CountPendingDistributions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTopAccountsExcludesBank(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Genesis(ctx, 1000)
	require.NoError(t, err)
	_, _ = s.Transfer(ctx, models.BANK_ID, 1, 10, models.TxKindGrant)
	_, _ = s.Transfer(ctx, models.BANK_ID, 2, 30, models.TxKindGrant)
	_, _ = s.Transfer(ctx, models.BANK_ID, 3, 30, models.TxKindGrant)

	items, err := s.TopAccounts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].AccountID)
	assert.Equal(t, int64(3), items[1].AccountID)
}

func TestSetConfigOverwrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SetConfig(ctx, "k", "a", false))
	require.NoError(t, s.SetConfig(ctx, "k", "b", false))
	value, ok, err := s.Config(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", value)

	require.NoError(t, s.SetConfig(ctx, "k", "b", true))
	value, _, _ = s.Config(ctx, "k")
	assert.Equal(t, "b", value)
}
