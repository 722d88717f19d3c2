package redis_store

import (
	"context"
	"testing"
	"time"

	"bankroll/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestPresence(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	presence := NewPresence(client)

	require.NoError(t, presence.SetActive(ctx, 1, true))
	require.NoError(t, presence.SetActive(ctx, 2, true))
	require.NoError(t, presence.SetActive(ctx, 2, false))

	active, err := presence.ActiveMembers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1}, active)

	require.NoError(t, presence.Join(ctx, "-100", 1))
	require.NoError(t, presence.Join(ctx, "-100", 3))
	require.NoError(t, presence.Join(ctx, "-200", 4))
	require.NoError(t, presence.Leave(ctx, "-100", 3))

	members, err := presence.ScopeMembers(ctx, "-100")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1}, members)

	members, err = presence.ScopeMembers(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMembersSkipsGarbage(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	now := time.Now()

	_, err := mr.ZAdd(dbKeyPresenceActive(), float64(now.Unix()), "5")
	require.NoError(t, err)
	_, err = mr.ZAdd(dbKeyPresenceActive(), float64(now.Unix()), "not-a-number")
	require.NoError(t, err)

	active, err := GetActiveMembers(ctx, client, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, active)
}

func TestActiveMembersExpire(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	presence := NewPresenceWithWindow(client, 10*time.Minute)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	presence.now = func() time.Time { return now.Add(-20 * time.Minute) }
	require.NoError(t, presence.SetActive(ctx, 1, true))
	require.NoError(t, presence.SetActive(ctx, 2, true))

	presence.now = func() time.Time { return now.Add(-5 * time.Minute) }
	require.NoError(t, presence.SetActive(ctx, 2, true))

	presence.now = func() time.Time { return now }
	require.NoError(t, presence.SetActive(ctx, 3, true))

	active, err := presence.ActiveMembers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, active)

	// stale entries are pruned, not just filtered
	count, err := client.ZCard(ctx, dbKeyPresenceActive()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	presence.now = func() time.Time { return now.Add(11 * time.Minute) }
	active, err = presence.ActiveMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestEventQueueIsFIFO(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	queue := NewEventQueue(client)

	first := &models.Event{Type: models.EventLevelUp, AccountID: 1, Level: 2, PrevLevel: 1, CreatedAt: time.Now().UTC()}
	second := &models.Event{
		Type:      models.EventRainExecuted,
		AccountID: 2,
		Rain: &models.DistributionResult{
			SenderID: 2,
			Amount:   120,
			Scope:    "-100",
			Outcome:  models.OutcomeExecuted,
			Shares:   []models.DistributionShare{{AccountID: 3, Amount: 120, Paid: true}},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, queue.Publish(ctx, first))
	require.NoError(t, queue.Publish(ctx, second))

	count, err := CountEvents(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	event, err := queue.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.EventLevelUp, event.Type)
	assert.Equal(t, 2, event.Level)

	event, err = queue.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, event)
	require.NotNil(t, event.Rain)
	assert.Equal(t, int64(120), event.Rain.Distributed())
}

func TestEventQueueIsCapped(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, PushEvent(ctx, client, &models.Event{Type: models.EventLevelUp, AccountID: int64(i)}))
	}
	require.NoError(t, client.LTrim(ctx, dbKeyEventQueue(), 0, 1).Err())

	count, err := CountEvents(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// the oldest entry was trimmed away
	event, err := PopEvent(ctx, client, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), event.AccountID)
}
