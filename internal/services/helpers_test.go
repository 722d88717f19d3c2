package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"bankroll/internal/datastore/memstore"
	"bankroll/internal/datastore/redis_store"
	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/pkg/caching"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

const TEST_GENESIS_SUPPLY = 1_000_000

type stubLimiter struct {
	deny bool
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	if l.deny {
		return errorx.Wrap(errors.New("rate limited"), errorx.RateLimiting)
	}
	return nil
}

// scriptedRandom replays queued draws, then falls back to a seeded source.
type scriptedRandom struct {
	mu       sync.Mutex
	floats   []float64
	ints     []int
	fallback *rand.Rand
}

func newScriptedRandom() *scriptedRandom {
	return &scriptedRandom{fallback: rand.New(rand.NewSource(7))}
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return r.fallback.Float64()
}

func (r *scriptedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	return r.fallback.Intn(n)
}

func (r *scriptedRandom) queueFloats(vs ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, vs...)
}

// refusingStore refuses Bank payouts of the given kinds while keeping every
// other operation of the in-memory store.
type refusingStore struct {
	*memstore.Store
	refuse map[models.TxKind]bool
}

func (s *refusingStore) Transfer(ctx context.Context, from, to, amount int64, kind models.TxKind) (bool, error) {
	if from == models.BANK_ID && s.refuse[kind] {
		return false, nil
	}
	return s.Store.Transfer(ctx, from, to, amount, kind)
}

type backend interface {
	interfaces.LedgerStore
	interfaces.DistributionStore
	interfaces.ConfigStore
}

type testEnv struct {
	injector *do.Injector
	store    backend
	client   redis.UniversalClient
	rs       *redsync.Redsync
	presence *redis_store.Presence
	random   *scriptedRandom
	limiter  *stubLimiter

	// engine view of presence, defaults to presence
	reader  interfaces.Presence
	genesis int64
}

type testOption func(envs map[string]string, env *testEnv)

func withEnv(key, value string) testOption {
	return func(envs map[string]string, env *testEnv) {
		envs[key] = value
	}
}

func withRefusedPayouts(kinds ...models.TxKind) testOption {
	return func(envs map[string]string, env *testEnv) {
		refuse := make(map[models.TxKind]bool, len(kinds))
		for _, kind := range kinds {
			refuse[kind] = true
		}
		env.store = &refusingStore{memstore.New(), refuse}
	}
}

func withGenesis(supply int64) testOption {
	return func(envs map[string]string, env *testEnv) {
		env.genesis = supply
	}
}

// withScopeFailure answers the first calls scope lookups and fails every one after.
func withScopeFailure(calls int) testOption {
	return func(envs map[string]string, env *testEnv) {
		env.reader = &failingPresence{Presence: env.presence, healthy: calls}
	}
}

type failingPresence struct {
	*redis_store.Presence
	mu      sync.Mutex
	healthy int
}

func (p *failingPresence) ScopeMembers(ctx context.Context, scope string) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.healthy <= 0 {
		return nil, errors.New("redis down")
	}
	p.healthy--
	return p.Presence.ScopeMembers(ctx, scope)
}

func newTestEnv(t *testing.T, opts ...testOption) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := &testEnv{
		client:   client,
		rs:       redsync.New(goredis.NewPool(client)),
		presence: redis_store.NewPresence(client),
		random:   newScriptedRandom(),
		limiter:  &stubLimiter{},
		store:    memstore.New(),
		genesis:  TEST_GENESIS_SUPPLY,
	}
	env.reader = env.presence

	envs := map[string]string{}
	for _, opt := range opts {
		opt(envs, env)
	}

	cache, err := caching.NewRedisCache(client)
	require.NoError(t, err)

	injector := do.New()
	do.ProvideNamedValue(injector, "envs", envs)
	do.ProvideValue(injector, slog.New(slog.NewTextHandler(io.Discard, nil)))
	do.ProvideValue[caching.Cache](injector, cache)
	do.ProvideValue[interfaces.Limiter](injector, env.limiter)
	do.ProvideValue(injector, env.rs)
	do.ProvideValue[interfaces.LedgerStore](injector, env.store)
	do.ProvideValue[interfaces.DistributionStore](injector, env.store)
	do.ProvideValue[interfaces.ConfigStore](injector, env.store)
	do.ProvideValue[interfaces.Presence](injector, env.reader)
	do.ProvideValue[interfaces.EventPublisher](injector, redis_store.NewEventQueue(client))
	do.ProvideValue[interfaces.Random](injector, env.random)
	Provide(injector)
	env.injector = injector

	created, err := env.ledger(t).Genesis(context.Background(), env.genesis)
	require.NoError(t, err)
	require.True(t, created)

	return env
}

func invokeService[T any](t *testing.T, env *testEnv) T {
	t.Helper()
	service, err := do.Invoke[T](env.injector)
	require.NoError(t, err)
	return service
}

func (env *testEnv) ledger(t *testing.T) *ServiceLedger {
	return invokeService[*ServiceLedger](t, env)
}

func (env *testEnv) casino(t *testing.T) *ServiceCasino {
	return invokeService[*ServiceCasino](t, env)
}

func (env *testEnv) solvency(t *testing.T) *ServiceSolvency {
	return invokeService[*ServiceSolvency](t, env)
}

func (env *testEnv) rain(t *testing.T) *ServiceRain {
	return invokeService[*ServiceRain](t, env)
}

func (env *testEnv) shop(t *testing.T) *ServiceShop {
	return invokeService[*ServiceShop](t, env)
}

func (env *testEnv) config(t *testing.T) *ServiceConfig {
	return invokeService[*ServiceConfig](t, env)
}

func (env *testEnv) progression(t *testing.T) *ServiceProgression {
	return invokeService[*ServiceProgression](t, env)
}

// fund grants amount out of the Bank.
func (env *testEnv) fund(t *testing.T, accountID, amount int64) {
	t.Helper()
	outcome, err := env.ledger(t).Grant(context.Background(), accountID, amount)
	require.NoError(t, err)
	require.Equal(t, models.OutcomePaid, outcome)
}

func (env *testEnv) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	balance, err := env.store.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return balance
}

// requireBalanced checks the closed loop still holds.
func (env *testEnv) requireBalanced(t *testing.T) {
	t.Helper()
	total, ok, err := env.ledger(t).Audit(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "circulating total %d", total)
}

// hold takes key as another process would.
func (env *testEnv) hold(t *testing.T, key string) {
	t.Helper()
	mutex := env.rs.NewMutex(key)
	require.NoError(t, mutex.Lock())
	t.Cleanup(func() { mutex.Unlock() })
}
