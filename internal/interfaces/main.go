package interfaces

import (
	"context"
	"time"

	"bankroll/internal/models"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// LedgerStore is the persistent account store. Transfer is the only
// operation that moves balances and must be atomic per call.
type LedgerStore interface {
	Transfer(ctx context.Context, from, to, amount int64, kind models.TxKind) (bool, error)
	Balance(ctx context.Context, id int64) (int64, error)
	EnsureAccount(ctx context.Context, id int64) error
	Account(ctx context.Context, id int64) (*models.Account, error)

	AddXP(ctx context.Context, id, amount int64) (*models.LevelChange, error)
	GrantBadge(ctx context.Context, id int64, badge models.Badge) (bool, error)
	Badges(ctx context.Context, id int64) ([]models.Badge, error)

	// Purchase records ownership and debits price to the Bank in one unit.
	Purchase(ctx context.Context, id int64, item string, price int64) (models.Outcome, error)
	Items(ctx context.Context, id int64) ([]string, error)

	Transactions(ctx context.Context, id int64, limit int) ([]*models.Transaction, error)
	TopAccounts(ctx context.Context, limit int) ([]*models.LeaderboardItem, error)
	TotalSupply(ctx context.Context) (int64, error)

	Genesis(ctx context.Context, supply int64) (bool, error)
	GenesisSupply(ctx context.Context) (int64, error)
}

type DistributionStore interface {
	InsertPendingDistribution(ctx context.Context, pending *models.PendingDistribution) error
	DuePendingDistributions(ctx context.Context, now time.Time, limit int) ([]*models.PendingDistribution, error)
	// ClaimPendingDistribution removes the row and reports whether this caller removed it.
	ClaimPendingDistribution(ctx context.Context, id uuid.UUID) (bool, error)
	CountPendingDistributions(ctx context.Context) (int, error)
}

// Presence answers who is online and who is in a scope. It is maintained
// by the chat adapter, the engine only reads it.
type Presence interface {
	ActiveMembers(ctx context.Context) ([]int64, error)
	ScopeMembers(ctx context.Context, scope string) ([]int64, error)
}

type PresenceTracker interface {
	Presence
	SetActive(ctx context.Context, accountID int64, active bool) error
	Join(ctx context.Context, scope string, accountID int64) error
	Leave(ctx context.Context, scope string, accountID int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event *models.Event) error
}

type Random interface {
	Float64() float64
	Intn(n int) int
}

// ConfigStore holds runtime settings such as cron schedules. A missing key
// reports ok=false.
type ConfigStore interface {
	Config(ctx context.Context, key string) (string, bool, error)
	SetConfig(ctx context.Context, key, value string, overwrite bool) error
}
