package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bankroll/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostgresStore adapts the package functions to the store contracts.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{db}
}

func (s *PostgresStore) Transfer(ctx context.Context, from, to, amount int64, kind models.TxKind) (bool, error) {
	return Transfer(ctx, s.db, from, to, amount, kind)
}

func (s *PostgresStore) Balance(ctx context.Context, id int64) (int64, error) {
	return GetBalance(ctx, s.db, id)
}

func (s *PostgresStore) EnsureAccount(ctx context.Context, id int64) error {
	return EnsureAccount(ctx, s.db, id)
}

func (s *PostgresStore) Account(ctx context.Context, id int64) (*models.Account, error) {
	if err := EnsureAccount(ctx, s.db, id); err != nil {
		return nil, err
	}
	return GetAccount(ctx, s.db, id)
}

func (s *PostgresStore) AddXP(ctx context.Context, id, amount int64) (*models.LevelChange, error) {
	return AddAccountXP(ctx, s.db, id, amount)
}

func (s *PostgresStore) GrantBadge(ctx context.Context, id int64, badge models.Badge) (bool, error) {
	return InsertAccountBadge(ctx, s.db, id, badge)
}

func (s *PostgresStore) Badges(ctx context.Context, id int64) ([]models.Badge, error) {
	return GetAccountBadges(ctx, s.db, id)
}

func (s *PostgresStore) Purchase(ctx context.Context, id int64, item string, price int64) (models.Outcome, error) {
	return PurchaseItem(ctx, s.db, id, item, price)
}

func (s *PostgresStore) Items(ctx context.Context, id int64) ([]string, error) {
	return GetAccountItems(ctx, s.db, id)
}

func (s *PostgresStore) Transactions(ctx context.Context, id int64, limit int) ([]*models.Transaction, error) {
	return GetTransactionsByAccount(ctx, s.db, id, limit)
}

func (s *PostgresStore) TopAccounts(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	return GetTopAccounts(ctx, s.db, limit)
}

func (s *PostgresStore) TotalSupply(ctx context.Context) (int64, error) {
	return GetTotalSupply(ctx, s.db)
}

func (s *PostgresStore) Genesis(ctx context.Context, supply int64) (bool, error) {
	return MintGenesis(ctx, s.db, supply)
}

func (s *PostgresStore) GenesisSupply(ctx context.Context) (int64, error) {
	return GetGenesisSupply(ctx, s.db)
}

func (s *PostgresStore) InsertPendingDistribution(ctx context.Context, pending *models.PendingDistribution) error {
	return InsertPendingDistribution(ctx, s.db, pending)
}

func (s *PostgresStore) DuePendingDistributions(ctx context.Context, now time.Time, limit int) ([]*models.PendingDistribution, error) {
	return GetDuePendingDistributions(ctx, s.db, now, limit)
}

func (s *PostgresStore) ClaimPendingDistribution(ctx context.Context, id uuid.UUID) (bool, error) {
	return DeletePendingDistribution(ctx, s.db, id)
}

func (s *PostgresStore) CountPendingDistributions(ctx context.Context) (int, error) {
	return CountPendingDistributions(ctx, s.db)
}

func (s *PostgresStore) Config(ctx context.Context, key string) (string, bool, error) {
	config, err := GetConfigByKey(ctx, s.db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return config.Value, true, nil
}

func (s *PostgresStore) SetConfig(ctx context.Context, key, value string, overwrite bool) error {
	return UpsertConfig(ctx, s.db, &models.Config{Key: key, Value: value}, overwrite)
}

// CreateTables creates every table the ledger needs. Safe to rerun.
func CreateTables(ctx context.Context, db *bun.DB) error {
	steps := []func(context.Context, *bun.DB) error{
		CreateTableAccount,
		CreateTableAccountBadge,
		CreateTableAccountItem,
		CreateTableTransaction,
		CreateTablePendingDistribution,
		CreateTableGenesis,
		CreateTableConfig,
	}
	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
