// Package memstore is an in-process ledger store. A single mutex makes every
// operation atomic, which is the same guarantee the Postgres store gets from
// its row locks.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"bankroll/internal/models"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.Mutex
	accounts     map[int64]*models.Account
	badges       map[int64][]models.Badge
	items        map[int64][]string
	transactions []*models.Transaction
	pending      map[uuid.UUID]*models.PendingDistribution
	genesis      int64
	config       map[string]string
}

func New() *Store {
	return &Store{
		accounts: make(map[int64]*models.Account),
		badges:   make(map[int64][]models.Badge),
		items:    make(map[int64][]string),
		pending:  make(map[uuid.UUID]*models.PendingDistribution),
		config:   make(map[string]string),
	}
}

func (s *Store) ensure(id int64) *models.Account {
	account, ok := s.accounts[id]
	if !ok {
		now := time.Now().UTC()
		account = &models.Account{ID: id, Level: 1, CreatedAt: now, UpdatedAt: now}
		s.accounts[id] = account
	}
	return account
}

func (s *Store) transfer(from, to, amount int64, kind models.TxKind) bool {
	if amount <= 0 {
		return false
	}
	source, ok := s.accounts[from]
	if !ok || source.Balance < amount {
		return false
	}
	source.Balance -= amount
	s.ensure(to).Balance += amount
	s.transactions = append(s.transactions, models.NewTransaction(from, to, amount, kind))
	return true
}

func (s *Store) Transfer(ctx context.Context, from, to, amount int64, kind models.TxKind) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer(from, to, amount, kind), nil
}

func (s *Store) Balance(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[id]; ok {
		return account.Balance, nil
	}
	return 0, nil
}

func (s *Store) EnsureAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(id)
	return nil
}

func (s *Store) Account(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := *s.ensure(id)
	return &account, nil
}

func (s *Store) AddXP(ctx context.Context, id, amount int64) (*models.LevelChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.ensure(id)
	change := &models.LevelChange{AccountID: id, PrevLevel: account.Level}
	account.XP += amount
	account.Level = max(account.Level, models.LevelForXP(account.XP))
	change.XP = account.XP
	change.Level = account.Level
	return change, nil
}

func (s *Store) GrantBadge(ctx context.Context, id int64, badge models.Badge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.badges[id], badge) {
		return false, nil
	}
	s.badges[id] = append(s.badges[id], badge)
	return true, nil
}

func (s *Store) Badges(ctx context.Context, id int64) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.badges[id]), nil
}

func (s *Store) Purchase(ctx context.Context, id int64, item string, price int64) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.items[id], item) {
		return models.OutcomeAlreadyOwned, nil
	}
	if !s.transfer(id, models.BANK_ID, price, models.TxKindShopBuy) {
		return models.OutcomeInsufficientFunds, nil
	}
	s.items[id] = append(s.items[id], item)
	return models.OutcomePurchased, nil
}

func (s *Store) Items(ctx context.Context, id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items[id]), nil
}

func (s *Store) Transactions(ctx context.Context, id int64, limit int) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		tx := s.transactions[i]
		if tx.FromID == id || tx.ToID == id {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) TopAccounts(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.LeaderboardItem
	for _, account := range s.accounts {
		if account.IsBank() {
			continue
		}
		out = append(out, &models.LeaderboardItem{AccountID: account.ID, Balance: account.Balance, Level: account.Level})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].AccountID < out[j].AccountID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, account := range s.accounts {
		total += account.Balance
	}
	return total, nil
}

func (s *Store) Genesis(ctx context.Context, supply int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genesis != 0 {
		return false, nil
	}
	s.genesis = supply
	s.ensure(models.BANK_ID).Balance += supply
	if !slices.Contains(s.badges[models.BANK_ID], models.BadgeCentralBank) {
		s.badges[models.BANK_ID] = append(s.badges[models.BANK_ID], models.BadgeCentralBank)
	}
	return true, nil
}

func (s *Store) GenesisSupply(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genesis, nil
}

func (s *Store) InsertPendingDistribution(ctx context.Context, pending *models.PendingDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *pending
	s.pending[pending.ID] = &copied
	return nil
}

func (s *Store) DuePendingDistributions(ctx context.Context, now time.Time, limit int) ([]*models.PendingDistribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PendingDistribution
	for _, pending := range s.pending {
		if !pending.DueTime.After(now) {
			copied := *pending
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueTime.Before(out[j].DueTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ClaimPendingDistribution(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return false, nil
	}
	delete(s.pending, id)
	return true, nil
}

func (s *Store) CountPendingDistributions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending), nil
}

func (s *Store) Config(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.config[key]
	return value, ok, nil
}

func (s *Store) SetConfig(ctx context.Context, key, value string, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.config[key]; ok && !overwrite {
		return nil
	}
	s.config[key] = value
	return nil
}
