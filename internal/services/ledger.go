package services

import (
	"context"
	"log/slog"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceLedger struct {
	container *do.Injector
	store     interfaces.LedgerStore
	cache     caching.Cache
	logger    *slog.Logger

	serviceProgression *ServiceProgression

	taxPercent int64
}

func NewServiceLedger(container *do.Injector) (*ServiceLedger, error) {
	store, err := do.Invoke[interfaces.LedgerStore](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceProgression, err := do.Invoke[*ServiceProgression](container)
	if err != nil {
		return nil, err
	}

	vs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	taxPercent := int64(envInt(vs, ENV_PAYMENT_TAX_PERCENT, 0))
	taxPercent = max(0, min(100, taxPercent))

	return &ServiceLedger{container, store, cache, logger, serviceProgression, taxPercent}, nil
}

// Transfer moves amount between two accounts. A false result means the
// source could not cover it and nothing changed.
func (service *ServiceLedger) Transfer(ctx context.Context, from, to, amount int64, kind models.TxKind) (bool, error) {
	if amount <= 0 {
		return false, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}
	return service.store.Transfer(ctx, from, to, amount, kind)
}

// Payout pays amount out of the Bank reserve.
func (service *ServiceLedger) Payout(ctx context.Context, accountID, amount int64, kind models.TxKind) (bool, error) {
	ok, err := service.Transfer(ctx, models.BANK_ID, accountID, amount, kind)
	if err != nil || !ok {
		return ok, err
	}

	if err := service.serviceProgression.CheckRichBadge(ctx, accountID); err != nil {
		service.logger.Warn("rich badge check", "account_id", accountID, "error", err)
	}
	return true, nil
}

func (service *ServiceLedger) Balance(ctx context.Context, accountID int64) (int64, error) {
	return service.store.Balance(ctx, accountID)
}

func (service *ServiceLedger) EnsureAccount(ctx context.Context, accountID int64) error {
	return service.store.EnsureAccount(ctx, accountID)
}

func (service *ServiceLedger) BankBalance(ctx context.Context) (int64, error) {
	return service.store.Balance(ctx, models.BANK_ID)
}

// GenesisSupply falls back to the default supply before genesis has run.
func (service *ServiceLedger) GenesisSupply(ctx context.Context) (int64, error) {
	supply, err := service.store.GenesisSupply(ctx)
	if err != nil {
		return 0, err
	}
	if supply <= 0 {
		return models.GENESIS_SUPPLY, nil
	}
	return supply, nil
}

func (service *ServiceLedger) Genesis(ctx context.Context, supply int64) (bool, error) {
	if supply <= 0 {
		return false, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}
	return service.store.Genesis(ctx, supply)
}

// Pay sends amount from one user to another. With a tax configured the full
// amount goes to the Bank first and the net is paid out of it.
func (service *ServiceLedger) Pay(ctx context.Context, from, to, amount int64) (*models.PaymentResult, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}
	if from == to || to == models.BANK_ID || from == models.BANK_ID {
		return nil, errorx.Wrap(ErrInvalidRecipient, errorx.Validation)
	}

	tax := amount * service.taxPercent / 100
	result := &models.PaymentResult{FromID: from, ToID: to, Amount: amount, Tax: tax, Net: amount - tax}

	if service.taxPercent == 0 {
		ok, err := service.store.Transfer(ctx, from, to, amount, models.TxKindPayment)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Outcome = models.OutcomeInsufficientFunds
			return result, nil
		}
		result.Outcome = models.OutcomePaid
		if err := service.serviceProgression.CheckRichBadge(ctx, to); err != nil {
			service.logger.Warn("rich badge check", "account_id", to, "error", err)
		}
		return result, nil
	}

	ok, err := service.store.Transfer(ctx, from, models.BANK_ID, amount, models.TxKindTax)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = models.OutcomeInsufficientFunds
		return result, nil
	}

	if result.Net == 0 {
		result.Outcome = models.OutcomePaid
		return result, nil
	}

	ok, err = service.Payout(ctx, to, result.Net, models.TxKindPayment)
	if err != nil {
		return nil, err
	}
	if !ok {
		service.logger.Error("payment net payout failed", "from", from, "to", to, "net", result.Net)
		result.Outcome = models.OutcomeBankInsolvent
		return result, nil
	}

	result.Outcome = models.OutcomePaid
	return result, nil
}

// Grant pays an account out of the reserve on an operator's behalf.
func (service *ServiceLedger) Grant(ctx context.Context, accountID, amount int64) (models.Outcome, error) {
	if accountID == models.BANK_ID {
		return "", errorx.Wrap(ErrInvalidRecipient, errorx.Validation)
	}

	ok, err := service.Payout(ctx, accountID, amount, models.TxKindGrant)
	if err != nil {
		return "", err
	}
	if !ok {
		return models.OutcomeBankInsolvent, nil
	}
	return models.OutcomePaid, nil
}

func (service *ServiceLedger) Profile(ctx context.Context, accountID int64) (*models.Profile, error) {
	account, err := service.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	badges, err := service.store.Badges(ctx, accountID)
	if err != nil {
		return nil, err
	}

	keys, err := service.store.Items(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.Item, 0, len(keys))
	for _, key := range keys {
		if item, ok := models.FindItem(key); ok {
			items = append(items, item)
		}
	}

	return &models.Profile{
		Account:  account,
		Badges:   badges,
		Items:    items,
		Progress: models.ProgressFor(account.XP, account.Level),
	}, nil
}

func (service *ServiceLedger) Transactions(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	return service.store.Transactions(ctx, accountID, TRANSACTIONS_LIMIT)
}

func (service *ServiceLedger) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	if limit <= 0 {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}

	return caching.Remember(ctx, service.cache, DBKeyLeaderboard(limit), CACHE_TTL_1_MIN, func() ([]*models.LeaderboardItem, error) {
		return service.store.TopAccounts(ctx, limit)
	})
}

// Audit reports the circulating total and whether it still equals the
// genesis supply.
func (service *ServiceLedger) Audit(ctx context.Context) (int64, bool, error) {
	total, err := service.store.TotalSupply(ctx)
	if err != nil {
		return 0, false, err
	}

	supply, err := service.store.GenesisSupply(ctx)
	if err != nil {
		return 0, false, err
	}

	return total, total == supply, nil
}
