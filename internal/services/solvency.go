package services

import (
	"context"
	"log/slog"
	"math"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceSolvency struct {
	container *do.Injector
	rs        *redsync.Redsync
	store     interfaces.LedgerStore
	presence  interfaces.Presence
	logger    *slog.Logger

	serviceLedger      *ServiceLedger
	serviceProgression *ServiceProgression
}

type PassiveIncomeReport struct {
	Solvency models.Solvency `json:"solvency"`
	Active   int             `json:"active"`
	Paid     int             `json:"paid"`
	Total    int64           `json:"total"`
}

func NewServiceSolvency(container *do.Injector) (*ServiceSolvency, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	store, err := do.Invoke[interfaces.LedgerStore](container)
	if err != nil {
		return nil, err
	}

	presence, err := do.Invoke[interfaces.Presence](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceLedger, err := do.Invoke[*ServiceLedger](container)
	if err != nil {
		return nil, err
	}

	serviceProgression, err := do.Invoke[*ServiceProgression](container)
	if err != nil {
		return nil, err
	}

	return &ServiceSolvency{container, rs, store, presence, logger, serviceLedger, serviceProgression}, nil
}

func (service *ServiceSolvency) Reserve(ctx context.Context) (*models.Reserve, error) {
	bank, err := service.serviceLedger.BankBalance(ctx)
	if err != nil {
		return nil, err
	}

	supply, err := service.serviceLedger.GenesisSupply(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Reserve{
		Reserves:      bank,
		GenesisSupply: supply,
		Solvency:      models.SolvencyFor(bank, supply),
	}, nil
}

// TableLimit is the largest stake the Bank accepts right now.
func (service *ServiceSolvency) TableLimit(ctx context.Context) (int64, error) {
	bank, err := service.serviceLedger.BankBalance(ctx)
	if err != nil {
		return 0, err
	}
	return bank / TABLE_LIMIT_DIVISOR, nil
}

func PassiveIncomeFor(level int, multiplier float64) int64 {
	base := PASSIVE_INCOME_BASE
	if level >= 20 {
		base = PASSIVE_INCOME_LEVEL_20
	} else if level >= 10 {
		base = PASSIVE_INCOME_LEVEL_10
	}
	return int64(math.Floor(float64(base) * multiplier))
}

// RunPassiveIncome pays every active account its tiered income scaled by the
// current solvency multiplier. Only one tick runs at a time across processes.
func (service *ServiceSolvency) RunPassiveIncome(ctx context.Context) (*PassiveIncomeReport, error) {
	mutex := service.rs.NewMutex(LockKeyPassiveIncome(), redsync.WithExpiry(LOCK_EXPIRY_TICK), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, errorx.Wrap(ErrPassiveIncomeLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.UnlockContext(context.WithoutCancel(ctx))

	reserve, err := service.Reserve(ctx)
	if err != nil {
		return nil, err
	}

	report := &PassiveIncomeReport{Solvency: reserve.Solvency}
	if reserve.Multiplier == 0 {
		service.logger.Info("passive income skipped, bank is bankrupt", "reserves", reserve.Reserves)
		return report, nil
	}

	members, err := service.presence.ActiveMembers(ctx)
	if err != nil {
		return nil, err
	}
	report.Active = len(members)

	for _, accountID := range members {
		if accountID == models.BANK_ID {
			continue
		}

		account, err := service.store.Account(ctx, accountID)
		if err != nil {
			return report, err
		}

		amount := PassiveIncomeFor(account.Level, reserve.Multiplier)
		if amount <= 0 {
			continue
		}

		ok, err := service.serviceLedger.Payout(ctx, accountID, amount, models.TxKindPassive)
		if err != nil {
			return report, err
		}
		if !ok {
			service.logger.Warn("passive income payout failed", "account_id", accountID, "amount", amount)
			continue
		}

		report.Paid++
		report.Total += amount

		if _, err := service.serviceProgression.AddXP(ctx, accountID, PASSIVE_XP); err != nil {
			return report, err
		}
	}

	service.logger.Info("passive income tick",
		"status", reserve.Status,
		"multiplier", reserve.Multiplier,
		"active", report.Active,
		"paid", report.Paid,
		"total", report.Total,
	)
	return report, nil
}
