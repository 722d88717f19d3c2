package services

import (
	"context"
	"log/slog"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/pkg"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceCasino struct {
	container *do.Injector
	rs        *redsync.Redsync
	limiter   interfaces.Limiter
	random    interfaces.Random
	logger    *slog.Logger

	serviceLedger   *ServiceLedger
	serviceSolvency *ServiceSolvency
	reel            *Reel[string]

	ratePerMinute int
}

func NewServiceCasino(container *do.Injector) (*ServiceCasino, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	random, err := do.Invoke[interfaces.Random](container)
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

	serviceSolvency, err := do.Invoke[*ServiceSolvency](container)
	if err != nil {
		return nil, err
	}

	reel, err := NewUniformReel(SlotSymbols)
	if err != nil {
		return nil, err
	}

	vs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	ratePerMinute := envInt(vs, ENV_WAGER_RATE_LIMIT_PER_MINUTE, WAGER_RATE_LIMIT_PER_MINUTE)

	return &ServiceCasino{container, rs, limiter, random, logger, serviceLedger, serviceSolvency, reel, ratePerMinute}, nil
}

func (service *ServiceCasino) Coinflip(ctx context.Context, playerID, bet int64) (*models.WagerResult, error) {
	return service.wager(ctx, models.GameCoinflip, playerID, bet, COINFLIP_WIN_CHANCE, COINFLIP_PAYOUT_MULTIPLIER)
}

func (service *ServiceCasino) Slots(ctx context.Context, playerID, bet int64) (*models.WagerResult, error) {
	result, err := service.wager(ctx, models.GameSlots, playerID, bet, SLOTS_WIN_CHANCE, SLOTS_PAYOUT_MULTIPLIER)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case models.OutcomeWon, models.OutcomeBankInsolvent:
		result.Symbols = service.winningSymbols()
	case models.OutcomeLost:
		result.Symbols = service.losingSymbols()
	}
	return result, nil
}

func (service *ServiceCasino) winningSymbols() []string {
	symbol := service.reel.Pick()
	return []string{symbol, symbol, symbol}
}

// losingSymbols never shows three of a kind.
func (service *ServiceCasino) losingSymbols() []string {
	return pkg.SampleUntil(
		func() []string { return service.reel.Spin(SLOTS_REEL_SIZE) },
		func(symbols []string) bool { return !allSame(symbols) },
	)
}

func allSame(symbols []string) bool {
	for _, s := range symbols[1:] {
		if s != symbols[0] {
			return false
		}
	}
	return true
}

// wager escrows the bet into the Bank, draws the outcome and pays a win out
// of the Bank. A failed payout keeps the escrow.
func (service *ServiceCasino) wager(ctx context.Context, game models.Game, playerID, bet int64, winChance float64, multiplier int64) (*models.WagerResult, error) {
	if bet <= 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}
	if playerID == models.BANK_ID {
		return nil, errorx.Wrap(ErrInvalidRecipient, errorx.Validation)
	}

	if service.ratePerMinute > 0 {
		err := service.limiter.Allow(ctx, RateLimitKeyWager(playerID), redis_rate.PerMinute(service.ratePerMinute))
		if err != nil {
			return nil, err
		}
	}

	mutex := service.rs.NewMutex(LockKeyWager(playerID))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, errorx.Wrap(ErrWagerLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.UnlockContext(context.WithoutCancel(ctx))

	limit, err := service.serviceSolvency.TableLimit(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.WagerResult{Game: game, PlayerID: playerID, Bet: bet, TableLimit: limit}
	if bet > limit {
		result.Outcome = models.OutcomeTableLimitExceeded
		return result, nil
	}

	ok, err := service.serviceLedger.Transfer(ctx, playerID, models.BANK_ID, bet, models.TxKindBet)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = models.OutcomeInsufficientFunds
		return result, nil
	}

	if service.random.Float64() >= winChance {
		result.Outcome = models.OutcomeLost
		return result, nil
	}

	payout := bet * multiplier
	ok, err = service.serviceLedger.Payout(ctx, playerID, payout, models.TxKindCasinoWin)
	if err != nil {
		return nil, err
	}
	if !ok {
		service.logger.Error("bank cannot cover winnings", "game", game, "player_id", playerID, "bet", bet, "payout", payout)
		result.Outcome = models.OutcomeBankInsolvent
		return result, nil
	}

	result.Outcome = models.OutcomeWon
	result.Payout = payout
	return result, nil
}
