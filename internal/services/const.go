package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidTier      = errors.New("amount is not an allowed rain tier")
	ErrInvalidDelay     = errors.New("delay is not an allowed rain delay")
	ErrUnknownItem      = errors.New("unknown item")
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrEmptyScope       = errors.New("no eligible recipients")
	ErrNotInScope       = errors.New("sender is not a member of the scope")

	ErrWagerLock         = errors.New("wager in progress")
	ErrPurchaseLock      = errors.New("purchase in progress")
	ErrPassiveIncomeLock = errors.New("passive income tick in progress")
	ErrDistributionLock  = errors.New("distribution sweep in progress")
)

const (
	CONFIG_CRONJOB_TIME_PASSIVE_INCOME = "CRONJOB_TIME_PASSIVE_INCOME"
	CONFIG_CRONJOB_TIME_RAIN_SWEEP     = "CRONJOB_TIME_RAIN_SWEEP"
	CONFIG_LEADERBOARD_LIMIT           = "LEADERBOARD_LIMIT"

	ENV_PAYMENT_TAX_PERCENT         = "PAYMENT_TAX_PERCENT"
	ENV_WAGER_RATE_LIMIT_PER_MINUTE = "WAGER_RATE_LIMIT_PER_MINUTE"

	DEFAULT_CRON_PASSIVE_INCOME = "@every 1m"
	DEFAULT_CRON_RAIN_SWEEP     = "@every 1m"

	TABLE_LIMIT_DIVISOR = 1000

	COINFLIP_WIN_CHANCE         = 0.5
	COINFLIP_PAYOUT_MULTIPLIER  = 2
	SLOTS_WIN_CHANCE            = 0.05
	SLOTS_PAYOUT_MULTIPLIER     = 10
	SLOTS_REEL_SIZE             = 3
	WAGER_RATE_LIMIT_PER_MINUTE = 30

	PASSIVE_XP              = 1
	PASSIVE_INCOME_BASE     = 1
	PASSIVE_INCOME_LEVEL_10 = 2
	PASSIVE_INCOME_LEVEL_20 = 3

	RAIN_SWEEP_BATCH = 100

	LEADERBOARD_DEFAULT_LIMIT = 10
	TRANSACTIONS_LIMIT        = 20

	LOCK_EXPIRY_TICK = 5 * time.Minute

	CACHE_TTL_1_MIN  = 1 * time.Minute
	CACHE_TTL_5_MINS = 5 * time.Minute
	CACHE_TTL_1_HOUR = 1 * time.Hour
)

var (
	RainTiers  = []int64{120, 480, 980, 4800}
	RainDelays = []time.Duration{0, 5 * time.Minute, 10 * time.Minute, 15 * time.Minute}

	SlotSymbols = []string{"🍒", "🍋", "🍇", "💎", "7️⃣"}
)

func LockKeyWager(accountID int64) string {
	return fmt.Sprintf("lock:wager:%d", accountID)
}

func LockKeyPurchase(accountID int64) string {
	return fmt.Sprintf("lock:purchase:%d", accountID)
}

func LockKeyPassiveIncome() string {
	return "lock:passive-income"
}

func LockKeyRainSweep() string {
	return "lock:rain-sweep"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", key)
}

func DBKeyShopCatalog() string {
	return "shop:catalog"
}

func DBKeyLeaderboard(limit int) string {
	return fmt.Sprintf("leaderboard:balance:%d", limit)
}

func RateLimitKeyWager(accountID int64) string {
	return fmt.Sprintf("ratelimit:wager:%d", accountID)
}

func envInt(vs map[string]string, key string, defaultValue int) int {
	v, ok := vs[key]
	if !ok || v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
