package services

import (
	"context"
	"strconv"

	"bankroll/internal/interfaces"
	"bankroll/internal/pkg/caching"

	"github.com/samber/do"
)

type ServiceConfig struct {
	container *do.Injector
	store     interfaces.ConfigStore
	cache     caching.Cache
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	store, err := do.Invoke[interfaces.ConfigStore](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, store, cache}, nil
}

func (service *ServiceConfig) GetStringConfig(ctx context.Context, key string, defaultValue string) (string, error) {
	callback := func() (string, error) {
		value, ok, err := service.store.Config(ctx, key)
		if err != nil {
			return defaultValue, err
		}
		if !ok {
			return defaultValue, nil
		}
		return value, nil
	}

	value, err := caching.Remember(ctx, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := service.GetStringConfig(ctx, key, strconv.Itoa(defaultValue))
	if err != nil {
		return defaultValue, err
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, err
	}

	return intValue, nil
}

// SetConfig writes key and drops its cached value.
func (service *ServiceConfig) SetConfig(ctx context.Context, key, value string, overwrite bool) error {
	if err := service.store.SetConfig(ctx, key, value, overwrite); err != nil {
		return err
	}
	return service.cache.Delete(ctx, DBKeyConfig(key))
}

// SeedDefaults fills the runtime settings that have no stored value yet.
func (service *ServiceConfig) SeedDefaults(ctx context.Context) error {
	defaults := map[string]string{
		CONFIG_CRONJOB_TIME_PASSIVE_INCOME: DEFAULT_CRON_PASSIVE_INCOME,
		CONFIG_CRONJOB_TIME_RAIN_SWEEP:     DEFAULT_CRON_RAIN_SWEEP,
		CONFIG_LEADERBOARD_LIMIT:           strconv.Itoa(LEADERBOARD_DEFAULT_LIMIT),
	}
	for key, value := range defaults {
		if err := service.SetConfig(ctx, key, value, false); err != nil {
			return err
		}
	}
	return nil
}
