package services

import (
	"context"
	"log/slog"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceShop struct {
	container *do.Injector
	rs        *redsync.Redsync
	store     interfaces.LedgerStore
	cache     caching.Cache
	logger    *slog.Logger
}

func NewServiceShop(container *do.Injector) (*ServiceShop, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

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

	return &ServiceShop{container, rs, store, cache, logger}, nil
}

func (service *ServiceShop) Catalog(ctx context.Context) ([]models.ShopCategory, error) {
	return caching.Remember(ctx, service.cache, DBKeyShopCatalog(), CACHE_TTL_1_HOUR, func() ([]models.ShopCategory, error) {
		return models.CatalogByCategory(), nil
	})
}

// Purchase buys item for the account. Price goes to the Bank and an item can
// only be owned once.
func (service *ServiceShop) Purchase(ctx context.Context, accountID int64, key string) (*models.PurchaseResult, error) {
	item, ok := models.FindItem(key)
	if !ok {
		return nil, errorx.Wrap(ErrUnknownItem, errorx.NotExist)
	}
	if accountID == models.BANK_ID {
		return nil, errorx.Wrap(ErrInvalidRecipient, errorx.Validation)
	}

	mutex := service.rs.NewMutex(LockKeyPurchase(accountID))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, errorx.Wrap(ErrPurchaseLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.UnlockContext(context.WithoutCancel(ctx))

	outcome, err := service.store.Purchase(ctx, accountID, item.Key, item.Price)
	if err != nil {
		return nil, err
	}

	if outcome == models.OutcomePurchased {
		service.logger.Info("item purchased", "account_id", accountID, "item", item.Key, "price", item.Price)
	}

	return &models.PurchaseResult{AccountID: accountID, Item: item, Outcome: outcome}, nil
}

func (service *ServiceShop) Inventory(ctx context.Context, accountID int64) ([]*models.Item, error) {
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
	return items, nil
}
