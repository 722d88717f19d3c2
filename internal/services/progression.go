package services

import (
	"context"
	"log/slog"
	"time"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceProgression struct {
	container *do.Injector
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher
	logger    *slog.Logger
}

func NewServiceProgression(container *do.Injector) (*ServiceProgression, error) {
	store, err := do.Invoke[interfaces.LedgerStore](container)
	if err != nil {
		return nil, err
	}

	publisher, err := do.Invoke[interfaces.EventPublisher](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceProgression{container, store, publisher, logger}, nil
}

// AddXP credits xp and, when a level threshold is crossed, grants the level
// badges and publishes a level-up event.
func (service *ServiceProgression) AddXP(ctx context.Context, accountID int64, amount int64) (*models.LevelChange, error) {
	if amount < 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}

	change, err := service.store.AddXP(ctx, accountID, amount)
	if err != nil {
		return nil, err
	}

	if !change.LeveledUp() {
		return change, nil
	}

	for _, badge := range models.LevelBadges(change.Level) {
		if _, err := service.store.GrantBadge(ctx, accountID, badge); err != nil {
			return nil, err
		}
	}

	err = service.publisher.Publish(ctx, &models.Event{
		Type:      models.EventLevelUp,
		AccountID: accountID,
		Level:     change.Level,
		PrevLevel: change.PrevLevel,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		service.logger.Warn("publish level up", "account_id", accountID, "level", change.Level, "error", err)
	}

	return change, nil
}

// CheckRichBadge grants the Rich badge once a balance reaches the threshold.
func (service *ServiceProgression) CheckRichBadge(ctx context.Context, accountID int64) error {
	if accountID == models.BANK_ID {
		return nil
	}

	balance, err := service.store.Balance(ctx, accountID)
	if err != nil {
		return err
	}
	if balance < models.RICH_BADGE_BALANCE {
		return nil
	}

	_, err = service.store.GrantBadge(ctx, accountID, models.BadgeRich)
	return err
}
