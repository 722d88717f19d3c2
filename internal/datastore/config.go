package datastore

import (
	"context"

	"bankroll/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableConfig(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	return err
}

// UpsertConfig only fills missing keys unless overwrite is set, so a reseed
// never clobbers values an operator changed.
func UpsertConfig(ctx context.Context, db *bun.DB, config *models.Config, overwrite bool) error {
	q := db.NewInsert().Model(config)
	if overwrite {
		q = q.On("CONFLICT (key) DO UPDATE").Set("value = EXCLUDED.value").Set("updated_at = current_timestamp")
	} else {
		q = q.On("CONFLICT (key) DO NOTHING")
	}
	_, err := q.Exec(ctx)
	return err
}

func GetConfigByKey(ctx context.Context, db *bun.DB, key string) (*models.Config, error) {
	var config models.Config
	err := db.NewSelect().Model(&config).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}
