package datastore

import (
	"context"
	"time"

	"bankroll/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func CreateTablePendingDistribution(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PendingDistribution)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PendingDistribution)(nil)).Index("index_pending_distribution_due_time").IfNotExists().Column("due_time").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPendingDistribution(ctx context.Context, db *bun.DB, pending *models.PendingDistribution) error {
	_, err := db.NewInsert().Model(pending).Exec(ctx)
	return err
}

func GetDuePendingDistributions(ctx context.Context, db *bun.DB, now time.Time, limit int) ([]*models.PendingDistribution, error) {
	var pendings []*models.PendingDistribution
	err := db.NewSelect().
		Model(&pendings).
		Where("due_time <= ?", now).
		Order("due_time ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return pendings, nil
}

// DeletePendingDistribution is the claim step of the sweep: only the caller
// whose delete hits the row executes it.
func DeletePendingDistribution(ctx context.Context, db *bun.DB, id uuid.UUID) (bool, error) {
	res, err := db.NewDelete().Model((*models.PendingDistribution)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func CountPendingDistributions(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().Model((*models.PendingDistribution)(nil)).Count(ctx)
}
