package datastore

import (
	"context"
	"database/sql"
	"errors"

	"bankroll/internal/models"

	"github.com/uptrace/bun"
)

const genesisRowID = 1

func CreateTableGenesis(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Genesis)(nil)).IfNotExists().Exec(ctx)
	return err
}

// MintGenesis credits supply into the Bank exactly once. The genesis row is
// the guard: later calls find it and mint nothing.
func MintGenesis(ctx context.Context, db *bun.DB, supply int64) (bool, error) {
	minted := false
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(&models.Genesis{ID: genesisRowID, Supply: supply}).
			On("CONFLICT (id) DO NOTHING").
			Returning("NULL").
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}

		if err := EnsureAccount(ctx, tx, models.BANK_ID); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*models.Account)(nil)).
			Set("balance = balance + ?", supply).
			Set("updated_at = current_timestamp").
			Where("id = ?", models.BANK_ID).
			Exec(ctx)
		if err != nil {
			return err
		}

		if _, err := InsertAccountBadge(ctx, tx, models.BANK_ID, models.BadgeCentralBank); err != nil {
			return err
		}

		minted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return minted, nil
}

func GetGenesisSupply(ctx context.Context, db *bun.DB) (int64, error) {
	var genesis models.Genesis
	err := db.NewSelect().Model(&genesis).Where("id = ?", genesisRowID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return genesis.Supply, nil
}
