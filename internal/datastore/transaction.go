package datastore

import (
	"context"

	"bankroll/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Transaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Transaction)(nil)).Index("index_ledger_transaction_from_id").IfNotExists().Column("from_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Transaction)(nil)).Index("index_ledger_transaction_to_id").IfNotExists().Column("to_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Transaction)(nil)).Index("index_ledger_transaction_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertTransaction(ctx context.Context, db bun.IDB, transaction *models.Transaction) error {
	_, err := db.NewInsert().Model(transaction).Exec(ctx)
	return err
}

func GetTransactionsByAccount(ctx context.Context, db *bun.DB, id int64, limit int) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := db.NewSelect().
		Model(&transactions).
		Where("from_id = ? OR to_id = ?", id, id).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
