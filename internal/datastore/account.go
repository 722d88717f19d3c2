package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bankroll/internal/models"

	"github.com/uptrace/bun"
)

var errRollback = errors.New("rollback")

func CreateTableAccount(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Account)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Account)(nil)).Index("index_account_balance").IfNotExists().Column("balance").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableAccountBadge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AccountBadge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AccountBadge)(nil)).Index("index_account_badge_account_id_badge").IfNotExists().Unique().Column("account_id", "badge").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableAccountItem(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AccountItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AccountItem)(nil)).Index("index_account_item_account_id_item").IfNotExists().Unique().Column("account_id", "item").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func EnsureAccount(ctx context.Context, db bun.IDB, id int64) error {
	_, err := db.NewInsert().
		Model(&models.Account{ID: id, Level: 1}).
		On("CONFLICT (id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	return err
}

// lockAccounts takes the row locks of ids in id order, so transfers over the
// same pair queue on the same row whichever way they run.
func lockAccounts(db bun.IDB, ids ...int64) *bun.SelectQuery {
	return db.NewSelect().
		Model((*models.Account)(nil)).
		Column("id").
		Where("id IN (?)", bun.In(ids)).
		Order("id ASC").
		For("UPDATE")
}

// Transfer moves amount from one account to another inside a single
// transaction. Both rows are locked up front and the debit is a conditional
// update, so concurrent debits of the same row can never overdraw it.
func Transfer(ctx context.Context, db *bun.DB, from, to, amount int64, kind models.TxKind) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	var ok bool
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		ok, err = transfer(ctx, tx, from, to, amount, kind)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("transfer %d -> %d: %w", from, to, err)
	}

	return ok, nil
}

func transfer(ctx context.Context, tx bun.Tx, from, to, amount int64, kind models.TxKind) (bool, error) {
	var locked []int64
	if err := lockAccounts(tx, from, to).Scan(ctx, &locked); err != nil {
		return false, err
	}

	res, err := tx.NewUpdate().
		Model((*models.Account)(nil)).
		Set("balance = balance - ?", amount).
		Set("updated_at = current_timestamp").
		Where("id = ?", from).
		Where("balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := EnsureAccount(ctx, tx, to); err != nil {
		return false, err
	}

	_, err = tx.NewUpdate().
		Model((*models.Account)(nil)).
		Set("balance = balance + ?", amount).
		Set("updated_at = current_timestamp").
		Where("id = ?", to).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	if err := InsertTransaction(ctx, tx, models.NewTransaction(from, to, amount, kind)); err != nil {
		return false, err
	}

	return true, nil
}

func GetAccount(ctx context.Context, db bun.IDB, id int64) (*models.Account, error) {
	var account models.Account
	err := db.NewSelect().Model(&account).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func GetBalance(ctx context.Context, db *bun.DB, id int64) (int64, error) {
	var balance int64
	err := db.NewSelect().Model((*models.Account)(nil)).Column("balance").Where("id = ?", id).Scan(ctx, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func AddAccountXP(ctx context.Context, db *bun.DB, id, amount int64) (*models.LevelChange, error) {
	change := &models.LevelChange{AccountID: id}
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := EnsureAccount(ctx, tx, id); err != nil {
			return err
		}

		var account models.Account
		err := tx.NewSelect().Model(&account).Where("id = ?", id).For("UPDATE").Scan(ctx)
		if err != nil {
			return err
		}

		change.XP = account.XP + amount
		change.PrevLevel = account.Level
		change.Level = max(account.Level, models.LevelForXP(change.XP))

		_, err = tx.NewUpdate().
			Model((*models.Account)(nil)).
			Set("xp = ?", change.XP).
			Set("level = ?", change.Level).
			Set("updated_at = current_timestamp").
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

func InsertAccountBadge(ctx context.Context, db bun.IDB, id int64, badge models.Badge) (bool, error) {
	res, err := db.NewInsert().
		Model(&models.AccountBadge{AccountID: id, Badge: badge}).
		On("CONFLICT (account_id, badge) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func GetAccountBadges(ctx context.Context, db *bun.DB, id int64) ([]models.Badge, error) {
	var values []string
	err := db.NewSelect().
		Model((*models.AccountBadge)(nil)).
		Column("badge").
		Where("account_id = ?", id).
		Order("id ASC").
		Scan(ctx, &values)
	if err != nil {
		return nil, err
	}

	badges := make([]models.Badge, 0, len(values))
	for _, v := range values {
		badges = append(badges, models.Badge(v))
	}
	return badges, nil
}

// PurchaseItem inserts the ownership row and debits the price in one
// transaction. A failed debit rolls the ownership row back.
func PurchaseItem(ctx context.Context, db *bun.DB, id int64, item string, price int64) (models.Outcome, error) {
	outcome := models.OutcomePurchased
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(&models.AccountItem{AccountID: id, Item: item}).
			On("CONFLICT (account_id, item) DO NOTHING").
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
			outcome = models.OutcomeAlreadyOwned
			return nil
		}

		ok, err := transfer(ctx, tx, id, models.BANK_ID, price, models.TxKindShopBuy)
		if err != nil {
			return err
		}
		if !ok {
			outcome = models.OutcomeInsufficientFunds
			return errRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return "", err
	}

	return outcome, nil
}

func GetAccountItems(ctx context.Context, db *bun.DB, id int64) ([]string, error) {
	var items []string
	err := db.NewSelect().
		Model((*models.AccountItem)(nil)).
		Column("item").
		Where("account_id = ?", id).
		Order("id ASC").
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func GetTopAccounts(ctx context.Context, db *bun.DB, limit int) ([]*models.LeaderboardItem, error) {
	var items []*models.LeaderboardItem
	err := db.NewSelect().
		Model((*models.Account)(nil)).
		Column("id", "balance", "level").
		Where("id != ?", models.BANK_ID).
		Order("balance DESC", "id ASC").
		Limit(limit).
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func GetTotalSupply(ctx context.Context, db *bun.DB) (int64, error) {
	var total int64
	err := db.NewSelect().
		Model((*models.Account)(nil)).
		ColumnExpr("COALESCE(SUM(balance), 0)").
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
