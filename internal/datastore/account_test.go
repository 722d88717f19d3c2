package datastore

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func TestLockAccountsOrdersRows(t *testing.T) {
	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector()), pgdialect.New())
	t.Cleanup(func() { db.Close() })

	query := lockAccounts(db, 7, 3).String()
	assert.Contains(t, query, "IN (7, 3)")
	assert.Contains(t, query, "ORDER BY")
	assert.Regexp(t, `ORDER BY .*id.* ASC FOR UPDATE$`, query)
	assert.Contains(t, query, "FOR UPDATE")
}
