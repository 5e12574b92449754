package dbx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM t;`)
	require.NoError(t, err)
	return db
}

func insertAndCount(t *testing.T, h DBTX) int {
	t.Helper()
	ctx := context.Background()
	_, err := h.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
	require.NoError(t, err)
	var n int
	require.NoError(t, h.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestDBTX_PoolHandle(t *testing.T) {
	db := setupDB(t)
	require.Equal(t, 1, insertAndCount(t, db))
}

func TestDBTX_TransactionHandle(t *testing.T) {
	db := setupDB(t)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, insertAndCount(t, tx))
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	require.Equal(t, 0, n, "rolled-back insert must not be visible")
}
