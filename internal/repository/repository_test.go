package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stylish/clothing-store/internal/database"
	"github.com/stylish/clothing-store/internal/model"
)

// newTestDB opens a throwaway SQLite database with the full schema
// applied. Every repository works against both drivers, so the SQLite
// file is enough to exercise the real queries.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) *model.User {
	t.Helper()
	u, err := NewUserRepo(db).Create(context.Background(), username, username+"@example.com", "pw123456", nil, bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func seedCategory(t *testing.T, db *sql.DB, name string) *model.Category {
	t.Helper()
	c, err := NewCategoryRepo(db).Create(context.Background(), name, nil)
	require.NoError(t, err)
	return c
}

func seedSubcategory(t *testing.T, db *sql.DB, name string, categoryID uint64) *model.Subcategory {
	t.Helper()
	s, err := NewSubcategoryRepo(db).Create(context.Background(), name, categoryID)
	require.NoError(t, err)
	return s
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
