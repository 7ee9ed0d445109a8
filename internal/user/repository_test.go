package user

import (
	"context"
	"strings"
	"testing"

	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestLockAdminIDs(t *testing.T) {
	db := testutils.SetupTestDB(t)
	a1 := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))
	testutils.CreateTestUser(db)
	a2 := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))

	repo := NewUserRepository(db)
	var ids []uint
	err := repo.Transaction(context.Background(), func(tx *UserRepository) error {
		var err error
		ids, err = tx.LockAdminIDs(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID}, ids)
}

func TestLockAdminIDs_PostgresForUpdate(t *testing.T) {
	// DryRun 只生成 SQL，不连接数据库
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=wiki dbname=wiki"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var sql string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		sql = tx.Statement.SQL.String()
	}))

	_, err = NewUserRepository(db).LockAdminIDs(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "FOR UPDATE"), sql)
	assert.Contains(t, sql, "role = $1")
}
