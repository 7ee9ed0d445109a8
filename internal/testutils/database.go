package testutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"terminal-terrace/guideline-wiki/internal/model"
	dbPkg "terminal-terrace/guideline-wiki/packages/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupTestDB 为每个测试创建独立的内存 SQLite 数据库并迁移所有表
// 设置 TEST_DATABASE_DSN 时改用 PostgreSQL，测试结束后回滚
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		return setupPostgres(t, dsn)
	}

	// 每个测试一个命名的共享内存库，互不干扰
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "guideline-wiki-test",
		Path:        path,
		LogLevel:    "silent",
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func setupPostgres(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	db, err := dbPkg.InitPostgres(&dbPkg.PostgresConfig{
		ServiceName: "guideline-wiki-test",
		DSN:         dsn,
		LogLevel:    "silent",
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// 事务内执行，测试结束自动回滚
	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return tx
}

// SetupTestRedis 连接测试用 Redis，不可用时返回 nil，调用方自行 Skip
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	port, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || port == 0 {
		port = 6380
	}

	client, err := dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "guideline-wiki-test",
		Host:        getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:        port,
	})
	if err != nil || client == nil {
		return nil
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
