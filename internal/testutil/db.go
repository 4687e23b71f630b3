// Package testutil 提供测试用数据库后端。默认使用内存 SQLite；
// 设置 EVENTHUB_TEST_POSTGRES_DSN 后同一套用例也会在 PostgreSQL 上执行。
package testutil

import (
	"os"
	"testing"

	"EventHub/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const PostgresDSNEnv = "EVENTHUB_TEST_POSTGRES_DSN"

// Backend 一个可用于测试的数据库后端
type Backend struct {
	Name string
	Open func(t *testing.T) *gorm.DB
}

// Backends 返回当前环境可用的全部后端
func Backends() []Backend {
	backends := []Backend{{Name: "sqlite", Open: OpenSQLite}}
	if os.Getenv(PostgresDSNEnv) != "" {
		backends = append(backends, Backend{Name: "postgres", Open: OpenPostgres})
	}
	return backends
}

// ForEachBackend 在每个后端上以子测试方式运行 fn
func ForEachBackend(t *testing.T, fn func(t *testing.T, db *gorm.DB)) {
	t.Helper()
	for _, b := range Backends() {
		b := b
		t.Run(b.Name, func(t *testing.T) {
			fn(t, b.Open(t))
		})
	}
}

// OpenSQLite 打开一个已迁移的内存库；单连接保证同一测试内看到同一个库
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db))
	return db
}

// OpenPostgres 连接测试库并清空所有表
func OpenPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open(os.Getenv(PostgresDSNEnv)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	truncate := func() {
		require.NoError(t, db.Exec("TRUNCATE examples, events, participants, questions, responses, messages, badges, participant_badges RESTART IDENTITY").Error)
	}
	truncate()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		truncate()
		_ = sqlDB.Close()
	})
	return db
}
