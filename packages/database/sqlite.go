package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SQLiteConfig SQLite 配置，用于本地开发和测试
type SQLiteConfig struct {
	ServiceName string // 服务名称，用于日志标识
	Path        string // 数据库文件路径，":memory:" 为内存库
	LogLevel    string // 日志级别: silent, error, warn, info
}

// LowerFunc SQLite 内置的 LOWER 只转换 ASCII，该函数按 Unicode 转小写
const LowerFunc = "unicode_lower"

var registerOnce sync.Once

// registerFunctions 只对之后打开的连接生效
func registerFunctions() {
	registerOnce.Do(func() {
		err := gosqlite.RegisterDeterministicScalarFunction(LowerFunc, 1,
			func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case string:
					return strings.ToLower(v), nil
				case []byte:
					return strings.ToLower(string(v)), nil
				default:
					return v, nil
				}
			})
		if err != nil {
			log.Warn().Err(err).Str("func", LowerFunc).Msg("注册 SQLite 函数失败")
		}
	})
}

// InitSQLite 初始化 SQLite 连接
// 内存库只保留一个连接，否则每个连接看到的是各自独立的库
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.Path == "" {
		config.Path = "guideline-wiki.db"
	}
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	registerFunctions()

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: getLogger(config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %v", err)
	}

	maxOpen := 10
	if isMemory(config.Path) {
		maxOpen = 1
	}
	if err := configurePool(db, maxOpen, maxOpen, 0); err != nil {
		return nil, err
	}

	log.Debug().Str("service", serviceName(config.ServiceName)).Str("driver", "sqlite").Str("path", config.Path).Msg("数据库连接成功")
	return db, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
