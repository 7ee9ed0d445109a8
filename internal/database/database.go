package database

import (
	"fmt"
	"time"

	"terminal-terrace/guideline-wiki/config"
	"terminal-terrace/guideline-wiki/internal/model"
	"terminal-terrace/guideline-wiki/packages/database"

	"gorm.io/gorm"
)

const serviceName = "guideline-wiki"

var (
	DB      *gorm.DB
	RedisDB *database.RedisClient
)

// InitDatabase 连接数据库并迁移表结构，redis 可选
func InitDatabase() error {
	var err error
	DB, err = Open(config.Conf.Database)
	if err != nil {
		return err
	}

	// 初始化数据库表
	if err = model.InitTable(DB); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}

	if config.Conf.Redis.Enabled {
		RedisDB, err = OpenRedis(config.Conf.Redis)
		if err != nil {
			return err
		}
	}
	return nil
}

// Open 按 driver 打开数据库
func Open(conf config.DatabaseConfig) (*gorm.DB, error) {
	// 设置默认日志级别
	logLevel := conf.LogLevel
	if logLevel == "" {
		logLevel = "warn"
	}

	switch conf.Driver {
	case "sqlite":
		path := conf.Database
		if conf.DSN != "" {
			path = conf.DSN
		}
		return database.InitSQLite(&database.SQLiteConfig{
			ServiceName: serviceName,
			Path:        path,
			LogLevel:    logLevel,
		})
	case "postgres", "":
		return database.InitPostgres(&database.PostgresConfig{
			ServiceName:     serviceName,
			Username:        conf.Username,
			Password:        conf.Password,
			Host:            conf.Host,
			Port:            conf.Port,
			Database:        conf.Database,
			SSLMode:         conf.SSLMode,
			LogLevel:        logLevel,
			MaxIdleConns:    conf.MaxIdleConns,
			MaxOpenConns:    conf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
			DSN:             conf.DSN,
		})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", conf.Driver)
	}
}

func OpenRedis(conf config.RedisConfig) (*database.RedisClient, error) {
	return database.InitRedis(&database.RedisConfig{
		ServiceName: serviceName,
		Host:        conf.Host,
		Port:        conf.Port,
		Password:    conf.Password,
		DB:          conf.DB,
		PoolSize:    conf.PoolSize,
	})
}

// Close 关闭连接
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if RedisDB != nil {
		_ = RedisDB.Close()
	}
}
