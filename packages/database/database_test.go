package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	c := &PostgresConfig{}
	setDefaults(c)

	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, 5432, c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10, c.MaxIdleConns)
	assert.Equal(t, 100, c.MaxOpenConns)
	assert.Equal(t, time.Hour, c.ConnMaxLifetime)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		ssl  bool
		want string
	}{
		{"关闭 SSL", false, "host=db user=wiki password=secret dbname=guidelines port=5432 sslmode=disable"},
		{"开启 SSL", true, "host=db user=wiki password=secret dbname=guidelines port=5432 sslmode=require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildDSN(&PostgresConfig{
				Host:     "db",
				Username: "wiki",
				Password: "secret",
				Database: "guidelines",
				Port:     5432,
				SSLMode:  tt.ssl,
			})
			assert.Equal(t, tt.want, dsn)
		})
	}
}

func TestInitSQLite_Memory(t *testing.T) {
	db, err := InitSQLite(&SQLiteConfig{ServiceName: "test", Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, sqlDB.Ping())
}

func TestInitNilConfig(t *testing.T) {
	_, err := InitPostgres(nil)
	assert.Error(t, err)

	_, err = InitSQLite(nil)
	assert.Error(t, err)

	_, err = InitRedis(nil)
	assert.Error(t, err)
}
