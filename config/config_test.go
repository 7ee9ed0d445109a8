package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  read_timeout: 10
database:
  driver: sqlite
  database: ":memory:"
jwt:
  secret: from-file
  expire_time: 12
`)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "25")
	t.Setenv("FRONTEND_URL", "http://wiki.example.com")

	k = koanf.New(".")
	conf, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.Server.Port)
	assert.Equal(t, 10*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, "from-env", conf.JWT.Secret)
	assert.Equal(t, 12*time.Hour, conf.JWT.TTL())
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, int64(25), conf.Upload.MaxSizeMB)
	assert.Equal(t, "public/uploads", conf.Upload.Dir)
	assert.Equal(t, "http://wiki.example.com", conf.FrontendURL)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"缺少 jwt.secret", "server:\n  port: 8080\n"},
		{"不支持的驱动", "jwt:\n  secret: x\ndatabase:\n  driver: mysql\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k = koanf.New(".")
			_, err := load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	k = koanf.New(".")
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "jwt.expire_time", envKey("JWT_EXPIRE_TIME"))
	assert.Equal(t, "database.max_open_conns", envKey("DATABASE_MAX_OPEN_CONNS"))
	assert.Equal(t, "server.port", envKey("SERVER_PORT"))
}

func TestJWTConfig_TTLDefault(t *testing.T) {
	assert.Equal(t, 24*time.Hour, JWTConfig{}.TTL())
}
