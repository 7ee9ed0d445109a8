// Package config 配置管理
// 加载顺序: .env -> config.yaml -> 环境变量（SERVER_PORT 覆盖 server.port）
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"terminal-terrace/guideline-wiki/packages/email"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server      ServerConfig   `koanf:"server"`
	Database    DatabaseConfig `koanf:"database"`
	Redis       RedisConfig    `koanf:"redis"`
	Log         LogConfig      `koanf:"log"`
	JWT         JWTConfig      `koanf:"jwt"`
	Upload      UploadConfig   `koanf:"upload"`
	SMTP        email.Config   `koanf:"smtp"`
	GRPC        GRPCConfig     `koanf:"grpc"`
	Admin       AdminConfig    `koanf:"admin"`
	FrontendURL string         `koanf:"frontend_url"`
	BaseURL     string         `koanf:"base_url"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres, sqlite
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"` // sqlite 时为文件路径
	DSN          string `koanf:"dsn"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Secret       string `koanf:"secret"`
	ExpireTime   int    `koanf:"expire_time"` // 小时
	CookieSecure bool   `koanf:"cookie_secure"`
}

func (j JWTConfig) TTL() time.Duration {
	if j.ExpireTime <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpireTime) * time.Hour
}

type UploadConfig struct {
	Dir       string `koanf:"dir"`        // 存储目录
	URLPrefix string `koanf:"url_prefix"` // 对外访问前缀
	MaxSizeMB int64  `koanf:"max_size_mb"`
}

type GRPCConfig struct {
	Port int `koanf:"port"` // 0 表示不启动
}

// AdminConfig 启动时若不存在任何管理员则用它创建
type AdminConfig struct {
	Name     string `koanf:"name"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.Debug().Err(envErr).Msg("未加载 .env 文件")
		}

		k = koanf.New(".")
		Conf, err = load(configPath)
	})

	return err
}

func load(configPath string) (*AppConfig, error) {
	// 加载配置文件
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}

	// 加载环境变量（会覆盖配置文件），只接受已知前缀
	prefixes := []string{"SERVER_", "DATABASE_", "REDIS_", "LOG_", "JWT_", "UPLOAD_", "SMTP_", "GRPC_", "ADMIN_"}
	if err := k.Load(env.Provider("", ".", func(s string) string {
		for _, p := range prefixes {
			if strings.HasPrefix(s, p) {
				return envKey(s)
			}
		}
		if s == "FRONTEND_URL" || s == "BASE_URL" {
			return strings.ToLower(s)
		}
		return ""
	}), nil); err != nil {
		log.Warn().Err(err).Msg("加载环境变量失败")
	}

	// 解析到结构体
	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// envKey 只把第一个下划线当作层级分隔符: JWT_EXPIRE_TIME -> jwt.expire_time
func envKey(s string) string {
	s = strings.ToLower(s)
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + rest
}

func applyDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	// 转换时间单位
	c.Server.ReadTimeout = c.Server.ReadTimeout * time.Second
	c.Server.WriteTimeout = c.Server.WriteTimeout * time.Second

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "public/uploads"
	}
	if c.Upload.URLPrefix == "" {
		c.Upload.URLPrefix = "/uploads"
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.FrontendURL == "" {
		c.FrontendURL = "http://localhost:5173"
	}
}

// Validate 校验必填项
func (c *AppConfig) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret 不能为空")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	return nil
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatal().Err(err).Msg("配置加载失败")
	}
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		log.Fatal().Msg("配置未初始化")
	}
	return k.String(key)
}

// Reload 重新加载配置
func Reload(configPath string) error {
	if k == nil {
		return fmt.Errorf("配置未初始化")
	}

	conf, err := load(configPath)
	if err != nil {
		return err
	}
	Conf = conf
	return nil
}
