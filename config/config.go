package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 课程目录来源
const (
	CatalogSourceFile     = "file"
	CatalogSourceDatabase = "database"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置；Addr 为空时不启用
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 校验配置（令牌由外部认证服务签发）
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // stdout / stderr / 文件路径
}

// CatalogConfig 参考数据来源
// Source=file 时读取 Path 指向的 YAML（为空则使用内置数据）；
// Source=database 时课程、专业、AP 表从数据库读取，推荐规则仍来自 YAML。
type CatalogConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// OptimizerConfig 远程排课优化服务
type OptimizerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// ScheduleConfig 周课表网格与选课计划限制
type ScheduleConfig struct {
	SlotMinutes          int    `mapstructure:"slot_minutes"`
	DayStart             string `mapstructure:"day_start"`
	DayEnd               string `mapstructure:"day_end"`
	MaxCreditsPerQuarter int    `mapstructure:"max_credits_per_quarter"`
	MinCreditsPerQuarter int    `mapstructure:"min_credits_per_quarter"`
	MaxCoursesPerQuarter int    `mapstructure:"max_courses_per_quarter"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	ProgressTTL time.Duration `mapstructure:"progress_ttl"`
}

// RateLimitConfig 限流配置（按客户端 IP）
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "study_strata")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Los_Angeles")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "")

	v.SetDefault("optimizer.base_url", "http://localhost:8000")
	v.SetDefault("optimizer.timeout", "30s")
	v.SetDefault("optimizer.lock_ttl", "2m")

	v.SetDefault("schedule.slot_minutes", 30)
	v.SetDefault("schedule.day_start", "08:00")
	v.SetDefault("schedule.day_end", "20:00")
	v.SetDefault("schedule.max_credits_per_quarter", 24)
	v.SetDefault("schedule.min_credits_per_quarter", 8)
	v.SetDefault("schedule.max_courses_per_quarter", 6)

	v.SetDefault("cache.progress_ttl", "10m")

	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", "1m")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 无默认值的敏感项需显式绑定，否则 Unmarshal 读不到环境变量
	for _, key := range []string{"auth.jwt_secret", "optimizer.api_key"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Catalog.Source {
	case CatalogSourceFile, CatalogSourceDatabase:
	default:
		return fmt.Errorf("配置校验失败: catalog.source 只能为 file 或 database, 实际 %q", c.Catalog.Source)
	}
	if c.Schedule.SlotMinutes <= 0 {
		return fmt.Errorf("配置校验失败: schedule.slot_minutes 必须为正")
	}
	return nil
}
