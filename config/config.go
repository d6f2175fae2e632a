package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Upload    UploadConfig    `mapstructure:"upload"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Trace     TraceConfig     `mapstructure:"trace"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres / sqlite
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	// SessionTTL 会话有效期
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// AdminConfig 管理后台登录凭证（服务端校验，密码存 bcrypt 哈希）
type AdminConfig struct {
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"` // bytes
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type TraceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load 读取配置：config.yaml + HINT_ 前缀环境变量覆盖
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("HINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时退回默认值 + 环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "hint.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("auth.cookie_name", "hint_session")
	v.SetDefault("admin.token_ttl", 30*time.Minute)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 5*1024*1024)
	v.SetDefault("ratelimit.rps", 10)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.endpoint", "localhost:4318")
}
