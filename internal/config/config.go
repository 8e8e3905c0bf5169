// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	OTP       OTPConfig       `mapstructure:"otp"`
	AI        AIConfig        `mapstructure:"ai"`
	Countries CountriesConfig `mapstructure:"countries"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// 快照存储后端。
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendMinIO  = "minio"
)

// StorageConfig 决定两个持久化快照（auth-storage / chat-storage）写到哪里。
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SQLiteConfig 存储本地 SQLite 文件的配置。
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// KafkaConfig 存储 Kafka 相关的配置。Enabled 为 false 时不发布事件。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// JWTConfig 存储 OTP challenge token 的签名配置。
type JWTConfig struct {
	Secret              string `mapstructure:"secret"`
	ChallengeTTLMinutes int    `mapstructure:"challenge_ttl_minutes"`
}

// OTPConfig 控制模拟短信验证码的延迟。
type OTPConfig struct {
	SendDelay   time.Duration `mapstructure:"send_delay"`
	VerifyDelay time.Duration `mapstructure:"verify_delay"`
}

// AIConfig 控制模拟 AI 回复的节奏。
type AIConfig struct {
	MinThinking         time.Duration `mapstructure:"min_thinking"`
	MaxThinking         time.Duration `mapstructure:"max_thinking"`
	MinTyping           time.Duration `mapstructure:"min_typing"`
	MaxTyping           time.Duration `mapstructure:"max_typing"`
	FollowUpProbability float64       `mapstructure:"follow_up_probability"`
}

// CountriesConfig 存储国家目录服务的配置。
type CountriesConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig 限制验证码发送频率。
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}

// ChatConfig 存储聊天视图相关的配置。
type ChatConfig struct {
	PageSize      int   `mapstructure:"page_size"`
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}

// TelemetryConfig 控制 OpenTelemetry 导出。
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ChallengeTTL 返回 challenge token 的有效期。
func (c JWTConfig) ChallengeTTL() time.Duration {
	return time.Duration(c.ChallengeTTLMinutes) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.key_prefix", "chatshell:")
	v.SetDefault("database.sqlite.path", "chatshell.db")
	v.SetDefault("database.redis.addr", "127.0.0.1:6379")
	v.SetDefault("minio.bucket_name", "chatshell")

	v.SetDefault("kafka.topic", "chatshell-events")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.challenge_ttl_minutes", 10)

	v.SetDefault("otp.send_delay", 2*time.Second)
	v.SetDefault("otp.verify_delay", 1500*time.Millisecond)

	v.SetDefault("ai.min_thinking", time.Second)
	v.SetDefault("ai.max_thinking", 3*time.Second)
	v.SetDefault("ai.min_typing", 500*time.Millisecond)
	v.SetDefault("ai.max_typing", 2*time.Second)
	v.SetDefault("ai.follow_up_probability", 0.3)

	v.SetDefault("countries.url", "https://restcountries.com/v3.1/all?fields=name,idd,flag,cca2")
	v.SetDefault("countries.timeout", 5*time.Second)
	v.SetDefault("countries.cache_ttl", time.Hour)

	v.SetDefault("rate_limit.per_minute", 5)
	v.SetDefault("rate_limit.burst", 3)

	v.SetDefault("chat.page_size", 20)
	v.SetDefault("chat.max_image_bytes", 5*1024*1024)

	v.SetDefault("telemetry.dir", "logs")
}

// Load 从指定的 YAML 文件加载配置，环境变量（CHATSHELL_ 前缀）可覆盖任意键。
// 配置文件不存在时只使用默认值与环境变量。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHATSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	Conf = cfg
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendMySQL, BackendSQLite, BackendMinIO:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendMySQL && c.Database.MySQL.DSN == "" {
		return errors.New("storage backend mysql requires database.mysql.dsn")
	}
	if c.Kafka.Enabled && c.Kafka.Brokers == "" {
		return errors.New("kafka enabled but kafka.brokers is empty")
	}
	if c.AI.MaxThinking < c.AI.MinThinking || c.AI.MaxTyping < c.AI.MinTyping {
		return errors.New("ai delay bounds are inverted")
	}
	if c.Chat.PageSize <= 0 {
		c.Chat.PageSize = 20
	}
	return nil
}
