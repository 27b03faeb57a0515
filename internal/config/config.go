package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Cookie string `mapstructure:"cookie"`
}

type StoreConfig struct {
	Driver   string        `mapstructure:"driver"`
	MongoURI string        `mapstructure:"mongo_uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type LiveKitConfig struct {
	URL       string        `mapstructure:"url"`
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether enough is configured to talk to LiveKit.
func (c LiveKitConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != "" && c.APISecret != ""
}

type MediaConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type JoinLimitConfig struct {
	Count    int           `mapstructure:"count"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode        string          `mapstructure:"mode"`
	Port        int             `mapstructure:"port"`
	LogLevel    string          `mapstructure:"log_level"`
	ReadLimit   int64           `mapstructure:"read_limit"`
	PingPeriod  time.Duration   `mapstructure:"ping_period"`
	SendBuffer  int             `mapstructure:"send_buffer"`
	GracePeriod time.Duration   `mapstructure:"grace_period"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Store       StoreConfig     `mapstructure:"store"`
	Redis       RedisConfig     `mapstructure:"redis"`
	LiveKit     LiveKitConfig   `mapstructure:"livekit"`
	Media       MediaConfig     `mapstructure:"media"`
	JoinLimit   JoinLimitConfig `mapstructure:"join_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("grace_period", "10s")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.cookie", "accessToken")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.database", "dicode")
	v.SetDefault("store.timeout", "5s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("livekit.url", "")
	v.SetDefault("livekit.api_key", "")
	v.SetDefault("livekit.api_secret", "")
	v.SetDefault("livekit.token_ttl", "2h")
	v.SetDefault("media.timeout", "5s")

	v.SetDefault("join_limit.count", 5)
	v.SetDefault("join_limit.interval", "10s")
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if it exists; DICODE_* environment variables
// override both the file and the defaults (auth.secret -> DICODE_AUTH_SECRET).
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("DICODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Store: %s | LiveKit: %t\n", cfg.Mode, cfg.Port, cfg.Store.Driver, cfg.LiveKit.Enabled())
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "mongo":
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if c.JoinLimit.Count <= 0 || c.JoinLimit.Interval <= 0 {
		return fmt.Errorf("join_limit must be positive")
	}
	return nil
}
