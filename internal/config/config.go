package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode     Mode   `mapstructure:"mode"`
	HTTPAddr string `mapstructure:"http_addr"`
	SiteID   string `mapstructure:"site_id"`
	LogLevel string `mapstructure:"log_level"` // debug|info|warn|error

	DBDriver string `mapstructure:"db_driver"` // sqlite|postgres
	DBDSN    string `mapstructure:"db_dsn"`

	StoreDriver string `mapstructure:"store_driver"` // sql|redis|memory
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db"`

	HMACSecret     string        `mapstructure:"auth_hmac_secret"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// configured accounts; passwords are bcrypt hashes
	AdminUser       string `mapstructure:"admin_user"`
	AdminPassHash   string `mapstructure:"admin_pass_hash"`
	CreatorUser     string `mapstructure:"creator_user"`
	CreatorPassHash string `mapstructure:"creator_pass_hash"`
	StudentUser     string `mapstructure:"student_user"`
	StudentPassHash string `mapstructure:"student_pass_hash"`

	CORSOriginsOnline  []string `mapstructure:"-"`
	CORSOriginsOffline []string `mapstructure:"-"`
}

// Load reads an optional .env, then config/config.yaml if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("site_id", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("store_driver", "sql")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("auth_hmac_secret", "")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_pass_hash", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji")
	v.SetDefault("creator_user", "")
	v.SetDefault("creator_pass_hash", "")
	v.SetDefault("student_user", "")
	v.SetDefault("student_pass_hash", "")
	v.SetDefault("cors_origins_online", "https://courses.mindengage.ai")
	v.SetDefault("cors_origins_offline", "http://localhost:3000,http://localhost:3010,http://localhost:8501")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	cfg.CORSOriginsOnline = csv(v.GetString("cors_origins_online"))
	cfg.CORSOriginsOffline = csv(v.GetString("cors_origins_offline"))
	if cfg.HMACSecret == "" && cfg.Mode == ModeOffline {
		cfg.HMACSecret = "dev-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidConfig, c.DBDriver)
	}
	switch c.StoreDriver {
	case "sql", "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis store needs REDIS_ADDR", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.HMACSecret == "" {
		return fmt.Errorf("%w: AUTH_HMAC_SECRET is required in %s mode", ErrInvalidConfig, c.Mode)
	}
	return nil
}

// CORSOrigins returns the allowed origins for the current mode.
func (c *Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
