package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/florist/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

// Api describes the remote storefront backend.
type Api struct {
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Token   string        `mapstructure:"token"    json:"-"`
	Timeout time.Duration `mapstructure:"timeout"  json:"timeout"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

type Payment struct {
	ReturnURL      string `mapstructure:"return_url"      json:"return_url"`
	Language       string `mapstructure:"language"        json:"language"`
	VnpayCurrency  string `mapstructure:"vnpay_currency"  json:"vnpay_currency"`
	PaypalCurrency string `mapstructure:"paypal_currency" json:"paypal_currency"`
}

type Pricing struct {
	CacheEnabled bool          `mapstructure:"cache_enabled" json:"cache_enabled"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"     json:"cache_ttl"`
	Bucket       time.Duration `mapstructure:"bucket"        json:"bucket"`
}

type Session struct {
	Storage   string `mapstructure:"storage"    json:"storage"`
	KeyPrefix string `mapstructure:"key_prefix" json:"key_prefix"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Api         `mapstructure:"api"         json:"api"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Payment     `mapstructure:"payment"     json:"payment"`
	Pricing     `mapstructure:"pricing"     json:"pricing"`
	Session     `mapstructure:"session"     json:"session"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "localhost")
	v.SetDefault("application.port", 8080)

	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", time.Duration(0))

	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.database", 0)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)

	v.SetDefault("payment.return_url", "http://localhost:8080/checkout/vnpay-return")
	v.SetDefault("payment.language", "vn")
	v.SetDefault("payment.vnpay_currency", "VND")
	v.SetDefault("payment.paypal_currency", "USD")

	v.SetDefault("pricing.cache_enabled", false)
	v.SetDefault("pricing.cache_ttl", 30*time.Second)
	v.SetDefault("pricing.bucket", time.Minute)

	v.SetDefault("session.storage", "redis")
	v.SetDefault("session.key_prefix", "florist")
}

// Load reads ./env/<filename>.yaml on top of the defaults. A missing file
// is not an error; every key can also come from FLORIST_* env variables.
func Load(c context.Context, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str(log.KeyProcess, "reading config").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("florist")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger.Info().Msg("reading config")
	err := v.ReadInConfig()
	if err != nil {
		notFound := viper.ConfigFileNotFoundError{}
		if !errors.As(err, &notFound) {
			err = fmt.Errorf("failed reading config with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Warn().Msg("config file not found, using defaults and environment")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	err = v.Unmarshal(&cfg)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Any(log.KeyConfig, cfg).Msg("unmarshaled config")

	return &cfg, nil
}

// InitConfig loads the config once per process and exits on failure.
func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		cfg, err := Load(c, filename)
		if err != nil {
			zerolog.Ctx(c).Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
	})
	return config
}
