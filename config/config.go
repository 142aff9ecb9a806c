package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	API       API       `mapstructure:"api"`
	Backtest  Backtest  `mapstructure:"backtest"`
	Analytics Analytics `mapstructure:"analytics"`
	Cache     Cache     `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port      int           `mapstructure:"port"`
	RateLimit float64       `mapstructure:"rate_limit"`
	RateBurst int           `mapstructure:"rate_burst"`
	RateTTL   time.Duration `mapstructure:"rate_ttl"`
}

// Backtest mengatur engine simulasi dan eksekusi job backtest.
type Backtest struct {
	WarmupPeriod          int           `mapstructure:"warmup_period"`
	DefaultInitialCapital float64       `mapstructure:"default_initial_capital"`
	RiskFreeRate          float64       `mapstructure:"risk_free_rate"`
	TradingDaysPerYear    int           `mapstructure:"trading_days_per_year"`
	ProgressEvery         int           `mapstructure:"progress_every"`
	MaxConcurrency        int           `mapstructure:"max_concurrency"`
	TimeoutDuration       time.Duration `mapstructure:"timeout_duration"`
}

type Analytics struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	RollingWindow int     `mapstructure:"rolling_window"`
	HistogramBins int     `mapstructure:"histogram_bins"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_burst", 30)
	v.SetDefault("api.rate_ttl", 3*time.Minute)

	v.SetDefault("backtest.warmup_period", 50)
	v.SetDefault("backtest.default_initial_capital", 100000)
	v.SetDefault("backtest.risk_free_rate", 0.01)
	v.SetDefault("backtest.trading_days_per_year", 252)
	v.SetDefault("backtest.progress_every", 100)
	v.SetDefault("backtest.max_concurrency", 4)
	v.SetDefault("backtest.timeout_duration", 10*time.Minute)

	v.SetDefault("analytics.risk_free_rate", 0.02)
	v.SetDefault("analytics.rolling_window", 30)
	v.SetDefault("analytics.histogram_bins", 50)

	v.SetDefault("cache.default_expiration", time.Hour)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
}

// Load reads .env (optional), then config.yaml from the given paths (default "."),
// then environment overrides such as BACKTEST_MAX_CONCURRENCY.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
