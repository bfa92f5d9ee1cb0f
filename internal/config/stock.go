package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StockConfig drives the low-stock flag on inventory listings. Thresholds are
// matched by unit; a listing whose available quantity falls at or below the
// threshold for its unit is reported as below threshold.
type StockConfig struct {
	Thresholds []StockThreshold `mapstructure:"thresholds"`
}

type StockThreshold struct {
	Unit     string  `mapstructure:"unit"`
	Quantity float64 `mapstructure:"quantity"`
}

func DefaultStockConfig() StockConfig {
	return StockConfig{
		Thresholds: []StockThreshold{
			{Unit: "l", Quantity: 500},
			{Unit: "kg", Quantity: 100},
			{Unit: "unit", Quantity: 250},
		},
	}
}

type StockConfigHolder struct {
	current atomic.Value // holds StockConfig
}

func NewStockConfigHolder() (*StockConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("stock")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/presshouse/config") // Volume-mounted config
	v.AddConfigPath("/etc/presshouse")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("PRESSHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultStockConfig()
		v.SetDefault("stock.thresholds", defaults.Thresholds)
	}

	var cfg StockConfig
	if err := v.UnmarshalKey("stock", &cfg); err != nil {
		return nil, err
	}
	if err := validateStockConfig(cfg); err != nil {
		return nil, err
	}

	holder := &StockConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StockConfig
		if err := v.UnmarshalKey("stock", &updated); err != nil {
			log.Printf("[stock-config] reload failed: %v", err)
			return
		}
		if err := validateStockConfig(updated); err != nil {
			log.Printf("[stock-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[stock-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticStockConfigHolder wraps a fixed config with no file watching.
func NewStaticStockConfigHolder(cfg StockConfig) *StockConfigHolder {
	holder := &StockConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *StockConfigHolder) Get() StockConfig {
	return h.current.Load().(StockConfig)
}

// ThresholdFor returns the configured threshold for a unit, or 0 when the unit
// has no threshold.
func (c StockConfig) ThresholdFor(unit string) float64 {
	unit = strings.ToLower(strings.TrimSpace(unit))
	for _, t := range c.Thresholds {
		if strings.ToLower(t.Unit) == unit {
			return t.Quantity
		}
	}
	return 0
}

func validateStockConfig(cfg StockConfig) error {
	for _, t := range cfg.Thresholds {
		if strings.TrimSpace(t.Unit) == "" {
			return errors.New("stock.thresholds entries require a unit")
		}
		if t.Quantity < 0 {
			return errors.New("stock.thresholds quantities cannot be negative")
		}
	}
	return nil
}
