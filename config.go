package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/revscan/shared"
	"github.com/joho/godotenv"
)

const (
	// Default tunables for the scanner.
	defaultInterval           = "15m"
	defaultFetchLimit         = 50
	defaultInterMarketDelay   = "1s"
	defaultSettleDelay        = "1s"
	defaultVolumeMultiplier   = 0.9
	defaultVolumeWindow       = 20
	defaultRSIPeriod          = 14
	defaultRSIOversold        = 40
	defaultRSIOverbought      = 60
	defaultEMAFastPeriod      = 20
	defaultEMASlowPeriod      = 50
	defaultTrendWindow        = 5
	defaultTrendRequiredCount = 3
	defaultShadowRatioHigh    = 1.8
	defaultShadowRatioLow     = 0.6
	defaultSignalLogPath      = "signals.log"
)

// Config is the configuration struct for the service.
type Config struct {
	// Markets represents the tracked markets.
	Markets []string
	// Interval is the scanned candle interval.
	Interval string
	// FetchLimit is the number of candles fetched per market.
	FetchLimit int
	// InterMarketDelay is the pause between consecutive market scans.
	InterMarketDelay string
	// SettleDelay is the wait after an interval boundary before scanning.
	SettleDelay string
	// VolumeMultiplier scales the average volume floor for the volume filter.
	VolumeMultiplier float64
	// VolumeWindow is the trailing window for the average volume reference.
	VolumeWindow int
	// RSIPeriod is the relative strength index period.
	RSIPeriod int
	// RSIOversold is the maximum rsi allowed for a hammer signal.
	RSIOversold float64
	// RSIOverbought is the minimum rsi allowed for a shooting star signal.
	RSIOverbought float64
	// EMAFastPeriod is the fast exponential moving average period.
	EMAFastPeriod int
	// EMASlowPeriod is the slow exponential moving average period.
	EMASlowPeriod int
	// TrendWindow is the trend confirmation window size.
	TrendWindow int
	// TrendRequiredCount is the minimum number of directional candles required
	// in the trend window.
	TrendRequiredCount int
	// ShadowRatioHigh is the minimum dominant shadow to body ratio.
	ShadowRatioHigh float64
	// ShadowRatioLow is the maximum opposing shadow to body ratio.
	ShadowRatioLow float64
	// TelegramBotToken is the telegram bot api token.
	TelegramBotToken string
	// TelegramChatID is the destination chat for notifications.
	TelegramChatID string
	// SignalLogPath is the filepath of the append only signal log.
	SignalLogPath string
	// DatabaseEndpoint is the optional signal history database endpoint.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string

	registeredFlags map[string]bool
}

// applyDefaults fills unset tunables with their defaults.
func (cfg *Config) applyDefaults() {
	if cfg.Interval == "" {
		cfg.Interval = defaultInterval
	}
	if cfg.FetchLimit == 0 {
		cfg.FetchLimit = defaultFetchLimit
	}
	if cfg.InterMarketDelay == "" {
		cfg.InterMarketDelay = defaultInterMarketDelay
	}
	if cfg.SettleDelay == "" {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.VolumeMultiplier == 0 {
		cfg.VolumeMultiplier = defaultVolumeMultiplier
	}
	if cfg.VolumeWindow == 0 {
		cfg.VolumeWindow = defaultVolumeWindow
	}
	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = defaultRSIPeriod
	}
	if cfg.RSIOversold == 0 {
		cfg.RSIOversold = defaultRSIOversold
	}
	if cfg.RSIOverbought == 0 {
		cfg.RSIOverbought = defaultRSIOverbought
	}
	if cfg.EMAFastPeriod == 0 {
		cfg.EMAFastPeriod = defaultEMAFastPeriod
	}
	if cfg.EMASlowPeriod == 0 {
		cfg.EMASlowPeriod = defaultEMASlowPeriod
	}
	if cfg.TrendWindow == 0 {
		cfg.TrendWindow = defaultTrendWindow
	}
	if cfg.TrendRequiredCount == 0 {
		cfg.TrendRequiredCount = defaultTrendRequiredCount
	}
	if cfg.ShadowRatioHigh == 0 {
		cfg.ShadowRatioHigh = defaultShadowRatioHigh
	}
	if cfg.ShadowRatioLow == 0 {
		cfg.ShadowRatioLow = defaultShadowRatioLow
	}
	if cfg.SignalLogPath == "" {
		cfg.SignalLogPath = defaultSignalLogPath
	}
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.Markets) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no markets provided for scanner service"))
	}
	if cfg.TelegramBotToken == "" {
		errs = errors.Join(errs, fmt.Errorf("telegram bot token cannot be an empty string"))
	}
	if cfg.TelegramChatID == "" {
		errs = errors.Join(errs, fmt.Errorf("telegram chat id cannot be an empty string"))
	}

	_, err := shared.ParseTimeframe(cfg.Interval)
	if err != nil {
		errs = errors.Join(errs, err)
	}

	_, err = time.ParseDuration(cfg.InterMarketDelay)
	if err != nil {
		errs = errors.Join(errs, fmt.Errorf("parsing inter-market delay: %w", err))
	}

	_, err = time.ParseDuration(cfg.SettleDelay)
	if err != nil {
		errs = errors.Join(errs, fmt.Errorf("parsing settle delay: %w", err))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Float64:
		var def float64
		if defValue != "" {
			def, _ = strconv.ParseFloat(defValue, 64)
		}
		flag.Float64Var(value.(*float64), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	type flagSpec struct {
		name  string
		value interface{}
		usage string
	}

	specs := []flagSpec{
		{"markets", &cfg.Markets, "the tracked markets"},
		{"interval", &cfg.Interval, "the scanned candle interval"},
		{"fetchlimit", &cfg.FetchLimit, "the number of candles fetched per market"},
		{"intermarketdelay", &cfg.InterMarketDelay, "the pause between consecutive market scans"},
		{"settledelay", &cfg.SettleDelay, "the wait after an interval boundary before scanning"},
		{"volumemultiplier", &cfg.VolumeMultiplier, "the average volume floor multiplier"},
		{"volumewindow", &cfg.VolumeWindow, "the trailing average volume window"},
		{"rsiperiod", &cfg.RSIPeriod, "the rsi period"},
		{"rsioversold", &cfg.RSIOversold, "the rsi oversold threshold"},
		{"rsioverbought", &cfg.RSIOverbought, "the rsi overbought threshold"},
		{"emafastperiod", &cfg.EMAFastPeriod, "the fast ema period"},
		{"emaslowperiod", &cfg.EMASlowPeriod, "the slow ema period"},
		{"trendwindow", &cfg.TrendWindow, "the trend confirmation window size"},
		{"trendrequiredcount", &cfg.TrendRequiredCount, "the required directional candle count"},
		{"shadowratiohigh", &cfg.ShadowRatioHigh, "the minimum dominant shadow to body ratio"},
		{"shadowratiolow", &cfg.ShadowRatioLow, "the maximum opposing shadow to body ratio"},
		{"telegrambottoken", &cfg.TelegramBotToken, "the telegram bot api token"},
		{"telegramchatid", &cfg.TelegramChatID, "the telegram chat id"},
		{"signallogpath", &cfg.SignalLogPath, "the signal log filepath"},
		{"dbendpoint", &cfg.DatabaseEndpoint, "the signal history database endpoint"},
		{"dbuser", &cfg.DatabaseUser, "the signal history database user"},
		{"dbpass", &cfg.DatabasePass, "the signal history database pass"},
	}

	for idx := range specs {
		err = cfg.registerFlag(specs[idx].name, specs[idx].value, specs[idx].usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	cfg.applyDefaults()

	return cfg.Validate()
}
