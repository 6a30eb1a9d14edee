package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/revscan/engine"
	"github.com/dnldd/revscan/fetch"
	"github.com/dnldd/revscan/indicator"
	"github.com/dnldd/revscan/journal"
	"github.com/dnldd/revscan/notify"
	"github.com/dnldd/revscan/pattern"
	"github.com/dnldd/revscan/scan"
	"github.com/dnldd/revscan/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/atomic"
)

const (
	// dailyDigestTime is the time of day (utc) the digest job runs at.
	dailyDigestTime = "00:00"
)

// ScannerConfig represents the configuration struct for the scanner service.
type ScannerConfig struct {
	// Markets represents the tracked markets.
	Markets []string
	// Timeframe is the scanned candle interval.
	Timeframe shared.Timeframe
	// FetchLimit is the number of candles fetched per market.
	FetchLimit int
	// InterMarketDelay is the pause between consecutive market scans.
	InterMarketDelay time.Duration
	// SettleDelay is the wait after an interval boundary before scanning.
	SettleDelay time.Duration
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
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *ScannerConfig) Validate() error {
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
	if cfg.SignalLogPath == "" {
		errs = errors.Join(errs, fmt.Errorf("signal log path cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Scanner represents a reversal signal scanning service.
type Scanner struct {
	cfg          *ScannerConfig
	fetcher      *fetch.BinanceClient
	notifier     *notify.TelegramClient
	journal      *journal.Journal
	store        *journal.Store
	signalEngine *engine.Engine
	scheduler    *scan.Scheduler
	jobScheduler *gocron.Scheduler
	signalsToday atomic.Uint32
	logger       *zerolog.Logger
	wg           sync.WaitGroup
}

// NewScanner initializes a new scanner service.
func NewScanner(ctx context.Context, cfg *ScannerConfig) (*Scanner, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "scanner").Logger()

	fetcher, err := fetch.NewBinanceClient(&fetch.BinanceConfig{BaseURL: fetch.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("creating binance client: %w", err)
	}

	notifier, err := notify.NewTelegramClient(&notify.TelegramConfig{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		BaseURL:  notify.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	signalJournal, err := journal.NewJournal(&journal.JournalConfig{Path: cfg.SignalLogPath})
	if err != nil {
		return nil, fmt.Errorf("creating signal journal: %w", err)
	}

	var store *journal.Store
	if cfg.DatabaseEndpoint != "" {
		storeLogger := logger.With().Str("component", "store").Logger()
		store, err = journal.NewStore(ctx, &journal.StoreConfig{
			Endpoint: cfg.DatabaseEndpoint,
			User:     cfg.DatabaseUser,
			Pass:     cfg.DatabasePass,
			Logger:   &storeLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating signal store: %w", err)
		}
	}

	classifier := pattern.NewClassifier(&pattern.ClassifierConfig{
		ShadowRatioHigh: cfg.ShadowRatioHigh,
		ShadowRatioLow:  cfg.ShadowRatioLow,
	})

	signalEngine := engine.NewEngine(&engine.EngineConfig{
		Classifier:         classifier,
		VolumeMultiplier:   cfg.VolumeMultiplier,
		VolumeWindow:       cfg.VolumeWindow,
		RSIOversold:        cfg.RSIOversold,
		RSIOverbought:      cfg.RSIOverbought,
		TrendWindow:        cfg.TrendWindow,
		TrendRequiredCount: cfg.TrendRequiredCount,
	})

	svc := &Scanner{
		cfg:          cfg,
		fetcher:      fetcher,
		notifier:     notifier,
		journal:      signalJournal,
		store:        store,
		signalEngine: signalEngine,
		jobScheduler: gocron.NewScheduler(time.UTC),
		logger:       &logger,
	}

	recordFunc := func(signal *shared.Signal) error {
		svc.signalsToday.Inc()

		err := signalJournal.Record(signal)
		if err != nil {
			return err
		}

		if store != nil {
			err = store.PersistSignal(ctx, signal)
			if err != nil {
				return fmt.Errorf("persisting signal: %w", err)
			}
		}

		return nil
	}

	schedulerLogger := logger.With().Str("component", "scheduler").Logger()
	scheduler, err := scan.NewScheduler(&scan.SchedulerConfig{
		Markets:          cfg.Markets,
		Timeframe:        cfg.Timeframe,
		FetchLimit:       cfg.FetchLimit,
		InterMarketDelay: cfg.InterMarketDelay,
		SettleDelay:      cfg.SettleDelay,
		Frame: &indicator.FrameConfig{
			RSIPeriod:     cfg.RSIPeriod,
			EMAFastPeriod: cfg.EMAFastPeriod,
			EMASlowPeriod: cfg.EMASlowPeriod,
		},
		Fetcher:  fetcher,
		Evaluate: signalEngine.Evaluate,
		Notify:   notifier.Send,
		Record:   recordFunc,
		Logger:   &schedulerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	svc.scheduler = scheduler

	return svc, nil
}

// sendDailyDigest reports the number of signals emitted for the day and
// resets the counter.
func (s *Scanner) sendDailyDigest() {
	count := s.signalsToday.Swap(0)
	message := fmt.Sprintf("Daily digest: %d confirmed signal(s) across %d market(s) on %s",
		count, len(s.cfg.Markets), s.cfg.Timeframe.String())

	err := s.notifier.Send(context.Background(), message)
	if err != nil {
		s.logger.Error().Msgf("sending daily digest: %v", err)
	}

	s.logger.Info().Msg(message)
}

// Run handles the lifecycle processes of the scanner service.
func (s *Scanner) Run(ctx context.Context) {
	_, err := s.jobScheduler.Every(1).Day().At(dailyDigestTime).Do(s.sendDailyDigest)
	if err != nil {
		s.logger.Error().Msgf("scheduling daily digest: %v", err)
	}

	s.jobScheduler.StartAsync()
	defer s.jobScheduler.Stop()
	defer s.journal.Close()

	s.wg.Add(1)

	go func() {
		s.scheduler.Run(ctx)
		s.wg.Done()
	}()

	s.wg.Wait()
}
