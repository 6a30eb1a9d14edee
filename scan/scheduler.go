package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dnldd/revscan/indicator"
	"github.com/dnldd/revscan/shared"
	"github.com/rs/zerolog"
)

// State represents the scheduler state.
type State int

const (
	// Aligning waits for the next interval close boundary.
	Aligning State = iota
	// Scanning iterates the tracked markets.
	Scanning
)

// String stringifies the provided state.
func (s State) String() string {
	switch s {
	case Aligning:
		return "aligning"
	case Scanning:
		return "scanning"
	default:
		return "unknown"
	}
}

// SchedulerConfig represents the scan scheduler configuration.
type SchedulerConfig struct {
	// Markets represents the tracked markets.
	Markets []string
	// Timeframe is the scanned candle interval.
	Timeframe shared.Timeframe
	// FetchLimit is the number of candles fetched per market.
	FetchLimit int
	// InterMarketDelay is the pause between consecutive market scans.
	InterMarketDelay time.Duration
	// SettleDelay is the wait after an interval boundary for the provider to
	// publish the closed candle.
	SettleDelay time.Duration
	// Frame is the indicator frame configuration.
	Frame *indicator.FrameConfig
	// Fetcher is the market data client.
	Fetcher shared.MarketFetcher
	// Evaluate applies the reversal rule to the provided series.
	Evaluate func(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error)
	// Notify pushes the provided signal message to the notification sink.
	Notify func(ctx context.Context, message string) error
	// Record appends the provided signal to the signal journal.
	Record func(signal *shared.Signal) error
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *SchedulerConfig) Validate() error {
	var errs error

	if len(cfg.Markets) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no markets provided for the scheduler"))
	}
	if cfg.Timeframe.Duration() == 0 {
		errs = errors.Join(errs, fmt.Errorf("timeframe must have a positive interval"))
	}
	if cfg.FetchLimit <= 0 {
		errs = errors.Join(errs, fmt.Errorf("fetch limit must be positive"))
	}
	if cfg.Frame == nil {
		errs = errors.Join(errs, fmt.Errorf("frame config cannot be nil"))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("fetcher cannot be nil"))
	}
	if cfg.Evaluate == nil {
		errs = errors.Join(errs, fmt.Errorf("evaluate function cannot be nil"))
	}
	if cfg.Notify == nil {
		errs = errors.Join(errs, fmt.Errorf("notify function cannot be nil"))
	}
	if cfg.Record == nil {
		errs = errors.Join(errs, fmt.Errorf("record function cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Scheduler drives boundary aligned scan cycles over the tracked markets.
// Markets are scanned strictly in sequence to bound the outbound request rate
// to the data provider.
type Scheduler struct {
	cfg   *SchedulerConfig
	state State
}

// NewScheduler initializes a new scan scheduler.
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cfg: cfg,
	}, nil
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	return s.state
}

// alignmentWait computes the sleep duration from the provided time until the
// next interval boundary plus the settle delay.
func alignmentWait(now time.Time, interval time.Duration, settle time.Duration) time.Duration {
	elapsed := time.Duration(now.UnixNano()) % interval
	if elapsed == 0 {
		return settle
	}

	return interval - elapsed + settle
}

// sleepContext pauses for the provided duration unless the context is
// cancelled first, reporting whether the full duration elapsed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// scanMarket runs the full evaluation pipeline for the provided market.
func (s *Scheduler) scanMarket(ctx context.Context, market string) error {
	candles, err := s.cfg.Fetcher.FetchCandlesticks(ctx, market, s.cfg.Timeframe, s.cfg.FetchLimit)
	if err != nil {
		return fmt.Errorf("fetching candles for %s: %w", market, err)
	}

	snapshot, err := shared.NewCandlestickSnapshot(int32(s.cfg.FetchLimit))
	if err != nil {
		return fmt.Errorf("creating snapshot for %s: %w", market, err)
	}
	for idx := range candles {
		snapshot.Update(&candles[idx])
	}

	frame := indicator.NewFrame(s.cfg.Frame, snapshot.LastN(snapshot.Count()))

	signals, err := s.cfg.Evaluate(snapshot, frame)
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientHistory) {
			s.cfg.Logger.Trace().Msgf("skipping %s this cycle: %v", market, err)
			return nil
		}

		return fmt.Errorf("evaluating %s: %w", market, err)
	}

	if len(signals) == 0 {
		s.cfg.Logger.Debug().Msgf("no confirmed pattern for %s", market)
		return nil
	}

	for idx := range signals {
		signal := &signals[idx]

		err = s.cfg.Record(signal)
		if err != nil {
			s.cfg.Logger.Error().Msgf("recording signal for %s: %v", market, err)
		}

		// A failing notification never drops the signal from the journal.
		err = s.cfg.Notify(ctx, signal.Message())
		if err != nil {
			s.cfg.Logger.Error().Msgf("notifying signal for %s: %v", market, err)
		}

		s.cfg.Logger.Info().Msgf("%s signal -> %s %s @ %v (rsi %.1f)", market,
			signal.Pattern.String(), signal.Direction.String(), signal.Price, signal.RSI)
	}

	return nil
}

// scanCycle iterates the tracked markets sequentially, a failing market never
// aborts the cycle.
func (s *Scheduler) scanCycle(ctx context.Context) {
	s.cfg.Logger.Info().Msgf("scanning markets: %s", strings.Join(s.cfg.Markets, ", "))

	for idx := range s.cfg.Markets {
		if ctx.Err() != nil {
			return
		}

		market := s.cfg.Markets[idx]
		err := s.scanMarket(ctx, market)
		if err != nil {
			s.cfg.Logger.Error().Msgf("scanning %s: %v", market, err)
		}

		if !sleepContext(ctx, s.cfg.InterMarketDelay) {
			return
		}
	}
}

// Run manages the lifecycle processes of the scheduler.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.state = Aligning
		wait := alignmentWait(time.Now().UTC(), s.cfg.Timeframe.Duration(), s.cfg.SettleDelay)
		s.cfg.Logger.Info().Msgf("aligning to next %s close in %s", s.cfg.Timeframe.String(), wait)
		if !sleepContext(ctx, wait) {
			return
		}

		s.state = Scanning
		s.scanCycle(ctx)

		if ctx.Err() != nil {
			return
		}
	}
}
