package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dnldd/revscan/indicator"
	"github.com/dnldd/revscan/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

type stubFetcher struct {
	mtx     sync.Mutex
	calls   []string
	failing map[string]bool
}

func (f *stubFetcher) FetchCandlesticks(ctx context.Context, market string,
	timeframe shared.Timeframe, limit int) ([]shared.Candlestick, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.calls = append(f.calls, market)
	if f.failing[market] {
		return nil, fmt.Errorf("provider unavailable")
	}

	candles := make([]shared.Candlestick, limit)
	for idx := range candles {
		candles[idx] = shared.Candlestick{
			Close:     100,
			Market:    market,
			Timeframe: timeframe,
		}
	}

	return candles, nil
}

type capture struct {
	mtx      sync.Mutex
	recorded []*shared.Signal
	notified []string
}

func (c *capture) record(signal *shared.Signal) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.recorded = append(c.recorded, signal)
	return nil
}

func (c *capture) notify(ctx context.Context, message string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.notified = append(c.notified, message)
	return nil
}

func newTestConfig(fetcher *stubFetcher, sink *capture,
	evaluate func(*shared.CandlestickSnapshot, *indicator.Frame) ([]shared.Signal, error)) *SchedulerConfig {
	logger := zerolog.Nop()

	return &SchedulerConfig{
		Markets:    []string{"ETHUSDT", "SOLUSDT"},
		Timeframe:  shared.FifteenMinute,
		FetchLimit: 50,
		Frame: &indicator.FrameConfig{
			RSIPeriod:     14,
			EMAFastPeriod: 20,
			EMASlowPeriod: 50,
		},
		Fetcher:  fetcher,
		Evaluate: evaluate,
		Notify:   sink.notify,
		Record:   sink.record,
		Logger:   &logger,
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{
			"aligning state",
			Aligning,
			"aligning",
		},
		{
			"scanning state",
			Scanning,
			"scanning",
		},
		{
			"unknown state",
			State(999),
			"unknown",
		},
	}

	for _, test := range tests {
		str := test.state.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestSchedulerConfigValidate(t *testing.T) {
	fetcher := &stubFetcher{}
	sink := &capture{}
	evaluate := func(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error) {
		return nil, nil
	}

	// Ensure a fully populated config validates.
	cfg := newTestConfig(fetcher, sink, evaluate)
	assert.NoError(t, cfg.Validate())

	// Ensure a config with no markets errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Markets = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a non-positive fetch limit errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.FetchLimit = 0
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil frame config errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Frame = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil fetcher errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Fetcher = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil evaluate function errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Evaluate = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil notify function errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Notify = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil record function errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Record = nil
	assert.Error(t, cfg.Validate())

	// Ensure a config with a nil logger errors.
	cfg = newTestConfig(fetcher, sink, evaluate)
	cfg.Logger = nil
	assert.Error(t, cfg.Validate())

	_, err := NewScheduler(&SchedulerConfig{})
	assert.Error(t, err)
}

func TestAlignmentWait(t *testing.T) {
	interval := time.Minute * 15
	settle := time.Second * 2

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			"exactly on the boundary",
			time.Date(2025, 2, 4, 15, 0, 0, 0, time.UTC),
			settle,
		},
		{
			"mid interval",
			time.Date(2025, 2, 4, 15, 5, 0, 0, time.UTC),
			time.Minute*10 + settle,
		},
		{
			"just before the boundary",
			time.Date(2025, 2, 4, 15, 14, 59, 0, time.UTC),
			time.Second + settle,
		},
		{
			"just after the boundary",
			time.Date(2025, 2, 4, 15, 0, 1, 0, time.UTC),
			time.Minute*15 - time.Second + settle,
		},
	}

	for _, test := range tests {
		wait := alignmentWait(test.now, interval, settle)
		if wait != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, wait)
		}
	}
}

func TestScanCycle(t *testing.T) {
	// A failing market must not abort the cycle for the markets after it.
	fetcher := &stubFetcher{failing: map[string]bool{"ETHUSDT": true}}
	sink := &capture{}

	evaluated := 0
	evaluate := func(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error) {
		evaluated++
		signal := shared.NewSignal("SOLUSDT", shared.FifteenMinute, shared.Hammer,
			shared.Long, 99, time.Now().UTC(), 35, 120, 100)
		return []shared.Signal{signal}, nil
	}

	scheduler, err := NewScheduler(newTestConfig(fetcher, sink, evaluate))
	assert.NoError(t, err)

	scheduler.scanCycle(context.Background())

	// Both markets are fetched in order, only the healthy one evaluates.
	assert.Equal(t, fetcher.calls, []string{"ETHUSDT", "SOLUSDT"})
	assert.Equal(t, evaluated, 1)

	// The surviving market's signal is recorded and notified.
	assert.Equal(t, len(sink.recorded), 1)
	assert.Equal(t, sink.recorded[0].Market, "SOLUSDT")
	assert.Equal(t, len(sink.notified), 1)
}

func TestScanCycleSkipsInsufficientHistory(t *testing.T) {
	fetcher := &stubFetcher{}
	sink := &capture{}

	evaluate := func(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error) {
		return nil, fmt.Errorf("warming up: %w", shared.ErrInsufficientHistory)
	}

	scheduler, err := NewScheduler(newTestConfig(fetcher, sink, evaluate))
	assert.NoError(t, err)

	scheduler.scanCycle(context.Background())

	// A warming up market produces no records or notifications.
	assert.Equal(t, len(sink.recorded), 0)
	assert.Equal(t, len(sink.notified), 0)
}

func TestSchedulerRunHonoursContext(t *testing.T) {
	fetcher := &stubFetcher{}
	sink := &capture{}
	evaluate := func(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error) {
		return nil, nil
	}

	scheduler, err := NewScheduler(newTestConfig(fetcher, sink, evaluate))
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("expected the scheduler to stop on a cancelled context")
	}

	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatalf("expected a cancelled context, got %v", ctx.Err())
	}
}
