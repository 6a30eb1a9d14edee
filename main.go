package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/revscan/service"
	"github.com/dnldd/revscan/shared"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	// Validate guarantees these parse.
	timeframe, _ := shared.ParseTimeframe(cfg.Interval)
	interMarketDelay, _ := time.ParseDuration(cfg.InterMarketDelay)
	settleDelay, _ := time.ParseDuration(cfg.SettleDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scannerCfg := service.ScannerConfig{
		Markets:            cfg.Markets,
		Timeframe:          timeframe,
		FetchLimit:         cfg.FetchLimit,
		InterMarketDelay:   interMarketDelay,
		SettleDelay:        settleDelay,
		VolumeMultiplier:   cfg.VolumeMultiplier,
		VolumeWindow:       cfg.VolumeWindow,
		RSIPeriod:          cfg.RSIPeriod,
		RSIOversold:        cfg.RSIOversold,
		RSIOverbought:      cfg.RSIOverbought,
		EMAFastPeriod:      cfg.EMAFastPeriod,
		EMASlowPeriod:      cfg.EMASlowPeriod,
		TrendWindow:        cfg.TrendWindow,
		TrendRequiredCount: cfg.TrendRequiredCount,
		ShadowRatioHigh:    cfg.ShadowRatioHigh,
		ShadowRatioLow:     cfg.ShadowRatioLow,
		TelegramBotToken:   cfg.TelegramBotToken,
		TelegramChatID:     cfg.TelegramChatID,
		SignalLogPath:      cfg.SignalLogPath,
		DatabaseEndpoint:   cfg.DatabaseEndpoint,
		DatabaseUser:       cfg.DatabaseUser,
		DatabasePass:       cfg.DatabasePass,
		Cancel:             cancel,
	}
	scanner, err := service.NewScanner(ctx, &scannerCfg)
	if err != nil {
		log.Printf("creating scanner service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	scanner.Run(ctx)
}
