package journal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dnldd/revscan/shared"
)

// JournalConfig represents the configuration for the signal journal.
type JournalConfig struct {
	// Path is the filepath of the append only signal log.
	Path string
}

// Journal appends emitted signals to a human readable log file.
type Journal struct {
	cfg  *JournalConfig
	file *os.File
}

// Ensure the journal implements the SignalRecorder interface.
var _ shared.SignalRecorder = (*Journal)(nil)

// NewJournal initializes a new signal journal.
func NewJournal(cfg *JournalConfig) (*Journal, error) {
	if cfg.Path == "" {
		return nil, errors.New("journal path cannot be an empty string")
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening signal journal: %w", err)
	}

	return &Journal{
		cfg:  cfg,
		file: file,
	}, nil
}

// Record appends the provided signal to the log, one line per signal.
func (j *Journal) Record(signal *shared.Signal) error {
	timestamp := time.Now().UTC().Format(shared.DateLayout)
	line := fmt.Sprintf("[%s UTC] %s | %s | %s | price=%v | time=%s UTC | rsi=%.1f\n",
		timestamp, signal.Market, signal.Pattern.String(), signal.Direction.String(),
		signal.Price, signal.CandleTime.UTC().Format(shared.CandleTimeLayout), signal.RSI)

	_, err := j.file.WriteString(line)
	if err != nil {
		return fmt.Errorf("appending signal to journal: %w", err)
	}

	return nil
}

// Close closes the underlying log file.
func (j *Journal) Close() error {
	return j.file.Close()
}
