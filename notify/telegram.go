package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dnldd/revscan/shared"
)

const (
	// BaseURL is the telegram bot api base url.
	BaseURL = "https://api.telegram.org"
)

// TelegramConfig represents the configuration for the telegram client.
type TelegramConfig struct {
	// BotToken is the telegram bot api token.
	BotToken string
	// ChatID is the destination chat for notifications.
	ChatID string
	// BaseURL is the telegram api base url.
	BaseURL string
}

// Validate asserts the config sane inputs.
func (cfg *TelegramConfig) Validate() error {
	var errs error

	if cfg.BotToken == "" {
		errs = errors.Join(errs, fmt.Errorf("bot token cannot be an empty string"))
	}
	if cfg.ChatID == "" {
		errs = errors.Join(errs, fmt.Errorf("chat id cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("base url cannot be an empty string"))
	}

	return errs
}

// TelegramClient represents the telegram notification client.
type TelegramClient struct {
	cfg   *TelegramConfig
	httpc http.Client
	buf   *bytes.Buffer
}

// Ensure the telegram client implements the Notifier interface.
var _ shared.Notifier = (*TelegramClient)(nil)

// NewTelegramClient instantiates a new telegram client.
func NewTelegramClient(cfg *TelegramConfig) (*TelegramClient, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &TelegramClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 10},
		buf:   bytes.NewBuffer(make([]byte, 0, 512)),
	}, nil
}

// formURL creates full bot method urls for the api.
func (c *TelegramClient) formURL(method string) string {
	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString("/bot")
	c.buf.WriteString(c.cfg.BotToken)
	c.buf.WriteString(method)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// Send pushes the provided message to the configured chat.
func (c *TelegramClient) Send(ctx context.Context, message string) error {
	const sendMessageMethod = "/sendMessage"

	payload, err := json.Marshal(map[string]string{
		"chat_id":    c.cfg.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshaling message payload: %w", err)
	}

	formedURL := c.formURL(sendMessageMethod)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, formedURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating send message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sending telegram message: unexpected status %d: %s",
			resp.StatusCode, string(body))
	}

	return nil
}
