// Package telegram is a minimal Telegram Bot API client: enough to send
// report messages and long-poll for chat commands.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/service"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Config holds the bot credentials and target chat.
type Config struct {
	Token   string
	ChatID  string
	BaseURL string // overridable for tests
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: telegram token", common.ErrMissingConfig)
	}
	if c.ChatID == "" {
		return fmt.Errorf("%w: telegram chat id", common.ErrMissingConfig)
	}
	return nil
}

// Update is one incoming event from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the subset of a chat message the bot cares about.
type Message struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

var _ service.Messenger = (*Client)(nil)

// Client talks to the Bot API over one shared HTTP client.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	config     Config
}

// NewClient creates a Telegram client.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}, nil
}

// ChatID returns the configured target chat id.
func (c *Client) ChatID() string {
	return c.config.ChatID
}

// Send delivers a text message to the configured chat, with retry.
func (c *Client) Send(ctx context.Context, text string) error {
	data := url.Values{
		"chat_id": {c.config.ChatID},
		"text":    {text},
	}

	return common.WithRetry(ctx, func() error {
		_, err := c.call(ctx, "sendMessage", data)
		return err
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Second})
}

// GetUpdates long-polls for updates past the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	data := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(int(timeout.Seconds()))},
	}

	result, err := c.call(ctx, "getUpdates", data)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, data url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.config.BaseURL, c.config.Token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("failed to decode %s response (%d): %w", method, resp.StatusCode, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("%s rejected: %d %s", method, resp.StatusCode, api.Description)
	}

	return api.Result, nil
}
