package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers one message to the operator channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender posts messages to the Telegram Bot API.
type TelegramSender struct {
	BotToken   string
	ChatID     string
	MaxRetries int
	Client     *http.Client

	// baseURL is overridable for tests.
	baseURL string
}

// NewTelegramSender creates a sender for the configured chat.
func NewTelegramSender(botToken, chatID string, maxRetries int) *TelegramSender {
	return &TelegramSender{
		BotToken:   botToken,
		ChatID:     chatID,
		MaxRetries: maxRetries,
		Client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.telegram.org",
	}
}

// Compile-time interface check.
var _ Sender = (*TelegramSender)(nil)

func (t *TelegramSender) sendOnce(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.BotToken)
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Send delivers the message with exponential backoff retry.
func (t *TelegramSender) Send(ctx context.Context, text string) error {
	var lastErr error
	for i := 0; i <= t.MaxRetries; i++ {
		err := t.sendOnce(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == t.MaxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts exhausted: %w", t.MaxRetries+1, lastErr)
}
