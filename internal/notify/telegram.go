package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"BrandRadar/internal/ports"
)

// telegramMessageLimit is the Bot API hard cap per message.
const telegramMessageLimit = 4096

// TelegramPublisher pushes finished reports to a Telegram chat via bot API.
type TelegramPublisher struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.ReportPublisher = (*TelegramPublisher)(nil)

// NewTelegramPublisher registers bot token and chat identifier.
func NewTelegramPublisher(botToken, chatID string) *TelegramPublisher {
	return &TelegramPublisher{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Publish posts the report markdown, chunked to the API message limit.
func (t *TelegramPublisher) Publish(ctx context.Context, markdown string) error {
	if t.botToken == "" || t.chatID == "" || t.client == nil {
		return fmt.Errorf("telegram publisher misconfigured")
	}

	for _, chunk := range splitMessage(markdown, telegramMessageLimit) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramPublisher) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// splitMessage cuts the text at line boundaries so each chunk fits the limit.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		for len(line) > limit {
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
