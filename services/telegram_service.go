package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"knowledge-chatbot-backend/internal/logger"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramUpdate is the subset of the Bot API update payload the webhook
// needs.
type TelegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// TelegramService answers incoming bot messages through the RAG orchestrator
// and replies over the Bot API. The token is read from settings on every
// send, so rotating it requires no restart.
type TelegramService struct {
	rag      *RagService
	settings TelegramSettingsSource
	client   *http.Client
	apiBase  string
}

func NewTelegramService(rag *RagService, settings TelegramSettingsSource) *TelegramService {
	return &TelegramService{
		rag:      rag,
		settings: settings,
		client:   &http.Client{Timeout: 30 * time.Second},
		apiBase:  telegramAPIBase,
	}
}

// HandleUpdate answers one webhook update. Updates without a text message are
// ignored. Answer failures are reported to the chat as a generic apology so
// the bot never goes silent mid-conversation.
func (s *TelegramService) HandleUpdate(ctx context.Context, update TelegramUpdate) error {
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		return nil
	}
	chatID := update.Message.Chat.ID

	answer, err := s.rag.Answer(ctx, update.Message.Text)
	if err != nil {
		logger.Error("Telegram answer failed", "chat_id", chatID, "error", err)
		return s.sendMessage(ctx, chatID, "Sorry, I couldn't process that right now. Please try again later.")
	}
	return s.sendMessage(ctx, chatID, answer.Text)
}

func (s *TelegramService) sendMessage(ctx context.Context, chatID int64, text string) error {
	token, err := s.settings.TelegramToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bot token: %w", err)
	}
	if token == "" {
		return ErrBotNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send returned status %d", resp.StatusCode)
	}
	return nil
}
