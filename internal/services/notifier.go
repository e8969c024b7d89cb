package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/models"
)

// NotifierService sends prediction digests to a Telegram chat. The service
// is optional: without a bot token every call is a logged no-op.
type NotifierService struct {
	bot    *bot.Bot
	chatID string
	caser  cases.Caser
	logger *logrus.Logger
}

// NewNotifierService creates a notifier. A missing token or bot
// initialization failure disables sending rather than failing startup.
func NewNotifierService(cfg config.TelegramConfig, logger *logrus.Logger) *NotifierService {
	n := &NotifierService{
		chatID: cfg.ChatID,
		caser:  cases.Title(language.English),
		logger: logger,
	}

	if cfg.BotToken == "" {
		logger.Info("Telegram bot token not configured, notifications disabled")
		return n
	}

	b, err := bot.New(cfg.BotToken)
	if err != nil {
		logger.WithError(err).Warn("Failed to create Telegram bot, notifications disabled")
		return n
	}
	n.bot = b
	return n
}

// Enabled reports whether the notifier can actually send.
func (n *NotifierService) Enabled() bool {
	return n.bot != nil && n.chatID != ""
}

// SendPredictionDigest posts a formatted summary of a prediction batch.
// Send failures are logged and returned, but callers treat them as
// non-fatal.
func (n *NotifierService) SendPredictionDigest(ctx context.Context, response *models.PredictionResponse) error {
	if !n.Enabled() {
		n.logger.Debug("Telegram notifier disabled, skipping digest")
		return nil
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   n.formatDigest(response),
	})
	if err != nil {
		n.logger.WithError(err).Error("Failed to send Telegram prediction digest")
		return fmt.Errorf("failed to send prediction digest: %w", err)
	}
	return nil
}

// formatDigest renders the batch as a plain-text message.
func (n *NotifierService) formatDigest(response *models.PredictionResponse) string {
	var sb strings.Builder
	sb.WriteString("🎰 Powerball Predictions\n\n")

	for _, prediction := range response.Predictions {
		sb.WriteString(fmt.Sprintf("Ticket %d (%s): %s + %d  [%.2f]\n",
			prediction.TicketNumber,
			n.StrategyLabel(prediction.Strategy),
			joinBalls(prediction.Numbers),
			prediction.PowerBall,
			prediction.Confidence))
	}

	sb.WriteString(fmt.Sprintf("\nAvg confidence: %.3f over %d drawings\n",
		response.Summary.AverageConfidence,
		response.DataQuality.TotalDrawings))
	sb.WriteString(response.Summary.Recommendation)
	return sb.String()
}

// StrategyLabel renders a strategy name for display, e.g. "frequency_based"
// becomes "Frequency Based".
func (n *NotifierService) StrategyLabel(strategy models.Strategy) string {
	return n.caser.String(strings.ReplaceAll(string(strategy), "_", " "))
}

func joinBalls(balls []int) string {
	parts := make([]string, len(balls))
	for i, ball := range balls {
		parts[i] = fmt.Sprintf("%d", ball)
	}
	return strings.Join(parts, " ")
}
