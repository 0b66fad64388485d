package analysis

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
)

// Notifier posts a summary of the day's HIGH-trust picks to a Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

func NewNotifier(cfg *config.TelegramConfig, logger *slog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram notifier ready", "bot", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: cfg.ChatID, logger: logger}, nil
}

// SendHighPicks sends one message listing every HIGH-trust prediction of the
// date's report. Nothing is sent when there are no picks.
func (n *Notifier) SendHighPicks(date string, report []LeagueReport) error {
	picks := collectHighPicks(report)
	if len(picks) == 0 {
		n.logger.Info("No high-trust picks to notify", "date", date)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Picks for %s\n", date)
	for _, pick := range picks {
		b.WriteString("\n" + pick)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send pick summary: %w", err)
	}
	return nil
}

func collectHighPicks(report []LeagueReport) []string {
	var picks []string
	for _, league := range report {
		for _, match := range league.Matches {
			for _, prediction := range match.Predictions {
				if prediction.TrustLevelLabel != models.TrustHigh {
					continue
				}
				picks = append(picks, fmt.Sprintf("%s: %s vs %s > %s (%s)",
					league.Name, match.Home.Name, match.Away.Name, prediction.Name, prediction.ShortName))
			}
		}
	}
	return picks
}
