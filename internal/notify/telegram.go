package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nordclean/internal/submission"
)

// Sender is the part of the Telegram bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)

// Telegram posts new leads to the business channel.
type Telegram struct {
	sender    Sender
	channelID int64
	logger    *zap.Logger
}

var _ submission.LeadNotifier = (*Telegram)(nil)

// NewTelegram authorizes the bot token and returns a notifier for channelID.
func NewTelegram(token string, channelID int64, logger *zap.Logger) (*Telegram, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("channel_id", channelID))

	return New(botAPI, channelID, logger), nil
}

func New(sender Sender, channelID int64, logger *zap.Logger) *Telegram {
	return &Telegram{sender: sender, channelID: channelID, logger: logger}
}

func (t *Telegram) NotifyLead(ctx context.Context, lead submission.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.channelID, FormatLeadNotification(lead))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("send channel notification: %w", err)
	}

	t.logger.Info("Lead notification sent",
		zap.Int64("channel_id", t.channelID),
		zap.String("session_id", lead.SessionID))
	return nil
}
