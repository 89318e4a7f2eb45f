package reporter

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes text for Telegram's MarkdownV2 parse mode.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	site   string
	logger *zap.Logger
}

func NewTelegram(token string, chatID int64, site string, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, site, logger), nil
}

// NewTelegramWithClient talks to endpoint (format "<base>/bot%s/%s") through client.
func NewTelegramWithClient(token string, chatID int64, site, endpoint string, client tgbotapi.HTTPClient, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, site, logger), nil
}

func newTelegram(bot *tgbotapi.BotAPI, chatID int64, site string, logger *zap.Logger) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, site: site, logger: logger}
}

func (t *Telegram) PageSaved(page, records int) {
	t.send(fmt.Sprintf("💾 *%s* page %d saved\n📦 %d records so far",
		EscapeMarkdown(t.site), page, records))
}

func (t *Telegram) PersistFailed(err error) {
	t.send(fmt.Sprintf("⚠️ *%s* failed to save results:\n%s",
		EscapeMarkdown(t.site), EscapeMarkdown(err.Error())))
}

func (t *Telegram) Finished(summary string) {
	t.send(fmt.Sprintf("🏁 *%s* crawl finished\n%s",
		EscapeMarkdown(t.site), EscapeMarkdown(summary)))
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("⚠️ Telegram notification failed", zap.Error(err))
	}
}
