// Package telegram posts batch reports to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ ports.Notifier = (*Notifier)(nil)

type Config struct {
	Token  string
	ChatID int64
	// Endpoint overrides tgbotapi.APIEndpoint. It keeps the two %s verbs.
	Endpoint string
}

type Notifier struct {
	cfg    Config
	loc    *time.Location
	client *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewNotifier(cfg Config, loc *time.Location, client *http.Client) (*Notifier, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("configure telegram notifier: bot token is required")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("configure telegram notifier: chat id is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Notifier{cfg: cfg, loc: loc, client: client}, nil
}

func (n *Notifier) Notify(ctx context.Context, report domain.BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.connect()
	if err != nil {
		return err
	}

	msg := notify.Render(report, n.loc)
	out := tgbotapi.NewMessage(n.cfg.ChatID, msg.Subject+"\n\n"+msg.Body)
	out.DisableWebPagePreview = true
	if _, err := bot.Send(out); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

// connect builds the bot on first use so an unreachable API does not block
// startup. A failed attempt is retried on the next report.
func (n *Notifier) connect() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(n.cfg.Token, n.cfg.Endpoint, n.client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	n.bot = bot

	return bot, nil
}
