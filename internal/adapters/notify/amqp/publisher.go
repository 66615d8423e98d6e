// Package amqp publishes batch reports as JSON events to a RabbitMQ exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DefaultExchange   = "anyrouter.checkin"
	DefaultRoutingKey = "checkin.report"
)

var _ ports.Notifier = (*Publisher)(nil)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

type Publisher struct {
	cfg    Config
	loc    *time.Location
	logger *zap.Logger
	dial   func(url string) (channel, func() error, error)
}

func NewPublisher(cfg Config, loc *time.Location, logger *zap.Logger) (*Publisher, error) {
	clean, err := sanitizeURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("configure amqp notifier: %w", err)
	}
	cfg.URL = clean
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = DefaultRoutingKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{cfg: cfg, loc: loc, logger: logger.Named("amqp"), dial: dialChannel}, nil
}

// Notify opens a connection per report. Batches run at most a few times a day.
func (p *Publisher) Notify(ctx context.Context, report domain.BatchReport) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(notify.NewEvent(report, p.loc))
	if err != nil {
		return fmt.Errorf("encode report event: %w", err)
	}

	ch, closeConn, err := p.dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect amqp: %w", err)
	}
	defer func() {
		err = errors.Join(err, ch.Close(), closeConn())
	}()

	if err := ch.ExchangeDeclare(p.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}

	err = ch.PublishWithContext(ctx, p.cfg.Exchange, p.cfg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    report.RunID,
		Timestamp:    report.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish report event: %w", err)
	}

	p.logger.Debug("report published",
		zap.String("exchange", p.cfg.Exchange),
		zap.String("routing_key", p.cfg.RoutingKey),
		zap.String("run_id", report.RunID),
	)

	return nil
}

func dialChannel(rawURL string) (channel, func() error, error) {
	conn, err := amqp.Dial(rawURL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, errors.Join(err, conn.Close())
	}

	return ch, conn.Close, nil
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if clean == "" {
		return "", errors.New("amqp url is required")
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse amqp url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("amqp url must use amqp:// or amqps://")
	}

	return clean, nil
}
