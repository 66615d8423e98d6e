// Package mail sends batch reports through an SMTP relay.
package mail

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("mail host is required"))
	}
	if strings.TrimSpace(c.From) == "" {
		errs = append(errs, errors.New("mail sender is required"))
	}
	if len(c.To) == 0 {
		errs = append(errs, errors.New("at least one mail recipient is required"))
	}

	return errors.Join(errs...)
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type Notifier struct {
	cfg  Config
	loc  *time.Location
	send sendFunc
	now  func() time.Time
}

func NewNotifier(cfg Config, loc *time.Location) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configure mail notifier: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &Notifier{cfg: cfg, loc: loc, send: smtp.SendMail, now: time.Now}, nil
}

func (n *Notifier) Notify(ctx context.Context, report domain.BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := notify.Render(report, n.loc)
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, auth, n.cfg.From, n.cfg.To, n.compose(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}

	return nil
}

func (n *Notifier) compose(msg notify.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	return []byte(b.String())
}
