// Package redis keeps one counter hash per day so separate processes agree on
// whether today's check-in already completed.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "arc:run:"
	DefaultTTL    = 48 * time.Hour

	fieldRuns      = "runs"
	fieldSucceeded = "succeeded"
	fieldFailed    = "failed"
	fieldLastRunID = "last_run_id"
)

var _ ports.RunLedger = (*Ledger)(nil)

type Ledger struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*Ledger)

func WithPrefix(prefix string) Option {
	return func(l *Ledger) { l.prefix = prefix }
}

func WithTTL(ttl time.Duration) Option {
	return func(l *Ledger) { l.ttl = ttl }
}

func NewLedger(client goredis.UniversalClient, opts ...Option) *Ledger {
	l := &Ledger{client: client, prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Open parses a redis:// URL and returns a ledger with its own client.
func Open(rawURL string, opts ...Option) (*Ledger, error) {
	options, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return NewLedger(goredis.NewClient(options), opts...), nil
}

func (l *Ledger) Close() error {
	return l.client.Close()
}

func (l *Ledger) dayKey(day string) string { return l.prefix + day }

func (l *Ledger) okKey(day string) string { return l.prefix + day + ":ok" }

func (l *Ledger) RecordRun(ctx context.Context, day string, report domain.BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := l.dayKey(day)
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldRuns, 1)
		pipe.HIncrBy(ctx, key, fieldSucceeded, int64(report.SuccessCount()))
		pipe.HIncrBy(ctx, key, fieldFailed, int64(report.FailureCount()))
		pipe.HSet(ctx, key, fieldLastRunID, report.RunID)
		pipe.Expire(ctx, key, l.ttl)
		if report.AllSucceeded() {
			pipe.Set(ctx, l.okKey(day), report.RunID, l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record run for %s: %w", day, err)
	}

	return nil
}

func (l *Ledger) Completed(ctx context.Context, day string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	n, err := l.client.Exists(ctx, l.okKey(day)).Result()
	if err != nil {
		return false, fmt.Errorf("read completion for %s: %w", day, err)
	}

	return n > 0, nil
}

func (l *Ledger) Summary(ctx context.Context, day string) (ports.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return ports.RunSummary{}, err
	}

	fields, err := l.client.HGetAll(ctx, l.dayKey(day)).Result()
	if err != nil {
		return ports.RunSummary{}, fmt.Errorf("read run summary for %s: %w", day, err)
	}
	completed, err := l.Completed(ctx, day)
	if err != nil {
		return ports.RunSummary{}, err
	}

	summary := ports.RunSummary{Day: day, LastRunID: fields[fieldLastRunID], Completed: completed}
	var errs []error
	summary.Runs, errs = parseCount(fields, fieldRuns, errs)
	summary.Succeeded, errs = parseCount(fields, fieldSucceeded, errs)
	summary.Failed, errs = parseCount(fields, fieldFailed, errs)
	if err := errors.Join(errs...); err != nil {
		return ports.RunSummary{}, fmt.Errorf("decode run summary for %s: %w", day, err)
	}

	return summary, nil
}

func parseCount(fields map[string]string, name string, errs []error) (int, []error) {
	raw, ok := fields[name]
	if !ok {
		return 0, errs
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, append(errs, fmt.Errorf("field %s: %w", name, err))
	}

	return n, errs
}
