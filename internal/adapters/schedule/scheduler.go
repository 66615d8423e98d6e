// Package schedule runs the check-in batch on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled batch. ctx is canceled when the scheduler stops.
type Job func(ctx context.Context)

type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	logger  *zap.Logger
	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	started bool
}

// New validates spec and registers job. Ticks that arrive while the previous
// job is still running are skipped, so batches never overlap.
func New(spec string, loc *time.Location, job Job, logger *zap.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("schedule %q: job is required", spec)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("schedule")

	cl := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, logger: logger, baseCtx: baseCtx, cancel: cancel}

	entry, err := c.AddFunc(spec, func() { job(s.baseCtx) })
	if err != nil {
		cancel()
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	s.entry = entry

	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Time("next_run", s.Next()))
}

// Next returns the next planned run time, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Stop halts new ticks, cancels the running job context and waits for it to
// return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running job: %w", ctx.Err())
	}
}

// RunNow invokes the job synchronously through the same chain as ticks, so it
// is skipped when a scheduled run is in progress.
func (s *Scheduler) RunNow() {
	s.cron.Entry(s.entry).WrappedJob.Run()
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
