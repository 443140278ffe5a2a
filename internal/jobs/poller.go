package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller runs a task immediately and then at a fixed interval until its
// context is cancelled. Ticks that arrive while the task is still running
// are dropped. Intervals below one second are rounded up by cron.
type Poller struct {
	name     string
	interval time.Duration
	task     func(context.Context)
	logger   *zap.Logger
}

// NewPoller creates a poller; interval must be positive
func NewPoller(name string, interval time.Duration, task func(context.Context), logger *zap.Logger) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poller %s: interval must be positive", name)
	}
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is done and the last in-flight run has returned
func (p *Poller) Run(ctx context.Context) error {
	cl := newCronLogger(p.logger)
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))

	job := cron.NewChain(cron.Recover(cl)).Then(cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		p.task(ctx)
	}))

	if _, err := c.AddJob("@every "+p.interval.String(), job); err != nil {
		return fmt.Errorf("poller %s: %w", p.name, err)
	}

	p.logger.Info("poller started",
		zap.String("poller", p.name),
		zap.Duration("interval", p.interval))

	job.Run()
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()

	p.logger.Info("poller stopped", zap.String("poller", p.name))
	return nil
}
