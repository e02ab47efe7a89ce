package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultInterval is how often the dashboard refreshes when no interval
	// is configured.
	DefaultInterval = 3 * time.Minute
	// MinInterval is the floor on configured refresh intervals, protecting
	// the platform from accidental tight loops.
	MinInterval = 30 * time.Second
)

// Poller runs a refresh function on a fixed interval until its context is
// cancelled. Refreshes never overlap: a tick that fires while a refresh is
// still running is dropped, not queued.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
	logger   *zap.Logger
}

// NewPoller creates a poller calling refresh every interval. A zero interval
// takes DefaultInterval; anything below MinInterval is raised to it.
func NewPoller(interval time.Duration, refresh func(context.Context) error, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval < MinInterval {
		interval = MinInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Poller{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Interval returns the effective refresh interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run refreshes immediately, then on every tick, and returns once ctx is
// cancelled. Refresh failures are logged and the loop keeps going; the next
// tick gets a fresh attempt.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	defer p.logger.Info("poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
			// Drop the tick that may have fired during a slow refresh so
			// a backlog never forms.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := p.refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("refresh failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	p.logger.Debug("refresh completed", zap.Duration("elapsed", time.Since(start)))
}
