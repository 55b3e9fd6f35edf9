package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/zulandar/satchel/internal/logging"
)

// Scheduler sends a digest every time its cron expression fires.
type Scheduler struct {
	source    Source
	notifier  Notifier
	cron      string
	horizon   time.Duration
	channelID string
	now       func() time.Time
	breaker   *gobreaker.CircuitBreaker
}

// SchedulerOpts holds parameters for NewScheduler.
type SchedulerOpts struct {
	Source    Source
	Notifier  Notifier
	Cron      string        // 5-field cron expression
	Horizon   time.Duration // look-ahead window for upcoming assignments
	ChannelID string
	Now       func() time.Time // defaults to time.Now

	// Breaker trips after this many consecutive delivery failures (default 3)
	// and stays open for BreakerTimeout (default 5m).
	MaxFailures    uint32
	BreakerTimeout time.Duration
}

// NewScheduler creates a Scheduler. The cron expression must parse.
func NewScheduler(opts SchedulerOpts) (*Scheduler, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("digest: source is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("digest: notifier is required")
	}
	if _, err := cronParser.Parse(opts.Cron); err != nil {
		return nil, fmt.Errorf("digest: cron %q: %w", opts.Cron, err)
	}
	if opts.Horizon <= 0 {
		return nil, fmt.Errorf("digest: horizon must be positive")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 3
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 5 * time.Minute
	}

	maxFailures := opts.MaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "digest-notifier",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("digest: circuit breaker state changed")
		},
	})

	return &Scheduler{
		source:    opts.Source,
		notifier:  opts.Notifier,
		cron:      opts.Cron,
		horizon:   opts.Horizon,
		channelID: opts.ChannelID,
		now:       opts.Now,
		breaker:   breaker,
	}, nil
}

// Run waits for each cron fire time and sends a digest, until ctx is
// cancelled. Delivery errors are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	logging.Logger.WithField("cron", s.cron).Info("digest: scheduler started")
	for {
		wait := nextCronDuration(s.cron, s.now())
		if wait <= 0 {
			wait = time.Minute
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logging.Logger.Info("digest: scheduler stopped")
			return nil
		case <-timer.C:
		}

		if _, err := s.SendOnce(ctx); err != nil {
			logging.Logger.WithError(err).Error("digest: delivery failed")
		}
	}
}

// SendOnce builds the current digest and delivers it through the circuit
// breaker. It returns the delivered report, or nil when nothing was due.
func (s *Scheduler) SendOnce(ctx context.Context) (*Report, error) {
	report, err := Build(s.source, s.now(), s.horizon)
	if err != nil {
		return nil, err
	}
	if report == nil {
		logging.Logger.Info("digest: nothing due, skipped")
		return nil, nil
	}

	msg := Format(report)
	msg.ChannelID = s.channelID
	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.notifier.Send(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("digest: send: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{
		"overdue":  len(report.Overdue),
		"upcoming": len(report.Upcoming),
	}).Info("digest: delivered")
	return report, nil
}
