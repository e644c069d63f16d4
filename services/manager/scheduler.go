package manager

import (
	"context"
	"fmt"

	"sjsage522/newsworker/logger"

	"github.com/robfig/cron/v3"
)

// cronParser accepts standard five-field expressions and descriptors like @daily
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs a job on a cron schedule, never overlapping two runs
type Scheduler struct {
	cron *cron.Cron
	spec string
	log  *logger.Logger
}

// NewScheduler validates spec and schedules job on it
func NewScheduler(spec string, job func()) (*Scheduler, error) {
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	log := logger.ForManager().WithField("schedule", spec)
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}

	return &Scheduler{cron: c, spec: spec, log: log}, nil
}

// Run starts the schedule and blocks until ctx is done. A batch that is
// already running is allowed to finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info().Time("next_run", e.Next).Msg("Scheduler started")
	}

	<-ctx.Done()
	s.log.Info().Msg("Stopping scheduler, waiting for running batch")
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
	return nil
}

// cronLogger routes robfig/cron messages to zerolog
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
