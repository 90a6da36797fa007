package refresh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is three 50ms ticks.
const DefaultInterval = 150 * time.Millisecond

// every is a constant-delay schedule. cron.Every rounds to whole seconds,
// which is too coarse for animated labels.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// Scheduler re-runs one job on a fixed period. It belongs to a single view
// session; a slow tick is skipped rather than run concurrently.
type Scheduler struct {
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger

	once sync.Once
	done chan struct{}
}

func New(interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start calls job every interval until job returns false or Stop is called.
func (s *Scheduler) Start(job func() bool) {
	s.cron.Schedule(every(s.interval), cron.FuncJob(func() {
		select {
		case <-s.done:
			return
		default:
		}
		if !job() {
			s.logger.Debug("refresh job finished, cancelling scheduler")
			s.cancel()
		}
	}))
	s.cron.Start()
	s.logger.Debug("refresh scheduler started", "interval", s.interval)
}

func (s *Scheduler) cancel() {
	s.once.Do(func() {
		close(s.done)
		s.cron.Stop()
	})
}

// Stop cancels the schedule and waits for a running tick to return. It must
// not be called from inside the job.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Done is closed once the scheduler has been cancelled.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
