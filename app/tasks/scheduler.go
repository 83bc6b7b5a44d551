package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/feed"
	"github.com/asellingson28/ytmail/app/metrics"
)

var _ SchedulerInterface = (*Scheduler)(nil)

type ChannelFailure struct {
	ChannelID string  `json:"channel_id"`
	Outcome   Outcome `json:"outcome"`
	Error     string  `json:"error"`
}

type SweepReport struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Duration   string           `json:"duration"`
	Channels   int              `json:"channels"`
	Outcomes   map[Outcome]int  `json:"outcomes"`
	Failures   []ChannelFailure `json:"failures,omitempty"`
}

type Scheduler struct {
	channels []channel.Channel
	fetcher  FeedFetcher
	store    SeenStore
	notifier Notifier
	filterer *feed.Filterer
	interval time.Duration

	sweepMu sync.Mutex

	mu         sync.RWMutex
	cron       *cron.Cron
	lastReport *SweepReport
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewScheduler(channels []channel.Channel, fetcher FeedFetcher, store SeenStore, notifier Notifier, interval time.Duration) *Scheduler {
	return &Scheduler{
		channels: channels,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		filterer: feed.NewFilterer(),
		interval: interval,
	}
}

// Start runs one sweep right away and then one every interval until ctx is
// canceled or Stop is called. It returns once the first sweep has finished.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	sweepCtx := s.ctx

	logger := cronLogger{}
	s.cron = cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.Sweep(sweepCtx)
	}))
	c := s.cron
	s.mu.Unlock()

	s.Sweep(sweepCtx)

	c.Start()
	slog.Debug("Scheduler started", "interval", s.interval, "channels", len(s.channels))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
	}

	// Wait out a sweep started outside cron.
	s.sweepMu.Lock()
	s.sweepMu.Unlock()

	slog.Debug("Scheduler stopped")
}

// Sweep checks every channel once, in list order. A failing channel never
// stops the others. Concurrent calls are serialized.
func (s *Scheduler) Sweep(ctx context.Context) SweepReport {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	report := SweepReport{
		StartedAt: time.Now(),
		Channels:  len(s.channels),
		Outcomes:  make(map[Outcome]int),
	}

	for _, ch := range s.channels {
		if ctx.Err() != nil {
			slog.Info("Sweep interrupted", "remaining_from", ch.ID)
			break
		}

		task := NewCheckChannelTask(ch, s.fetcher, s.store, s.notifier, s.filterer)
		task.Start()

		err := task.Execute(ctx)

		report.Outcomes[task.Outcome]++
		metrics.ObserveCheck(string(task.Outcome))

		if err != nil {
			slog.Error("Task execution failed",
				"type", string(task.GetType()),
				"channel", ch.ID,
				"outcome", string(task.Outcome),
				"error", err)
			report.Failures = append(report.Failures, ChannelFailure{
				ChannelID: ch.ID,
				Outcome:   task.Outcome,
				Error:     err.Error(),
			})
		}
	}

	report.FinishedAt = time.Now()
	duration := report.FinishedAt.Sub(report.StartedAt)
	report.Duration = duration.String()
	metrics.ObserveSweep(duration, report.FinishedAt)

	s.mu.Lock()
	s.lastReport = &report
	s.mu.Unlock()

	slog.Info("Sweep completed",
		"channels", report.Channels,
		"new", report.Outcomes[OutcomeNew],
		"failures", len(report.Failures),
		"duration", duration)

	return report
}

func (s *Scheduler) LastReport() *SweepReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastReport == nil {
		return nil
	}
	report := *s.lastReport
	return &report
}
