package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatsService periodically publishes directory statistics as Prometheus
// gauges.
type StatsService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	usersTotal prometheus.Gauge

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewStatsService registers the gauges on reg (which may be nil for an
// unregistered gauge). If interval is 0 or negative, defaults to 1 minute.
func NewStatsService(st store.Store, logger *slog.Logger, interval time.Duration, reg prometheus.Registerer) *StatsService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &StatsService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		usersTotal: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "userdir",
			Name:      "users_total",
			Help:      "Number of registered users.",
		}),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Refresh recounts users and updates the gauge.
func (s *StatsService) Refresh(ctx context.Context) error {
	n, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return err
	}
	s.usersTotal.Set(float64(n))
	return nil
}

// Start begins the background worker. Call Stop to shut it down.
func (s *StatsService) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
		s.Logger.Info("stats service started", "interval", s.Interval)
	})
}

// Stop shuts the worker down and waits for an in-flight refresh to finish.
// It is safe to call more than once, and before Start.
func (s *StatsService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if !s.started.Load() {
			return
		}
		<-s.doneCh
		s.Logger.Info("stats service stopped")
	})
}

func (s *StatsService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *StatsService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		s.Logger.Error("failed to refresh user stats", "error", err)
	}
}
