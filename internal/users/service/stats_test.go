package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestStatsService_Refresh(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	reg := prometheus.NewRegistry()

	stats := NewStatsService(st, slogx.Discard(), time.Hour, reg)
	require.NoError(t, stats.Refresh(ctx))
	require.Equal(t, 0.0, gaugeValue(t, reg, "userdir_users_total"))

	users := &UserService{Store: st, Hasher: cryptox.Argon2Hasher{}}
	_, err := users.Create(ctx, domain.UserDraft{Name: "Ann", Surname: "Lee", Age: 30, Email: "ann@x.io", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, stats.Refresh(ctx))
	require.Equal(t, 1.0, gaugeValue(t, reg, "userdir_users_total"))
}

func TestStatsService_StartStop(t *testing.T) {
	st := newTestStore(t)
	reg := prometheus.NewRegistry()

	stats := NewStatsService(st, slogx.Discard(), 10*time.Millisecond, reg)
	require.Equal(t, 10*time.Millisecond, stats.Interval)

	stats.Start()
	require.Eventually(t, func() bool {
		families, err := reg.Gather()
		return err == nil && len(families) == 1
	}, time.Second, 5*time.Millisecond)
	stats.Stop()
	stats.Stop()
}

func TestStatsService_DefaultInterval(t *testing.T) {
	stats := NewStatsService(nil, slogx.Discard(), 0, nil)
	require.Equal(t, time.Minute, stats.Interval)
}

func TestStatsService_RefreshFailure(t *testing.T) {
	st := newTestStore(t)
	stats := NewStatsService(st, slogx.Discard(), time.Hour, nil)
	require.NoError(t, st.Close())
	require.Error(t, stats.Refresh(context.Background()))
}

func TestStatsService_StopWithoutStart(t *testing.T) {
	stats := NewStatsService(nil, slogx.Discard(), time.Hour, nil)

	done := make(chan struct{})
	go func() {
		stats.Stop()
		close(done)
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
