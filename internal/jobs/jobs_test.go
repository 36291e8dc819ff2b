package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/metrics"
	"github.com/pribylovaa/go-portfolio/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RegistersEnabledJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)

	s, err := New(st, config.JobsConfig{RefreshJanitor: "@every 30m", LikeRecount: "@daily"}, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 2, s.Entries())

	s, err = New(st, config.JobsConfig{RefreshJanitor: config.JobDisabled, LikeRecount: "0 3 * * *"}, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, s.Entries())

	s, err = New(st, config.JobsConfig{RefreshJanitor: config.JobDisabled, LikeRecount: config.JobDisabled}, discardLogger())
	require.NoError(t, err)
	require.Zero(t, s.Entries())
}

func TestNew_BadSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := New(mocks.NewMockStorage(ctrl), config.JobsConfig{RefreshJanitor: "every now and then"}, discardLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), JobRefreshJanitor)
}

func TestRunRefreshJanitor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	s, err := New(st, config.JobsConfig{RefreshJanitor: config.JobDisabled, LikeRecount: config.JobDisabled}, discardLogger())
	require.NoError(t, err)

	okBefore := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobRefreshJanitor, "ok"))
	errBefore := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobRefreshJanitor, "error"))

	gomock.InOrder(
		st.EXPECT().DeleteExpiredTokens(gomock.Any(), gomock.Any()).Return(int64(3), nil),
		st.EXPECT().DeleteExpiredTokens(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down")),
	)

	s.RunRefreshJanitor(context.Background())
	s.RunRefreshJanitor(context.Background())

	require.Equal(t, okBefore+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobRefreshJanitor, "ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobRefreshJanitor, "error")))
}

func TestRunRefreshJanitor_KeepsRetentionWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	s, err := New(st, config.JobsConfig{
		RefreshJanitor:   config.JobDisabled,
		LikeRecount:      config.JobDisabled,
		RefreshRetention: 72 * time.Hour,
	}, discardLogger())
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	st.EXPECT().DeleteExpiredTokens(gomock.Any(), now.Add(-72*time.Hour)).Return(int64(1), nil)

	s.RunRefreshJanitor(context.Background())
}

func TestRunLikeRecount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	s, err := New(st, config.JobsConfig{RefreshJanitor: config.JobDisabled, LikeRecount: config.JobDisabled}, discardLogger())
	require.NoError(t, err)

	st.EXPECT().RecountLikes(gomock.Any()).Return(int64(2), nil)

	s.RunLikeRecount(context.Background())
}

func TestStartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, err := New(mocks.NewMockStorage(ctrl), config.JobsConfig{RefreshJanitor: "@every 1h", LikeRecount: config.JobDisabled}, discardLogger())
	require.NoError(t, err)

	s.Start()
	<-s.Stop().Done()
}
