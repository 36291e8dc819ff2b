// jobs — фоновые задачи по расписанию (robfig/cron):
//   - refresh_janitor удаляет refresh-токены, истёкшие раньше окна хранения;
//   - like_recount пересчитывает счётчики лайков по таблицам лайков.
//
// Расписание "-" отключает задачу.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/metrics"
)

// Имена задач (метка job в метриках).
const (
	JobRefreshJanitor = "refresh_janitor"
	JobLikeRecount    = "like_recount"
)

// runTimeout ограничивает один запуск задачи.
const runTimeout = 2 * time.Minute

// Store — срез хранилища, нужный задачам.
type Store interface {
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
	RecountLikes(ctx context.Context) (int64, error)
}

// Scheduler владеет cron-планировщиком.
type Scheduler struct {
	cron      *cron.Cron
	store     Store
	log       *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// New регистрирует задачи согласно конфигу. Ошибка — битое cron-выражение.
func New(store Store, cfg config.JobsConfig, log *slog.Logger) (*Scheduler, error) {
	const op = "jobs.New"

	if log == nil {
		log = slog.Default()
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:     store,
		log:       log,
		retention: cfg.RefreshRetention,
		now:       func() time.Time { return time.Now().UTC() },
	}

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context)
	}{
		{JobRefreshJanitor, cfg.RefreshJanitor, s.RunRefreshJanitor},
		{JobLikeRecount, cfg.LikeRecount, s.RunLikeRecount},
	}

	for _, j := range jobs {
		if j.schedule == "" || j.schedule == config.JobDisabled {
			log.Info("job_disabled", slog.String("job", j.name))
			continue
		}

		run := j.run
		if _, err := s.cron.AddFunc(j.schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			defer cancel()
			run(ctx)
		}); err != nil {
			return nil, fmt.Errorf("%s: %s schedule %q: %w", op, j.name, j.schedule, err)
		}

		log.Info("job_scheduled", slog.String("job", j.name), slog.String("schedule", j.schedule))
	}

	return s, nil
}

// Entries — число зарегистрированных задач.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop прекращает планирование; возвращённый контекст закрывается,
// когда завершатся выполняющиеся задачи.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunRefreshJanitor удаляет refresh-токены, истёкшие раньше чем retention назад.
// Недавно истёкшие и отозванные токены остаются для аудита.
func (s *Scheduler) RunRefreshJanitor(ctx context.Context) {
	n, err := s.store.DeleteExpiredTokens(ctx, s.now().Add(-s.retention))
	s.finish(JobRefreshJanitor, n, err)
}

// RunLikeRecount сверяет like_count с таблицами лайков.
func (s *Scheduler) RunLikeRecount(ctx context.Context) {
	n, err := s.store.RecountLikes(ctx)
	s.finish(JobLikeRecount, n, err)
}

func (s *Scheduler) finish(job string, affected int64, err error) {
	if err != nil {
		metrics.JobRuns.WithLabelValues(job, "error").Inc()
		s.log.Error("job_failed", slog.String("job", job), slog.String("err", err.Error()))
		return
	}

	metrics.JobRuns.WithLabelValues(job, "ok").Inc()
	s.log.Info("job_done", slog.String("job", job), slog.Int64("affected", affected))
}
