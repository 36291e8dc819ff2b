package service

import (
	"context"
	"log/slog"

	"github.com/pribylovaa/go-portfolio/internal/events"
	"github.com/pribylovaa/go-portfolio/internal/metrics"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
)

// publish отправляет событие; ошибка публикации только логируется.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		metrics.EventsPublished.WithLabelValues(e.Type, "error").Inc()
		log.From(ctx).Warn("event_publish_failed",
			slog.String("type", e.Type),
			slog.String("event_id", e.ID),
			slog.String("err", err.Error()),
		)
		return
	}

	metrics.EventsPublished.WithLabelValues(e.Type, "ok").Inc()
}
