package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Slugify строит slug из заголовка: нижний регистр, обрезка пробелов по краям,
// пробелы и слэши заменяются дефисами.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	return strings.NewReplacer(" ", "-", "/", "-").Replace(s)
}

// uniqueSlug подбирает свободный slug: base, base-2, base-3, ...
// Число попыток ограничено blog.slug_attempts, дальше — ErrSlugTaken.
func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	const op = "service.slug.uniqueSlug"

	attempts := s.cfg.Blog.SlugAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		candidate := base
		if i > 1 {
			candidate = base + "-" + strconv.Itoa(i)
		}

		taken, err := s.storage.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s: %w", op, ErrSlugTaken)
}
