package service

// Тесты сервисного слоя.
//
// Подготовка окружения:
//   # 1) Сгенерировать моки:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//   mockgen -source=./internal/cache/cache.go -destination=./mocks/cache.go -package=mocks
//   mockgen -source=./internal/events/events.go -destination=./mocks/events.go -package=mocks
//
//   # 2) Запустить тесты:
//   go test ./internal/service -v -race -count=1

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/mocks"
)

func testConfig() config.Config {
	return config.Config{
		Upload: config.UploadConfig{
			MaxBytes:          1024,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		},
		Auth: config.AuthConfig{
			JWTSecret:         "unit-secret",
			SessionTokenTTL:   24 * time.Hour,
			RefreshTokenTTL:   168 * time.Hour,
			Issuer:            "portfolio",
			Audience:          "portfolio-web",
			MinPasswordLength: 8,
		},
		Comments: config.CommentsConfig{
			OrphanPolicy: config.OrphanHide,
			GuestName:    "Guest",
			MaxLength:    2000,
		},
		Blog: config.BlogConfig{
			DefaultPageSize: 10,
			MaxPageSize:     50,
			SlugAttempts:    5,
		},
	}
}

type testDeps struct {
	st     *mocks.MockStorage
	images *mocks.MockImageStorage
	inbox  *mocks.MockMessageStorage
	pub    *mocks.MockPublisher
}

// newServiceWithMocks — сервис с моками всех хранилищ и публикатора.
func newServiceWithMocks(t *testing.T) (*Service, testDeps, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := testDeps{
		st:     mocks.NewMockStorage(ctrl),
		images: mocks.NewMockImageStorage(ctrl),
		inbox:  mocks.NewMockMessageStorage(ctrl),
		pub:    mocks.NewMockPublisher(ctrl),
	}

	s := New(d.st, d.images, d.inbox, testConfig())
	s.SetPublisher(d.pub)

	return s, d, ctrl
}
