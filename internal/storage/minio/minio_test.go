package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-portfolio/internal/config"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — проверяют создание бакета, запись и чтение объекта, ErrNotFound для отсутствующего ключа.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

func startMinio(t *testing.T) config.S3Config {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		rootUser     = "root"
		rootPassword = "rootpass"
	)
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")

	return config.S3Config{
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		AccessKey: rootUser,
		SecretKey: rootPassword,
		Bucket:    "portfolio",
		Region:    "us-east-1",
	}
}

func TestIntegration_New_CreatesBucket_Idempotent(t *testing.T) {
	cfg := startMinio(t)

	_, err := New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = New(context.Background(), cfg)
	require.NoError(t, err)
}

func TestIntegration_PutImage_GetImage(t *testing.T) {
	cfg := startMinio(t)
	st, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx := context.Background()
	body := []byte("\x89PNG fake")
	img := models.Image{Key: "images/a.png", ContentType: "image/png", Size: int64(len(body))}
	require.NoError(t, st.PutImage(ctx, img, bytes.NewReader(body)))

	obj, err := st.GetImage(ctx, img.Key)
	require.NoError(t, err)
	defer obj.Body.Close()

	require.Equal(t, "image/png", obj.ContentType)
	require.Equal(t, img.Size, obj.Size)

	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestIntegration_GetImage_NotFound(t *testing.T) {
	cfg := startMinio(t)
	st, err := New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = st.GetImage(context.Background(), "images/missing.png")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
