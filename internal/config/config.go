// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Политики обработки "осиротевших" ответов в дереве комментариев.
const (
	OrphanHide    = "hide"
	OrphanPromote = "promote"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
//
// Перед чтением подгружается .env из рабочей директории (если есть),
// уже выставленные переменные окружения он не перетирает.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	Mongo    MongoConfig    `yaml:"mongo"`
	S3       S3Config       `yaml:"s3"`
	Upload   UploadConfig   `yaml:"upload"`
	Auth     AuthConfig     `yaml:"auth"`
	Comments CommentsConfig `yaml:"comments"`
	Blog     BlogConfig     `yaml:"blog"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Jobs     JobsConfig     `yaml:"jobs"`
	CORS     CORSConfig     `yaml:"cors"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки публичного HTTP API.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// MetricsConfig — служебный listener (/livez, /healthz, /metrics).
type MetricsConfig struct {
	Host string `yaml:"host" env:"METRICS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (m MetricsConfig) Addr() string {
	return net.JoinHostPort(m.Host, m.Port)
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DatabaseURL string `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
	// AutoMigrate применяет встроенные миграции при старте.
	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

// RedisConfig — кэш refresh-токенов. Пустой URL отключает кэш.
type RedisConfig struct {
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`
}

// MongoConfig — хранилище входящих сообщений формы обратной связи.
type MongoConfig struct {
	URI        string `yaml:"uri" env:"MONGO_URI" env-required:"true"`
	Database   string `yaml:"database" env:"MONGO_DATABASE" env-default:"portfolio"`
	Collection string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"contact_messages"`
}

// S3Config — объектное хранилище загруженных изображений (MinIO/S3).
type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY" env-required:"true"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY" env-required:"true"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET" env-default:"portfolio"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	UseSSL    bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"false"`
}

// UploadConfig — ограничения на загружаемые изображения.
type UploadConfig struct {
	MaxBytes          int64    `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
	AllowedExtensions []string `yaml:"allowed_extensions" env:"UPLOAD_ALLOWED_EXTENSIONS" env-default:".jpg,.jpeg,.png,.gif,.webp"`
}

// AuthConfig содержит параметры выпуска и валидации токенов.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	SessionTokenTTL   time.Duration `yaml:"session_token_ttl" env:"SESSION_TOKEN_TTL" env-default:"24h"`
	RefreshTokenTTL   time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	Issuer            string        `yaml:"issuer" env:"ISSUER" env-default:"portfolio"`
	Audience          string        `yaml:"audience" env:"AUDIENCE" env-default:"portfolio-web"`
	MinPasswordLength int           `yaml:"min_password_length" env:"MIN_PASSWORD_LENGTH" env-default:"8"`
}

// CommentsConfig — политика модерации и сборки дерева комментариев.
type CommentsConfig struct {
	OrphanPolicy      string `yaml:"orphan_policy" env:"COMMENTS_ORPHAN_POLICY" env-default:"hide"`
	AutoApproveGuests bool   `yaml:"auto_approve_guests" env:"COMMENTS_AUTO_APPROVE_GUESTS" env-default:"false"`
	GuestName         string `yaml:"guest_name" env:"COMMENTS_GUEST_NAME" env-default:"Guest"`
	MaxLength         int    `yaml:"max_length" env:"COMMENTS_MAX_LENGTH" env-default:"2000"`
}

// BlogConfig — пагинация и генерация slug.
type BlogConfig struct {
	DefaultPageSize int `yaml:"default_page_size" env:"BLOG_DEFAULT_PAGE_SIZE" env-default:"10"`
	MaxPageSize     int `yaml:"max_page_size" env:"BLOG_MAX_PAGE_SIZE" env-default:"50"`
	SlugAttempts    int `yaml:"slug_attempts" env:"BLOG_SLUG_ATTEMPTS" env-default:"20"`
}

// KafkaConfig — публикация событий. Пустой список брокеров отключает публикацию.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"portfolio.events"`
}

// JobDisabled в качестве расписания отключает задачу.
const JobDisabled = "-"

// JobsConfig — расписания фоновых задач в формате robfig/cron.
// RefreshRetention — сколько истёкший refresh-токен хранится до удаления.
type JobsConfig struct {
	RefreshJanitor   string        `yaml:"refresh_janitor" env:"JOBS_REFRESH_JANITOR" env-default:"@every 30m"`
	LikeRecount      string        `yaml:"like_recount" env:"JOBS_LIKE_RECOUNT" env-default:"@daily"`
	RefreshRetention time.Duration `yaml:"refresh_retention" env:"JOBS_REFRESH_RETENTION" env-default:"720h"`
}

// CORSConfig — разрешённые источники для браузерного фронта.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q does not exist: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return finish(&cfg)
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Comments.OrphanPolicy {
	case OrphanHide, OrphanPromote:
	default:
		return fmt.Errorf("comments.orphan_policy: unknown value %q", c.Comments.OrphanPolicy)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}

	if c.Blog.DefaultPageSize <= 0 || c.Blog.MaxPageSize < c.Blog.DefaultPageSize {
		return fmt.Errorf("blog: invalid page size bounds")
	}

	if c.Jobs.RefreshRetention < 0 {
		return fmt.Errorf("jobs.refresh_retention must not be negative")
	}

	return nil
}
