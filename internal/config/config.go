package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Database DatabaseConfig
	Server   ServerConfig
	Ingest   IngestConfig
	Taxonomy TaxonomyConfig
	NATS     NATSConfig
	Archive  ArchiveConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type IngestConfig struct {
	// AllowPartial ingests only the valid subset of a pack instead of
	// rejecting the whole pack on the first invalid tag.
	AllowPartial bool          `envconfig:"INGEST_ALLOW_PARTIAL" default:"false"`
	Workers      int           `envconfig:"INGEST_WORKERS" default:"4"`
	TrustFile    string        `envconfig:"INGEST_TRUST_FILE"`
	DedupEvery   time.Duration `envconfig:"INGEST_DEDUP_EVERY" default:"1h"`
}

type TaxonomyConfig struct {
	Path string `envconfig:"TAXONOMY_PATH"`
}

// NATSConfig configures the ingestion event publisher. Publishing is
// disabled when URL is empty.
type NATSConfig struct {
	URL        string `envconfig:"NATS_URL"`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"TAGSTORE"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"tagstore.ingested"`
	ClientName string `envconfig:"NATS_CLIENT_NAME" default:"tagstore-ingest"`
}

// ArchiveConfig configures the raw-document archive. Archiving is disabled
// when Endpoint is empty.
type ArchiveConfig struct {
	Endpoint   string `envconfig:"ARCHIVE_ENDPOINT"`
	BucketName string `envconfig:"ARCHIVE_BUCKET_NAME" default:"tagpacks"`
	AccessKey  string `envconfig:"ARCHIVE_ACCESS_KEY"`
	SecretKey  string `envconfig:"ARCHIVE_SECRET_KEY"`
	UseSSL     bool   `envconfig:"ARCHIVE_USE_SSL" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
