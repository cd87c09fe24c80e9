package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

storage:
  type: "aws"
  s3_bucket: "review-snapshots"
  s3_prefix: "snapshots/"
  dynamodb_table: "review-datasets"
  aws_region: "eu-west-1"

ingest:
  s3_bucket: "review-registers"
  s3_prefix: "incoming/"
  max_upload_mb: 8

database:
  url: "postgres://localhost/review?sslmode=disable"

redis:
  url: "redis://localhost:6379/0"

cache:
  enabled: true
  ttl_seconds: 60

events:
  queue_url: "https://sqs.eu-west-1.amazonaws.com/123/datasets"

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "aws", cfg.Storage.Type)
	assert.Equal(t, "review-snapshots", cfg.Storage.S3Bucket)
	assert.Equal(t, "snapshots/", cfg.Storage.S3Prefix)
	assert.Equal(t, "review-datasets", cfg.Storage.DynamoDBTable)

	assert.Equal(t, "review-registers", cfg.Ingest.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.Ingest.S3Region, "ingest region follows storage region")
	assert.Equal(t, int64(8<<20), cfg.Ingest.MaxUploadBytes())

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "eu-west-1", cfg.Events.Region)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: {}\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "./data", cfg.Storage.LocalPath)
	assert.Equal(t, 32, cfg.Ingest.MaxUploadMB)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := `
ingest:
  s3_bucket: "file-bucket"
database:
  url: "postgres://file"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("REVIEW_S3_BUCKET", "env-bucket")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("REDIS_URL", "redis://env:6379")
	t.Setenv("SQS_DATASET_QUEUE_URL", "https://sqs/env")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	// Environment variables should override file values
	assert.Equal(t, "env-bucket", cfg.Ingest.S3Bucket)
	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, "redis://env:6379", cfg.Redis.URL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "https://sqs/env", cfg.Events.QueueURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestGetAWSProfile(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("AWS_PROFILE_OVERRIDE", "")
	cfg := StorageConfig{AWSProfile: "dev"}
	assert.Equal(t, "dev", cfg.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "iam")
	assert.Equal(t, "", cfg.GetAWSProfile())
}
