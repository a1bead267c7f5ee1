package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "public.yaml"), []byte(public), 0o644))
	require.NoError(t, os.WriteFile(path.Join(dir, "private.yaml"), []byte(private), 0o644))
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfigs(t, `
log_level: debug
log_json: true
jwt_ttl_hours: 24
max_files_per_post: 2
presign_ttl_minutes: 5
`, `
pg:
  host: db
  port: 5433
  user: u
  password: p
  dbname: d
s3:
  endpoint: minio:9000
  access_key: ak
  secret_key: sk
  media_bucket: media
  staging_bucket: staging
redis:
  addr: redis:6379
jwt_key: k
`)

	cfg := MustLoad(dir)

	assert.Equal(t, "debug", cfg.Public.LogLevel)
	assert.True(t, cfg.Public.LogJSON)
	assert.Equal(t, 2, cfg.Public.MaxFilesPerPost)
	assert.Equal(t, "db", cfg.Private.Pg.Host)
	assert.Equal(t, 5433, cfg.Private.Pg.Port)
	assert.Equal(t, "minio:9000", cfg.Private.S3.Endpoint)
	assert.Equal(t, "redis:6379", cfg.Private.Redis.Addr)

	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, 24*time.Hour, cfg.JwtTTL())
	assert.Equal(t, 5*time.Minute, cfg.PresignTTL())
}

func TestMustLoadDefaults(t *testing.T) {
	dir := writeConfigs(t, "log_level: info\n", "jwt_key: k\n")

	cfg := MustLoad(dir)

	assert.Equal(t, 72*time.Hour, cfg.JwtTTL())
	assert.Equal(t, 4, cfg.Public.MaxFilesPerPost)
	assert.Equal(t, 4096, cfg.Public.MaxContentLength)
	assert.Equal(t, 50, cfg.Public.FeedPageSize)
	assert.Equal(t, 50, cfg.Public.SearchPageSize)
	assert.Equal(t, 15*time.Minute, cfg.PresignTTL())
	assert.Equal(t, time.Minute, cfg.FeedCacheTTL())
	assert.Empty(t, cfg.Private.Redis.Addr)
}

func TestMustLoadMissingFilePanics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(t.TempDir()) })
}

func TestMustLoadBrokenYamlPanics(t *testing.T) {
	dir := writeConfigs(t, "log_level: [unclosed\n", "jwt_key: k\n")
	assert.Panics(t, func() { MustLoad(dir) })
}
