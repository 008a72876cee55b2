package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "media-uploads", cfg.Storage.Bucket)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, int64(256<<20), cfg.Upload.MaxRequestSize)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
app:
  env: staging
server:
  port: 9000
session:
  secret: from-yaml
  ttl: 24h
ratelimit:
  window: 30s
cors:
  allow_origins: [https://a.example]
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://b.example,https://c.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-yaml", cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load("")
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	d := Default().Database
	d.Password = "pw"
	dsn := d.GetDSN()
	assert.True(t, strings.HasPrefix(dsn, "mediawall:pw@tcp(localhost:3306)/mediawall?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	d.Driver = "postgres"
	d.Port = 5432
	assert.Equal(t, "host=localhost port=5432 user=mediawall password=pw dbname=mediawall sslmode=disable", d.GetDSN())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env.local", "MEDIAWALL_DOTENV_TEST=local\n")
	writeFile(t, dir, ".env", "MEDIAWALL_DOTENV_TEST=base\n")
	t.Setenv("MEDIAWALL_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("MEDIAWALL_DOTENV_TEST"))

	loaded := LoadDotEnv(dir)

	assert.Len(t, loaded, 2)
	assert.Equal(t, "local", os.Getenv("MEDIAWALL_DOTENV_TEST"))
}

func TestDatabaseOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.DatabaseOptions()
	assert.Equal(t, "mysql", opts.Driver)
	assert.Equal(t, cfg.Database.GetDSN(), opts.DSN)
	assert.Equal(t, time.Hour, opts.ConnMaxLifetime)
	assert.Equal(t, gormlogger.Info, opts.LogLevel)

	cfg.App.Env = "production"
	assert.Equal(t, gormlogger.Warn, cfg.DatabaseOptions().LogLevel)
}
