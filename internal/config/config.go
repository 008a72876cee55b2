package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/damoang/mediawall/pkg/database"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the full service configuration. Values come from defaults, then
// the YAML file, then environment variables.
type Config struct {
	App       AppConfig       `yaml:"app" envPrefix:"APP_"`
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Database  DatabaseConfig  `yaml:"database" envPrefix:"DB_"`
	Redis     RedisConfig     `yaml:"redis" envPrefix:"REDIS_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Session   SessionConfig   `yaml:"session" envPrefix:"SESSION_"`
	Upload    UploadConfig    `yaml:"upload" envPrefix:"UPLOAD_"`
	CORS      CORSConfig      `yaml:"cors" envPrefix:"CORS_"`
	RateLimit RateLimitConfig `yaml:"ratelimit" envPrefix:"RATELIMIT_"`
}

type AppConfig struct {
	Env string `yaml:"env" env:"ENV"`
}

type ServerConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

// DatabaseConfig selects the record store. Driver is mysql or postgres.
type DatabaseConfig struct {
	Driver          string `yaml:"driver" env:"DRIVER"`
	Host            string `yaml:"host" env:"HOST"`
	Port            int    `yaml:"port" env:"PORT"`
	User            string `yaml:"user" env:"USER"`
	Password        string `yaml:"password" env:"PASSWORD"`
	Name            string `yaml:"name" env:"NAME"`
	SSLMode         string `yaml:"sslmode" env:"SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"` // seconds
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	PoolSize int    `yaml:"pool_size" env:"POOL_SIZE"`
	Channel  string `yaml:"channel" env:"CHANNEL"`
}

type StorageConfig struct {
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	Region          string `yaml:"region" env:"REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	CDNURL          string `yaml:"cdn_url" env:"CDN_URL"`
	ForcePathStyle  bool   `yaml:"force_path_style" env:"FORCE_PATH_STYLE"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret" env:"SECRET"`
	TTL    time.Duration `yaml:"ttl" env:"TTL"`
}

type UploadConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" env:"MAX_FILE_SIZE"`
	// MaxRequestSize caps the whole multipart body of one upload request.
	MaxRequestSize int64 `yaml:"max_request_size" env:"MAX_REQUEST_SIZE"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" env:"ALLOW_ORIGINS"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"REQUESTS"`
	Window   time.Duration `yaml:"window" env:"WINDOW"`
}

const developmentSecret = "dev-only-session-secret"

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		App:    AppConfig{Env: "development"},
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "mediawall",
			Name:            "mediawall",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
			Channel:  "mediawall:events",
		},
		Storage: StorageConfig{
			Region:         "us-east-1",
			Bucket:         "media-uploads",
			ForcePathStyle: true,
		},
		Session: SessionConfig{
			Secret: developmentSecret,
			TTL:    7 * 24 * time.Hour,
		},
		Upload:    UploadConfig{MaxFileSize: 50 << 20, MaxRequestSize: 256 << 20},
		CORS:      CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		RateLimit: RateLimitConfig{Requests: 30, Window: time.Minute},
	}
}

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is not an error) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if !c.IsDevelopment() && c.Session.Secret == developmentSecret {
		return errors.New("session secret must be set outside development")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("upload max_file_size must be positive")
	}
	if c.Upload.MaxRequestSize < c.Upload.MaxFileSize {
		return errors.New("upload max_request_size must be at least max_file_size")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

// IsProduction reports whether session cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

// GetDSN returns the driver specific connection string.
func (d DatabaseConfig) GetDSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}

	mc := mysqldriver.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// ConnMaxLifetimeDuration converts the configured seconds to a duration.
func (d DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// DatabaseOptions returns the connection settings for database.Open. SQL is
// logged at info level in development.
func (c *Config) DatabaseOptions() database.Options {
	level := gormlogger.Warn
	if c.IsDevelopment() {
		level = gormlogger.Info
	}
	return database.Options{
		Driver:          c.Database.Driver,
		DSN:             c.Database.GetDSN(),
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetimeDuration(),
		LogLevel:        level,
	}
}

// LoadDotEnv loads .env files with priority: .env.local > .env
// godotenv.Load does NOT overwrite already-set env vars,
// so OS env vars always win, .env.local wins over .env.
// Returns list of files actually loaded.
func LoadDotEnv(dir string) []string {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		f := name
		if dir != "" {
			f = dir + string(os.PathSeparator) + name
		}
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// ConfigPath returns CONFIG_PATH or the default location.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}
