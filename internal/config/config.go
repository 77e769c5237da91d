// Package config resolves runtime configuration from ACADEMY_* environment
// variables, optionally preloaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"academycore/internal/kv"
)

// Environment variables.
const (
	EnvKVDriver     = "ACADEMY_KV_DRIVER"
	EnvFSRoot       = "ACADEMY_KV_FS_ROOT"
	EnvSQLitePath   = "ACADEMY_SQLITE_PATH"
	EnvPostgresDSN  = "ACADEMY_POSTGRES_DSN"
	EnvRedisAddr    = "ACADEMY_REDIS_ADDR"
	EnvRedisPass    = "ACADEMY_REDIS_PASSWORD"
	EnvRedisDB      = "ACADEMY_REDIS_DB"
	EnvRedisPrefix  = "ACADEMY_REDIS_PREFIX"
	EnvS3Bucket     = "ACADEMY_S3_BUCKET"
	EnvS3Region     = "ACADEMY_S3_REGION"
	EnvS3Endpoint   = "ACADEMY_S3_ENDPOINT"
	EnvS3PathStyle  = "ACADEMY_S3_PATH_STYLE"
	EnvS3Prefix     = "ACADEMY_S3_PREFIX"
	EnvLoginDelay   = "ACADEMY_LOGIN_DELAY"
	EnvLogLevel     = "ACADEMY_LOG_LEVEL"
	EnvLogFormat    = "ACADEMY_LOG_FORMAT"
	EnvMergePolicy  = "ACADEMY_MERGE_POLICY"
	defaultEnvFile  = ".env"
	defaultFSRoot   = "./academydata"
	defaultSQLite   = "./academy.db"
	defaultPostgres = "postgres://localhost/academy?sslmode=disable"
	defaultRedis    = "localhost:6379"
	defaultPrefix   = "academy:"
)

// Redis configures the redis substrate.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// S3 configures the S3 substrate.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// Storage selects and configures the kv substrate.
type Storage struct {
	Driver      kv.Driver
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	Redis       Redis
	S3          S3
}

// Config is the resolved runtime configuration.
type Config struct {
	Storage     Storage
	LoginDelay  time.Duration
	LogLevel    slog.Level
	LogFormat   string
	MergePolicy string
}

// Load preloads envFile (or ./.env when empty and present) into the process
// environment without overriding variables already set, then resolves the
// configuration from the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv resolves the configuration through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	driver, err := kv.ParseDriver(get(EnvKVDriver, string(kv.DriverFilesystem)))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Storage: Storage{
			Driver:      driver,
			FSRoot:      get(EnvFSRoot, defaultFSRoot),
			SQLitePath:  get(EnvSQLitePath, defaultSQLite),
			PostgresDSN: get(EnvPostgresDSN, defaultPostgres),
			Redis: Redis{
				Addr:     get(EnvRedisAddr, defaultRedis),
				Password: getenv(EnvRedisPass),
				Prefix:   get(EnvRedisPrefix, defaultPrefix),
			},
			S3: S3{
				Bucket:    get(EnvS3Bucket, ""),
				Region:    get(EnvS3Region, "us-east-1"),
				Endpoint:  get(EnvS3Endpoint, ""),
				PathStyle: strings.EqualFold(get(EnvS3PathStyle, "false"), "true"),
				Prefix:    get(EnvS3Prefix, ""),
			},
		},
		LogFormat:   strings.ToLower(get(EnvLogFormat, "text")),
		MergePolicy: get(EnvMergePolicy, ""),
	}

	if raw := get(EnvRedisDB, "0"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		cfg.Storage.Redis.DB = db
	}
	delay, err := time.ParseDuration(get(EnvLoginDelay, "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLoginDelay, err)
	}
	cfg.LoginDelay = delay
	if err := cfg.LogLevel.UnmarshalText([]byte(get(EnvLogLevel, "info"))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	if cfg.Storage.Driver == kv.DriverS3 && cfg.Storage.S3.Bucket == "" {
		return Config{}, fmt.Errorf("%s required for s3 driver", EnvS3Bucket)
	}
	return cfg, nil
}

// NewLogger builds the process logger: JSON when LogFormat is "json", text
// otherwise.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
