package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"example.com/helloapi/internal/storage"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env               string        `yaml:"env"`
	HTTPAddr          string        `yaml:"http_addr"`
	Storage           string        `yaml:"storage"`
	DBDriver          string        `yaml:"db_driver"`
	DBDSN             string        `yaml:"db_dsn"`
	RedisAddr         string        `yaml:"redis_addr"`
	RedisKey          string        `yaml:"redis_key"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	LogLevel          string        `yaml:"log_level"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Default is the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Env:               "dev",
		HTTPAddr:          ":8000",
		Storage:           storage.KindSQL,
		DBDriver:          "sqlite3",
		DBDSN:             "file:hello.db",
		RedisAddr:         "localhost:6379",
		RedisKey:          "hello:message",
		CORSOrigins:       []string{"http://localhost:3000"},
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getlist(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return splitList(v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load resolves configuration from defaults, an optional YAML file,
// the environment and finally args, each layer overriding the previous one.
func Load(args []string) (Config, error) {
	cfg := Default()

	path := getenv("CONFIG_FILE", "")
	for i, a := range args {
		a = "-" + strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(a, "-config="); ok {
			path = v
		} else if a == "-config" && i+1 < len(args) {
			path = args[i+1]
		}
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	var origins string
	fs.String("config", path, "yaml config file")
	fs.StringVar(&cfg.HTTPAddr, "http", getenv("HTTP_ADDR", cfg.HTTPAddr), "addr")
	fs.StringVar(&cfg.Storage, "storage", getenv("STORAGE", cfg.Storage), "storage: sql, redis or memory")
	fs.StringVar(&cfg.Env, "env", getenv("APP_ENV", cfg.Env), "env")
	fs.StringVar(&cfg.DBDriver, "db-driver", getenv("DB_DRIVER", cfg.DBDriver), "sql driver: sqlite3 or pgx")
	fs.StringVar(&cfg.DBDSN, "db-dsn", getenv("DB_DSN", cfg.DBDSN), "sql dsn")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", getenv("REDIS_ADDR", cfg.RedisAddr), "redis addr")
	fs.StringVar(&cfg.RedisKey, "redis-key", getenv("REDIS_KEY", cfg.RedisKey), "redis key holding the greeting")
	fs.StringVar(&origins, "cors-origins", strings.Join(getlist("CORS_ORIGINS", cfg.CORSOrigins), ","), "comma separated allowed origins")
	fs.StringVar(&cfg.LogLevel, "log-level", getenv("LOG_LEVEL", cfg.LogLevel), "debug, info, warn or error")
	fs.DurationVar(&cfg.ReadHeaderTimeout, "read-header-timeout", getdur("READ_HEADER_TIMEOUT", cfg.ReadHeaderTimeout), "read header timeout")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getdur("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout), "shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.CORSOrigins = splitList(origins)
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case storage.KindSQL:
		if c.DBDriver != "sqlite3" && c.DBDriver != "pgx" {
			errs = append(errs, fmt.Errorf("unknown db driver %q", c.DBDriver))
		}
		if c.DBDSN == "" {
			errs = append(errs, errors.New("db dsn is empty"))
		}
	case storage.KindRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis addr is empty"))
		}
	case storage.KindMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http addr is empty"))
	}
	return errors.Join(errs...)
}
