// Package config resolves runtime settings for both binaries. Sources are
// layered: defaults, then an optional YAML file, then TRIVIA_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Store struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	DSN           string `yaml:"dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type Config struct {
	Addr           string        `yaml:"addr"`
	APIURL         string        `yaml:"api_url"`
	QuestionCount  int           `yaml:"question_count"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	CookieTTL      time.Duration `yaml:"cookie_ttl"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Store          Store         `yaml:"store"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		APIURL:         "https://opentdb.com/api.php",
		QuestionCount:  10,
		HTTPTimeout:    10 * time.Second,
		CookieTTL:      30 * 24 * time.Hour,
		AllowedOrigins: []string{"*"},
		Store: Store{
			Driver: DriverSQLite,
			Path:   "trivia.db",
		},
	}
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables read through getenv. ADDR is kept
// for compatibility with plain container setups.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("TRIVIA_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("TRIVIA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("TRIVIA_QUESTION_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRIVIA_QUESTION_COUNT: %w", err)
		}
		cfg.QuestionCount = n
	}
	if v := getenv("TRIVIA_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TRIVIA_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := getenv("TRIVIA_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := getenv("TRIVIA_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := getenv("TRIVIA_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.Store.DSN = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		cfg.Store.RedisPassword = v
	}
	return nil
}

// Parse builds the final configuration for a binary named name.
func Parse(name string, args []string, getenv func(string) string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", getenv("TRIVIA_CONFIG"), "path to a YAML config file")
	addr := fs.String("addr", cfg.Addr, "HTTP listen address")
	apiURL := fs.String("api-url", cfg.APIURL, "trivia question API endpoint")
	count := fs.Int("questions", cfg.QuestionCount, "questions per round")
	timeout := fs.Duration("timeout", cfg.HTTPTimeout, "HTTP timeout for the question API")
	driver := fs.String("store", cfg.Store.Driver, "storage driver: memory, sqlite, postgres or redis")
	path := fs.String("db", cfg.Store.Path, "sqlite database file")
	dsn := fs.String("dsn", cfg.Store.DSN, "postgres connection string")
	redisAddr := fs.String("redis", cfg.Store.RedisAddr, "redis address")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		if err := LoadFile(&cfg, *configPath); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "api-url":
			cfg.APIURL = *apiURL
		case "questions":
			cfg.QuestionCount = *count
		case "timeout":
			cfg.HTTPTimeout = *timeout
		case "store":
			cfg.Store.Driver = *driver
		case "db":
			cfg.Store.Path = *path
		case "dsn":
			cfg.Store.DSN = *dsn
		case "redis":
			cfg.Store.RedisAddr = *redisAddr
		}
	})

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.QuestionCount <= 0 {
		return errors.New("question count must be positive")
	}
	switch strings.ToLower(c.Store.Driver) {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("postgres store requires a dsn")
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("redis store requires an address")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
