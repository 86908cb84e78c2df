package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"linkaudit/pkg/logger"
)

const envPrefix = "LINKAUDIT_"

type Cache struct {
	Enabled    bool          `yaml:"enabled"`
	Kind       string        `yaml:"kind"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
	Path       string        `yaml:"path"`
}

type Config struct {
	Addr        string        `yaml:"addr"`
	Timeout     time.Duration `yaml:"timeout"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
	SizeCap     int64         `yaml:"sizeCap"`
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"userAgent"`
	Cache       Cache         `yaml:"cache"`
	LogLevel    string        `yaml:"logLevel"`
	KeepSlash   bool          `yaml:"keepSlash"`
	KeepWww     bool          `yaml:"keepWww"`
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		Timeout:     15 * time.Second,
		DialTimeout: 5 * time.Second,
		SizeCap:     5 * 1024 * 1024,
		Concurrency: 10,
		Cache: Cache{
			Kind:       "memory",
			TTL:        time.Hour,
			MaxEntries: 10000,
			Path:       ".linkaudit/cache.json",
		},
		LogLevel: "info",
	}
}

// Load applies, in order: defaults, the YAML file at path (optional), local
// .env files and LINKAUDIT_* environment variables.
func Load(path string, log *logger.Logger) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}
	LoadEnv(log)
	cfg.applyEnv()
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = GetEnv(envPrefix+"ADDR", c.Addr)
	c.Timeout = GetEnvDuration(envPrefix+"TIMEOUT", c.Timeout)
	c.DialTimeout = GetEnvDuration(envPrefix+"DIAL_TIMEOUT", c.DialTimeout)
	c.SizeCap = int64(GetEnvInt(envPrefix+"SIZE_CAP", int(c.SizeCap)))
	c.Concurrency = GetEnvInt(envPrefix+"CONCURRENCY", c.Concurrency)
	c.UserAgent = GetEnv(envPrefix+"USER_AGENT", c.UserAgent)
	c.Cache.Enabled = GetEnvBool(envPrefix+"CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Kind = GetEnv(envPrefix+"CACHE_KIND", c.Cache.Kind)
	c.Cache.TTL = GetEnvDuration(envPrefix+"CACHE_TTL", c.Cache.TTL)
	c.Cache.MaxEntries = GetEnvInt(envPrefix+"CACHE_MAX_ENTRIES", c.Cache.MaxEntries)
	c.Cache.Path = GetEnv(envPrefix+"CACHE_PATH", c.Cache.Path)
	c.LogLevel = GetEnv(envPrefix+"LOG_LEVEL", c.LogLevel)
	c.KeepSlash = GetEnvBool(envPrefix+"KEEP_SLASH", c.KeepSlash)
	c.KeepWww = GetEnvBool(envPrefix+"KEEP_WWW", c.KeepWww)
}

// invalid values fall back to defaults
func (c *Config) sanitize() {
	def := Default()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.SizeCap <= 0 {
		c.SizeCap = def.SizeCap
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	switch strings.ToLower(c.Cache.Kind) {
	case "memory", "file":
		c.Cache.Kind = strings.ToLower(c.Cache.Kind)
	default:
		c.Cache.Kind = def.Cache.Kind
	}
}

// LoadEnv loads environment variables from local .env files.
func LoadEnv(log *logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	files := []string{".env", ".env.local"}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			log.Warnf("failed to load %s: %v", file, err)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) > 0 {
		log.Debugf("loaded env files: %s", strings.Join(loaded, ", "))
	}
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
