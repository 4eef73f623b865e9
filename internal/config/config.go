package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tgienger/ainotes/internal/db"
)

const (
	appName    = "ainotes"
	configFile = "config.yaml"
	envPrefix  = "AINOTES"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the application settings
type Config struct {
	DataDir string         `mapstructure:"data_dir"`
	Storage StorageConfig  `mapstructure:"storage"`
	Redis   db.RedisConfig `mapstructure:"redis"`
	AI      AIConfig       `mapstructure:"ai"`
	Log     LogConfig      `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// AIConfig configures the chat completion client
type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"` // fallback when no key has been set in the store
	Model   string        `mapstructure:"model"`
	Referer string        `mapstructure:"referer"`
	Title   string        `mapstructure:"title"`
	Timeout time.Duration `mapstructure:"timeout"` // zero means no timeout
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// GetConfigPath returns the path of the optional YAML config file
func GetConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, configFile), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1/")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "deepseek/deepseek-chat")
	v.SetDefault("ai.referer", "http://localhost:3002")
	v.SetDefault("ai.title", "AI Notes")
	v.SetDefault("ai.timeout", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads settings from defaults, the config file at path (if present), a
// .env file in the working directory (if present) and AINOTES_* variables.
// An empty path uses GetConfigPath.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := db.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, appName+".log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url must not be empty")
	}
	return nil
}
