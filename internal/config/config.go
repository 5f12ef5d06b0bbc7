package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vm-affekt/fbdl/internal/rapidapi"
)

const (
	ModeProduction = "prod"
	ModeDebug      = "debug"

	envPrefix = "FBDL"
)

var (
	ErrMissingAPIKey = errors.New("RAPIDAPI_KEY can't be empty")
	ErrUnknownMode   = errors.New("unknown mode")
)

var DefaultPaths = []string{"/etc/fbdl", "./configs", "."}

var plainEnvKeys = []string{"RAPIDAPI_KEY", "TELEGRAM_API_KEY"}

type Config struct {
	Mode        string
	LogFilePath string

	HTTPAddr        string
	ShutdownTimeout time.Duration

	RapidAPIKey     string
	RapidAPIHost    string
	RapidAPIURL     string
	UpstreamTimeout time.Duration

	TelegramAPIKey             string
	TelegramLongPollingTimeout int

	// ConfigFileUsed is empty when only the environment was read.
	ConfigFileUsed string
}

func (c *Config) DebugMode() bool {
	return c.Mode == ModeDebug
}

// LoadDotEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads config.env from the first of paths that has it, then the environment.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// API keys are also accepted under their plain names.
	for _, key := range plainEnvKeys {
		_ = v.BindEnv(key, envPrefix+"_"+key, key)
	}

	v.SetDefault("MODE", ModeDebug)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("RAPIDAPI_HOST", rapidapi.DefaultHost)
	v.SetDefault("RAPIDAPI_URL", rapidapi.DefaultURL)
	v.SetDefault("UPSTREAM_TIMEOUT", rapidapi.DefaultTimeout)
	v.SetDefault("TELEGRAM_LONG_POLLING_TIMEOUT", 60)

	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config (used file: %q): %w", v.ConfigFileUsed(), err)
			}
		}
	}

	cfg := &Config{
		Mode:                       v.GetString("MODE"),
		LogFilePath:                v.GetString("LOG_FILE_PATH"),
		HTTPAddr:                   v.GetString("HTTP_ADDR"),
		ShutdownTimeout:            v.GetDuration("SHUTDOWN_TIMEOUT"),
		RapidAPIKey:                v.GetString("RAPIDAPI_KEY"),
		RapidAPIHost:               v.GetString("RAPIDAPI_HOST"),
		RapidAPIURL:                v.GetString("RAPIDAPI_URL"),
		UpstreamTimeout:            v.GetDuration("UPSTREAM_TIMEOUT"),
		TelegramAPIKey:             v.GetString("TELEGRAM_API_KEY"),
		TelegramLongPollingTimeout: v.GetInt("TELEGRAM_LONG_POLLING_TIMEOUT"),
		ConfigFileUsed:             v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeProduction, ModeDebug:
	case "":
		c.Mode = ModeDebug
	default:
		return fmt.Errorf("%w %q: use %q, %q or leave MODE empty", ErrUnknownMode, c.Mode, ModeProduction, ModeDebug)
	}
	if c.RapidAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %v", c.UpstreamTimeout)
	}
	return nil
}
