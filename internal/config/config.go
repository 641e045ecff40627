package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "DAILYPOST"

const (
	PlatformTwitter  = "twitter"
	PlatformTelegram = "telegram"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	ScheduleFile    string         `mapstructure:"schedule_file"`
	CredentialsFile string         `mapstructure:"credentials_file"`
	Platform        string         `mapstructure:"platform"`
	PollInterval    time.Duration  `mapstructure:"poll_interval"`
	Cooldown        time.Duration  `mapstructure:"cooldown"`
	LogLevel        string         `mapstructure:"log_level"`
	Environment     string         `mapstructure:"environment"`
	Twitter         TwitterConfig  `mapstructure:"twitter"`
	Telegram        TelegramConfig `mapstructure:"telegram"`
}

type TwitterConfig struct {
	APIURL string `mapstructure:"api_url"`
}

type TelegramConfig struct {
	APIURL string `mapstructure:"api_url"`
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schedule_file", "tweet.json")
	v.SetDefault("credentials_file", "credentials.json")
	v.SetDefault("platform", PlatformTwitter)
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("cooldown", time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
	v.SetDefault("twitter.api_url", "https://api.twitter.com")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
}

// Load reads configuration from defaults, an optional config file,
// a .env file (if present) and DAILYPOST_* environment variables, in
// increasing order of precedence.
//
// An empty path searches for config.yaml in . and ./configs; a missing file
// is not an error in that case. An explicit path must exist.
func Load(path string) (*AppConfig, error) {
	// godotenv.Load does not override variables that are already set.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.ScheduleFile == "" {
		return errors.New("schedule_file is not set")
	}
	// The loop has to land inside the trigger minute and then sleep past
	// the rest of it, or the post is skipped or repeated.
	if c.PollInterval <= 0 || c.PollInterval >= time.Minute {
		return fmt.Errorf("poll_interval must be between 0 and 1m (exclusive), got %s", c.PollInterval)
	}
	if c.Cooldown < time.Minute {
		return fmt.Errorf("cooldown must be at least 1m, got %s", c.Cooldown)
	}
	switch c.Platform {
	case PlatformTwitter:
		if c.CredentialsFile == "" {
			return errors.New("credentials_file is not set")
		}
	case PlatformTelegram:
		if c.Telegram.Token == "" {
			return errors.New("telegram.token is not set")
		}
		if c.Telegram.ChatID == 0 {
			return errors.New("telegram.chat_id is not set")
		}
	default:
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	return nil
}
