package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ScheduleFile != "tweet.json" || cfg.CredentialsFile != "credentials.json" {
		t.Fatalf("unexpected file defaults: %+v", cfg)
	}
	if cfg.Platform != PlatformTwitter {
		t.Fatalf("Platform = %q", cfg.Platform)
	}
	if cfg.PollInterval != time.Second || cfg.Cooldown != time.Minute {
		t.Fatalf("unexpected intervals: poll=%s cooldown=%s", cfg.PollInterval, cfg.Cooldown)
	}
	if cfg.Twitter.APIURL != "https://api.twitter.com" {
		t.Fatalf("Twitter.APIURL = %q", cfg.Twitter.APIURL)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
schedule_file: /var/lib/dailypost/tweet.json
platform: Telegram
cooldown: 90s
log_level: DEBUG
telegram:
  token: "123:abc"
  chat_id: -1001234
`)
	t.Setenv("DAILYPOST_POLL_INTERVAL", "500ms")
	t.Setenv("DAILYPOST_ENVIRONMENT", "production")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ScheduleFile != "/var/lib/dailypost/tweet.json" {
		t.Fatalf("ScheduleFile = %q", cfg.ScheduleFile)
	}
	if cfg.Platform != PlatformTelegram || cfg.Telegram.ChatID != -1001234 || cfg.Telegram.Token != "123:abc" {
		t.Fatalf("unexpected telegram config: %+v", cfg)
	}
	if cfg.Cooldown != 90*time.Second || cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected intervals: poll=%s cooldown=%s", cfg.PollInterval, cfg.Cooldown)
	}
	if cfg.LogLevel != "debug" || cfg.Environment != "production" {
		t.Fatalf("unexpected log settings: %q %q", cfg.LogLevel, cfg.Environment)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	base := func() AppConfig {
		return AppConfig{
			ScheduleFile:    "tweet.json",
			CredentialsFile: "credentials.json",
			Platform:        PlatformTwitter,
			PollInterval:    time.Second,
			Cooldown:        time.Minute,
		}
	}
	tests := []struct {
		name   string
		mutate func(c *AppConfig)
	}{
		{name: "unknown platform", mutate: func(c *AppConfig) { c.Platform = "myspace" }},
		{name: "zero poll", mutate: func(c *AppConfig) { c.PollInterval = 0 }},
		{name: "negative cooldown", mutate: func(c *AppConfig) { c.Cooldown = -time.Second }},
		{name: "cooldown under a minute", mutate: func(c *AppConfig) { c.Cooldown = 10 * time.Second }},
		{name: "cooldown just under a minute", mutate: func(c *AppConfig) { c.Cooldown = time.Minute - time.Millisecond }},
		{name: "poll of a minute", mutate: func(c *AppConfig) { c.PollInterval = time.Minute }},
		{name: "poll longer than a minute", mutate: func(c *AppConfig) { c.PollInterval = 5 * time.Minute }},
		{name: "no schedule", mutate: func(c *AppConfig) { c.ScheduleFile = "" }},
		{name: "telegram without chat", mutate: func(c *AppConfig) {
			c.Platform = PlatformTelegram
			c.Telegram.Token = "t"
		}},
	}
	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}
	edge := base()
	edge.PollInterval = time.Minute - time.Millisecond
	edge.Cooldown = time.Minute
	if err := edge.Validate(); err != nil {
		t.Fatalf("poll just under 1m with a 1m cooldown must be valid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "credentials.json", `{
  "access token": "at",
  "access token secret": "ats",
  "api key": "ck",
  "api secret key": "cs"
}`)
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.AccessToken != "at" || creds.AccessTokenSecret != "ats" || creds.APIKey != "ck" || creds.APISecretKey != "cs" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestLoadCredentialsErrors(t *testing.T) {
	t.Parallel()
	missing := writeFile(t, "credentials.json", `{"access token": "at", "api key": "ck", "api secret key": "cs"}`)
	if _, err := LoadCredentials(missing); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}

	malformed := writeFile(t, "credentials.json", `{"access token": `)
	if _, err := LoadCredentials(malformed); err == nil {
		t.Fatal("expected error for malformed credentials")
	}

	if _, err := LoadCredentials(filepath.Join(t.TempDir(), "credentials.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
