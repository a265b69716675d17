// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	ProviderTwilio   = "twilio"
	ProviderTelegram = "telegram"

	DriverFile     = "file"
	DriverPostgres = "postgres"
)

var (
	ErrMissingURL          = errors.New("source.url is required")
	ErrUnknownProvider     = errors.New("notifier.provider must be 'twilio' or 'telegram'")
	ErrMissingTwilio       = errors.New("twilio account_sid, auth_token, from and to are required")
	ErrMissingTelegram     = errors.New("telegram token and chat_id are required")
	ErrUnknownDriver       = errors.New("storage.driver must be 'file' or 'postgres'")
	ErrMissingDatabaseURL  = errors.New("storage.database_url is required for the postgres driver")
	ErrInvalidChunkLimit   = errors.New("notifier.chunk_limit must be positive")
	ErrInvalidPollInterval = errors.New("schedule.poll_interval must be positive")
	ErrInvalidDailyAt      = errors.New("schedule.daily_summary_at must be HH:MM")
)

type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Browser  BrowserConfig  `yaml:"browser"`
	Storage  StorageConfig  `yaml:"storage"`
	Notifier NotifierConfig `yaml:"notifier"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Status   StatusConfig   `yaml:"status"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type SourceConfig struct {
	URL       string    `yaml:"url" env:"JOBWATCH_URL"`
	Selectors Selectors `yaml:"selectors"`
	//Waits
	FirstPageTimeout time.Duration `yaml:"first_page_timeout"`
	ElementTimeout   time.Duration `yaml:"element_timeout"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
}

type Selectors struct {
	Tile       string `yaml:"tile"`
	TitleLink  string `yaml:"title_link"`
	JobIDItem  string `yaml:"job_id_item"`
	JobIDLabel string `yaml:"job_id_label"`
	NextButton string `yaml:"next_button"`
}

// DefaultSelectors matches the careers page markup: tiles with a title link and
// a "Job ID: ..." list item, paginated by a round "Next page" button.
func DefaultSelectors() Selectors {
	return Selectors{
		Tile:       ".job-tile",
		TitleLink:  ".job-link",
		JobIDItem:  "li",
		JobIDLabel: "Job ID",
		NextButton: `button[class="btn circle right"][aria-label="Next page"]`,
	}
}

type BrowserConfig struct {
	Headless      *bool  `yaml:"headless"`
	CookiesFile   string `yaml:"cookies_file"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

type NotifierConfig struct {
	Provider     string         `yaml:"provider"`
	ChunkLimit   int            `yaml:"chunk_limit"`
	SendInterval time.Duration  `yaml:"send_interval"`
	Twilio       TwilioConfig   `yaml:"twilio"`
	Telegram     TelegramConfig `yaml:"telegram"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	From       string `yaml:"from" env:"TWILIO_FROM_NUMBER"`
	To         string `yaml:"to" env:"TWILIO_TO_NUMBER"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

type ScheduleConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	ProgressEvery  int           `yaml:"progress_every"`
	DailySummaryAt string        `yaml:"daily_summary_at"`
	Tick           time.Duration `yaml:"tick"`
	RestartDelay   time.Duration `yaml:"restart_delay"`
}

type StatusConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format"`
}

// Load reads .env, then the yaml file at path (a missing file is fine when the
// environment carries everything), applies env overrides and defaults, and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Source.URL, "JOBWATCH_URL")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Notifier.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&c.Notifier.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&c.Notifier.Twilio.From, "TWILIO_FROM_NUMBER")
	setString(&c.Notifier.Twilio.To, "TWILIO_TO_NUMBER")
	setString(&c.Notifier.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Logging.Level, "LOG_LEVEL")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Notifier.Telegram.ChatID = id
	}
	return nil
}

func (c *Config) applyDefaults() {
	sel, def := &c.Source.Selectors, DefaultSelectors()
	if sel.Tile == "" {
		sel.Tile = def.Tile
	}
	if sel.TitleLink == "" {
		sel.TitleLink = def.TitleLink
	}
	if sel.JobIDItem == "" {
		sel.JobIDItem = def.JobIDItem
	}
	if sel.JobIDLabel == "" {
		sel.JobIDLabel = def.JobIDLabel
	}
	if sel.NextButton == "" {
		sel.NextButton = def.NextButton
	}
	if c.Source.FirstPageTimeout == 0 {
		c.Source.FirstPageTimeout = 2 * time.Minute
	}
	if c.Source.ElementTimeout == 0 {
		c.Source.ElementTimeout = 10 * time.Second
	}
	if c.Source.SettleDelay == 0 {
		c.Source.SettleDelay = 3 * time.Second
	}

	if c.Browser.Headless == nil {
		headless := true
		c.Browser.Headless = &headless
	}
	if c.Browser.ScreenshotDir == "" {
		c.Browser.ScreenshotDir = "logs/screenshots"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "job_listings.json"
	}

	if c.Notifier.Provider == "" {
		c.Notifier.Provider = ProviderTwilio
	}
	if c.Notifier.ChunkLimit == 0 {
		c.Notifier.ChunkLimit = 1600
	}
	if c.Notifier.SendInterval == 0 {
		c.Notifier.SendInterval = time.Second
	}

	if c.Schedule.PollInterval == 0 {
		c.Schedule.PollInterval = 60 * time.Second
	}
	if c.Schedule.ProgressEvery == 0 {
		c.Schedule.ProgressEvery = 10
	}
	if c.Schedule.DailySummaryAt == "" {
		c.Schedule.DailySummaryAt = "16:00"
	}
	if c.Schedule.Tick == 0 {
		c.Schedule.Tick = time.Second
	}
	if c.Schedule.RestartDelay == 0 {
		c.Schedule.RestartDelay = 5 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks required fields for the selected provider and storage driver.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return ErrMissingURL
	}

	switch c.Notifier.Provider {
	case ProviderTwilio:
		tw := c.Notifier.Twilio
		if tw.AccountSID == "" || tw.AuthToken == "" || tw.From == "" || tw.To == "" {
			return ErrMissingTwilio
		}
	case ProviderTelegram:
		if c.Notifier.Telegram.Token == "" || c.Notifier.Telegram.ChatID == 0 {
			return ErrMissingTelegram
		}
	default:
		return ErrUnknownProvider
	}
	if c.Notifier.ChunkLimit < 0 {
		return ErrInvalidChunkLimit
	}

	switch c.Storage.Driver {
	case DriverFile:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrUnknownDriver
	}

	if c.Schedule.PollInterval < 0 {
		return ErrInvalidPollInterval
	}
	if _, _, err := c.Schedule.DailyClock(); err != nil {
		return err
	}
	return nil
}

// DailyClock parses DailySummaryAt into hour and minute.
func (s ScheduleConfig) DailyClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s.DailySummaryAt))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDailyAt, s.DailySummaryAt)
	}
	return t.Hour(), t.Minute(), nil
}
