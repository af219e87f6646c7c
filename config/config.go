package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	CameraDevice        string  `json:"camera_device"`         // e.g. "/dev/video0" or "0" for the default camera
	MinContourArea      float64 `json:"min_contour_area"`      // Minimum contour area (pixels) counted as motion
	SendIntervalSeconds int     `json:"send_interval_seconds"` // Minimum seconds between motion-triggered sends
	DailyHour           int     `json:"daily_hour"`            // Hour of the unconditional daily snapshot (0-23)
	DailyMinute         int     `json:"daily_minute"`          // Minute of the unconditional daily snapshot (0-59)
	PollIntervalMs      int     `json:"poll_interval_ms"`      // Pause between analyzed frames
	WarmUpFrames        int     `json:"warm_up_frames"`        // Frames fed to the background model before verdicts count
	MogHistory          int     `json:"mog_history"`           // MOG2 history parameter
	MogVarThreshold     float64 `json:"mog_var_threshold"`     // MOG2 variance threshold parameter
	StatusAddr          string  `json:"status_addr"`           // Listen address of the status server, empty disables it
	LogLevel            string  `json:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		CameraDevice:        "/dev/video0",
		MinContourArea:      5000,
		SendIntervalSeconds: 3,
		DailyHour:           14,
		DailyMinute:         0,
		PollIntervalMs:      100,
		WarmUpFrames:        30,
		MogHistory:          500,
		MogVarThreshold:     50,
		StatusAddr:          "",
		LogLevel:            "info",
	}
}

// LoadConfig loads configuration from a JSON file. If the file does not
// exist, a default one is created so the user has something to edit.
func LoadConfig(filename string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			if err := saveConfig(filename, config); err != nil {
				return nil, fmt.Errorf("failed to create default config file: %w", err)
			}
			fmt.Printf("Default config file created at %s\n", filename)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so missing fields keep their default
	// values while explicit zeros (e.g. daily_hour: 0) are respected.
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ConfigOverrides holds potential override values for configuration
type ConfigOverrides struct {
	CameraDevice        *string
	MinContourArea      *float64
	SendIntervalSeconds *int
	DailyHour           *int
	DailyMinute         *int
	PollIntervalMs      *int
	WarmUpFrames        *int
	StatusAddr          *string
	LogLevel            *string
}

// Override allows overriding specific configuration values using ConfigOverrides struct
func (c *Config) Override(overrides ConfigOverrides) {
	if overrides.CameraDevice != nil && *overrides.CameraDevice != "" {
		c.CameraDevice = *overrides.CameraDevice
	}
	if overrides.MinContourArea != nil && *overrides.MinContourArea > 0 {
		c.MinContourArea = *overrides.MinContourArea
	}
	if overrides.SendIntervalSeconds != nil && *overrides.SendIntervalSeconds >= 0 {
		c.SendIntervalSeconds = *overrides.SendIntervalSeconds
	}
	if overrides.DailyHour != nil && *overrides.DailyHour >= 0 {
		c.DailyHour = *overrides.DailyHour
	}
	if overrides.DailyMinute != nil && *overrides.DailyMinute >= 0 {
		c.DailyMinute = *overrides.DailyMinute
	}
	if overrides.PollIntervalMs != nil && *overrides.PollIntervalMs > 0 {
		c.PollIntervalMs = *overrides.PollIntervalMs
	}
	if overrides.WarmUpFrames != nil && *overrides.WarmUpFrames >= 0 {
		c.WarmUpFrames = *overrides.WarmUpFrames
	}
	if overrides.StatusAddr != nil && *overrides.StatusAddr != "" {
		c.StatusAddr = *overrides.StatusAddr
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		c.LogLevel = *overrides.LogLevel
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.MinContourArea <= 0 {
		return fmt.Errorf("min_contour_area must be positive, got %v", c.MinContourArea)
	}
	if c.SendIntervalSeconds < 0 {
		return fmt.Errorf("send_interval_seconds must not be negative, got %d", c.SendIntervalSeconds)
	}
	if c.DailyHour < 0 || c.DailyHour > 23 {
		return fmt.Errorf("daily_hour must be in [0,23], got %d", c.DailyHour)
	}
	if c.DailyMinute < 0 || c.DailyMinute > 59 {
		return fmt.Errorf("daily_minute must be in [0,59], got %d", c.DailyMinute)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs)
	}
	if c.WarmUpFrames < 0 {
		return fmt.Errorf("warm_up_frames must not be negative, got %d", c.WarmUpFrames)
	}
	if c.MogHistory <= 0 {
		return fmt.Errorf("mog_history must be positive, got %d", c.MogHistory)
	}
	if c.MogVarThreshold <= 0 {
		return fmt.Errorf("mog_var_threshold must be positive, got %v", c.MogVarThreshold)
	}
	return nil
}

// Secrets holds the pre-provisioned notification channel credentials.
// They never live in the config file.
type Secrets struct {
	TelegramToken  string
	TelegramChatID int64
}

// LoadSecrets reads the Telegram credentials from the environment,
// loading a .env file first if one is present.
func LoadSecrets() (*Secrets, error) {
	// A missing .env file is fine; the variables may be set directly.
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
	}

	return &Secrets{TelegramToken: token, TelegramChatID: id}, nil
}

// saveConfig saves a configuration to a JSON file
func saveConfig(filename string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
