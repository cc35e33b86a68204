// Package config loads the bot configuration from shiftbot.yaml and the
// SHIFTBOT_* environment, environment taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Record store backends.
const (
	BackendSQLite = "sqlite"
	BackendExcel  = "excel"
)

// Config is the full runtime configuration.
type Config struct {
	BotToken    string `mapstructure:"bot_token"`
	GroupChatID int64  `mapstructure:"group_chat_id"`

	Backend      string `mapstructure:"backend"`
	DBPath       string `mapstructure:"db_path"`
	WorkbookPath string `mapstructure:"workbook_path"`

	DiskBaseURL string `mapstructure:"disk_base_url"`
	DiskToken   string `mapstructure:"disk_token"`
	DiskRoot    string `mapstructure:"disk_root"`

	Verbose bool `mapstructure:"verbose"`
}

// Load reads the configuration. path may name a specific config file; when
// empty, shiftbot.yaml is searched in the working directory. A missing file
// is fine as long as the environment carries the required values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shiftbot")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SHIFTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so environment-only values survive
	// Unmarshal.
	v.SetDefault("bot_token", "")
	v.SetDefault("group_chat_id", 0)
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("db_path", "shiftbot.db")
	v.SetDefault("workbook_path", "shiftbot.xlsx")
	v.SetDefault("disk_base_url", "")
	v.SetDefault("disk_token", "")
	v.SetDefault("disk_root", "/shift-photos")
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the bot cannot run without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot_token is required (SHIFTBOT_BOT_TOKEN)")
	}
	if c.GroupChatID == 0 {
		return fmt.Errorf("group_chat_id is required (SHIFTBOT_GROUP_CHAT_ID)")
	}
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.DiskToken == "" {
		return fmt.Errorf("disk_token is required (SHIFTBOT_DISK_TOKEN)")
	}
	return nil
}

// ValidateStorage checks only the record store settings, enough for the
// offline directory and export commands.
func (c *Config) ValidateStorage() error {
	switch c.Backend {
	case BackendSQLite, BackendExcel:
		return nil
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendSQLite, BackendExcel, c.Backend)
	}
}
