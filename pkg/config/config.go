package config

import (
	"fmt"
	"os"
	"time"

	"BiasDesk/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	LLM struct {
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model"`
		Temperature float64       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`
	Market struct {
		SignalURL   string        `yaml:"signal_url"`
		RealizedURL string        `yaml:"realized_url"`
		Cookie      string        `yaml:"cookie"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"market"`
	Bias struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		RetryMax        int           `yaml:"retry_max"`
		RetryDelay      time.Duration `yaml:"retry_delay"`
	} `yaml:"bias"`
	Admin struct {
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Bot struct {
		Enabled bool   `yaml:"enabled"`
		Mode    string `yaml:"mode"` // local or proxy
		Token   string `yaml:"token"`
		// APIBaseURL is the /chat endpoint base used in proxy mode.
		APIBaseURL string `yaml:"api_base_url"`
		// Timeout bounds the proxy-mode round trip, which covers the remote
		// upstream scrape plus the LLM call.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"bot"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv("MARKET_SIGNAL_URL"); v != "" {
		c.Market.SignalURL = v
	}
	if v := os.Getenv("MARKET_REALIZED_URL"); v != "" {
		c.Market.RealizedURL = v
	}
	if v := os.Getenv("MARKET_COOKIE"); v != "" {
		c.Market.Cookie = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port := util.ParseIntDefault(v, 0); port > 0 {
			c.Server.Port = port
		}
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Market.SignalURL == "" {
		return fmt.Errorf("market.signal_url is required")
	}
	if c.Market.RealizedURL == "" {
		return fmt.Errorf("market.realized_url is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("admin.password is required")
	}
	if c.Bias.RefreshInterval <= 0 {
		return fmt.Errorf("bias.refresh_interval must be positive")
	}
	if c.Bot.Enabled && c.Bot.Mode != "local" && c.Bot.Mode != "proxy" {
		return fmt.Errorf("bot.mode must be 'local' or 'proxy', got '%s'", c.Bot.Mode)
	}
	if c.Bot.Enabled && c.Bot.Mode == "proxy" && c.Bot.APIBaseURL == "" {
		return fmt.Errorf("bot.api_base_url is required in proxy mode")
	}
	return nil
}
