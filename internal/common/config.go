package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Browser     BrowserConfig   `toml:"browser"`
	Navigator   NavigatorConfig `toml:"navigator"`
	Audit       AuditConfig     `toml:"audit"`
	Storage     StorageConfig   `toml:"storage"`
	Report      ReportConfig    `toml:"report"`
	Schedule    ScheduleConfig  `toml:"schedule"`
	Logging     LoggingConfig   `toml:"logging"`
}

// BrowserConfig controls the Chrome instances driven through chromedp
type BrowserConfig struct {
	Headless       bool          `toml:"headless"`                          // Run Chrome headless (default: true)
	DisableGPU     bool          `toml:"disable_gpu"`                       // Pass --disable-gpu to Chrome
	NoSandbox      bool          `toml:"no_sandbox"`                        // Pass --no-sandbox (needed in most containers)
	PoolSize       int           `toml:"pool_size" validate:"min=1,max=20"` // Number of browser instances
	UserAgent      string        `toml:"user_agent"`                        // User agent string for all sessions
	WindowWidth    int           `toml:"window_width"`                      // Viewport width
	WindowHeight   int           `toml:"window_height"`                     // Viewport height
	StartupTimeout time.Duration `toml:"startup_timeout"`                   // Max time for a browser instance to pass its startup test
	SettleWait     time.Duration `toml:"settle_wait"`                       // Wait after navigation before inspecting the page
}

// NavigatorConfig controls focus assertion and tab-to-element behavior
type NavigatorConfig struct {
	MaxTabs       int           `toml:"max_tabs" validate:"min=1"` // Max Tab presses before TabTo gives up
	StepDelay     time.Duration `toml:"step_delay"`                // Delay after each Tab press
	AttachTimeout time.Duration `toml:"attach_timeout"`            // How long to wait for a target element to appear
}

// AuditConfig controls full-page tab-order audits
type AuditConfig struct {
	MaxSteps      int           `toml:"max_steps" validate:"min=1"` // Max Tab presses per page audit
	StepDelay     time.Duration `toml:"step_delay"`                 // Delay after each Tab press during an audit
	RatePerSecond float64       `toml:"rate_per_second"`            // Page audit pacing across multiple URLs (0 = unlimited)
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ReportConfig controls where and how audit reports are written
type ReportConfig struct {
	OutputDir string   `toml:"output_dir"` // Directory for rendered reports
	Formats   []string `toml:"formats"`    // "markdown", "html"
}

// ScheduleConfig controls the watch mode cron schedule
type ScheduleConfig struct {
	Expression string   `toml:"expression"` // Cron expression for repeated audits (watch mode)
	URLs       []string `toml:"urls"`       // URLs audited on each scheduled run
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Browser: BrowserConfig{
			Headless:       true,
			DisableGPU:     true,
			NoSandbox:      true,
			PoolSize:       1,
			UserAgent:      "Tabcheck/1.0",
			WindowWidth:    1920,
			WindowHeight:   1080,
			StartupTimeout: 30 * time.Second,
			SettleWait:     500 * time.Millisecond,
		},
		Navigator: NavigatorConfig{
			MaxTabs:       30,
			StepDelay:     150 * time.Millisecond,
			AttachTimeout: 2 * time.Second,
		},
		Audit: AuditConfig{
			MaxSteps:      100,
			StepDelay:     100 * time.Millisecond,
			RatePerSecond: 0,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/tabcheck",
				ResetOnStartup: false,
			},
		},
		Report: ReportConfig{
			OutputDir: "./reports",
			Formats:   []string{"markdown"},
		},
		Schedule: ScheduleConfig{
			Expression: "", // Empty: watch mode disabled unless configured
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
	}
}

// LoadFromFiles loads configuration from TOML files with later files overriding earlier ones.
// Order of precedence: defaults -> file1 -> file2 -> ... -> environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies TABCHECK_* environment variables on top of file config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TABCHECK_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("TABCHECK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TABCHECK_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("TABCHECK_HEADLESS"); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			config.Browser.Headless = headless
		}
	}
	if v := os.Getenv("TABCHECK_MAX_TABS"); v != "" {
		if maxTabs, err := strconv.Atoi(v); err == nil && maxTabs > 0 {
			config.Navigator.MaxTabs = maxTabs
		}
	}
	if v := os.Getenv("TABCHECK_REPORT_DIR"); v != "" {
		config.Report.OutputDir = v
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, format := range c.Report.Formats {
		switch strings.ToLower(format) {
		case "markdown", "html":
		default:
			return fmt.Errorf("invalid report format %q (expected \"markdown\" or \"html\")", format)
		}
	}

	// Validate the cron expression the same way the scheduler will parse it
	if c.Schedule.Expression != "" {
		if _, err := cron.ParseStandard(c.Schedule.Expression); err != nil {
			return fmt.Errorf("invalid schedule expression %q: %w", c.Schedule.Expression, err)
		}
	}

	return nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
