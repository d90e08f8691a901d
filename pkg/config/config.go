package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is the request identity presented by every browser page
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/119.0.0.0 Safari/537.36"

// Config holds all configuration options for the profile scraper
type Config struct {
	// Headless browser session
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Navigation timings and readiness waits
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`

	// Extraction rule tuning
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction"`

	// Output document settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Optional media download
	Media MediaConfig `yaml:"media" json:"media"`

	// Rate limiting configuration for media requests
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration for media requests
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig holds headless browser session settings
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" json:"headless"`
	NoSandbox      bool   `yaml:"no_sandbox" json:"no_sandbox"`
	Stealth        bool   `yaml:"stealth" json:"stealth"`
	UserAgent      string `yaml:"user_agent" json:"user_agent"`
	ViewportWidth  int    `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height" json:"viewport_height"`
	BinPath        string `yaml:"bin_path" json:"bin_path"`
}

// NavigationConfig holds the waits applied around page loads
type NavigationConfig struct {
	BaseURL             string        `yaml:"base_url" json:"base_url"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
	IdleWindow          time.Duration `yaml:"idle_window" json:"idle_window"`
	ProfileSettleDelay  time.Duration `yaml:"profile_settle_delay" json:"profile_settle_delay"`
	PostSettleDelay     time.Duration `yaml:"post_settle_delay" json:"post_settle_delay"`
	DialogPause         time.Duration `yaml:"dialog_pause" json:"dialog_pause"`
	ProfileReadyTimeout time.Duration `yaml:"profile_ready_timeout" json:"profile_ready_timeout"`
	PostReadyTimeout    time.Duration `yaml:"post_ready_timeout" json:"post_ready_timeout"`
	ScrollCycles        int           `yaml:"scroll_cycles" json:"scroll_cycles"`
	ScrollWait          time.Duration `yaml:"scroll_wait" json:"scroll_wait"`
}

// ExtractionConfig holds extraction rule tuning
type ExtractionConfig struct {
	MaxPosts           int  `yaml:"max_posts" json:"max_posts"`
	ExpandStatSuffixes bool `yaml:"expand_stat_suffixes" json:"expand_stat_suffixes"`
	MaxLikes           int  `yaml:"max_likes" json:"max_likes"`
	MaxComments        int  `yaml:"max_comments" json:"max_comments"`
	SkipPostDetails    bool `yaml:"skip_post_details" json:"skip_post_details"`
}

// OutputConfig holds output document configuration
type OutputConfig struct {
	Path   string `yaml:"path" json:"path"`
	Format string `yaml:"format" json:"format"`
}

// MediaConfig holds settings for downloading thumbnails and the profile picture
type MediaConfig struct {
	Enabled             bool          `yaml:"enabled" json:"enabled"`
	Directory           string        `yaml:"directory" json:"directory"`
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	DownloadTimeout     time.Duration `yaml:"download_timeout" json:"download_timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// RetryConfig holds retry configuration for media requests
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" json:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" json:"max_backoff"`
	Multiplier     float64       `yaml:"multiplier" json:"multiplier"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			NoSandbox:      true,
			Stealth:        true,
			UserAgent:      DefaultUserAgent,
			ViewportWidth:  1280,
			ViewportHeight: 800,
		},
		Navigation: NavigationConfig{
			BaseURL:             "https://www.instagram.com",
			Timeout:             60 * time.Second,
			IdleWindow:          500 * time.Millisecond,
			ProfileSettleDelay:  5 * time.Second,
			PostSettleDelay:     3 * time.Second,
			DialogPause:         2 * time.Second,
			ProfileReadyTimeout: 30 * time.Second,
			PostReadyTimeout:    15 * time.Second,
			ScrollCycles:        3,
			ScrollWait:          2 * time.Second,
		},
		Extraction: ExtractionConfig{
			MaxPosts:           12,
			ExpandStatSuffixes: false,
			MaxLikes:           100_000_000,
			MaxComments:        10_000_000,
		},
		Output: OutputConfig{
			Path:   filepath.Join("public", "instaurl.json"),
			Format: "json",
		},
		Media: MediaConfig{
			Enabled:             false,
			Directory:           filepath.Join("public", "media"),
			ConcurrentDownloads: 3,
			DownloadTimeout:     30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Retry: RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 1 * time.Second,
			MaxBackoff:     30 * time.Second,
			Multiplier:     2.0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if userAgent := os.Getenv("IGPROFILE_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}
	if headless := os.Getenv("IGPROFILE_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if bin := os.Getenv("IGPROFILE_BROWSER_BIN"); bin != "" {
		c.Browser.BinPath = bin
	}

	if timeout := os.Getenv("IGPROFILE_NAVIGATION_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid IGPROFILE_NAVIGATION_TIMEOUT: %w", err)
		}
		c.Navigation.Timeout = d
	}
	if cycles := os.Getenv("IGPROFILE_SCROLL_CYCLES"); cycles != "" {
		val, err := strconv.Atoi(cycles)
		if err != nil {
			return fmt.Errorf("invalid IGPROFILE_SCROLL_CYCLES: %w", err)
		}
		c.Navigation.ScrollCycles = val
	}

	if expand := os.Getenv("IGPROFILE_EXPAND_STAT_SUFFIXES"); expand != "" {
		c.Extraction.ExpandStatSuffixes = strings.ToLower(expand) == "true"
	}

	if output := os.Getenv("IGPROFILE_OUTPUT"); output != "" {
		c.Output.Path = output
	}
	if format := os.Getenv("IGPROFILE_OUTPUT_FORMAT"); format != "" {
		c.Output.Format = format
	}

	if media := os.Getenv("IGPROFILE_MEDIA_ENABLED"); media != "" {
		c.Media.Enabled = strings.ToLower(media) == "true"
	}
	if mediaDir := os.Getenv("IGPROFILE_MEDIA_DIR"); mediaDir != "" {
		c.Media.Directory = mediaDir
	}

	if rpm := os.Getenv("IGPROFILE_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("IGPROFILE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("IGPROFILE_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igprofile.yaml",
		".igprofile.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igprofile", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igprofile", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igprofile.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Browser.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errs = append(errs, errors.New("viewport dimensions must be positive"))
	}

	if c.Navigation.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Navigation.Timeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Navigation.ProfileReadyTimeout <= 0 || c.Navigation.PostReadyTimeout <= 0 {
		errs = append(errs, errors.New("readiness timeouts must be positive"))
	}
	if c.Navigation.ScrollCycles < 0 {
		errs = append(errs, errors.New("scroll cycles cannot be negative"))
	}
	if c.Navigation.ProfileSettleDelay < 0 || c.Navigation.PostSettleDelay < 0 ||
		c.Navigation.DialogPause < 0 || c.Navigation.ScrollWait < 0 {
		errs = append(errs, errors.New("navigation delays cannot be negative"))
	}

	if c.Extraction.MaxPosts <= 0 || c.Extraction.MaxPosts > 12 {
		errs = append(errs, errors.New("max posts must be between 1 and 12"))
	}
	if c.Extraction.MaxLikes <= 0 || c.Extraction.MaxComments <= 0 {
		errs = append(errs, errors.New("count ceilings must be positive"))
	}

	if c.Output.Path == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	validFormats := map[string]bool{"json": true, "yaml": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, errors.New("invalid output format"))
	}

	if c.Media.Enabled {
		if c.Media.Directory == "" {
			errs = append(errs, errors.New("media directory is required"))
		}
		if c.Media.ConcurrentDownloads <= 0 || c.Media.ConcurrentDownloads > 10 {
			errs = append(errs, errors.New("concurrent downloads must be between 1 and 10"))
		}
		if c.Media.DownloadTimeout <= 0 {
			errs = append(errs, errors.New("download timeout must be positive"))
		}
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max attempts cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.Path = output
	}
	if format, ok := flags["format"].(string); ok && format != "" {
		c.Output.Format = format
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if expand, ok := flags["expand-stat-suffixes"].(bool); ok {
		c.Extraction.ExpandStatSuffixes = expand
	}
	if media, ok := flags["download-media"].(bool); ok {
		c.Media.Enabled = media
	}
	if headful, ok := flags["headful"].(bool); ok && headful {
		c.Browser.Headless = false
	}
	if skip, ok := flags["skip-post-details"].(bool); ok {
		c.Extraction.SkipPostDetails = skip
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igprofile.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
