// =============================================================================
// Bump Chart Delta Reconciler - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration:
//
//   1. Main Config (config.yaml): paths, input workbooks, API endpoints,
//      price-column rules, and email settings.
//   2. Credentials: PCN basic-auth pairs resolved from the environment
//      (optionally seeded from a .env file via godotenv). The YAML maps a
//      PCN code to the environment variable holding its base64
//      "user:password" pair, so no secret ever lives in the config file.
//
// Loading follows the load -> apply defaults -> validate sequence; a config
// that passes Load is usable without further nil checks.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration, loaded from config.yaml.
type Config struct {
	// =========================================================================
	// PATH SETTINGS
	// =========================================================================

	// NetworkSharePath is the mount point the bump chart workbooks live
	// under. Relative InputFiles entries are resolved against it.
	// Default: "/mnt/network_share"
	NetworkSharePath string `yaml:"network_share_path"`

	// InputFiles lists the bump chart workbooks to reconcile, relative to
	// NetworkSharePath unless absolute.
	InputFiles []string `yaml:"input_files"`

	// ResultsDir is the root directory for per-run report directories.
	// Default: "./Results"
	ResultsDir string `yaml:"results_dir"`

	// CustomerListPath is the CSV holding Customer_Code -> Customer_Name.
	// Default: "./data/CustomerList.csv"
	CustomerListPath string `yaml:"customer_list_path"`

	// PartKeyCachePath is the persisted part-key cache file. The cache is
	// reused across runs; deleting the file just forces fresh lookups.
	// Default: "./data/part_key_cache.json"
	PartKeyCachePath string `yaml:"part_key_cache_path"`

	// OutputPrefix is prepended to every report file name.
	// Default: "Delta-Report_"
	OutputPrefix string `yaml:"output_prefix"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the run log. Default: "./compare_prices.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PRICING SOURCE SETTINGS
	// =========================================================================

	// PartKeyURL is the datasource endpoint that resolves part numbers to
	// internal part keys.
	PartKeyURL string `yaml:"part_key_url"`

	// PriceURL is the datasource endpoint that returns PO price history
	// for a part key.
	PriceURL string `yaml:"price_url"`

	// DefaultPCN is used when a chart row has no PCN, and its credentials
	// are the fallback for PCNs missing from PCNAuthEnv.
	// Default: "SCS"
	DefaultPCN string `yaml:"default_pcn"`

	// PCNAuthEnv maps a PCN code to the name of the environment variable
	// holding its base64-encoded "user:password" pair.
	PCNAuthEnv map[string]string `yaml:"pcn_auth_env"`

	// =========================================================================
	// EXTRACTION RULES
	// =========================================================================

	// PriceColumnPriorities are the default price column headers, in
	// preference order. Exact matches win over substring matches.
	// Default: ["ddp price", "fca price"]
	PriceColumnPriorities []string `yaml:"price_column_priorities"`

	// CustomerPriceColumns maps a customer code substring to the price
	// column header used for that customer on multi-customer rows.
	// Example: {"lear": "factory zero", "adient": "lansing"}
	CustomerPriceColumns map[string]string `yaml:"customer_price_columns"`

	// =========================================================================
	// EMAIL SETTINGS
	// =========================================================================

	Email EmailConfig `yaml:"email"`
}

// EmailConfig holds the SMTP delivery settings for report distribution.
type EmailConfig struct {
	// SMTPHost is the relay host. Empty disables email entirely.
	SMTPHost string `yaml:"smtp_host"`

	// SMTPPort is the relay port. Default: 25
	SMTPPort int `yaml:"smtp_port"`

	// From is the sender address.
	From string `yaml:"from"`

	// Subject is the success email subject line.
	Subject string `yaml:"subject"`

	// Recipients receive the success email with report attachments.
	Recipients []string `yaml:"recipients"`

	// ErrorRecipient receives failure notifications.
	ErrorRecipient string `yaml:"error_recipient"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the main configuration from a YAML file, applies defaults and
// validates the result. A .env file next to the working directory is loaded
// first so PCN credentials can be kept out of the shell profile.
func Load(configPath string) (*Config, error) {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.NetworkSharePath == "" {
		cfg.NetworkSharePath = "/mnt/network_share"
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "./Results"
	}
	if cfg.CustomerListPath == "" {
		cfg.CustomerListPath = "./data/CustomerList.csv"
	}
	if cfg.PartKeyCachePath == "" {
		cfg.PartKeyCachePath = "./data/part_key_cache.json"
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = "Delta-Report_"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "./compare_prices.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DefaultPCN == "" {
		cfg.DefaultPCN = "SCS"
	}
	if len(cfg.PriceColumnPriorities) == 0 {
		cfg.PriceColumnPriorities = []string{"ddp price", "fca price"}
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 25
	}
}

// validate rejects configurations that cannot produce a meaningful run.
func validate(cfg *Config) error {
	if len(cfg.InputFiles) == 0 {
		return fmt.Errorf("input_files must list at least one workbook")
	}
	if cfg.PartKeyURL == "" {
		return fmt.Errorf("part_key_url is required")
	}
	if cfg.PriceURL == "" {
		return fmt.Errorf("price_url is required")
	}
	if len(cfg.PCNAuthEnv) == 0 {
		return fmt.Errorf("pcn_auth_env must map at least one PCN to an env var")
	}
	if _, ok := cfg.PCNAuthEnv[cfg.DefaultPCN]; !ok {
		return fmt.Errorf("pcn_auth_env has no entry for default PCN %q", cfg.DefaultPCN)
	}
	return nil
}

// =============================================================================
// CREDENTIAL RESOLUTION
// =============================================================================

// AuthBase64 returns the base64 "user:password" pair for a PCN. Unknown
// PCNs fall back to the default PCN's credentials. An empty environment
// variable is an error: the record cannot be processed without auth.
func (c *Config) AuthBase64(pcn string) (string, error) {
	envVar, ok := c.PCNAuthEnv[pcn]
	if !ok {
		envVar = c.PCNAuthEnv[c.DefaultPCN]
	}
	val := os.Getenv(envVar)
	if val == "" {
		return "", fmt.Errorf("no credentials in %s for PCN %q", envVar, pcn)
	}
	return val, nil
}
