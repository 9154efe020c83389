package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigError marks a fatal configuration problem. It must stop the service
// before any network call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Config holds everything the service reads from the environment.
type Config struct {
	// WooCommerce REST API credentials
	APIURL         string
	ConsumerKey    string
	ConsumerSecret string

	// Optional item mapping table (.xlsx or .csv); empty disables remapping
	MappingPath string

	Port        string
	PageSize    int
	HTTPTimeout time.Duration

	// Invoice numbering defaults, overridable per export request
	InvoicePrefix   string
	InvoiceSeqStart int
}

// Load reads the service configuration from environment variables. Missing
// credentials are collected into a single ConfigError so the operator sees
// the full list at once.
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:          strings.TrimSuffix(os.Getenv("WC_API_URL"), "/"),
		ConsumerKey:     os.Getenv("WC_CONSUMER_KEY"),
		ConsumerSecret:  os.Getenv("WC_CONSUMER_SECRET"),
		MappingPath:     os.Getenv("ITEM_MAPPING_PATH"),
		Port:            getEnv("API_PORT", "8000"),
		PageSize:        getEnvInt("WC_PAGE_SIZE", 100),
		HTTPTimeout:     getEnvDuration("WC_HTTP_TIMEOUT", 30*time.Second),
		InvoicePrefix:   getEnv("INVOICE_PREFIX", "INV/"),
		InvoiceSeqStart: getEnvInt("INVOICE_SEQ_START", 1),
	}

	var missing []string
	if cfg.APIURL == "" {
		missing = append(missing, "WC_API_URL")
	}
	if cfg.ConsumerKey == "" {
		missing = append(missing, "WC_CONSUMER_KEY")
	}
	if cfg.ConsumerSecret == "" {
		missing = append(missing, "WC_CONSUMER_SECRET")
	}
	if len(missing) > 0 {
		return nil, NewConfigError("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.PageSize <= 0 {
		return nil, NewConfigError("WC_PAGE_SIZE must be a positive integer")
	}
	if cfg.InvoiceSeqStart < 0 {
		return nil, NewConfigError("INVOICE_SEQ_START must not be negative")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
