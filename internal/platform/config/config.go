package config

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the clickatell service.
type Config struct {
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ServerPort      int           `mapstructure:"SERVER_PORT"`
	NATSUrl         string        `mapstructure:"NATS_URL"` // empty disables event publishing
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	ProviderName  string `mapstructure:"PROVIDER_NAME"`
	WebhookPrefix string `mapstructure:"WEBHOOK_PREFIX"`

	// Gateway credentials and endpoint
	ClickatellAPIID       string        `mapstructure:"CLICKATELL_API_ID"`
	ClickatellUser        string        `mapstructure:"CLICKATELL_USER"`
	ClickatellPassword    string        `mapstructure:"CLICKATELL_PASSWORD"`
	ClickatellHTTPS       bool          `mapstructure:"CLICKATELL_HTTPS"`
	ClickatellHost        string        `mapstructure:"CLICKATELL_HOST"`
	ClickatellHTTPMethod  string        `mapstructure:"CLICKATELL_HTTP_METHOD"`
	ClickatellHTTPTimeout time.Duration `mapstructure:"CLICKATELL_HTTP_TIMEOUT"`

	OTelExporterEndpoint string `mapstructure:"OTEL_EXPORTER_ENDPOINT"` // host:port, empty disables exporting
}

// Load reads config.defaults.yaml (if any) from the usual config paths and
// overlays APP_-prefixed environment variables.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP") // APP_LOG_LEVEL, APP_CLICKATELL_API_ID etc.

	setDefaults(v, serviceName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("Base configuration file ('config.defaults.yaml') not found; using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ClickatellHTTPMethod = strings.ToUpper(cfg.ClickatellHTTPMethod)
	return &cfg, nil
}

// Every key needs a default, otherwise AutomaticEnv values are not picked up by Unmarshal.
func setDefaults(v *viper.Viper, serviceName string) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("PROVIDER_NAME", "clickatell")
	v.SetDefault("WEBHOOK_PREFIX", "/"+strings.TrimSuffix(serviceName, "_service"))

	v.SetDefault("CLICKATELL_API_ID", "")
	v.SetDefault("CLICKATELL_USER", "")
	v.SetDefault("CLICKATELL_PASSWORD", "")
	v.SetDefault("CLICKATELL_HTTPS", false)
	v.SetDefault("CLICKATELL_HOST", "api.clickatell.com")
	v.SetDefault("CLICKATELL_HTTP_METHOD", http.MethodPost)
	v.SetDefault("CLICKATELL_HTTP_TIMEOUT", 30*time.Second)

	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "")
}

// Validate checks the settings the gateway client cannot work without.
func (c *Config) Validate() error {
	var missing []string
	if c.ClickatellAPIID == "" {
		missing = append(missing, "CLICKATELL_API_ID")
	}
	if c.ClickatellUser == "" {
		missing = append(missing, "CLICKATELL_USER")
	}
	if c.ClickatellPassword == "" {
		missing = append(missing, "CLICKATELL_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch c.ClickatellHTTPMethod {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("unsupported CLICKATELL_HTTP_METHOD %q", c.ClickatellHTTPMethod)
	}
	if c.ProviderName == "" {
		return errors.New("PROVIDER_NAME must not be empty")
	}
	return nil
}
