package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcoe/askme/pkg/advisor"
)

// Config represents the top-level askme.yml configuration.
// It is loaded once at startup and treated as immutable for the process
// lifetime; nothing re-reads it per request.
type Config struct {
	Classifier ClassifierConfig                 `yaml:"classifier"`
	Backends   map[advisor.Intent]BackendConfig `yaml:"backends"`
	HTTP       HTTPConfig                       `yaml:"http,omitempty"`
	Artifacts  *ArtifactsConfig                 `yaml:"artifacts,omitempty"`

	// UseMockData replaces every backend adapter with canned in-memory answers.
	// Used by the classifier and router tests and for demos without network access.
	UseMockData bool `yaml:"use_mock_data,omitempty"`

	// Timeout is the shared request timeout applied to every adapter call.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// RetryCount bounds transport-error retries shared by all adapters.
	// This is distinct from the reports adapter's polling loop, which layers
	// on top of transport retry, not instead of it.
	RetryCount int `yaml:"retry_count,omitempty"`

	// RetryDelay is the pause between transport retries.
	RetryDelay time.Duration `yaml:"retry_delay,omitempty"`
}

// ClassifierConfig controls intent classification.
type ClassifierConfig struct {
	// Mode is the three-way switch: "off" (always keyword), "force" (always
	// model, degrade to keyword when the model is undecided), or "auto"
	// (try model first, degrade to keyword on undecided).
	Mode string `yaml:"mode"`

	// Model is the chat model used for single-label classification.
	Model string `yaml:"model,omitempty"`

	// APIKey authenticates against the model endpoint.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the model endpoint (OpenAI-compatible gateways).
	BaseURL string `yaml:"base_url,omitempty"`
}

// BackendConfig holds the wire contract for one domain's external system.
type BackendConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// ReportPath is the BI Publisher report to run (finance domain only).
	ReportPath string `yaml:"report_path,omitempty"`

	// WorkbookID is the default OAC workbook to export (reports domain only).
	WorkbookID string `yaml:"workbook_id,omitempty"`
}

// HTTPConfig controls the inbound JSON API.
type HTTPConfig struct {
	Listen string `yaml:"listen,omitempty"` // Default ":8080"
}

// ArtifactsConfig selects the artifact store backing.
// When absent, staged artifacts live in process memory and are lost on restart
// (that is acceptable: there is no durability requirement).
type ArtifactsConfig struct {
	RedisURL string `yaml:"redis_url"`

	// Retention bounds how long staged bytes are kept. Zero keeps them
	// indefinitely, matching the memory store.
	Retention time.Duration `yaml:"retention,omitempty"`
}

// Classification mode values.
const (
	ModeOff   = "off"
	ModeForce = "force"
	ModeAuto  = "auto"
)

// Defaults applied by Validate.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetryCount = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultListen     = ":8080"
	DefaultModel      = "gpt-4o-mini"
	DefaultReportPath = "/Custom/ROIC/ROIC_PO_REPORTS.xdo"
)

// Validate performs strict validation and fills defaults for optional fields.
func (c *Config) Validate() error {
	switch c.Classifier.Mode {
	case ModeOff, ModeForce, ModeAuto:
	case "":
		c.Classifier.Mode = ModeAuto
	default:
		return fmt.Errorf("classifier.mode must be 'off', 'force', or 'auto', got %q", c.Classifier.Mode)
	}

	if c.Classifier.Mode != ModeOff {
		if c.Classifier.Model == "" {
			c.Classifier.Model = DefaultModel
		}
		if !c.UseMockData && c.Classifier.APIKey == "" {
			return fmt.Errorf("classifier.api_key is required when classifier.mode is %q", c.Classifier.Mode)
		}
	}

	for domain, backend := range c.Backends {
		if err := domain.Validate(); err != nil {
			return fmt.Errorf("backends: %w", err)
		}
		if backend.URL == "" && !c.UseMockData {
			return fmt.Errorf("backends.%s: url is required", domain)
		}
		// Credentials travel together.
		if (backend.Username == "") != (backend.Password == "") {
			return fmt.Errorf("backends.%s: username and password must both be set or both be empty", domain)
		}
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryCount <= 0 {
		c.RetryCount = DefaultRetryCount
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = DefaultListen
	}

	if fin, ok := c.Backends[advisor.IntentFinance]; ok && fin.ReportPath == "" {
		fin.ReportPath = DefaultReportPath
		c.Backends[advisor.IntentFinance] = fin
	}

	if c.Artifacts != nil {
		if c.Artifacts.RedisURL == "" {
			return fmt.Errorf("artifacts.redis_url is required when the artifacts section is present")
		}
		if c.Artifacts.Retention < 0 {
			return fmt.Errorf("artifacts.retention must be >= 0, got %s", c.Artifacts.Retention)
		}
	}

	return nil
}

// Backend returns the configuration for one domain's backend.
// Missing entries come back as the zero value; the mock toggle makes that valid.
func (c *Config) Backend(domain advisor.Intent) BackendConfig {
	return c.Backends[domain]
}

// Load reads and validates askme.yml from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
