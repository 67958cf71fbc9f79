package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/germanamz/pairloop/pkg/agent"
	"github.com/germanamz/pairloop/pkg/tools/builtin"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Resolve.
const (
	DefaultModel          = "llama3.1"
	DefaultBaseURL        = "http://localhost:11434/v1"
	DefaultKind           = "openai"
	DefaultTimeout        = 120 * time.Second
	DefaultMaxAutoReplies = 10
	DefaultTurnRetries    = 2
	DefaultRetryDelay     = time.Second
	DefaultSenderName     = "RISHU"
	DefaultSenderTitle    = "AI Specialist"
)

// Environment variables consulted by Resolve.
const (
	EnvModel         = "MODEL"
	EnvBaseURL       = "BASE_URL"
	EnvOllamaModel   = "OLLAMA_MODEL"
	EnvOllamaBaseURL = "OLLAMA_BASE_URL"
	EnvResendAPIKey  = "RESEND_API_KEY" //nolint:gosec // variable name, not a secret
	EnvSenderEmail   = "DEFAULT_SENDER_EMAIL"
)

// ConfigError reports a configuration that could not be loaded or is
// invalid. It is always fatal and occurs before any agent exists.
type ConfigError struct {
	Path string // Empty when the problem is not tied to a file.
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("engine: config: %v", e.Err)
	}
	return fmt.Sprintf("engine: config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config is the raw YAML configuration.
type Config struct {
	ConfigList     []BackendConfig `yaml:"config_list"`
	Timeout        int             `yaml:"timeout"`          // Per-request timeout in seconds.
	MaxAutoReplies *int            `yaml:"max_auto_replies"` // nil = default; 0 is valid.
	TurnRetries    *int            `yaml:"turn_retries"`
	RetryDelay     string          `yaml:"retry_delay"` // Duration string, e.g. "1s".
	RunTimeout     string          `yaml:"run_timeout"` // Bound on a whole run (empty = none).
	Sentinel       string          `yaml:"sentinel"`
	AutoReply      string          `yaml:"auto_reply"`
	SystemPrompt   string          `yaml:"system_prompt"`
	Tools          []string        `yaml:"tools"` // nil = every built-in tool.
	Email          EmailConfig     `yaml:"email"`
}

// BackendConfig describes a reasoning-engine endpoint.
type BackendConfig struct {
	Model       string            `yaml:"model"`
	BaseURL     string            `yaml:"base_url"`
	Kind        string            `yaml:"kind"`    // "openai" or "ollama".
	APIKey      string            `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Temperature float64           `yaml:"temperature"`
	MaxTokens   int               `yaml:"max_tokens"`
	Headers     map[string]string `yaml:"headers"`
}

// EmailConfig holds send_email settings. Credentials come from the
// environment only.
type EmailConfig struct {
	Format      bool   `yaml:"format"` // Format bodies as HTML through a nested conversation.
	SenderName  string `yaml:"sender_name"`
	SenderTitle string `yaml:"sender_title"`
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so API keys can live in the environment (e.g. a .env file)
// rather than in the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, &ConfigError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	return cfg, nil
}

// DefaultConfigFile is read by FindConfig when no explicit path is given.
const DefaultConfigFile = "config.yaml"

// FindConfig loads the configuration for a command, reading
// DefaultConfigFile when path is empty. A missing or malformed file is a
// *ConfigError.
func FindConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	return LoadConfig(path)
}

// Validate checks the raw configuration for values that can never resolve.
func (c Config) Validate() error {
	for i, b := range c.ConfigList {
		if b.Kind != "" {
			if _, ok := getFactory(b.Kind); !ok {
				return &ConfigError{Err: fmt.Errorf("config_list[%d]: unknown kind %q", i, b.Kind)}
			}
		}
	}

	if c.Timeout < 0 {
		return &ConfigError{Err: errors.New("timeout must not be negative")}
	}
	if c.MaxAutoReplies != nil && *c.MaxAutoReplies < 0 {
		return &ConfigError{Err: errors.New("max_auto_replies must not be negative")}
	}
	if c.TurnRetries != nil && *c.TurnRetries < 0 {
		return &ConfigError{Err: errors.New("turn_retries must not be negative")}
	}

	for _, name := range c.Tools {
		if _, err := builtin.ParseKind(name); err != nil {
			return &ConfigError{Err: err}
		}
	}

	return nil
}

// RunConfig is the resolved, immutable configuration of a run. It is built
// once by Resolve and passed by value.
type RunConfig struct {
	Backend        BackendConfig
	Timeout        time.Duration
	MaxAutoReplies int
	TurnRetries    int
	RetryDelay     time.Duration
	RunTimeout     time.Duration
	Sentinel       string
	AutoReply      string
	SystemPrompt   string
	Tools          []builtin.Kind
	Email          EmailSettings
}

// EmailSettings is the resolved send_email configuration.
type EmailSettings struct {
	Enabled     bool
	APIKey      string //nolint:gosec // resolved from the environment
	From        string
	Format      bool
	SenderName  string
	SenderTitle string
}

// HasTool reports whether kind is enabled.
func (rc RunConfig) HasTool(kind builtin.Kind) bool {
	for _, k := range rc.Tools {
		if k == kind {
			return true
		}
	}
	return false
}

// Resolve validates c, applies environment overrides and defaults, and
// returns the RunConfig. When send_email is enabled, RESEND_API_KEY and
// DEFAULT_SENDER_EMAIL must be set.
func (c Config) Resolve() (RunConfig, error) {
	if err := c.Validate(); err != nil {
		return RunConfig{}, err
	}

	var backend BackendConfig
	if len(c.ConfigList) > 0 {
		backend = c.ConfigList[0]
	}

	if v := firstEnv(EnvModel, EnvOllamaModel); v != "" {
		backend.Model = v
	}
	if v := firstEnv(EnvBaseURL, EnvOllamaBaseURL); v != "" {
		backend.BaseURL = v
	}
	if backend.Model == "" {
		backend.Model = DefaultModel
	}
	if backend.BaseURL == "" {
		backend.BaseURL = DefaultBaseURL
	}
	if backend.Kind == "" {
		backend.Kind = DefaultKind
	}

	rc := RunConfig{
		Backend:        backend,
		Timeout:        DefaultTimeout,
		MaxAutoReplies: DefaultMaxAutoReplies,
		TurnRetries:    DefaultTurnRetries,
		RetryDelay:     DefaultRetryDelay,
		Sentinel:       c.Sentinel,
		AutoReply:      c.AutoReply,
	}

	if c.Timeout > 0 {
		rc.Timeout = time.Duration(c.Timeout) * time.Second
	}
	if c.MaxAutoReplies != nil {
		rc.MaxAutoReplies = *c.MaxAutoReplies
	}
	if c.TurnRetries != nil {
		rc.TurnRetries = *c.TurnRetries
	}

	var err error
	if rc.RetryDelay, err = parseDuration("retry_delay", c.RetryDelay, DefaultRetryDelay); err != nil {
		return RunConfig{}, err
	}
	if rc.RunTimeout, err = parseDuration("run_timeout", c.RunTimeout, 0); err != nil {
		return RunConfig{}, err
	}

	if rc.Sentinel == "" {
		rc.Sentinel = agent.DefaultSentinel
	}
	if rc.AutoReply == "" {
		rc.AutoReply = fmt.Sprintf("Continue. Reply %s when the task is complete.", rc.Sentinel)
	}

	if c.Tools == nil {
		rc.Tools = append([]builtin.Kind(nil), builtin.Kinds...)
	} else {
		rc.Tools = make([]builtin.Kind, 0, len(c.Tools))
		for _, name := range c.Tools {
			kind, _ := builtin.ParseKind(name)
			rc.Tools = append(rc.Tools, kind)
		}
	}

	if rc.HasTool(builtin.SendEmail) {
		rc.Email = EmailSettings{
			Enabled:     true,
			APIKey:      os.Getenv(EnvResendAPIKey),
			From:        os.Getenv(EnvSenderEmail),
			Format:      c.Email.Format,
			SenderName:  valueOr(c.Email.SenderName, DefaultSenderName),
			SenderTitle: valueOr(c.Email.SenderTitle, DefaultSenderTitle),
		}

		var missing []string
		if rc.Email.APIKey == "" {
			missing = append(missing, EnvResendAPIKey)
		}
		if rc.Email.From == "" {
			missing = append(missing, EnvSenderEmail)
		}
		if len(missing) > 0 {
			return RunConfig{}, &ConfigError{
				Err: fmt.Errorf("send_email is enabled but %s not set", strings.Join(missing, " and ")),
			}
		}
	}

	rc.SystemPrompt = c.SystemPrompt
	if rc.SystemPrompt == "" {
		rc.SystemPrompt = defaultSystemPrompt(rc.Tools, rc.Sentinel)
	}

	return rc, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseDuration(field, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigError{Err: fmt.Errorf("invalid %s %q: %w", field, raw, err)}
	}
	if d < 0 {
		return 0, &ConfigError{Err: fmt.Errorf("%s must not be negative", field)}
	}

	return d, nil
}
