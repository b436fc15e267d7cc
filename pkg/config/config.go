// Package config loads webpilot settings from a YAML file and the
// environment.
//
// Precedence, lowest first: Default, the YAML file, WEBPILOT_* environment
// variables. Command-line flags are applied by the binary on top.
package config

import (
	"fmt"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override, e.g.
// WEBPILOT_BROWSER_HEADLESS or WEBPILOT_AGENT_MAX_ITERATIONS.
const EnvPrefix = "WEBPILOT"

// Config is the complete runtime configuration.
type Config struct {
	Browser    BrowserConfig    `yaml:"browser" json:"browser" envconfig:"BROWSER"`
	Agent      AgentConfig      `yaml:"agent" json:"agent" envconfig:"AGENT"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" envconfig:"LLM"`
	Navigation NavigationConfig `yaml:"navigation" json:"navigation" envconfig:"NAVIGATION"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging" envconfig:"LOG"`
}

// BrowserConfig configures the browser session.
type BrowserConfig struct {
	// Type is chromium, firefox or webkit.
	Type     string `yaml:"type" json:"type" envconfig:"TYPE"`
	Headless bool   `yaml:"headless" json:"headless" envconfig:"HEADLESS"`

	// ProfileDir keeps cookies and storage between runs. Empty means
	// ~/.webpilot/browser_data.
	ProfileDir string `yaml:"profile_dir" json:"profile_dir" envconfig:"PROFILE_DIR"`

	ViewportWidth     int           `yaml:"viewport_width" json:"viewport_width" envconfig:"VIEWPORT_WIDTH"`
	ViewportHeight    int           `yaml:"viewport_height" json:"viewport_height" envconfig:"VIEWPORT_HEIGHT"`
	ActionTimeout     time.Duration `yaml:"action_timeout" json:"action_timeout" envconfig:"ACTION_TIMEOUT"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout" envconfig:"NAVIGATION_TIMEOUT"`

	// ScreenshotDir receives take_screenshot output. Empty means the
	// working directory.
	ScreenshotDir string `yaml:"screenshot_dir" json:"screenshot_dir" envconfig:"SCREENSHOT_DIR"`
}

// AgentConfig configures the coordinator and its sub-agents.
type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations" json:"max_iterations" envconfig:"MAX_ITERATIONS"`
	NoActionLimit int `yaml:"no_action_limit" json:"no_action_limit" envconfig:"NO_ACTION_LIMIT"`
	FailureLimit  int `yaml:"failure_limit" json:"failure_limit" envconfig:"FAILURE_LIMIT"`

	// Delegation exposes delegate_to_subagent to the coordinator.
	Delegation    bool `yaml:"delegation" json:"delegation" envconfig:"DELEGATION"`
	DelegateSteps int  `yaml:"delegate_steps" json:"delegate_steps" envconfig:"DELEGATE_STEPS"`

	// HumanTimeout bounds confirmation and intervention prompts. Zero waits
	// indefinitely.
	HumanTimeout time.Duration `yaml:"human_timeout" json:"human_timeout" envconfig:"HUMAN_TIMEOUT"`

	// OverviewTokenBudget caps each page overview injected into the
	// conversation.
	OverviewTokenBudget int `yaml:"overview_token_budget" json:"overview_token_budget" envconfig:"OVERVIEW_TOKEN_BUDGET"`

	// ContextTokenLimit enables compaction of superseded overviews once the
	// conversation nears it. Zero disables compaction.
	ContextTokenLimit int `yaml:"context_token_limit" json:"context_token_limit" envconfig:"CONTEXT_TOKEN_LIMIT"`

	CustomInstructions string `yaml:"custom_instructions" json:"custom_instructions" envconfig:"CUSTOM_INSTRUCTIONS"`
}

// LLMConfig configures the model endpoint.
type LLMConfig struct {
	Model   string `yaml:"model" json:"model" envconfig:"MODEL"`
	BaseURL string `yaml:"base_url" json:"base_url" envconfig:"BASE_URL"`

	// APIKey is usually left empty so that OPENAI_API_KEY applies.
	APIKey string `yaml:"api_key" json:"-" envconfig:"API_KEY"`

	// Temperature is omitted from requests when nil.
	Temperature *float64      `yaml:"temperature,omitempty" json:"temperature,omitempty" envconfig:"TEMPERATURE"`
	RetryMax    int           `yaml:"retry_max" json:"retry_max" envconfig:"RETRY_MAX"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT"`

	// RateLimit is requests per second. Zero means unlimited.
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit" envconfig:"RATE_LIMIT"`
}

// NavigationConfig restricts where the browser may go, on top of the
// built-in scheme and private-address checks. Entries are glob patterns
// matched against the host, e.g. "*.example.com".
type NavigationConfig struct {
	AllowedDomains []string `yaml:"allowed_domains,omitempty" json:"allowed_domains,omitempty" envconfig:"ALLOWED_DOMAINS"`
	DeniedDomains  []string `yaml:"denied_domains,omitempty" json:"denied_domains,omitempty" envconfig:"DENIED_DOMAINS"`
}

// LoggingConfig configures the log files.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" json:"level" envconfig:"LEVEL"`
}

// Default returns a configuration suitable for most use cases.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Type:              "chromium",
			ViewportWidth:     1280,
			ViewportHeight:    720,
			ActionTimeout:     10 * time.Second,
			NavigationTimeout: 30 * time.Second,
		},
		Agent: AgentConfig{
			MaxIterations:       50,
			NoActionLimit:       3,
			FailureLimit:        3,
			Delegation:          true,
			DelegateSteps:       10,
			OverviewTokenBudget: 3000,
			ContextTokenLimit:   100000,
		},
		LLM: LLMConfig{
			Model:    "gpt-4o",
			RetryMax: 3,
			Timeout:  120 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var (
	validBrowsers  = []string{"chromium", "firefox", "webkit"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks the configuration. It normalizes case on the enumerated
// fields before checking them.
func (c *Config) Validate() error {
	c.Browser.Type = strings.ToLower(strings.TrimSpace(c.Browser.Type))
	if !contains(validBrowsers, c.Browser.Type) {
		return fmt.Errorf("invalid browser type: %q (must be one of %s)", c.Browser.Type, strings.Join(validBrowsers, ", "))
	}
	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}
	if c.Browser.ActionTimeout < 0 || c.Browser.NavigationTimeout < 0 {
		return fmt.Errorf("browser timeouts cannot be negative")
	}

	limits := []struct {
		name  string
		value int
	}{
		{"max_iterations", c.Agent.MaxIterations},
		{"no_action_limit", c.Agent.NoActionLimit},
		{"failure_limit", c.Agent.FailureLimit},
		{"delegate_steps", c.Agent.DelegateSteps},
		{"overview_token_budget", c.Agent.OverviewTokenBudget},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", l.name, l.value)
		}
	}
	if c.Agent.HumanTimeout < 0 {
		return fmt.Errorf("human_timeout cannot be negative")
	}
	if c.Agent.ContextTokenLimit < 0 {
		return fmt.Errorf("context_token_limit cannot be negative")
	}

	if c.LLM.RetryMax < 0 {
		return fmt.Errorf("retry_max cannot be negative")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout cannot be negative")
	}
	if c.LLM.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", *t)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (must be one of %s)", c.Logging.Level, strings.Join(validLogLevels, ", "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
