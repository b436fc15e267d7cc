// Package main provides the webpilot command: an agent that completes a
// natural-language task by driving a real browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/webpilot/pkg/agent"
	"github.com/entrhq/webpilot/pkg/agent/approval"
	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/config"
	"github.com/entrhq/webpilot/pkg/executor/cli"
	"github.com/entrhq/webpilot/pkg/llm/openai"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/security/urlguard"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration. Empty or zero values leave
// the loaded configuration untouched.
type CLIConfig struct {
	ConfigFile    string
	Task          string
	StartURL      string
	Model         string
	BaseURL       string
	APIKey        string
	BrowserType   string
	MaxIterations int
	HumanTimeout  time.Duration
	Headless      bool
	NoDelegation  bool
	Verbose       bool
	WriteConfig   bool
	ShowVersion   bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("webpilot v%s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, cliConfig); err != nil {
		stop()
		log.Printf("Execution failed: %v", err)
		os.Exit(1)
	}
	stop()
}

func parseFlags() *CLIConfig {
	c := &CLIConfig{}

	flag.StringVar(&c.ConfigFile, "config", "", "Path to configuration file (YAML, default ~/.webpilot/config.yaml)")
	flag.StringVar(&c.Task, "task", "", "Task description (or pass it as the remaining arguments)")
	flag.StringVar(&c.StartURL, "url", "", "Page to open before the task starts")
	flag.StringVar(&c.Model, "model", "", "LLM model to use")
	flag.StringVar(&c.BaseURL, "base-url", "", "OpenAI-compatible API base URL")
	flag.StringVar(&c.APIKey, "api-key", "", "API key (default $OPENAI_API_KEY)")
	flag.StringVar(&c.BrowserType, "browser", "", "Browser engine: chromium, firefox or webkit")
	flag.IntVar(&c.MaxIterations, "max-iterations", 0, "Maximum agent iterations")
	flag.DurationVar(&c.HumanTimeout, "human-timeout", 0, "How long to wait for a confirmation or manual step (0 waits indefinitely)")
	flag.BoolVar(&c.Headless, "headless", false, "Run the browser without a window")
	flag.BoolVar(&c.NoDelegation, "no-delegation", false, "Disable specialist sub-agents")
	flag.BoolVar(&c.Verbose, "verbose", false, "Show model reasoning and sub-agent steps")
	flag.BoolVar(&c.WriteConfig, "write-config", false, "Write the effective configuration to the config path and exit")
	flag.BoolVar(&c.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "webpilot - browser automation agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: webpilot [options] [task]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  webpilot \"Find the opening hours of the nearest library\"\n")
		fmt.Fprintf(os.Stderr, "  webpilot -url https://news.ycombinator.com -task \"Summarize the top story\"\n")
		fmt.Fprintf(os.Stderr, "  webpilot -headless -human-timeout 2m -config ci.yaml \"Check the status page\"\n")
	}

	flag.Parse()

	if c.Task == "" {
		c.Task = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}
	return c
}

// applyFlags layers command-line values over the loaded configuration.
func applyFlags(cfg *config.Config, c *CLIConfig) {
	if c.Model != "" {
		cfg.LLM.Model = c.Model
	}
	if c.BaseURL != "" {
		cfg.LLM.BaseURL = c.BaseURL
	}
	if c.APIKey != "" {
		cfg.LLM.APIKey = c.APIKey
	}
	if c.BrowserType != "" {
		cfg.Browser.Type = c.BrowserType
	}
	if c.MaxIterations > 0 {
		cfg.Agent.MaxIterations = c.MaxIterations
	}
	if c.HumanTimeout > 0 {
		cfg.Agent.HumanTimeout = c.HumanTimeout
	}
	if c.Headless {
		cfg.Browser.Headless = true
	}
	if c.NoDelegation {
		cfg.Agent.Delegation = false
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
}

func run(ctx context.Context, c *CLIConfig) error {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg, c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.WriteConfig {
		return writeConfig(c.ConfigFile, cfg)
	}

	prompter := cli.NewConsolePrompter(os.Stdin, os.Stdout)
	if c.Task == "" {
		task, err := prompter.Ask(ctx, "Task: ")
		if err != nil || task == "" {
			flag.Usage()
			return fmt.Errorf("a task is required")
		}
		c.Task = task
	}

	if err := logging.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}

	policy, err := urlguard.NewPolicy(cfg.Navigation.AllowedDomains, cfg.Navigation.DeniedDomains)
	if err != nil {
		return fmt.Errorf("invalid navigation policy: %w", err)
	}

	provider, err := newProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	session := browser.NewSession(browser.Options{
		BrowserType:       cfg.Browser.Type,
		ProfileDir:        cfg.Browser.ProfileDir,
		Headless:          cfg.Browser.Headless,
		Viewport:          browser.Viewport{Width: cfg.Browser.ViewportWidth, Height: cfg.Browser.ViewportHeight},
		ActionTimeout:     cfg.Browser.ActionTimeout,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		Policy:            policy,
	})
	if _, err := session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := session.Stop(); err != nil {
			log.Printf("Warning: failed to stop browser: %v", err)
		}
	}()

	if c.StartURL != "" {
		if _, err := session.Navigate(c.StartURL, cfg.Browser.NavigationTimeout); err != nil {
			return fmt.Errorf("failed to open %s: %w", c.StartURL, err)
		}
	}

	exec := cli.NewExecutor(os.Stdout, cli.WithVerbose(c.Verbose), cli.WithDelegateDetail(c.Verbose))
	approver := approval.NewManager(prompter, cfg.Agent.HumanTimeout, exec.HandleEvent)
	pages := agentcontext.NewManager(session, cfg.Agent.OverviewTokenBudget, agentcontext.NewTiktokenEstimator())

	var delegateTool *agent.DelegateTool
	if cfg.Agent.Delegation {
		delegates := agent.NewDelegates(provider, session, pages,
			agent.WithDelegateSteps(cfg.Agent.DelegateSteps),
			agent.WithDelegateEvents(exec.HandleEvent),
		)
		delegateTool = agent.NewDelegateTool(exec.HandleEvent, delegates...)
	}
	registry := agent.NewCoordinatorRegistry(session, pages, cfg.Browser.ScreenshotDir, delegateTool)

	coordinator := agent.NewCoordinator(provider, registry, pages,
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithNoActionLimit(cfg.Agent.NoActionLimit),
		agent.WithFailureLimit(cfg.Agent.FailureLimit),
		agent.WithContextLimit(cfg.Agent.ContextTokenLimit),
		agent.WithCustomInstructions(cfg.Agent.CustomInstructions),
		agent.WithApprover(approver),
		agent.WithEventHandler(exec.HandleEvent),
	)

	if _, err := exec.Run(ctx, coordinator, c.Task); err != nil {
		return err
	}

	// A visible browser stays open until the user has looked at the result.
	if !cfg.Browser.Headless {
		_, _ = prompter.Ask(ctx, "Press Enter to close the browser...")
	}
	return nil
}

func newProvider(c config.LLMConfig) (*openai.Provider, error) {
	opts := []openai.ProviderOption{
		openai.WithModel(c.Model),
		openai.WithBaseURL(c.BaseURL),
		openai.WithRetry(c.RetryMax, 0, 0),
		openai.WithTimeout(c.Timeout),
		openai.WithRateLimit(c.RateLimit),
	}
	if c.Temperature != nil {
		opts = append(opts, openai.WithTemperature(*c.Temperature))
	}
	return openai.NewProvider(c.APIKey, opts...)
}

func writeConfig(path string, cfg *config.Config) error {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	// The key normally comes from the environment; never persist it.
	cfg.LLM.APIKey = ""
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
