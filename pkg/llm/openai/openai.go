// Package openai provides an OpenAI-compatible LLM provider implementation.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	    openai.WithRateLimit(2),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewUserMessage("Open example.com"),
//	})
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/entrhq/webpilot/pkg/llm"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/types"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/openai/openai-go"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when WithModel is not given.
	DefaultModel = "gpt-4o"

	// DefaultRetryMax is how many times a 429 or 5xx response is retried.
	DefaultRetryMax = 3

	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 30 * time.Second
	defaultTimeout      = 120 * time.Second
)

var providerLog *logging.Logger

func init() {
	var err error
	providerLog, err = logging.NewLogger("llm")
	if err != nil {
		providerLog.Warnf("falling back to stderr logging: %v", err)
	}
}

// Provider implements the LLM provider interface for OpenAI-compatible APIs.
type Provider struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	modelInfo   *types.ModelInfo
	apiKey      string
	baseURL     string
	model       string
	temperature *float64
	retryMax    int
	retryMin    time.Duration
	retryMaxW   time.Duration
	timeout     time.Duration
}

var _ llm.Provider = (*Provider)(nil)

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
// This enables using Azure OpenAI, local models, or other compatible services.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithTemperature sets the sampling temperature sent with every request.
func WithTemperature(t float64) ProviderOption {
	return func(p *Provider) {
		p.temperature = &t
	}
}

// WithRetry sets the retry budget and backoff bounds for 429 and 5xx
// responses. A negative max disables retries.
func WithRetry(maxRetries int, minWait, maxWait time.Duration) ProviderOption {
	return func(p *Provider) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		p.retryMax = maxRetries
		if minWait > 0 {
			p.retryMin = minWait
		}
		if maxWait > 0 {
			p.retryMaxW = maxWait
		}
	}
}

// WithTimeout bounds a single HTTP attempt.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero or less means unlimited.
func WithRateLimit(rps float64) ProviderOption {
	return func(p *Provider) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewProvider creates a new OpenAI provider with the given API key.
//
// If apiKey is empty, it will attempt to read from the OPENAI_API_KEY environment variable.
// If baseURL is not provided via WithBaseURL option, it will check OPENAI_BASE_URL environment variable.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	p := &Provider{
		model:     DefaultModel,
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		retryMax:  DefaultRetryMax,
		retryMin:  defaultRetryWaitMin,
		retryMaxW: defaultRetryWaitMax,
		timeout:   defaultTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	// If baseURL wasn't set by options, check environment variable
	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = strings.TrimSuffix(envBaseURL, "/")
		}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = p.retryMax
	retryClient.RetryWaitMin = p.retryMin
	retryClient.RetryWaitMax = p.retryMaxW
	retryClient.HTTPClient.Timeout = p.timeout
	retryClient.Logger = retryLogger{}
	p.httpClient = retryClient.StandardClient()

	p.modelInfo = &types.ModelInfo{
		Metadata:  make(map[string]interface{}),
		Provider:  "openai",
		Name:      p.model,
		MaxTokens: 8192, // Default, varies by model
	}
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}

	return p, nil
}

// chatResponse is the subset of a chat completion response the agent reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends messages to the chat completions endpoint and returns the
// assistant message.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := p.sendRequest(ctx, messages)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API returned error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("API response contained no choices")
	}

	choice := parsed.Choices[0]
	role := choice.Message.Role
	if role == "" {
		role = string(types.RoleAssistant)
	}

	providerLog.Debugf("completion finished: model=%s finish_reason=%s chars=%d", p.model, choice.FinishReason, len(choice.Message.Content))

	return &types.Message{
		Role:    types.MessageRole(role),
		Content: choice.Message.Content,
	}, nil
}

// sendRequest creates and sends the HTTP request. Retries happen inside the
// retryablehttp transport.
func (p *Provider) sendRequest(ctx context.Context, messages []*types.Message) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"model":    p.model,
		"messages": convertToOpenAIMessages(messages),
	}
	if p.temperature != nil {
		reqBody["temperature"] = *p.temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// GetModelInfo returns information about the OpenAI model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL returns the base URL being used.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

// convertToOpenAIMessages converts our Message format to OpenAI's ChatCompletionMessageParamUnion format.
func convertToOpenAIMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			openaiMessages = append(openaiMessages, openai.SystemMessage(msg.Content))
		case types.RoleUser:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		case types.RoleAssistant:
			openaiMessages = append(openaiMessages, openai.AssistantMessage(msg.Content))
		default:
			// Default to user message for unknown roles
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		}
	}

	return openaiMessages
}

// retryLogger routes retryablehttp's leveled output into the component log.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) {
	providerLog.Errorf("%s %v", msg, kv)
}

func (retryLogger) Info(msg string, kv ...interface{}) {
	providerLog.Infof("%s %v", msg, kv)
}

func (retryLogger) Debug(msg string, kv ...interface{}) {
	providerLog.Debugf("%s %v", msg, kv)
}

func (retryLogger) Warn(msg string, kv ...interface{}) {
	providerLog.Warnf("%s %v", msg, kv)
}
