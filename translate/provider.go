package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderGoogle       = "google"
	ProviderGroq         = "groq"
	ProviderOpenAI       = "openai"
	ProviderCustomOpenAI = "custom-openai"
	ProviderOllama       = "ollama"
)

// DefaultGeminiModel is used for the google provider when no model is set.
const DefaultGeminiModel = "gemini-3-pro-preview"

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (google, groq, ollama, etc.).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGoogle: {
			ID:      ProviderGoogle,
			Name:    "Google AI (Gemini)",
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   DefaultGeminiModel,
		},
		ProviderGroq: {
			ID:      ProviderGroq,
			Name:    "Groq",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
		},
		ProviderCustomOpenAI: {
			ID:   ProviderCustomOpenAI,
			Name: "Custom OpenAI",
		},
		ProviderOllama: {
			ID:      ProviderOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
		},
	}
}

// ProviderIDs returns the known provider IDs, sorted.
func ProviderIDs() []string {
	return []string{ProviderCustomOpenAI, ProviderGoogle, ProviderGroq, ProviderOllama, ProviderOpenAI}
}

// NeedsAPIKey reports whether the provider requires an API key.
func (p Provider) NeedsAPIKey() bool {
	return p.ID != ProviderOllama && p.ID != ProviderCustomOpenAI
}

// Validate checks that the provider can be called.
func (p Provider) Validate() error {
	if p.BaseURL == "" {
		return fmt.Errorf("provider %s: base URL is required", p.ID)
	}
	if p.Model == "" {
		return fmt.Errorf("provider %s: model is required", p.ID)
	}
	if p.APIKey == "" && p.NeedsAPIKey() {
		return fmt.Errorf("provider %s: API key is required", p.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Oracle
// ---------------------------------------------------------------------------

// Oracle answers one prompt with free text.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f OracleFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type apiFormat int

const (
	formatOpenAIChat   apiFormat = iota // OpenAI chat/completions
	formatGeminiNative                  // Google Gemini generateContent
)

// HTTPOracle calls a provider's HTTP API. It makes exactly one request per
// call and sets no timeout of its own; bound it with the context.
type HTTPOracle struct {
	prov   Provider
	format apiFormat
	client *resty.Client
}

// NewHTTPOracle returns an oracle for prov.
func NewHTTPOracle(prov Provider) (*HTTPOracle, error) {
	if err := prov.Validate(); err != nil {
		return nil, err
	}
	client := resty.New().
		SetHeader("User-Agent", "langsync").
		SetRetryCount(0)
	if prov.Proxy != "" {
		client.SetProxy(prov.Proxy)
	}
	format := formatOpenAIChat
	if prov.ID == ProviderGoogle {
		format = formatGeminiNative
	}
	return &HTTPOracle{prov: prov, format: format, client: client}, nil
}

// Provider returns the provider the oracle calls.
func (o *HTTPOracle) Provider() Provider { return o.prov }

// Complete sends prompt as a single user message and returns the reply text.
func (o *HTTPOracle) Complete(ctx context.Context, prompt string) (string, error) {
	endpoint, headers, body, err := buildHTTPRequest(o.prov, prompt, o.format)
	if err != nil {
		return "", err
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", o.prov.ID, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s returned HTTP %d: %s", o.prov.ID, resp.StatusCode(), truncate(resp.String(), 500))
	}
	return extractResponseText(resp.Body())
}

// ---------------------------------------------------------------------------
// Request builders for each API format
// ---------------------------------------------------------------------------

func buildOpenAIChatRequest(model, prompt string, temperature float64) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		Stream      bool    `json:"stream"`
	}{
		Model:       model,
		Messages:    []msg{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}
	return json.Marshal(req)
}

func buildGeminiRequest(prompt string, temperature float64) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature float64 `json:"temperature"`
	}
	req := struct {
		Contents         []content `json:"contents"`
		GenerationConfig genConfig `json:"generationConfig"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: genConfig{Temperature: temperature},
	}
	return json.Marshal(req)
}

// buildHTTPRequest constructs the endpoint, headers, and body for an HTTP provider.
func buildHTTPRequest(prov Provider, prompt string, format apiFormat) (string, map[string]string, []byte, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	var endpoint string
	var body []byte
	var err error

	switch format {
	case formatGeminiNative:
		// Google AI: POST /v1beta/models/{model}:generateContent
		endpoint = fmt.Sprintf("%s/v1beta/models/%s:generateContent",
			strings.TrimRight(prov.BaseURL, "/"), prov.Model)
		if prov.APIKey != "" {
			headers["x-goog-api-key"] = prov.APIKey
		}
		body, err = buildGeminiRequest(prompt, 0.3)

	default: // formatOpenAIChat
		baseURL := strings.TrimRight(prov.BaseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			endpoint = baseURL + "/chat/completions"
		} else {
			endpoint = baseURL
		}
		if prov.APIKey != "" {
			headers["Authorization"] = "Bearer " + prov.APIKey
		}
		body, err = buildOpenAIChatRequest(prov.Model, prompt, 0.3)
	}

	if err != nil {
		return "", nil, nil, err
	}
	return endpoint, headers, body, nil
}

// ---------------------------------------------------------------------------
// Response parsers (multi-format)
// ---------------------------------------------------------------------------

// extractResponseText reads the reply text from an OpenAI, Gemini or Ollama
// response body.
func extractResponseText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid JSON response: %s", truncate(string(body), 500))
	}
	root := gjson.ParseBytes(body)

	if errObj := root.Get("error"); errObj.Exists() {
		if msg := errObj.Get("message"); msg.Exists() {
			return "", fmt.Errorf("API error: %s", msg.String())
		}
		return "", fmt.Errorf("API error: %s", errObj.Raw)
	}

	// 1. OpenAI chat format
	if r := root.Get("choices.0.message.content"); r.Type == gjson.String {
		return r.String(), nil
	}

	// 2. Gemini format; a reply may be split over several parts.
	if parts := root.Get("candidates.0.content.parts.#.text"); parts.IsArray() && len(parts.Array()) > 0 {
		var b strings.Builder
		for _, p := range parts.Array() {
			b.WriteString(p.String())
		}
		return b.String(), nil
	}

	// 3. Ollama native chat and plain "response" field
	for _, path := range []string{"message.content", "response"} {
		if r := root.Get(path); r.Type == gjson.String {
			return r.String(), nil
		}
	}

	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// truncate truncates a string to maxLen bytes.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
