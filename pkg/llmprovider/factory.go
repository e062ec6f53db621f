package llmprovider

import (
	"strings"
	"time"

	"family-hub/pkg/deepseek"
	"family-hub/pkg/gemini"
	"family-hub/pkg/qwen"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini   = "gemini"
	ProviderQwen     = "qwen"
	ProviderDeepSeek = "deepseek"
)

// Config selects and parameterises a backend for one call.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Factory builds a Provider from a Config.
type Factory func(cfg Config) Provider

// NewProvider selects the backend purely from cfg.Provider.
// A missing credential or an unknown name yields the null variant.
func NewProvider(cfg Config) Provider {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" || name == NullProviderName {
		return NewNullProvider("no provider configured")
	}
	if cfg.APIKey == "" {
		return NewNullProvider("provider " + name + " has no credential")
	}

	switch name {
	case ProviderGemini:
		client, err := gemini.New(gemini.Config{APIKey: cfg.APIKey, Model: cfg.Model, APIURL: cfg.BaseURL})
		if err != nil {
			return NewNullProvider(err.Error())
		}
		return NewGeminiAdapter(client)

	case ProviderQwen, "alibaba":
		client, err := qwen.New(qwen.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
		if err != nil {
			return NewNullProvider(err.Error())
		}
		return NewQwenAdapter(client)

	case ProviderDeepSeek:
		client, err := deepseek.New(deepseek.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
		if err != nil {
			return NewNullProvider(err.Error())
		}
		return NewDeepSeekAdapter(client)

	default:
		return NewNullProvider("unknown provider " + name)
	}
}
