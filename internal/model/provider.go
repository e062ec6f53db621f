package model

import "time"

// ProviderConfig is the language-model configuration in effect for a workspace.
type ProviderConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// CredentialPresent reports whether a credential is configured.
func (c ProviderConfig) CredentialPresent() bool {
	return c.APIKey != ""
}
