package llmprovider

import "context"

// NullProviderName is reported by the null variant.
const NullProviderName = "none"

// NullProvider is selected when no backend is configured. It never touches the network.
type NullProvider struct {
	reason string
}

// NewNullProvider creates a null provider; reason is kept for diagnostics.
func NewNullProvider(reason string) *NullProvider {
	return &NullProvider{reason: reason}
}

// GenerateContent always fails with ErrProviderUnavailable.
func (p *NullProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	return nil, &ProviderError{Provider: NullProviderName, Kind: ErrProviderUnavailable, Err: errorString(p.reason)}
}

// Name returns "none".
func (p *NullProvider) Name() string { return NullProviderName }

// Model returns "".
func (p *NullProvider) Model() string { return "" }

type errorString string

func (e errorString) Error() string { return string(e) }
