package gemini

import "context"

// IGemini is the Gemini generateContent endpoint as the model gateway uses it.
// Implementations are safe for concurrent use.
type IGemini interface {
	// GenerateContent sends one request, function declarations included.
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model being used
	Model() string
}

// New validates cfg and returns a client.
func New(cfg Config) (IGemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGeminiImpl(cfg), nil
}
