package qwen

import "context"

// IQwen is the DashScope OpenAI-compatible chat endpoint as the model gateway uses it.
// Implementations are safe for concurrent use.
type IQwen interface {
	// GenerateContent sends one chat completion request, tools included.
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model being used
	Model() string
}

// New validates cfg and returns a client.
func New(cfg Config) (IQwen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newQwenImpl(cfg), nil
}
