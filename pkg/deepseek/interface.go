package deepseek

import "context"

// IDeepSeek is the DeepSeek chat endpoint as the model gateway uses it.
type IDeepSeek interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Model() string
}
