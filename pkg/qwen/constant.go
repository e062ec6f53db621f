package qwen

import "time"

const (
	// DefaultModel is the default Qwen model
	DefaultModel = "qwen-plus"

	// DefaultBaseURL is the OpenAI-compatible DashScope endpoint
	DefaultBaseURL = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"

	// DefaultTimeout caps a single HTTP call; callers normally pass a tighter context deadline.
	DefaultTimeout = 15 * time.Second

	chatCompletionsPath = "/chat/completions"
	maxErrorBodyBytes   = 4 << 10
)
