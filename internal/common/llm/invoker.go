// Package llm talks to the hosted generative model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edudesk/internal/common/config"
	"edudesk/internal/common/validation"
)

var ErrTransport = errors.New("TRANSPORT_FAILURE")

// Request is one model call: the rendered prompt, the shape the answer must
// take and the model variant that answers it.
type Request struct {
	TaskType    string
	Prompt      string
	Schema      *validation.Schema
	Model       string
	Temperature *float32
}

// Invoker sends a Request to a model and returns its raw JSON answer.
// Implementations make exactly one attempt and do not cache.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (json.RawMessage, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, req *Request) (json.RawMessage, error)

func (f InvokerFunc) Invoke(ctx context.Context, req *Request) (json.RawMessage, error) {
	return f(ctx, req)
}

// New builds the invoker selected by cfg.Provider.
func New(ctx context.Context, cfg config.GenAIConfig) (Invoker, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiInvoker(ctx, cfg.APIKey, cfg.Temperature)
	case "gateway":
		return NewGatewayInvoker(cfg.BaseURL, cfg.APIKey, time.Duration(cfg.Timeout)*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unsupported genai provider %q", cfg.Provider)
	}
}

func transportError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}
