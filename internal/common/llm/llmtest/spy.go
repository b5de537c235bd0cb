// Package llmtest provides a recording Invoker for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"sync"

	"edudesk/internal/common/llm"
)

// Spy records every request and answers with a fixed response or error.
type Spy struct {
	mu       sync.Mutex
	requests []*llm.Request

	Response json.RawMessage
	Err      error
}

func Respond(response string) *Spy {
	return &Spy{Response: json.RawMessage(response)}
}

func Fail(err error) *Spy {
	return &Spy{Err: err}
}

func (s *Spy) Invoke(ctx context.Context, req *llm.Request) (json.RawMessage, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

func (s *Spy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request, or nil when none was made.
func (s *Spy) Last() *llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}
