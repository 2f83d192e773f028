package api

import (
	"context"
	"io"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// MockStreamer is a scripted CompletionStreamer for testing.
// Each OpenStream call replays Deltas, then ends with Err (or io.EOF).
// An empty delta is sent as a chunk with no choices.
type MockStreamer struct {
	Deltas  []string
	Err     error // returned by Recv after the deltas
	OpenErr error // returned by OpenStream

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
	opened   int
	closed   int
	received int
}

var _ CompletionStreamer = (*MockStreamer)(nil)

func (m *MockStreamer) OpenStream(_ context.Context, req openai.ChatCompletionRequest) (ChunkStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.opened++
	return &mockStream{parent: m, deltas: append([]string(nil), m.Deltas...), err: m.Err}, nil
}

// Requests returns every request passed to OpenStream
func (m *MockStreamer) Requests() []openai.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, or the zero value
func (m *MockStreamer) LastRequest() openai.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return openai.ChatCompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// Opened returns how many streams were opened
func (m *MockStreamer) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// Closed returns how many streams were closed
func (m *MockStreamer) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Received returns how many chunks were handed out across all streams
func (m *MockStreamer) Received() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

type mockStream struct {
	parent *MockStreamer
	deltas []string
	err    error
	pos    int
}

func (s *mockStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	if s.pos >= len(s.deltas) {
		if s.err != nil {
			return openai.ChatCompletionStreamResponse{}, s.err
		}
		return openai.ChatCompletionStreamResponse{}, io.EOF
	}

	delta := s.deltas[s.pos]
	s.pos++

	s.parent.mu.Lock()
	s.parent.received++
	s.parent.mu.Unlock()

	if delta == "" {
		return openai.ChatCompletionStreamResponse{}, nil
	}
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: delta}},
		},
	}, nil
}

func (s *mockStream) Close() error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.closed++
	return nil
}
