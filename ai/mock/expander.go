package mock

import (
	"context"
	"sync/atomic"
)

// MockQueryExpander is a test double for ai.QueryExpander.
type MockQueryExpander struct {
	// ExpandQueryFunc is called by ExpandQuery if set.
	// If nil, the query is returned as the only term.
	ExpandQueryFunc func(ctx context.Context, query string) ([]string, error)

	callCount atomic.Int64
}

// NewMockQueryExpander creates a mock expander that echoes the query.
func NewMockQueryExpander() *MockQueryExpander {
	return &MockQueryExpander{}
}

// WithExpandQueryFunc sets ExpandQueryFunc and returns m.
func (m *MockQueryExpander) WithExpandQueryFunc(fn func(ctx context.Context, query string) ([]string, error)) *MockQueryExpander {
	m.ExpandQueryFunc = fn
	return m
}

// ExpandQuery implements ai.QueryExpander.
func (m *MockQueryExpander) ExpandQuery(ctx context.Context, query string) ([]string, error) {
	m.callCount.Add(1)

	if m.ExpandQueryFunc != nil {
		return m.ExpandQueryFunc(ctx, query)
	}
	return []string{query}, nil
}

// CallCount returns the number of times ExpandQuery was called.
func (m *MockQueryExpander) CallCount() int {
	return int(m.callCount.Load())
}
