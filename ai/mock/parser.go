package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/carprompt/core"
)

// MockFilterParser is a test double for ai.FilterParser.
type MockFilterParser struct {
	// ParseFiltersFunc is called by ParseFilters if set.
	// If nil, an empty FilterSet is returned.
	ParseFiltersFunc func(ctx context.Context, prompt string) (core.FilterSet, error)

	callCount atomic.Int64
}

// NewMockFilterParser creates a mock parser returning empty filters.
func NewMockFilterParser() *MockFilterParser {
	return &MockFilterParser{}
}

// WithFilters makes the parser return filters for every prompt.
func (m *MockFilterParser) WithFilters(filters core.FilterSet) *MockFilterParser {
	filters.Normalize()
	m.ParseFiltersFunc = func(ctx context.Context, prompt string) (core.FilterSet, error) {
		return filters, nil
	}
	return m
}

// WithParseFiltersFunc sets ParseFiltersFunc and returns m.
func (m *MockFilterParser) WithParseFiltersFunc(fn func(ctx context.Context, prompt string) (core.FilterSet, error)) *MockFilterParser {
	m.ParseFiltersFunc = fn
	return m
}

// ParseFilters implements ai.FilterParser.
func (m *MockFilterParser) ParseFilters(ctx context.Context, prompt string) (core.FilterSet, error) {
	m.callCount.Add(1)

	if m.ParseFiltersFunc != nil {
		return m.ParseFiltersFunc(ctx, prompt)
	}
	return core.EmptyFilterSet(), nil
}

// CallCount returns the number of times ParseFilters was called.
func (m *MockFilterParser) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and override.
func (m *MockFilterParser) Reset() {
	m.callCount.Store(0)
	m.ParseFiltersFunc = nil
}
