package mock

import "context"

// MockAssistant is a test double for ai.Assistant.
// It allows custom behavior injection via function fields.
type MockAssistant struct {
	// EnhanceQueryFunc is called by EnhanceQuery if set.
	// If nil, the query is returned unchanged.
	EnhanceQueryFunc func(ctx context.Context, query string) (string, error)

	// ExplainMatchFunc is called by ExplainMatch if set.
	// If nil, a fixed deterministic explanation is returned.
	ExplainMatchFunc func(ctx context.Context, bookSummary, query string) (string, error)

	enhanceCalls int
	explainCalls int
}

// NewMockAssistant creates a mock assistant with default deterministic
// behavior. Returns the concrete type to allow test assertions.
func NewMockAssistant() *MockAssistant {
	return &MockAssistant{}
}

// EnhanceQuery returns the query unchanged unless a custom function is set.
func (m *MockAssistant) EnhanceQuery(ctx context.Context, query string) (string, error) {
	m.enhanceCalls++

	if m.EnhanceQueryFunc != nil {
		return m.EnhanceQueryFunc(ctx, query)
	}
	return query, nil
}

// ExplainMatch returns a fixed explanation unless a custom function is set.
func (m *MockAssistant) ExplainMatch(ctx context.Context, bookSummary, query string) (string, error) {
	m.explainCalls++

	if m.ExplainMatchFunc != nil {
		return m.ExplainMatchFunc(ctx, bookSummary, query)
	}
	return "This book matches elements of your query.", nil
}

// EnhanceCalls returns how many times EnhanceQuery was called.
func (m *MockAssistant) EnhanceCalls() int { return m.enhanceCalls }

// ExplainCalls returns how many times ExplainMatch was called.
func (m *MockAssistant) ExplainCalls() int { return m.explainCalls }

// Reset clears the call counts and injected behavior.
func (m *MockAssistant) Reset() {
	m.enhanceCalls = 0
	m.explainCalls = 0
	m.EnhanceQueryFunc = nil
	m.ExplainMatchFunc = nil
}
