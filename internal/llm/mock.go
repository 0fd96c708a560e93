package llm

import (
	"context"

	"github.com/profilelens/insight-engine/internal/core/domain"
)

// MockClient implements Client for testing purposes.
type MockClient struct {
	Shares []domain.TagShare
	Err    error

	// Calls records the label sets received, keyed by kind.
	Calls map[string][]string
}

func NewMockClient(shares []domain.TagShare, err error) *MockClient {
	return &MockClient{
		Shares: shares,
		Err:    err,
		Calls:  make(map[string][]string),
	}
}

func (m *MockClient) SummarizeLabels(_ context.Context, kind string, labels []string, maxTags int) ([]domain.TagShare, error) {
	m.Calls[kind] = labels

	if m.Err != nil {
		return nil, m.Err
	}

	shares := m.Shares
	if len(shares) > maxTags {
		shares = shares[:maxTags]
	}

	return shares, nil
}
