package tags

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
	"github.com/profilelens/insight-engine/internal/llm"
)

func newTestSummarizer(client llm.Client) *Summarizer {
	nop := zerolog.Nop()

	return New(client, defaultMaxLabels, &nop)
}

func analyzedItem(categories, vibes []string) domain.ContentItem {
	return domain.ContentItem{
		Analysis: &domain.AiAnalysis{ContentCategories: categories, Vibes: vibes},
	}
}

func TestFallbackBreakdown_ExactSplit(t *testing.T) {
	// food 3/5, travel 1/5, art 1/5 -> 60/20/20, no remainder bucket.
	shares := FallbackBreakdown([]string{"food", "food", "travel", "food", "art"}, 7)

	require.Len(t, shares, 3)
	assert.Equal(t, domain.TagShare{Label: "food", Count: 3, Percentage: 60}, shares[0])
	assert.Equal(t, domain.TagShare{Label: "art", Count: 1, Percentage: 20}, shares[1])
	assert.Equal(t, domain.TagShare{Label: "travel", Count: 1, Percentage: 20}, shares[2])
}

func TestFallbackBreakdown_RemainderBucket(t *testing.T) {
	labels := []string{
		"a", "a", "a", "b", "b", "c", "c", "d", "d", "e",
		"f", "g", "h", "i", "j",
	}

	shares := FallbackBreakdown(labels, 7)

	require.LessOrEqual(t, len(shares), 8)
	assert.Equal(t, domain.MiscLabel, shares[len(shares)-1].Label)

	var sum float64
	for _, s := range shares {
		sum += s.Percentage
	}

	assert.InDelta(t, 100, sum, 0.1*float64(len(shares)))
}

func TestFallbackBreakdown_PercentagesSumTo100(t *testing.T) {
	cases := [][]string{
		{"x"},
		{"x", "y"},
		{"a", "a", "b", "c", "d", "e", "f", "g", "h", "i"},
	}

	for _, labels := range cases {
		shares := FallbackBreakdown(labels, 7)

		var sum float64
		for _, s := range shares {
			sum += s.Percentage
		}

		assert.InDelta(t, 100, sum, 0.1*float64(len(shares)))
		assert.LessOrEqual(t, len(shares), 8)
	}
}

func TestFallbackBreakdown_Deterministic(t *testing.T) {
	labels := []string{"b", "a", "c", "a", "b", "c"}

	first := FallbackBreakdown(labels, 7)
	second := FallbackBreakdown(labels, 7)

	assert.Equal(t, first, second)
	// Equal counts are ordered by label.
	assert.Equal(t, "a", first[0].Label)
	assert.Equal(t, "b", first[1].Label)
	assert.Equal(t, "c", first[2].Label)
}

func TestFallbackBreakdown_Empty(t *testing.T) {
	assert.Nil(t, FallbackBreakdown(nil, 7))
}

func TestSummarizeCategories_PrimaryPath(t *testing.T) {
	mock := llm.NewMockClient([]domain.TagShare{
		{Label: "food", Percentage: 70},
		{Label: "travel", Percentage: 30},
	}, nil)

	s := newTestSummarizer(mock)

	report := s.SummarizeCategories(context.Background(), []domain.ContentItem{
		analyzedItem([]string{"food", "street food", "travel"}, nil),
	})

	assert.Equal(t, domain.ReportSourceLLM, report.Source)
	assert.NoError(t, report.Fallback)
	require.Len(t, report.Shares, 2)
	assert.Equal(t, "food", report.Shares[0].Label)
	assert.Equal(t, []string{"food", "street food", "travel"}, mock.Calls[llm.KindCategories])
}

func TestSummarizeCategories_FallsBackOnError(t *testing.T) {
	mock := llm.NewMockClient(nil, errors.ErrRateLimited)
	s := newTestSummarizer(mock)

	report := s.SummarizeCategories(context.Background(), []domain.ContentItem{
		analyzedItem([]string{"food", "food", "art"}, nil),
	})

	assert.Equal(t, domain.ReportSourceFallback, report.Source)
	assert.True(t, errors.Is(report.Fallback, errors.ErrRateLimited))
	require.NotEmpty(t, report.Shares)
	assert.Equal(t, "food", report.Shares[0].Label)
}

func TestSummarizeVibes_CollectsVibeLabels(t *testing.T) {
	mock := llm.NewMockClient([]domain.TagShare{{Label: "casual", Percentage: 100}}, nil)
	s := newTestSummarizer(mock)

	report := s.SummarizeVibes(context.Background(), []domain.ContentItem{
		analyzedItem(nil, []string{"casual", "aesthetic"}),
		{}, // unanalyzed items are skipped
		analyzedItem(nil, []string{"casual"}),
	})

	assert.Equal(t, domain.ReportSourceLLM, report.Source)
	assert.Equal(t, []string{"casual", "aesthetic", "casual"}, mock.Calls[llm.KindVibes])
}

func TestSummarize_NoLabels(t *testing.T) {
	mock := llm.NewMockClient(nil, nil)
	s := newTestSummarizer(mock)

	report := s.SummarizeVibes(context.Background(), nil)

	assert.Equal(t, domain.ReportSourceFallback, report.Source)
	assert.Empty(t, report.Shares)
	assert.Empty(t, mock.Calls, "no collaborator call for an empty label set")
}
