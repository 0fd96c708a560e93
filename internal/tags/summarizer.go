// Package tags turns the free-text category and vibe labels attached by
// the image-analysis collaborator into ranked, percentage-bucketed
// reports. The primary path delegates merging to the text-generation
// collaborator; when that call fails the deterministic frequency fallback
// produces a report of the same shape, so callers never special-case it.
package tags

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/llm"
	"github.com/profilelens/insight-engine/internal/observability"
)

// defaultMaxLabels is the report size cap: ranked entries plus the
// reserved remainder bucket.
const defaultMaxLabels = 8

// Summarizer aggregates labels across an account's analyzed content.
type Summarizer struct {
	client    llm.Client
	maxLabels int
	logger    *zerolog.Logger
}

func New(client llm.Client, maxLabels int, logger *zerolog.Logger) *Summarizer {
	if maxLabels < 2 {
		maxLabels = defaultMaxLabels
	}

	return &Summarizer{client: client, maxLabels: maxLabels, logger: logger}
}

// SummarizeCategories builds the category breakdown for a content set.
func (s *Summarizer) SummarizeCategories(ctx context.Context, items []domain.ContentItem) domain.TagReport {
	return s.summarize(ctx, llm.KindCategories, collectLabels(items, categoryLabels))
}

// SummarizeVibes builds the vibe breakdown for a content set.
func (s *Summarizer) SummarizeVibes(ctx context.Context, items []domain.ContentItem) domain.TagReport {
	return s.summarize(ctx, llm.KindVibes, collectLabels(items, vibeLabels))
}

func (s *Summarizer) summarize(ctx context.Context, kind string, labels []string) domain.TagReport {
	report := domain.TagReport{Kind: kind}

	if len(labels) == 0 {
		report.Source = domain.ReportSourceFallback

		return report
	}

	shares, err := s.client.SummarizeLabels(ctx, kind, labels, s.maxLabels)
	if err == nil {
		report.Source = domain.ReportSourceLLM
		report.Shares = shares
		observability.TagSummaries.WithLabelValues(kind, domain.ReportSourceLLM).Inc()

		return report
	}

	s.logger.Warn().Err(err).Str("kind", kind).Msg("text-generation call failed, using frequency fallback")
	observability.TagSummaries.WithLabelValues(kind, domain.ReportSourceFallback).Inc()

	report.Source = domain.ReportSourceFallback
	report.Fallback = err
	report.Shares = FallbackBreakdown(labels, s.maxLabels-1)

	return report
}

// FallbackBreakdown is the deterministic frequency bucketing: count
// occurrences, sort descending (ties broken by label so output is
// reproducible), keep the top entries, and bucket any percentage
// remainder under the reserved label.
func FallbackBreakdown(labels []string, top int) []domain.TagShare {
	if len(labels) == 0 {
		return nil
	}

	counts := make(map[string]int, len(labels))
	for _, label := range labels {
		counts[label]++
	}

	shares := make([]domain.TagShare, 0, len(counts))
	for label, count := range counts {
		shares = append(shares, domain.TagShare{Label: label, Count: count})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}

		return shares[i].Label < shares[j].Label
	})

	if len(shares) > top {
		shares = shares[:top]
	}

	total := float64(len(labels))

	var covered float64

	for i := range shares {
		shares[i].Percentage = round1(float64(shares[i].Count) / total * 100)
		covered += shares[i].Percentage
	}

	if covered < 100 {
		shares = append(shares, domain.TagShare{
			Label:      domain.MiscLabel,
			Percentage: round1(100 - covered),
		})
	}

	return shares
}

type labelSelector func(*domain.AiAnalysis) []string

func categoryLabels(a *domain.AiAnalysis) []string { return a.ContentCategories }
func vibeLabels(a *domain.AiAnalysis) []string     { return a.Vibes }

func collectLabels(items []domain.ContentItem, pick labelSelector) []string {
	var labels []string

	for _, item := range items {
		if item.Analysis == nil {
			continue
		}

		labels = append(labels, pick(item.Analysis)...)
	}

	return labels
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
