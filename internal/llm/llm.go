// Package llm wraps the external text-generation collaborator used for
// tag and vibe summarization. The call is best-effort: one request with a
// hard timeout, no retries. All failures map onto the sentinel errors in
// core/errors so the summarizer can fall back deterministically.
package llm

import (
	"context"

	"github.com/profilelens/insight-engine/internal/core/domain"
)

// Label kinds accepted by SummarizeLabels. The kind selects the prompt
// wording and the expected wrapper key in the response.
const (
	KindCategories = "categories"
	KindVibes      = "vibes"
)

// Client is the text-generation collaborator boundary.
type Client interface {
	// SummarizeLabels sends a label multiset and expects at most maxTags
	// merged {tag, percentage} pairs sorted descending by percentage.
	SummarizeLabels(ctx context.Context, kind string, labels []string, maxTags int) ([]domain.TagShare, error)
}
