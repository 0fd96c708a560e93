// Package classify decides whether a scraped media item is a short-form
// reel or an ordinary post. The decision is a rule cascade with
// short-circuit evaluation: rules are ordered from most to least specific
// and the first match wins. Downstream bucketing depends on the decision
// being deterministic for the same input, so thresholds are set once at
// construction and never change mid-run.
package classify

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/signals"
)

const (
	// defaultReelMaxDuration is the short-form cutoff in seconds.
	defaultReelMaxDuration = 90.0

	// engagementMaxDuration is the tighter cutoff used by the engagement rule.
	engagementMaxDuration = 60.0

	// verticalRatio is the height/width threshold for vertical video.
	verticalRatio = 1.2

	// relaxedVerticalRatio is the looser threshold used by the fallback pass.
	relaxedVerticalRatio = 1.1

	// Engagement thresholds for the duration+engagement rule.
	engagementMinLikes    = 100
	engagementMinComments = 10
)

var captionReelMarkers = []string{"#reel", "#reels", "reel", "reels"}

// Classifier tags content items as posts or reels.
type Classifier struct {
	maxDuration float64
	logger      *zerolog.Logger
}

func New(maxDuration float64, logger *zerolog.Logger) *Classifier {
	if maxDuration <= 0 {
		maxDuration = defaultReelMaxDuration
	}

	return &Classifier{maxDuration: maxDuration, logger: logger}
}

// Classify decides the content type for a single item. It never fails:
// items whose signals cannot be extracted (contract violations) are
// treated as ordinary posts.
func (c *Classifier) Classify(item domain.ContentItem) domain.ContentType {
	f, err := signals.Extract(item)
	if err != nil {
		c.logger.Warn().Err(err).Str("item_id", item.ID).Msg("signal extraction failed, treating as post")

		return domain.ContentTypePost
	}

	return classifyFeatures(f, c.maxDuration)
}

// ClassifyAll classifies a batch in place, then applies the fallback pass:
// when the primary cascade finds zero reels in a batch containing videos,
// upstream duration fields are likely missing, so a looser pass is run
// over the video items and newly identified reels are merged in.
func (c *Classifier) ClassifyAll(items []domain.ContentItem) []domain.ContentItem {
	reels := 0
	videos := 0

	for i := range items {
		items[i].ContentType = c.Classify(items[i])

		if items[i].MediaType == domain.MediaTypeVideo {
			videos++
		}

		if items[i].ContentType == domain.ContentTypeReel {
			reels++
		}
	}

	if reels > 0 || videos == 0 {
		return items
	}

	c.logger.Info().Int("videos", videos).Msg("primary pass found no reels, running relaxed pass")

	relaxed := 0

	for i := range items {
		if items[i].MediaType != domain.MediaTypeVideo {
			continue
		}

		f, err := signals.Extract(items[i])
		if err != nil {
			continue
		}

		if classifyRelaxed(f, c.maxDuration) {
			items[i].ContentType = domain.ContentTypeReel
			relaxed++
		}
	}

	if relaxed > 0 {
		c.logger.Info().Int("reels", relaxed).Msg("relaxed pass identified reels")
	}

	return items
}

// classifyFeatures runs the primary cascade. Order matters: rules grow
// progressively looser, so an early match must win.
func classifyFeatures(f signals.Features, maxDuration float64) domain.ContentType {
	// Images and carousels are never reels.
	if f.MediaType != domain.MediaTypeVideo {
		return domain.ContentTypePost
	}

	switch {
	case explicitReel(f):
		return domain.ContentTypeReel
	case captionMentionsReel(f.Caption):
		return domain.ContentTypeReel
	case f.Duration > 0 && f.Duration <= maxDuration:
		return domain.ContentTypeReel
	case verticalShortVideo(f, maxDuration):
		return domain.ContentTypeReel
	case f.HasVideoURL && f.Duration <= maxDuration:
		return domain.ContentTypeReel
	case engagedShortVideo(f):
		return domain.ContentTypeReel
	// Views-present heuristic. The final cascade step, a default
	// short-video fallback on duration alone, is already subsumed by the
	// duration-window rule above.
	case f.Views > 0 && f.Duration <= maxDuration:
		return domain.ContentTypeReel
	default:
		return domain.ContentTypePost
	}
}

// classifyRelaxed is the looser second-pass check for video items,
// compensating for null duration and dimension fields upstream.
func classifyRelaxed(f signals.Features, maxDuration float64) bool {
	switch {
	case f.AspectRatio > relaxedVerticalRatio && f.Height > f.Width:
		return true
	case f.Views > 0:
		return true
	case f.Duration > 0 && f.Duration <= maxDuration:
		return true
	default:
		return false
	}
}

func explicitReel(f signals.Features) bool {
	if f.IsReelHint {
		return true
	}

	return f.ProductType == domain.ProductTypeClips || f.ProductType == domain.ProductTypeReel
}

func captionMentionsReel(caption string) bool {
	for _, marker := range captionReelMarkers {
		if strings.Contains(caption, marker) {
			return true
		}
	}

	return false
}

// verticalShortVideo applies the conservative variant of the aspect-ratio
// rule: vertical framing alone is not enough, the clip must also be short.
func verticalShortVideo(f signals.Features, maxDuration float64) bool {
	if f.Width == 0 || f.Height <= f.Width {
		return false
	}

	return f.AspectRatio > verticalRatio && f.Duration <= maxDuration
}

func engagedShortVideo(f signals.Features) bool {
	if f.Duration <= 0 || f.Duration > engagementMaxDuration {
		return false
	}

	return f.Likes > engagementMinLikes || f.Comments > engagementMinComments
}
