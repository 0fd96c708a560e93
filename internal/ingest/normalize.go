// Package ingest converts raw scraper payloads into fully-populated typed
// domain records. The upstream scraper emits partial, stringly-typed JSON
// with inconsistent shapes; everything is normalized once here, with
// defined defaults, so downstream packages can assume typed records.
package ingest

import (
	"encoding/json"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/profilelens/insight-engine/internal/core/domain"
)

// RawContentItem mirrors the scraper's content payload. Every field is
// optional; absent fields default to zero values.
type RawContentItem struct {
	ID             string          `json:"id"`
	Shortcode      string          `json:"shortcode"`
	MediaType      string          `json:"media_type"`
	IsVideo        bool            `json:"is_video"`
	Duration       float64         `json:"duration"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Likes          int             `json:"likes"`
	Comments       int             `json:"comments"`
	Views          int             `json:"views"`
	Caption        string          `json:"caption"`
	VideoURL       string          `json:"video_url"`
	DisplayURL     string          `json:"display_url"`
	ProductType    string          `json:"product_type"`
	ExplicitIsReel *bool           `json:"is_reel"`
	TakenAt        string          `json:"taken_at"`
	Analysis       *RawAiAnalysis  `json:"ai_analysis"`
	Sidecar        json.RawMessage `json:"sidecar_children"`
}

// RawAiAnalysis mirrors the image-analysis collaborator's annotation.
// VibeClassification arrives either as a plain string, a comma-joined
// string, or a JSON array depending on the analyzer version.
type RawAiAnalysis struct {
	ContentCategories  []string        `json:"content_categories"`
	VibeClassification json.RawMessage `json:"vibe_classification"`
	QualityScore       float64         `json:"quality_score"`
	LightingScore      float64         `json:"lighting_score"`
	VisualAppealScore  float64         `json:"visual_appeal_score"`
	ConsistencyScore   float64         `json:"consistency_score"`
}

// RawProfile mirrors the scraper's profile payload.
type RawProfile struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Followers  int    `json:"followers"`
	Followees  int    `json:"followees"`
	PostsCount int    `json:"posts_count"`
	Verified   bool   `json:"is_verified"`
	Business   bool   `json:"is_business_account"`
	Biography  string `json:"biography"`
}

// Normalizer converts raw payloads to domain records.
type Normalizer struct {
	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// ContentItem converts one raw item. Never fails: unparseable fields are
// dropped to their defaults and logged at debug level.
func (n *Normalizer) ContentItem(raw RawContentItem) domain.ContentItem {
	// Engagement counts pass through untouched: negative values are a
	// contract violation surfaced by the signal extractor, not a missing
	// field to default here.
	item := domain.ContentItem{
		ID:             raw.ID,
		Shortcode:      raw.Shortcode,
		MediaType:      mediaType(raw),
		Duration:       raw.Duration,
		Dimensions:     domain.Dimensions{Width: raw.Width, Height: raw.Height},
		Likes:          raw.Likes,
		Comments:       raw.Comments,
		Views:          raw.Views,
		Caption:        raw.Caption,
		VideoURL:       raw.VideoURL,
		DisplayURL:     raw.DisplayURL,
		ProductType:    raw.ProductType,
		ExplicitIsReel: raw.ExplicitIsReel,
	}

	if raw.TakenAt != "" {
		takenAt, err := dateparse.ParseAny(raw.TakenAt)
		if err != nil {
			n.logger.Debug().Str("taken_at", raw.TakenAt).Str("item_id", raw.ID).Msg("unparseable taken_at, dropping")
		} else {
			item.TakenAt = takenAt
		}
	}

	if raw.Analysis != nil {
		item.Analysis = n.analysis(*raw.Analysis)
	}

	return item
}

// ContentItems converts a batch.
func (n *Normalizer) ContentItems(raws []RawContentItem) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, n.ContentItem(raw))
	}

	return items
}

// Profile converts a raw profile payload. Negative follower counts are
// treated as absent data, which downstream reports as a flagged zero.
func (n *Normalizer) Profile(raw RawProfile) domain.Profile {
	return domain.Profile{
		Username:   raw.Username,
		FullName:   raw.FullName,
		Followers:  clampInt(raw.Followers),
		Followees:  clampInt(raw.Followees),
		PostsCount: clampInt(raw.PostsCount),
		Verified:   raw.Verified,
		Business:   raw.Business,
		Biography:  raw.Biography,
	}
}

func (n *Normalizer) analysis(raw RawAiAnalysis) *domain.AiAnalysis {
	return &domain.AiAnalysis{
		ContentCategories: cleanLabels(raw.ContentCategories),
		Vibes:             NormalizeVibes(raw.VibeClassification),
		QualityScore:      nonNegative(raw.QualityScore),
		LightingScore:     nonNegative(raw.LightingScore),
		VisualAppealScore: nonNegative(raw.VisualAppealScore),
		ConsistencyScore:  nonNegative(raw.ConsistencyScore),
	}
}

// NormalizeVibes resolves the analyzer's inconsistent vibe shape to a
// flat label set: a JSON array is used as-is, a plain or comma-joined
// string is split on commas. Entries are trimmed, lowercased, and
// de-duplicated preserving first-seen order.
func NormalizeVibes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asArray []string
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return cleanLabels(splitAll(asArray))
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return cleanLabels(strings.Split(asString, ","))
	}

	return nil
}

func splitAll(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}

	return out
}

func cleanLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))

	var out []string

	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}

		if _, ok := seen[label]; ok {
			continue
		}

		seen[label] = struct{}{}

		out = append(out, label)
	}

	return out
}

func mediaType(raw RawContentItem) domain.MediaType {
	switch strings.ToLower(raw.MediaType) {
	case "image", "graphimage":
		return domain.MediaTypeImage
	case "video", "graphvideo":
		return domain.MediaTypeVideo
	case "carousel", "graphsidecar":
		return domain.MediaTypeCarousel
	}

	if len(raw.Sidecar) > 0 && string(raw.Sidecar) != "null" {
		return domain.MediaTypeCarousel
	}

	if raw.IsVideo || raw.VideoURL != "" || raw.Duration > 0 {
		return domain.MediaTypeVideo
	}

	return domain.MediaTypeImage
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}

	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}

	return v
}
