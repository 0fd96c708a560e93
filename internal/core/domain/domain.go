package domain

import "time"

// MediaType is the upstream media kind of a scraped item.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeCarousel MediaType = "carousel"
)

// ContentType is the derived classification of a scraped item.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypeReel ContentType = "reel"
)

// Explicit product type values the scraper sometimes attaches to video items.
const (
	ProductTypeClips = "clips"
	ProductTypeReel  = "reel"
)

// Dimensions holds pixel dimensions of a media item.
type Dimensions struct {
	Width  int
	Height int
}

// ContentItem is a single scraped unit (post or reel candidate).
// Items are created once per scrape cycle and are immutable after
// classification except for ContentType and the later-attached Analysis.
type ContentItem struct {
	ID             string
	Shortcode      string
	MediaType      MediaType
	Duration       float64 // seconds, 0 for non-video
	Dimensions     Dimensions
	Likes          int
	Comments       int
	Views          int
	Caption        string
	VideoURL       string
	DisplayURL     string
	ProductType    string // explicit hint, e.g. "clips" or "reel"
	ExplicitIsReel *bool  // explicit hint, nil when absent
	TakenAt        time.Time

	// Derived by the classifier.
	ContentType ContentType

	// Attached by the external image/video analyzer, nil until analyzed.
	Analysis *AiAnalysis
}

// AiAnalysis is the annotation produced by the external image/video
// analysis collaborator. Scores are nominally 0-10 but not strictly
// bounded upstream; quality scores arrive on an ambiguous scale and
// must pass through analytics.NormalizeQualityScore before display.
type AiAnalysis struct {
	ContentCategories []string
	Vibes             []string
	QualityScore      float64
	LightingScore     float64
	VisualAppealScore float64
	ConsistencyScore  float64
}

// Profile is account-level metadata supplied by the content source.
type Profile struct {
	Username   string
	FullName   string
	Followers  int
	Followees  int
	PostsCount int
	Verified   bool
	Business   bool
	Biography  string
}

// AccountSummary is recomputed on demand from a classified content set.
type AccountSummary struct {
	Username          string
	FollowersCount    int
	ContentCount      int
	ReelCount         int
	PostCount         int
	TotalLikes        int
	TotalComments     int
	TotalViews        int
	AvgLikes          float64
	AvgComments       float64
	EngagementRate    float64
	AvgItemEngagement float64
	NoFollowersData   bool
	InfluenceScore    int
	AvgQualityScore   int
}

// ItemAnalytics holds per-item derived metrics.
type ItemAnalytics struct {
	ItemID          string
	Shortcode       string
	ContentType     ContentType
	EngagementRate  float64
	NoFollowersData bool
	QualityScore    int // normalized 0-100, -1 when no analysis is attached
}

// TagShare is one entry of a ranked tag or vibe breakdown.
type TagShare struct {
	Label      string  `json:"tag"`
	Count      int     `json:"count,omitempty"`
	Percentage float64 `json:"percentage"`
}

// MiscLabel is the reserved bucket for the percentage remainder.
const MiscLabel = "others"

// Report sources.
const (
	ReportSourceLLM      = "llm"
	ReportSourceFallback = "fallback"
)

// TagReport is a ranked, percentage-bucketed label breakdown.
type TagReport struct {
	Kind   string // "categories" or "vibes"
	Shares []TagShare
	Source string // "llm" or "fallback"
	// Fallback carries the collaborator failure that triggered the
	// fallback path, nil on the primary path.
	Fallback error
}

// Job status values for scrape/analysis jobs.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// ScrapeJob tracks one account analysis run.
type ScrapeJob struct {
	ID        string
	Username  string
	Status    string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
