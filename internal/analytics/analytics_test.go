package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
)

func TestItemEngagementRate(t *testing.T) {
	tests := []struct {
		name      string
		likes     int
		comments  int
		followers int
		want      float64
		flagged   bool
	}{
		{"simple", 50, 50, 1000, 10.0, false},
		{"rounded_two_decimals", 333, 0, 10000, 3.33, false},
		{"zero_followers_flagged", 100, 100, 0, 0, true},
		{"zero_engagement", 0, 0, 500, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := ItemEngagementRate(tt.likes, tt.comments, tt.followers)
			assert.Equal(t, tt.want, rate.Value)
			assert.Equal(t, tt.flagged, rate.NoFollowersData)
		})
	}
}

func TestCoarseEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, CoarseEngagementRate(100, 100, 0))
	assert.Equal(t, 2.0, CoarseEngagementRate(500, 100, 3))
}

func TestNormalizeQualityScore(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want int
	}{
		{"thousand_scale", 850, 85},
		{"ten_scale", 7, 70},
		{"hundred_scale", 42, 42},
		{"zero", 0, 0},
		{"negative_clamped", -5, 0},
		{"ten_exactly", 10, 100},
		{"above_thousand_clamped", 1500, 100},
		{"boundary_hundred", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQualityScore(tt.raw))
		})
	}
}

func TestNormalizeQualityScore_MonotonicWithinBands(t *testing.T) {
	bands := []struct {
		name string
		vals []float64
	}{
		{"ten_scale", []float64{0, 2, 5, 9, 10}},
		{"hundred_scale", []float64{11, 40, 77, 100}},
		{"thousand_scale", []float64{101, 300, 850, 1000}},
	}

	for _, band := range bands {
		t.Run(band.name, func(t *testing.T) {
			prev := -1

			for _, v := range band.vals {
				got := NormalizeQualityScore(v)
				assert.GreaterOrEqual(t, got, prev, "band must be monotonic at %v", v)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 100)
				prev = got
			}
		})
	}
}

func TestInfluenceScore_Buckets(t *testing.T) {
	items := func(n int, likes int) []domain.ContentItem {
		out := make([]domain.ContentItem, n)
		for i := range out {
			out[i] = domain.ContentItem{MediaType: domain.MediaTypeImage, Likes: likes, ContentType: domain.ContentTypePost}
		}

		return out
	}

	tests := []struct {
		name    string
		profile domain.Profile
		items   []domain.ContentItem
		want    int
	}{
		{
			// 10 (<=1K followers) + 10 (ratio 0) + 5 (no posts) + 0 diversity
			name:    "floor",
			profile: domain.Profile{Followers: 10},
			items:   nil,
			want:    25,
		},
		{
			// 30 (>1M) + 10 (tiny ratio) + 5 (10 posts) + 2.5 (one type) = 47.5 -> 47
			name:    "mega_account_low_engagement",
			profile: domain.Profile{Followers: 2_000_000},
			items:   items(10, 100),
			want:    47,
		},
		{
			// 15 (>1K) + 25 (ratio 200/2000=0.1) + 5 + 2.5 + 10 verified + 5 business = 62.5 -> 62
			name:    "verified_business_high_ratio",
			profile: domain.Profile{Followers: 2000, Verified: true, Business: true},
			items:   items(5, 200),
			want:    62,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InfluenceScore(tt.profile, tt.items))
		})
	}
}

func TestInfluenceScore_CappedAt100(t *testing.T) {
	items := make([]domain.ContentItem, 150)
	for i := range items {
		switch i % 4 {
		case 0:
			items[i] = domain.ContentItem{MediaType: domain.MediaTypeImage, Likes: 500_000, ContentType: domain.ContentTypePost}
		case 1:
			items[i] = domain.ContentItem{MediaType: domain.MediaTypeVideo, Likes: 500_000, ContentType: domain.ContentTypeReel}
		case 2:
			items[i] = domain.ContentItem{MediaType: domain.MediaTypeCarousel, Likes: 500_000, ContentType: domain.ContentTypePost}
		default:
			items[i] = domain.ContentItem{MediaType: domain.MediaTypeVideo, Likes: 500_000, ContentType: domain.ContentTypePost}
		}
	}

	profile := domain.Profile{Followers: 5_000_000, Verified: true, Business: true}

	assert.Equal(t, 100, InfluenceScore(profile, items))
}

func TestSummarize(t *testing.T) {
	profile := domain.Profile{Username: "acct", Followers: 1000}

	items := []domain.ContentItem{
		{
			ID: "1", Likes: 100, Comments: 20, Views: 500,
			MediaType: domain.MediaTypeVideo, ContentType: domain.ContentTypeReel,
			Analysis: &domain.AiAnalysis{QualityScore: 850},
		},
		{
			ID: "2", Likes: 50, Comments: 10,
			MediaType: domain.MediaTypeImage, ContentType: domain.ContentTypePost,
			Analysis: &domain.AiAnalysis{QualityScore: 7},
		},
		{
			ID: "3", Likes: 30, Comments: 0,
			MediaType: domain.MediaTypeImage, ContentType: domain.ContentTypePost,
		},
	}

	summary, perItem, err := Summarize(profile, items)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ContentCount)
	assert.Equal(t, 1, summary.ReelCount)
	assert.Equal(t, 2, summary.PostCount)
	assert.Equal(t, 180, summary.TotalLikes)
	assert.Equal(t, 30, summary.TotalComments)
	assert.Equal(t, 500, summary.TotalViews)
	assert.Equal(t, 60.0, summary.AvgLikes)
	assert.Equal(t, 10.0, summary.AvgComments)
	assert.False(t, summary.NoFollowersData)

	// Coarse: (180+30)/3/100 = 0.7
	assert.Equal(t, 0.7, summary.EngagementRate)

	// Per-item: 12.0, 6.0, 3.0 -> mean 7.0
	assert.Equal(t, 7.0, summary.AvgItemEngagement)

	require.Len(t, perItem, 3)
	assert.Equal(t, 12.0, perItem[0].EngagementRate)
	assert.Equal(t, 85, perItem[0].QualityScore)
	assert.Equal(t, 70, perItem[1].QualityScore)
	assert.Equal(t, -1, perItem[2].QualityScore, "unanalyzed items carry no quality score")

	// Avg of 85 and 70 over the two analyzed items.
	assert.Equal(t, 78, summary.AvgQualityScore)
}

func TestSummarize_ZeroFollowersFlaggedNotError(t *testing.T) {
	profile := domain.Profile{Username: "ghost", Followers: 0}

	items := []domain.ContentItem{
		{ID: "1", Likes: 10, MediaType: domain.MediaTypeImage, ContentType: domain.ContentTypePost},
	}

	summary, perItem, err := Summarize(profile, items)
	require.NoError(t, err)

	assert.True(t, summary.NoFollowersData)
	assert.Zero(t, summary.AvgItemEngagement)
	require.Len(t, perItem, 1)
	assert.True(t, perItem[0].NoFollowersData)
	assert.Zero(t, perItem[0].EngagementRate)
}

func TestSummarize_EmptyContent(t *testing.T) {
	summary, perItem, err := Summarize(domain.Profile{Username: "empty", Followers: 100}, nil)
	require.NoError(t, err)

	assert.Zero(t, summary.ContentCount)
	assert.Zero(t, summary.AvgLikes)
	assert.Zero(t, summary.EngagementRate)
	assert.Empty(t, perItem)
}

func TestSummarize_InvalidItemIsHardError(t *testing.T) {
	profile := domain.Profile{Username: "bad", Followers: 100}

	items := []domain.ContentItem{
		{ID: "1", Likes: -5, MediaType: domain.MediaTypeImage},
	}

	_, _, err := Summarize(profile, items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNegativeCount))
}
