package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
)

func TestExtract_Defaults(t *testing.T) {
	f, err := Extract(domain.ContentItem{ID: "a", MediaType: domain.MediaTypeImage})
	require.NoError(t, err)

	assert.Equal(t, domain.MediaTypeImage, f.MediaType)
	assert.Empty(t, f.Caption)
	assert.Zero(t, f.Duration)
	assert.Zero(t, f.AspectRatio)
	assert.False(t, f.HasVideoURL)
	assert.False(t, f.IsReelHint)
}

func TestExtract_Normalization(t *testing.T) {
	yes := true

	f, err := Extract(domain.ContentItem{
		ID:             "b",
		MediaType:      domain.MediaTypeVideo,
		Caption:        "Check My #REELS Out",
		Duration:       45,
		Dimensions:     domain.Dimensions{Width: 1080, Height: 1920},
		VideoURL:       "https://cdn.example.com/v.mp4",
		ProductType:    "Clips",
		ExplicitIsReel: &yes,
	})
	require.NoError(t, err)

	assert.Equal(t, "check my #reels out", f.Caption)
	assert.Equal(t, "clips", f.ProductType)
	assert.InDelta(t, 1920.0/1080.0, f.AspectRatio, 1e-9)
	assert.True(t, f.HasVideoURL)
	assert.True(t, f.IsReelHint)
}

func TestExtract_ZeroWidthRatioUndefined(t *testing.T) {
	f, err := Extract(domain.ContentItem{
		ID:         "c",
		MediaType:  domain.MediaTypeVideo,
		Dimensions: domain.Dimensions{Width: 0, Height: 1920},
	})
	require.NoError(t, err)
	assert.Zero(t, f.AspectRatio)
}

func TestExtract_NegativeCountsRejected(t *testing.T) {
	tests := []struct {
		name string
		item domain.ContentItem
	}{
		{"likes", domain.ContentItem{ID: "x", Likes: -1}},
		{"comments", domain.ContentItem{ID: "x", Comments: -3}},
		{"views", domain.ContentItem{ID: "x", Views: -10}},
		{"duration", domain.ContentItem{ID: "x", Duration: -0.5}},
		{"height", domain.ContentItem{ID: "x", Dimensions: domain.Dimensions{Height: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrNegativeCount))
		})
	}
}
