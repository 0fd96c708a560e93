// Package signals derives primitive classification features from a raw
// content item. Extraction is a pure function: absent optional fields
// default to their zero values and never fail. The one exception is
// negative counts, which indicate an upstream contract violation and are
// rejected with a validation error at this boundary.
package signals

import (
	"fmt"
	"strings"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
)

// Features is the normalized bundle consumed by the reel classifier.
type Features struct {
	MediaType   domain.MediaType
	Caption     string // lowercased
	Duration    float64
	AspectRatio float64 // height/width, 0 when width is 0
	Width       int
	Height      int
	Likes       int
	Comments    int
	Views       int
	HasVideoURL bool
	ProductType string // lowercased explicit hint
	IsReelHint  bool   // true only when the explicit flag is present and set
}

// Extract computes the feature set for one content item.
func Extract(item domain.ContentItem) (Features, error) {
	if err := validate(item); err != nil {
		return Features{}, err
	}

	f := Features{
		MediaType:   item.MediaType,
		Caption:     strings.ToLower(item.Caption),
		Duration:    item.Duration,
		Width:       item.Dimensions.Width,
		Height:      item.Dimensions.Height,
		Likes:       item.Likes,
		Comments:    item.Comments,
		Views:       item.Views,
		HasVideoURL: item.VideoURL != "",
		ProductType: strings.ToLower(item.ProductType),
	}

	if item.Dimensions.Width > 0 {
		f.AspectRatio = float64(item.Dimensions.Height) / float64(item.Dimensions.Width)
	}

	if item.ExplicitIsReel != nil && *item.ExplicitIsReel {
		f.IsReelHint = true
	}

	return f, nil
}

func validate(item domain.ContentItem) error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"likes", float64(item.Likes)},
		{"comments", float64(item.Comments)},
		{"views", float64(item.Views)},
		{"duration", item.Duration},
		{"width", float64(item.Dimensions.Width)},
		{"height", float64(item.Dimensions.Height)},
	} {
		if c.value < 0 {
			return fmt.Errorf("%w: item %s has %s %v", errors.ErrNegativeCount, item.ID, c.name, c.value)
		}
	}

	return nil
}
