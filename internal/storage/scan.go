package storage

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/profilelens/insight-engine/internal/core/domain"
)

// scanContentRow reads one joined content+analysis row. Analysis columns
// come from a LEFT JOIN and are null for unanalyzed items.
func scanContentRow(row pgx.Row) (domain.ContentItem, error) {
	var (
		item         domain.ContentItem
		mediaType    string
		takenAt      *time.Time
		categories   []string
		vibes        []string
		quality      *float64
		lighting     *float64
		visualAppeal *float64
		consistency  *float64
	)

	err := row.Scan(
		&item.ID, &item.Shortcode, &mediaType, &item.Duration,
		&item.Dimensions.Width, &item.Dimensions.Height,
		&item.Likes, &item.Comments, &item.Views,
		&item.Caption, &item.VideoURL, &item.DisplayURL,
		&item.ProductType, &item.ExplicitIsReel, &takenAt,
		&categories, &vibes, &quality, &lighting, &visualAppeal, &consistency,
	)
	if err != nil {
		return domain.ContentItem{}, err
	}

	item.MediaType = domain.MediaType(mediaType)

	if takenAt != nil {
		item.TakenAt = *takenAt
	}

	if quality != nil {
		item.Analysis = &domain.AiAnalysis{
			ContentCategories: categories,
			Vibes:             vibes,
			QualityScore:      *quality,
			LightingScore:     deref(lighting),
			VisualAppealScore: deref(visualAppeal),
			ConsistencyScore:  deref(consistency),
		}
	}

	return item, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
