package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
)

// UpsertProfile stores or refreshes account metadata from a scrape cycle.
func (db *DB) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO profiles (username, full_name, followers, followees, posts_count, verified, business, biography)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			followers = EXCLUDED.followers,
			followees = EXCLUDED.followees,
			posts_count = EXCLUDED.posts_count,
			verified = EXCLUDED.verified,
			business = EXCLUDED.business,
			biography = EXCLUDED.biography,
			updated_at = now()
	`, p.Username, p.FullName, p.Followers, p.Followees, p.PostsCount, p.Verified, p.Business, p.Biography)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

// GetProfile loads account metadata.
func (db *DB) GetProfile(ctx context.Context, username string) (domain.Profile, error) {
	var p domain.Profile

	err := db.Pool.QueryRow(ctx, `
		SELECT username, full_name, followers, followees, posts_count, verified, business, biography
		FROM profiles
		WHERE username = $1
	`, username).Scan(&p.Username, &p.FullName, &p.Followers, &p.Followees, &p.PostsCount, &p.Verified, &p.Business, &p.Biography)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Profile{}, fmt.Errorf("profile %s: %w", username, errors.ErrNotFound)
		}

		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

// UpsertContent stores a scraped content batch for an account.
func (db *DB) UpsertContent(ctx context.Context, username string, items []domain.ContentItem) error {
	for _, item := range items {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO content_items (
				item_id, username, shortcode, media_type, duration, width, height,
				likes, comments, views, caption, video_url, display_url,
				product_type, explicit_is_reel, taken_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (item_id) DO UPDATE SET
				likes = EXCLUDED.likes,
				comments = EXCLUDED.comments,
				views = EXCLUDED.views,
				caption = EXCLUDED.caption,
				updated_at = now()
		`, item.ID, username, item.Shortcode, string(item.MediaType), item.Duration,
			item.Dimensions.Width, item.Dimensions.Height,
			item.Likes, item.Comments, item.Views, item.Caption, item.VideoURL, item.DisplayURL,
			item.ProductType, item.ExplicitIsReel, nullableTime(item.TakenAt))
		if err != nil {
			return fmt.Errorf("upsert content %s: %w", item.ID, err)
		}
	}

	return nil
}

// GetContent loads an account's content set with any attached analysis,
// newest first.
func (db *DB) GetContent(ctx context.Context, username string, limit int) ([]domain.ContentItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c.item_id, c.shortcode, c.media_type, c.duration, c.width, c.height,
		       c.likes, c.comments, c.views, c.caption, c.video_url, c.display_url,
		       c.product_type, c.explicit_is_reel, c.taken_at,
		       a.content_categories, a.vibes, a.quality_score, a.lighting_score,
		       a.visual_appeal_score, a.consistency_score
		FROM content_items c
		LEFT JOIN ai_analyses a ON a.item_id = c.item_id
		WHERE c.username = $1
		ORDER BY c.taken_at DESC NULLS LAST
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	defer rows.Close()

	var items []domain.ContentItem

	for rows.Next() {
		item, err := scanContentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content row: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content rows: %w", err)
	}

	return items, nil
}

// SaveClassifications writes the derived content type back onto the
// stored items.
func (db *DB) SaveClassifications(ctx context.Context, username string, items []domain.ContentItem) error {
	for _, item := range items {
		_, err := db.Pool.Exec(ctx, `
			UPDATE content_items
			SET content_type = $3, updated_at = now()
			WHERE username = $1 AND item_id = $2
		`, username, item.ID, string(item.ContentType))
		if err != nil {
			return fmt.Errorf("save classification %s: %w", item.ID, err)
		}
	}

	return nil
}

// SaveAnalysis attaches an image-analysis annotation to a content item.
func (db *DB) SaveAnalysis(ctx context.Context, itemID string, a domain.AiAnalysis) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO ai_analyses (item_id, content_categories, vibes, quality_score, lighting_score, visual_appeal_score, consistency_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (item_id) DO UPDATE SET
			content_categories = EXCLUDED.content_categories,
			vibes = EXCLUDED.vibes,
			quality_score = EXCLUDED.quality_score,
			lighting_score = EXCLUDED.lighting_score,
			visual_appeal_score = EXCLUDED.visual_appeal_score,
			consistency_score = EXCLUDED.consistency_score
	`, itemID, a.ContentCategories, a.Vibes, a.QualityScore, a.LightingScore, a.VisualAppealScore, a.ConsistencyScore)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", itemID, err)
	}

	return nil
}
