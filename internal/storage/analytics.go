package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/profilelens/insight-engine/internal/core/domain"
)

// SaveAccountSummary stores the recomputed account-level summary.
func (db *DB) SaveAccountSummary(ctx context.Context, s domain.AccountSummary) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO account_summaries (
			username, followers_count, content_count, reel_count, post_count,
			total_likes, total_comments, total_views, avg_likes, avg_comments,
			engagement_rate, avg_item_engagement, no_followers_data,
			influence_score, avg_quality_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (username) DO UPDATE SET
			followers_count = EXCLUDED.followers_count,
			content_count = EXCLUDED.content_count,
			reel_count = EXCLUDED.reel_count,
			post_count = EXCLUDED.post_count,
			total_likes = EXCLUDED.total_likes,
			total_comments = EXCLUDED.total_comments,
			total_views = EXCLUDED.total_views,
			avg_likes = EXCLUDED.avg_likes,
			avg_comments = EXCLUDED.avg_comments,
			engagement_rate = EXCLUDED.engagement_rate,
			avg_item_engagement = EXCLUDED.avg_item_engagement,
			no_followers_data = EXCLUDED.no_followers_data,
			influence_score = EXCLUDED.influence_score,
			avg_quality_score = EXCLUDED.avg_quality_score,
			computed_at = now()
	`, s.Username, s.FollowersCount, s.ContentCount, s.ReelCount, s.PostCount,
		s.TotalLikes, s.TotalComments, s.TotalViews, s.AvgLikes, s.AvgComments,
		s.EngagementRate, s.AvgItemEngagement, s.NoFollowersData,
		s.InfluenceScore, s.AvgQualityScore)
	if err != nil {
		return fmt.Errorf("save account summary: %w", err)
	}

	return nil
}

// SaveItemAnalytics stores per-item derived metrics for an account.
func (db *DB) SaveItemAnalytics(ctx context.Context, username string, perItem []domain.ItemAnalytics) error {
	for _, ia := range perItem {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO item_analytics (item_id, username, content_type, engagement_rate, no_followers_data, quality_score)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (item_id) DO UPDATE SET
				content_type = EXCLUDED.content_type,
				engagement_rate = EXCLUDED.engagement_rate,
				no_followers_data = EXCLUDED.no_followers_data,
				quality_score = EXCLUDED.quality_score,
				computed_at = now()
		`, ia.ItemID, username, string(ia.ContentType), ia.EngagementRate, ia.NoFollowersData, ia.QualityScore)
		if err != nil {
			return fmt.Errorf("save item analytics %s: %w", ia.ItemID, err)
		}
	}

	return nil
}

// SaveTagReport stores a category or vibe breakdown. The failure that
// triggered a fallback report, if any, is recorded as text.
func (db *DB) SaveTagReport(ctx context.Context, username string, report domain.TagReport) error {
	shares, err := json.Marshal(report.Shares)
	if err != nil {
		return fmt.Errorf("marshal tag shares: %w", err)
	}

	fallbackReason := ""
	if report.Fallback != nil {
		fallbackReason = report.Fallback.Error()
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO tag_reports (username, kind, source, shares, fallback_reason)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (username, kind) DO UPDATE SET
			source = EXCLUDED.source,
			shares = EXCLUDED.shares,
			fallback_reason = EXCLUDED.fallback_reason,
			computed_at = now()
	`, username, report.Kind, report.Source, shares, fallbackReason)
	if err != nil {
		return fmt.Errorf("save tag report: %w", err)
	}

	return nil
}
