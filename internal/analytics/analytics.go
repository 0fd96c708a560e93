// Package analytics computes account-level summaries and per-item derived
// metrics from a classified content set. Two engagement-rate formulas
// coexist deliberately: ItemEngagementRate is the per-item
// followers-normalized rate, CoarseEngagementRate is the total-based
// variant some report surfaces expect. They must stay distinctly named.
package analytics

import (
	"fmt"
	"math"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/signals"
)

// Influence score bucket boundaries. These are fixed steps, not a
// continuous formula.
const (
	followersMega  = 1_000_000
	followersLarge = 100_000
	followersMid   = 10_000
	followersSmall = 1_000

	ratioHigh = 0.05
	ratioMid  = 0.03
	ratioLow  = 0.01

	postsHigh = 100
	postsMid  = 50
	postsLow  = 20

	verifiedBonus  = 10
	businessBonus  = 5
	diversityBonus = 2.5
	maxScore       = 100
)

// EngagementRate is a per-item engagement rate with its validity flag.
type EngagementRate struct {
	Value           float64
	NoFollowersData bool
}

// ItemEngagementRate computes (likes+comments)/followers*100 rounded to
// two decimals. With zero followers the rate is undefined: reported as 0
// with the NoFollowersData flag rather than an error.
func ItemEngagementRate(likes, comments, followers int) EngagementRate {
	if followers <= 0 {
		return EngagementRate{NoFollowersData: true}
	}

	rate := float64(likes+comments) / float64(followers) * 100

	return EngagementRate{Value: round2(rate)}
}

// CoarseEngagementRate is the total-based summary variant:
// (totalLikes+totalComments)/contentCount/100. Kept separate from
// ItemEngagementRate because report surfaces expect different formulas.
func CoarseEngagementRate(totalLikes, totalComments, contentCount int) float64 {
	if contentCount == 0 {
		return 0
	}

	return round2(float64(totalLikes+totalComments) / float64(contentCount) / 100)
}

// NormalizeQualityScore rescales an ambiguously-scaled upstream quality
// score onto 0-100. Scale disambiguation is heuristic: >100 is assumed
// 0-1000, <=10 is assumed 0-10, anything else is already 0-100. Applied
// identically everywhere a quality score is surfaced so cross-item
// comparisons stay valid.
func NormalizeQualityScore(raw float64) int {
	if raw < 0 {
		raw = 0
	}

	var normalized float64

	switch {
	case raw > 100:
		normalized = raw / 1000 * 100
	case raw <= 10:
		normalized = raw / 10 * 100
	default:
		normalized = raw
	}

	if normalized > maxScore {
		normalized = maxScore
	}

	return int(math.Round(normalized))
}

// InfluenceScore blends follower size, engagement ratio, content volume,
// account status, and content-type diversity into a 0-100 integer.
func InfluenceScore(profile domain.Profile, items []domain.ContentItem) int {
	score := followerBucket(profile.Followers)
	score += ratioBucket(avgEngagementRatio(profile.Followers, items))
	score += postCountBucket(len(items))

	if profile.Verified {
		score += verifiedBonus
	}

	if profile.Business {
		score += businessBonus
	}

	score += diversityScore(items)

	if score > maxScore {
		return maxScore
	}

	return int(score)
}

// Summarize builds the account summary plus per-item analytics from a
// fully classified content set. Items must be classified before this is
// called; aggregation reads the whole set, not a stream. A validation
// failure on any item surfaces as a hard error so the caller can
// distinguish "no data" from "calculation failed".
func Summarize(profile domain.Profile, items []domain.ContentItem) (domain.AccountSummary, []domain.ItemAnalytics, error) {
	summary := domain.AccountSummary{
		Username:       profile.Username,
		FollowersCount: profile.Followers,
		ContentCount:   len(items),
	}

	perItem := make([]domain.ItemAnalytics, 0, len(items))

	var rateSum float64

	rated := 0
	qualitySum := 0
	qualityCount := 0

	for _, item := range items {
		if _, err := signals.Extract(item); err != nil {
			return domain.AccountSummary{}, nil, fmt.Errorf("aggregate %s: %w", profile.Username, err)
		}

		summary.TotalLikes += item.Likes
		summary.TotalComments += item.Comments
		summary.TotalViews += item.Views

		if item.ContentType == domain.ContentTypeReel {
			summary.ReelCount++
		} else {
			summary.PostCount++
		}

		rate := ItemEngagementRate(item.Likes, item.Comments, profile.Followers)

		ia := domain.ItemAnalytics{
			ItemID:          item.ID,
			Shortcode:       item.Shortcode,
			ContentType:     item.ContentType,
			EngagementRate:  rate.Value,
			NoFollowersData: rate.NoFollowersData,
			QualityScore:    -1,
		}

		if item.Analysis != nil {
			ia.QualityScore = NormalizeQualityScore(item.Analysis.QualityScore)
			qualitySum += ia.QualityScore
			qualityCount++
		}

		if !rate.NoFollowersData {
			rateSum += rate.Value
			rated++
		}

		perItem = append(perItem, ia)
	}

	if len(items) > 0 {
		summary.AvgLikes = round2(float64(summary.TotalLikes) / float64(len(items)))
		summary.AvgComments = round2(float64(summary.TotalComments) / float64(len(items)))
	}

	summary.EngagementRate = CoarseEngagementRate(summary.TotalLikes, summary.TotalComments, len(items))
	summary.NoFollowersData = profile.Followers <= 0

	if rated > 0 {
		summary.AvgItemEngagement = round2(rateSum / float64(rated))
	}

	if qualityCount > 0 {
		summary.AvgQualityScore = int(math.Round(float64(qualitySum) / float64(qualityCount)))
	}

	summary.InfluenceScore = InfluenceScore(profile, items)

	return summary, perItem, nil
}

// avgEngagementRatio is average per-item engagement divided by followers,
// the raw ratio feeding the influence bucket (not the displayed rate).
func avgEngagementRatio(followers int, items []domain.ContentItem) float64 {
	if followers <= 0 || len(items) == 0 {
		return 0
	}

	total := 0
	for _, item := range items {
		total += item.Likes + item.Comments
	}

	avg := float64(total) / float64(len(items))

	return avg / float64(followers)
}

func followerBucket(followers int) float64 {
	switch {
	case followers > followersMega:
		return 30
	case followers > followersLarge:
		return 25
	case followers > followersMid:
		return 20
	case followers > followersSmall:
		return 15
	default:
		return 10
	}
}

func ratioBucket(ratio float64) float64 {
	switch {
	case ratio > ratioHigh:
		return 25
	case ratio > ratioMid:
		return 20
	case ratio > ratioLow:
		return 15
	default:
		return 10
	}
}

func postCountBucket(count int) float64 {
	switch {
	case count > postsHigh:
		return 20
	case count > postsMid:
		return 15
	case count > postsLow:
		return 10
	default:
		return 5
	}
}

// diversityScore awards 2.5 points per distinct content type present
// among image, video, carousel and reel, capped at four types.
func diversityScore(items []domain.ContentItem) float64 {
	kinds := make(map[string]struct{}, 4)

	for _, item := range items {
		if item.ContentType == domain.ContentTypeReel {
			kinds["reel"] = struct{}{}

			continue
		}

		kinds[string(item.MediaType)] = struct{}{}
	}

	n := len(kinds)
	if n > 4 {
		n = 4
	}

	return diversityBonus * float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
