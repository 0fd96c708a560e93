// Package pipeline orchestrates one account's analysis run: classify the
// full content set, derive account and per-item analytics, then build the
// category and vibe breakdowns. Accounts are independent and can be
// processed in parallel by separate pipeline instances; within one
// account classification always completes before aggregation starts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/profilelens/insight-engine/internal/analytics"
	"github.com/profilelens/insight-engine/internal/classify"
	"github.com/profilelens/insight-engine/internal/config"
	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
	"github.com/profilelens/insight-engine/internal/observability"
	"github.com/profilelens/insight-engine/internal/tags"
)

const logFieldCorrelationID = "correlation_id"

// Repository is the persistence collaborator boundary. The pipeline
// computes plain derived structures; the repository owns all I/O.
type Repository interface {
	NextQueuedJob(ctx context.Context) (*domain.ScrapeJob, error)
	UpdateJobStatus(ctx context.Context, jobID, status, errMsg string) error
	QueuedJobCount(ctx context.Context) (int, error)
	GetProfile(ctx context.Context, username string) (domain.Profile, error)
	GetContent(ctx context.Context, username string, limit int) ([]domain.ContentItem, error)
	SaveClassifications(ctx context.Context, username string, items []domain.ContentItem) error
	SaveAccountSummary(ctx context.Context, summary domain.AccountSummary) error
	SaveItemAnalytics(ctx context.Context, username string, perItem []domain.ItemAnalytics) error
	SaveTagReport(ctx context.Context, username string, report domain.TagReport) error
}

type Pipeline struct {
	cfg        *config.Config
	repo       Repository
	classifier *classify.Classifier
	summarizer *tags.Summarizer
	logger     *zerolog.Logger
}

func New(cfg *config.Config, repo Repository, classifier *classify.Classifier, summarizer *tags.Summarizer, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		repo:       repo,
		classifier: classifier,
		summarizer: summarizer,
		logger:     logger,
	}
}

// ProcessBatch drains up to the configured batch size of queued jobs,
// stopping early when the queue runs dry.
func (p *Pipeline) ProcessBatch(ctx context.Context) error {
	batch := p.cfg.WorkerBatchSize
	if batch < 1 {
		batch = 1
	}

	for i := 0; i < batch; i++ {
		processed, err := p.processNext(ctx)
		if err != nil || !processed {
			return err
		}
	}

	return nil
}

// ProcessNext pulls one queued job and runs it to completion. Returns nil
// when the queue is empty.
func (p *Pipeline) ProcessNext(ctx context.Context) error {
	_, err := p.processNext(ctx)

	return err
}

func (p *Pipeline) processNext(ctx context.Context) (bool, error) {
	job, err := p.repo.NextQueuedJob(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrJobNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("next queued job: %w", err)
	}

	correlationID := uuid.New().String()
	logger := p.logger.With().Str(logFieldCorrelationID, correlationID).Str("username", job.Username).Logger()

	if backlog, err := p.repo.QueuedJobCount(ctx); err == nil {
		observability.JobBacklog.Set(float64(backlog))
	}

	if err := p.repo.UpdateJobStatus(ctx, job.ID, domain.JobStatusRunning, ""); err != nil {
		return false, fmt.Errorf("mark job running: %w", err)
	}

	start := time.Now()

	if err := p.ProcessAccount(ctx, job.Username); err != nil {
		logger.Error().Err(err).Msg("account analysis failed")
		observability.AccountsProcessed.WithLabelValues(domain.JobStatusFailed).Inc()

		if updateErr := p.repo.UpdateJobStatus(ctx, job.ID, domain.JobStatusFailed, err.Error()); updateErr != nil {
			return false, fmt.Errorf("mark job failed: %w", updateErr)
		}

		return true, nil
	}

	observability.JobDurationSeconds.Observe(time.Since(start).Seconds())
	observability.AccountsProcessed.WithLabelValues(domain.JobStatusDone).Inc()
	logger.Info().Dur("elapsed", time.Since(start)).Msg("account analysis finished")

	if err := p.repo.UpdateJobStatus(ctx, job.ID, domain.JobStatusDone, ""); err != nil {
		return false, err
	}

	return true, nil
}

// ProcessAccount runs the full classification and analytics pass for one
// account and persists the derived results.
func (p *Pipeline) ProcessAccount(ctx context.Context, username string) error {
	profile, err := p.repo.GetProfile(ctx, username)
	if err != nil {
		return fmt.Errorf("get profile %s: %w", username, err)
	}

	items, err := p.repo.GetContent(ctx, username, p.cfg.ContentFetchLimit)
	if err != nil {
		return fmt.Errorf("get content %s: %w", username, err)
	}

	// Classification must finish for the whole set before aggregation:
	// the aggregator reads reel/post buckets, not a stream.
	items = p.classifier.ClassifyAll(items)

	for _, item := range items {
		observability.ItemsClassified.WithLabelValues(string(item.ContentType)).Inc()
	}

	if err := p.repo.SaveClassifications(ctx, username, items); err != nil {
		return fmt.Errorf("save classifications %s: %w", username, err)
	}

	summary, perItem, err := analytics.Summarize(profile, items)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", username, err)
	}

	if err := p.repo.SaveAccountSummary(ctx, summary); err != nil {
		return fmt.Errorf("save summary %s: %w", username, err)
	}

	if err := p.repo.SaveItemAnalytics(ctx, username, perItem); err != nil {
		return fmt.Errorf("save item analytics %s: %w", username, err)
	}

	for _, report := range []domain.TagReport{
		p.summarizer.SummarizeCategories(ctx, items),
		p.summarizer.SummarizeVibes(ctx, items),
	} {
		if err := p.repo.SaveTagReport(ctx, username, report); err != nil {
			return fmt.Errorf("save %s report %s: %w", report.Kind, username, err)
		}
	}

	return nil
}
