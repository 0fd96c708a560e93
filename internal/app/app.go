// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Worker mode: poll loop that drains the account analysis job queue
//   - Once mode: run a single account end to end and exit
//   - Load mode: ingest a scraped payload file and enqueue the account
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/profilelens/insight-engine/internal/classify"
	"github.com/profilelens/insight-engine/internal/config"
	"github.com/profilelens/insight-engine/internal/core/errors"
	"github.com/profilelens/insight-engine/internal/ingest"
	"github.com/profilelens/insight-engine/internal/llm"
	"github.com/profilelens/insight-engine/internal/observability"
	"github.com/profilelens/insight-engine/internal/pipeline"
	"github.com/profilelens/insight-engine/internal/platform/worker"
	db "github.com/profilelens/insight-engine/internal/storage"
	"github.com/profilelens/insight-engine/internal/tags"
)

const (
	llmAPIKeyMock    = "mock"
	rateLimiterBurst = 5
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
	pipe     *pipeline.Pipeline
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	// The rate limiter is owned here, at the collaborator call site's
	// construction, and shared by whatever wiring needs the LLM client.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), rateLimiterBurst)

	var client llm.Client
	if cfg.LLMAPIKey == llmAPIKeyMock {
		client = llm.NewMockClient(nil, nil)
	} else {
		client = llm.NewOpenAI(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, limiter, logger)
	}

	classifier := classify.New(cfg.ReelMaxDuration, logger)
	summarizer := tags.New(client, cfg.TagSummaryMaxLabels, logger)
	pipe := pipeline.New(cfg, database, classifier, summarizer, logger)

	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
		pipe:     pipe,
	}
}

// RunWorker drains the job queue until the context is canceled.
func (a *App) RunWorker(ctx context.Context) error {
	pruned, err := a.database.PruneJobs(ctx, a.cfg.JobRetentionDays)
	if err != nil {
		a.logger.Warn().Err(err).Msg("pruning old jobs failed")
	} else if pruned > 0 {
		a.logger.Info().Int64("jobs", pruned).Msg("pruned finished jobs past retention")
	}

	return worker.Loop(ctx, worker.Config{
		Name:         "insight-worker",
		PollInterval: a.cfg.WorkerPollInterval,
		Process:      a.pipe.ProcessBatch,
		OnError: func(err error) bool {
			// Job-level failures are recorded on the job; anything that
			// reaches here is infrastructure trouble worth surviving.
			return true
		},
		Logger: a.logger,
	})
}

// RunOnce processes a single account synchronously.
func (a *App) RunOnce(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required for once mode", errors.ErrInvalidInput)
	}

	a.logger.Info().Str("username", username).Msg("running single account analysis")

	return a.pipe.ProcessAccount(ctx, username)
}

// ScrapePayload is the on-disk shape a scraper run produces: one profile
// and its content set.
type ScrapePayload struct {
	Profile ingest.RawProfile       `json:"profile"`
	Content []ingest.RawContentItem `json:"content"`
}

// RunLoad ingests a scraped payload file, persists the normalized profile
// and content, and enqueues an analysis job for the account.
func (a *App) RunLoad(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: input file is required for load mode", errors.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", path, err)
	}

	var payload ScrapePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: decode payload %s: %v", errors.ErrInvalidInput, path, err)
	}

	if payload.Profile.Username == "" {
		return fmt.Errorf("%w: payload %s has no profile username", errors.ErrInvalidInput, path)
	}

	normalizer := ingest.New(a.logger)
	profile := normalizer.Profile(payload.Profile)
	items := normalizer.ContentItems(payload.Content)

	if err := a.database.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.Username, err)
	}

	if err := a.database.UpsertContent(ctx, profile.Username, items); err != nil {
		return fmt.Errorf("upsert content %s: %w", profile.Username, err)
	}

	for _, item := range items {
		if item.Analysis == nil {
			continue
		}

		if err := a.database.SaveAnalysis(ctx, item.ID, *item.Analysis); err != nil {
			return fmt.Errorf("save analysis %s: %w", item.ID, err)
		}
	}

	jobID, err := a.database.EnqueueJob(ctx, profile.Username)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", profile.Username, err)
	}

	a.logger.Info().
		Str("username", profile.Username).
		Int("items", len(items)).
		Str("job_id", jobID).
		Msg("payload loaded and job enqueued")

	return nil
}

// StartHealthServer serves liveness, readiness and metrics endpoints.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}
