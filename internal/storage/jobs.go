package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
)

// EnqueueJob inserts a queued analysis job for an account. Re-enqueueing
// a username with an active job is a no-op returning the existing job id.
func (db *DB) EnqueueJob(ctx context.Context, username string) (string, error) {
	var id string

	err := db.Pool.QueryRow(ctx, `
		SELECT id::text FROM scrape_jobs
		WHERE username = $1 AND status IN ($2, $3)
		LIMIT 1
	`, username, domain.JobStatusQueued, domain.JobStatusRunning).Scan(&id)
	if err == nil {
		return id, nil
	}

	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("check active job: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO scrape_jobs (username, status)
		VALUES ($1, $2)
		RETURNING id::text
	`, username, domain.JobStatusQueued).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	return id, nil
}

// NextQueuedJob claims the oldest queued job. Claiming uses
// FOR UPDATE SKIP LOCKED so concurrent workers never pick the same job.
func (db *DB) NextQueuedJob(ctx context.Context) (*domain.ScrapeJob, error) {
	var job domain.ScrapeJob

	err := db.Pool.QueryRow(ctx, `
		WITH picked AS (
			SELECT id
			FROM scrape_jobs
			WHERE status = $1
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		SELECT j.id::text, j.username, j.status, COALESCE(j.error, ''), j.created_at, j.updated_at
		FROM scrape_jobs j
		JOIN picked p ON j.id = p.id
	`, domain.JobStatusQueued).Scan(&job.ID, &job.Username, &job.Status, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrJobNotFound
		}

		return nil, fmt.Errorf("next queued job: %w", err)
	}

	return &job, nil
}

// UpdateJobStatus transitions a job and records the failure message, if any.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID, status, errMsg string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE scrape_jobs
		SET status = $2, error = NULLIF($3, ''), updated_at = now()
		WHERE id = $1::uuid
	`, jobID, status, errMsg)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update job status: %w", errors.ErrJobNotFound)
	}

	return nil
}

// PruneJobs deletes finished jobs older than the retention window.
func (db *DB) PruneJobs(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM scrape_jobs
		WHERE status IN ($1, $2)
		  AND updated_at < now() - ($3 * interval '1 day')
	`, domain.JobStatusDone, domain.JobStatusFailed, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}

	return tag.RowsAffected(), nil
}

// QueuedJobCount returns the backlog size.
func (db *DB) QueuedJobCount(ctx context.Context) (int, error) {
	var count int

	err := db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM scrape_jobs WHERE status = $1
	`, domain.JobStatusQueued).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("queued job count: %w", err)
	}

	return count, nil
}
