package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// Worker drains the delivery job queue: it claims pending jobs one at a
// time, performs the delivery and reports the outcome to the observer.
// Multiple workers can run against the same queue; claiming uses
// SKIP LOCKED so they never process the same job twice.
type Worker struct {
	jobs      *repository.DeliveryJobRepository
	webhooks  *repository.WebhookRepository
	deliverer *Deliverer
	observer  DeliveryObserver

	pollInterval time.Duration
}

// NewWorker creates a Worker.
func NewWorker(
	jobs *repository.DeliveryJobRepository,
	webhooks *repository.WebhookRepository,
	deliverer *Deliverer,
	observer DeliveryObserver,
) *Worker {
	return &Worker{
		jobs:         jobs,
		webhooks:     webhooks,
		deliverer:    deliverer,
		observer:     observer,
		pollInterval: config.WorkerPollInterval,
	}
}

// Run processes jobs until the context is cancelled. An empty queue is
// polled at the configured interval.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("delivery worker started", "poll_interval", w.pollInterval)

	for {
		job, err := w.jobs.ClaimNext(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoPendingJobs) {
				select {
				case <-ctx.Done():
					slog.Info("delivery worker stopped")
					return
				case <-time.After(w.pollInterval):
				}
				continue
			}
			if ctx.Err() != nil {
				slog.Info("delivery worker stopped")
				return
			}
			slog.Error("failed to claim delivery job", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.pollInterval):
			}
			continue
		}

		w.process(ctx, job)
	}
}

// process runs one claimed job to a terminal status. Failures before
// a delivery attempt go through the observer's job-failure path since
// no HTTP outcome exists for them.
func (w *Worker) process(ctx context.Context, job *domain.DeliveryJob) {
	outcome, err := w.run(ctx, job)
	if err != nil {
		w.fail(ctx, job, err)
		return
	}

	if err := w.observer.HandleDelivery(ctx, outcome); err != nil {
		slog.Error("delivery observer failed", "error", err, "job_id", job.ID)
	}

	var status domain.JobStatus
	var logLine string
	if outcome.Err != nil {
		status = domain.JobStatusFailed
		logLine = fmt.Sprintf("Delivery %s failed: %s.", outcome.DeliveryID, outcome.Err.Error())
	} else {
		status = domain.JobStatusComplete
		logLine = fmt.Sprintf("Delivery %s completed: %s.", outcome.DeliveryID, outcome.Response.Status)
	}

	if err := w.jobs.AppendLog(ctx, job.ID, logLine); err != nil {
		slog.Error("failed to append job log", "error", err, "job_id", job.ID)
	}
	if err := w.jobs.SetStatus(ctx, job.ID, status); err != nil {
		slog.Error("failed to set job status", "error", err, "job_id", job.ID, "status", status)
	}
}

// run performs the delivery for one job. A returned error means no
// delivery attempt produced an outcome.
func (w *Worker) run(ctx context.Context, job *domain.DeliveryJob) (DeliveryOutcome, error) {
	wh, err := w.webhooks.GetByID(ctx, job.WebhookID)
	if err != nil {
		return DeliveryOutcome{}, fmt.Errorf("load webhook %d: %w", job.WebhookID, err)
	}
	if !wh.Active {
		return DeliveryOutcome{}, fmt.Errorf("webhook %d is inactive", wh.ID)
	}

	outcome, err := w.deliverer.Deliver(ctx, wh, job.ResourceID)
	if err != nil {
		return DeliveryOutcome{}, err
	}

	// A transport error with no response still counts as a delivery
	// outcome: the observer records it as a communication failure.
	return outcome, nil
}

// fail marks a job failed and routes it through the job-failure path.
func (w *Worker) fail(ctx context.Context, job *domain.DeliveryJob, cause error) {
	slog.Error("delivery job failed", "error", cause, "job_id", job.ID)

	if err := w.jobs.AppendLog(ctx, job.ID, cause.Error()+"."); err != nil {
		slog.Error("failed to append job log", "error", err, "job_id", job.ID)
	}
	if err := w.jobs.SetStatus(ctx, job.ID, domain.JobStatusFailed); err != nil {
		slog.Error("failed to set job status", "error", err, "job_id", job.ID)
	}
	if err := w.observer.HandleJobFailure(ctx, job.ID, cause); err != nil {
		slog.Error("job failure observer failed", "error", err, "job_id", job.ID)
	}
}
