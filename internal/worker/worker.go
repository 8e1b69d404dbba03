// Package worker drains the training job queue. The job handlers are hooks
// for future batch processing; today they acknowledge after logging.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bzt-portal/training-scheduler/pkg/queue"
)

// Processor consumes training scheduler jobs from the Redis queue.
type Processor struct {
	queue       *queue.Queue
	logger      *zap.Logger
	pollTimeout time.Duration
}

// NewProcessor creates a job processor. pollTimeout 0 blocks until a job arrives.
func NewProcessor(q *queue.Queue, logger *zap.Logger, pollTimeout time.Duration) *Processor {
	return &Processor{queue: q, logger: logger, pollTimeout: pollTimeout}
}

// Run processes jobs until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) {
	p.logger.Info("training worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("training worker stopped")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("training worker stopped")
				return
			}
			p.logger.Error("dequeue", zap.Error(err))
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.Error(err), zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}

func (p *Processor) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeConfirmationEmail:
		var payload queue.ConfirmationEmailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		// Delivery is handled by the portal's mailer once integrated.
		p.logger.Info("confirmation email job",
			zap.Int64("tenant_id", payload.TenantID),
			zap.String("registration_id", payload.RegistrationID.String()),
			zap.String("recipient", payload.RecipientEmail))
		return nil
	case queue.JobTypeSessionReminder:
		var payload queue.SessionReminderPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		p.logger.Info("session reminder job",
			zap.Int64("tenant_id", payload.TenantID),
			zap.String("session_id", payload.SessionID))
		return nil
	default:
		p.logger.Warn("unknown job type dropped", zap.String("type", string(job.Type)), zap.String("job_id", job.ID))
		return nil
	}
}
