package queue

import (
	"context"
	"errors"
	"time"

	"resume-ranker/internal/shared/telemetry"
)

// LocalClient processes batches in-process instead of going through SQS.
// Used in development when no queue is configured; the API response still
// returns before processing finishes.
type LocalClient struct {
	// Process runs one batch to completion.
	Process func(ctx context.Context, batchID string) error
	// Timeout bounds each in-process batch run.
	Timeout time.Duration
}

// Enqueue starts processing the batch on a background goroutine.
func (l *LocalClient) Enqueue(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.Process == nil {
		return errors.New("local queue has no processor")
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Minute
	}
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := l.Process(runCtx, msg.BatchID); err != nil {
			telemetry.Error("queue.local.process_failed", map[string]any{
				"batchId": msg.BatchID,
				"error":   err.Error(),
			})
		}
	}()
	return nil
}

var _ Client = (*LocalClient)(nil)
