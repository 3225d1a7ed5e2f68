package producer

import (
	"context"
	"time"

	"e-approval/internal/messaging/kafka"
	"e-approval/internal/metrics"

	"go.uber.org/zap"
)

const outboxBatchSize = 50

// ProcessOutboxEvents relays pending outbox rows to Kafka until ctx is cancelled.
// A row is marked sent only after the broker acknowledged it, so delivery is at least once.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			// Drain the backlog before waiting for the next tick.
			for {
				n, err := relayBatch(ctx, repo, writer, log)
				if err != nil {
					log.Error("relay outbox batch failed", zap.Error(err))
					break
				}
				if n < outboxBatchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// relayBatch claims one batch, publishes it and records the outcome of every row.
// It returns the number of rows claimed.
func relayBatch(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	batch, err := repo.Claim(ctx, outboxBatchSize)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	results := publishBatch(ctx, writer, batch)

	sent := 0
	for i, event := range batch {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
		}

		if pubErr := results[i]; pubErr != nil {
			status := kafka.OutboxStatusFailed
			if event.RetryCount+1 >= kafka.MaxOutboxAttempts {
				status = kafka.OutboxStatusDead
			}
			metrics.OutboxEventsTotal.WithLabelValues(status).Inc()
			logger.Error("publish outbox event failed",
				append(fields, zap.Int("attempt", event.RetryCount+1), zap.String("status", status), zap.Error(pubErr))...)

			if markErr := repo.MarkFailed(ctx, event.ID, pubErr.Error()); markErr != nil {
				logger.Error("record outbox failure failed", append(fields, zap.Error(markErr))...)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The lease expires and the row is published again; consumers tolerate duplicates.
			logger.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			continue
		}
		metrics.OutboxEventsTotal.WithLabelValues(kafka.OutboxStatusSent).Inc()
		sent++
	}

	logger.Info("outbox batch relayed", zap.Int("claimed", len(batch)), zap.Int("sent", sent))
	return len(batch), nil
}
