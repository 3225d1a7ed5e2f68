package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"e-approval/internal/events"
	"e-approval/internal/metrics"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type LifecycleHandler interface {
	Handle(ctx context.Context, event events.RequestLifecycleEvent) error
}

// ConsumeRequestLifecycle runs until ctx is cancelled. A message is committed after it was
// handled, skipped or found undecodable; other handler errors leave it for redelivery.
func ConsumeRequestLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LifecycleHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.request_lifecycle")
	log.Info("request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request lifecycle consumer stopped")
				return
			}
			log.Error("fetch request lifecycle message failed", zap.Error(err))
			continue
		}

		handleMessage(ctx, reader, handler, msg, log)
	}
}

func handleMessage(
	ctx context.Context,
	reader MessageReader,
	handler LifecycleHandler,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var event events.RequestLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode request lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		metrics.ConsumedEventsTotal.WithLabelValues("unknown", "invalid").Inc()
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := handler.Handle(ctx, event); err != nil {
		if errors.Is(err, events.ErrSkipEvent) {
			log.Warn("request lifecycle event skipped",
				zap.String("event_type", event.EventType),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			metrics.ConsumedEventsTotal.WithLabelValues(event.EventType, "skipped").Inc()
			_ = reader.CommitMessages(ctx, msg)
			return
		}

		log.Error("handle request lifecycle event failed",
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
			zap.Error(err),
		)
		metrics.ConsumedEventsTotal.WithLabelValues(event.EventType, "error").Inc()
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit request lifecycle message failed", zap.Error(err))
		return
	}

	metrics.ConsumedEventsTotal.WithLabelValues(event.EventType, "ok").Inc()
	log.Info("request lifecycle event handled",
		zap.String("event_type", event.EventType),
		zap.String("request_id", event.RequestID),
		zap.String("serial_number", event.SerialNumber),
	)
}
