package producer

import (
	"context"
	"errors"

	"e-approval/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is satisfied by *kafkago.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func toMessage(event kafka.OutboxEvent) kafkago.Message {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.TraceID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.TraceID)})
	}
	return kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
}

// publishBatch writes the batch in one call and reports a result per event.
// A nil entry means the broker acknowledged that message.
func publishBatch(ctx context.Context, writer MessageWriter, batch []kafka.OutboxEvent) []error {
	msgs := make([]kafkago.Message, len(batch))
	for i, event := range batch {
		msgs[i] = toMessage(event)
	}

	results := make([]error, len(batch))
	err := writer.WriteMessages(ctx, msgs...)
	if err == nil {
		return results
	}

	var perMessage kafkago.WriteErrors
	if errors.As(err, &perMessage) && len(perMessage) == len(batch) {
		copy(results, perMessage)
		return results
	}
	for i := range results {
		results[i] = err
	}
	return results
}
