package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"e-approval/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeHandler struct {
	err  error
	seen []events.RequestLifecycleEvent
}

func (h *fakeHandler) Handle(ctx context.Context, event events.RequestLifecycleEvent) error {
	h.seen = append(h.seen, event)
	return h.err
}

func lifecycleMessage(offset int64) kafkago.Message {
	payload, _ := json.Marshal(events.RequestLifecycleEvent{
		EventType:    events.RequestCreated,
		RequestID:    "req-1",
		SerialNumber: "REQ-2026-0001",
	})
	return kafkago.Message{Offset: offset, Value: payload}
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("handled event is committed", func(t *testing.T) {
		reader := &fakeReader{}
		handler := &fakeHandler{}

		handleMessage(ctx, reader, handler, lifecycleMessage(7), log)

		assert.Equal(t, []int64{7}, reader.committed)
		assert.Len(t, handler.seen, 1)
		assert.Equal(t, "REQ-2026-0001", handler.seen[0].SerialNumber)
	})

	t.Run("undecodable payload is committed without handling", func(t *testing.T) {
		reader := &fakeReader{}
		handler := &fakeHandler{}

		handleMessage(ctx, reader, handler, kafkago.Message{Offset: 3, Value: []byte("{")}, log)

		assert.Equal(t, []int64{3}, reader.committed)
		assert.Empty(t, handler.seen)
	})

	t.Run("skipped event is committed", func(t *testing.T) {
		reader := &fakeReader{}
		handler := &fakeHandler{err: fmt.Errorf("request gone: %w", events.ErrSkipEvent)}

		handleMessage(ctx, reader, handler, lifecycleMessage(9), log)

		assert.Equal(t, []int64{9}, reader.committed)
	})

	t.Run("handler failure leaves message uncommitted", func(t *testing.T) {
		reader := &fakeReader{}
		handler := &fakeHandler{err: errors.New("db down")}

		handleMessage(ctx, reader, handler, lifecycleMessage(11), log)

		assert.Empty(t, reader.committed)
	})
}

func TestConsumeRequestLifecycle_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		ConsumeRequestLifecycle(ctx, &fakeReader{}, &fakeHandler{}, zap.NewNop())
		close(done)
	}()
	<-done
}
