package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"e-approval/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lifecycleEvent() events.RequestLifecycleEvent {
	return events.RequestLifecycleEvent{
		EventType:    events.RequestCreated,
		RequestID:    "9b0d3c55-2f5e-4a51-a3a4-1b7f4f0f4c11",
		SerialNumber: "REQ-2026-0001",
		ActorID:      "staff-1",
		RecipientIDs: []string{"approver-1"},
		OccurredAt:   nowForTest(),
		TraceID:      "trace-1",
	}
}

func TestNewLifecycleOutboxEvent(t *testing.T) {
	ev := lifecycleEvent()

	record, err := NewLifecycleOutboxEvent(ev)

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, events.RequestLifecycleTopic, record.Topic)
	assert.Equal(t, events.RequestAggregateType, record.AggregateType)
	assert.Equal(t, ev.RequestID, record.AggregateID)
	assert.Equal(t, "trace-1", record.TraceID)
	assert.Equal(t, OutboxStatusPending, record.Status)

	var decoded events.RequestLifecycleEvent
	require.NoError(t, json.Unmarshal(record.Payload, &decoded))
	assert.Equal(t, ev.SerialNumber, decoded.SerialNumber)
	assert.Equal(t, ev.RecipientIDs, decoded.RecipientIDs)
}

func TestOutboxRepository_EnqueueInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ev := lifecycleEvent()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(sqlmock.AnyArg(), "trace-1", events.RequestAggregateType, ev.RequestID,
			events.RequestCreated, events.RequestLifecycleTopic, sqlmock.AnyArg(), OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	err = NewOutboxRepository(db).WithTx(tx).Enqueue(context.Background(), ev)
	assert.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_EnqueueRejectsEventWithoutRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ev := lifecycleEvent()
	ev.RequestID = ""

	err = NewOutboxRepository(db).Enqueue(context.Background(), ev)
	assert.EqualError(t, err, "outbox aggregate id is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Claim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("o-1", "trace-1", "request", "req-1", "request_created", "topic", []byte(`{}`), OutboxStatusFailed, 2, nowForTest())

	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").
		WithArgs(OutboxStatusPending, OutboxStatusFailed, 10, claimLease.Seconds()).
		WillReturnRows(rows)

	claimed, err := NewOutboxRepository(db).Claim(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "o-1", claimed[0].ID)
	assert.Equal(t, "trace-1", claimed[0].TraceID)
	assert.Equal(t, "req-1", claimed[0].AggregateID)
	assert.Equal(t, 2, claimed[0].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o-1", OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o-2", OutboxStatusFailed, "broker down", MaxOutboxAttempts, OutboxStatusDead).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOutboxRepository(db)
	assert.NoError(t, repo.MarkSent(context.Background(), "o-1"))
	assert.NoError(t, repo.MarkFailed(context.Background(), "o-2", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid, err := NewLifecycleOutboxEvent(lifecycleEvent())
	require.NoError(t, err)
	assert.NoError(t, ValidateOutboxEvent(valid))

	bad := valid
	bad.Status = "queued"
	assert.EqualError(t, ValidateOutboxEvent(bad), "invalid outbox status: queued")

	bad = valid
	bad.Payload = nil
	assert.EqualError(t, ValidateOutboxEvent(bad), "outbox payload is required")
}

func nowForTest() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}
