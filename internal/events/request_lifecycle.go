package events

import (
	"errors"
	"time"
)

const RequestLifecycleTopic = "eapproval.request.lifecycle.v1"

const (
	RequestCreated       = "request_created"
	RequestFullyApproved = "request_fully_approved"
	RequestRejected      = "request_rejected"
	TechnicianAssigned   = "technician_assigned"
	MaintenanceCompleted = "maintenance_completed"
	RequestAggregateType = "request"
)

// RequestLifecycleEvent is published after a request mutation commits.
// RecipientIDs are user ids; the consumer resolves addresses at delivery time.
type RequestLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	SerialNumber string    `json:"serial_number"`
	ActorID      string    `json:"actor_id"`
	RecipientIDs []string  `json:"recipient_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
	TraceID      string    `json:"trace_id,omitempty"`
}

// ErrSkipEvent marks an event that can never be handled, such as one whose request was deleted.
// Consumers commit past it instead of retrying.
var ErrSkipEvent = errors.New("skip event")
