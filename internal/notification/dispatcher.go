package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"e-approval/internal/events"
	"e-approval/internal/metrics"
	"e-approval/internal/request"
	requesterrors "e-approval/internal/request/errors"
	"e-approval/internal/shared/contextutil"
	"e-approval/internal/user"

	"go.uber.org/zap"
)

type RequestReader interface {
	GetByID(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error)
	RenderDocument(ctx context.Context, id string, viewer request.Viewer) ([]byte, string, error)
}

type Directory interface {
	ResolvePrincipal(ctx context.Context, id string) (user.Principal, error)
}

// Dispatcher turns lifecycle events into emails. It serves both the in-process
// post-commit hook and the Kafka consumer.
type Dispatcher struct {
	requests     RequestReader
	directory    Directory
	notifier     Notifier
	dashboardURL string
	logger       *zap.Logger
}

func NewDispatcher(directory Directory, notifier Notifier, dashboardURL string, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{
		directory:    directory,
		notifier:     notifier,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
		logger:       l,
	}
}

// SetRequestReader breaks the construction cycle with the request service.
// It must be called before the first event is handled.
func (d *Dispatcher) SetRequestReader(r RequestReader) {
	d.requests = r
}

func (d *Dispatcher) Publish(ctx context.Context, ev events.RequestLifecycleEvent) error {
	return d.Handle(ctx, ev)
}

// Handle only fails when the request cannot be loaded. Delivery failures are
// logged per recipient and counted; they never cause a retry.
func (d *Dispatcher) Handle(ctx context.Context, ev events.RequestLifecycleEvent) error {
	l := contextutil.GetLogger(ctx, d.logger).With(
		zap.String("event_type", ev.EventType),
		zap.String("request_id", ev.RequestID),
	)

	switch ev.EventType {
	case events.RequestCreated, events.RequestFullyApproved, events.RequestRejected,
		events.TechnicianAssigned, events.MaintenanceCompleted:
	default:
		l.Debug("event ignored")
		return nil
	}

	req, err := d.requests.GetByID(ctx, ev.RequestID, request.SystemViewer)
	if err != nil {
		if errors.Is(err, requesterrors.ErrRequestNotFound) || errors.Is(err, requesterrors.ErrInvalidRequestID) {
			return fmt.Errorf("%w: request %s: %v", events.ErrSkipEvent, ev.RequestID, err)
		}
		return err
	}

	data := mailData{
		StaffName:       req.StaffName,
		StaffDepartment: req.StaffDepartment,
		RequestType:     humanType(req.RequestType),
		SerialNumber:    req.SerialNumber,
		Link:            fmt.Sprintf("%s/requests/%s", d.dashboardURL, req.ID),
	}

	var (
		subject     string
		attachments []Attachment
	)

	switch ev.EventType {
	case events.RequestCreated:
		subject = fmt.Sprintf("New %s request from %s (%s)", data.RequestType, req.StaffName, req.SerialNumber)
		attachments = d.document(ctx, l, req)

	case events.RequestFullyApproved:
		subject = fmt.Sprintf("Request %s approved", req.SerialNumber)
		attachments = d.document(ctx, l, req)

	case events.RequestRejected:
		subject = fmt.Sprintf("Request %s rejected", req.SerialNumber)
		for _, a := range req.Approvals {
			if a.ApproverID == ev.ActorID {
				data.ActorName = a.ApproverName
				data.Remark = a.Remark
			}
		}

	case events.TechnicianAssigned:
		subject = fmt.Sprintf("Maintenance job %s assigned to you", req.SerialNumber)
		data.Issue, data.Location = detailString(req.Details, "issue"), detailString(req.Details, "location")
		data.Priority = req.Priority
		if req.Maintenance != nil && req.Maintenance.SLAHours != nil {
			data.SLAHours = *req.Maintenance.SLAHours
		}

	case events.MaintenanceCompleted:
		subject = fmt.Sprintf("Maintenance job %s completed", req.SerialNumber)
		if req.Maintenance != nil && req.Maintenance.TimeToCompleteMinutes != nil {
			data.Minutes = *req.Maintenance.TimeToCompleteMinutes
		}
	}

	sent := 0
	for _, id := range ev.RecipientIDs {
		if d.deliver(ctx, l, ev.EventType, id, subject, data, attachments) {
			sent++
		}
	}
	l.Info("lifecycle notifications delivered", zap.Int("sent", sent), zap.Int("recipients", len(ev.RecipientIDs)))
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, l *zap.Logger, eventType, recipientID, subject string, data mailData, attachments []Attachment) bool {
	p, err := d.directory.ResolvePrincipal(ctx, recipientID)
	if err != nil || p.Email == "" {
		metrics.SideEffectFailuresTotal.WithLabelValues("notify_lookup").Inc()
		l.Warn("notification recipient unavailable", zap.String("recipient_id", recipientID), zap.Error(err))
		return false
	}

	data.RecipientName = p.Name
	body, err := render(eventType, data)
	if err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("notify_template").Inc()
		l.Error("render email body failed", zap.Error(err))
		return false
	}

	msg := Message{To: []string{p.Email}, Subject: subject, HTMLBody: body, Attachments: attachments}
	if err := d.notifier.Send(ctx, msg); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("notify_send").Inc()
		l.Warn("send notification failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return false
	}
	return true
}

// document renders the request PDF; on failure the email goes out without it.
func (d *Dispatcher) document(ctx context.Context, l *zap.Logger, req request.RequestResponse) []Attachment {
	pdf, name, err := d.requests.RenderDocument(ctx, req.ID, request.SystemViewer)
	if err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("render_document").Inc()
		l.Warn("render document for email failed", zap.Error(err))
		return nil
	}
	return []Attachment{{Name: name, ContentType: "application/pdf", Data: pdf}}
}

func detailString(raw json.RawMessage, key string) string {
	var details map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &details) != nil {
		return "-"
	}
	if v, ok := details[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "-"
}

func humanType(t string) string {
	switch t {
	case request.TypeITSupport:
		return "IT support"
	default:
		return strings.ToLower(t)
	}
}
