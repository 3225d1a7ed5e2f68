package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"e-approval/internal/attachment"
	"e-approval/internal/document"
	"e-approval/internal/events"
	"e-approval/internal/messaging/kafka"
	"e-approval/internal/metrics"
	requesterrors "e-approval/internal/request/errors"
	"e-approval/internal/shared/contextutil"
	"e-approval/internal/shared/counter"
	"e-approval/internal/user"
	usererrors "e-approval/internal/user/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const serialPrefix = "REQ-"

// RoleSystem is used by in-process readers such as the notification dispatcher.
const RoleSystem = "system"

var SystemViewer = Viewer{Role: RoleSystem}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requestorID string, in CreateRequestInput) (CreateResult, error)
	GetByID(ctx context.Context, id string, viewer Viewer) (RequestResponse, error)
	List(ctx context.Context, q ListRequestsQuery, viewer Viewer) ([]RequestResponse, error)
	ListForApprover(ctx context.Context, approverID string, from, to *time.Time) ([]RequestResponse, error)
	ListForTechnician(ctx context.Context, technicianID string) ([]RequestResponse, error)
	Approve(ctx context.Context, id, approverID string, in DecisionInput) (RequestResponse, error)
	Reject(ctx context.Context, id, approverID string, in DecisionInput) (RequestResponse, error)
	AssignTechnician(ctx context.Context, id, actorID, technicianID string) (RequestResponse, error)
	AdvanceMaintenanceStatus(ctx context.Context, id, technicianID string) (RequestResponse, error)
	Delete(ctx context.Context, id string) error
	RenderDocument(ctx context.Context, id string, viewer Viewer) ([]byte, string, error)
	SyncSerialCounter(ctx context.Context) error
}

type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, id string) (user.Principal, error)
}

// EventPublisher runs post-commit side effects in-process. Errors are logged, never returned to callers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.RequestLifecycleEvent) error
}

// Collaborators are constructed once at startup. Outbox, when set, replaces Publisher:
// events are written in the mutating transaction and delivered by the outbox worker.
type Collaborators struct {
	Counter   counter.Repository
	Identity  PrincipalResolver
	Store     attachment.Store
	Renderer  document.Renderer
	Publisher EventPublisher
	Outbox    kafka.OutboxRepository
	Clock     func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	identity  PrincipalResolver
	store     attachment.Store
	renderer  document.Renderer
	publisher EventPublisher
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Collaborators, logger ...*zap.Logger) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		counter:   deps.Counter,
		identity:  deps.Identity,
		store:     deps.Store,
		renderer:  deps.Renderer,
		publisher: deps.Publisher,
		outbox:    deps.Outbox,
		now:       now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, requestorID string, in CreateRequestInput) (CreateResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	requestType, ok := NormalizeRequestType(in.RequestType)
	if !ok {
		return CreateResult{}, requesterrors.ErrInvalidRequestType
	}

	requestor, err := s.resolve(ctx, requestorID, requesterrors.ErrRequestorNotFound)
	if err != nil {
		return CreateResult{}, err
	}

	req := &Request{
		ID:              uuid.New(),
		RequestorID:     uuid.MustParse(requestor.ID),
		StaffName:       requestor.Name,
		StaffDepartment: requestor.Department,
		RequestType:     requestType,
		Priority:        resolvePriority(in),
		FinalStatus:     StatusPending,
	}
	if sig := strings.TrimSpace(in.SignatureStaff); sig != "" {
		req.SignatureStaff = &sig
	}

	if err := applyTypeFields(req, in); err != nil {
		return CreateResult{}, err
	}

	req.Approvals, err = s.buildApprovalSteps(ctx, req.ID, in.Approvals)
	if err != nil {
		return CreateResult{}, err
	}

	warnings := s.storeAttachments(ctx, req, in.Files)

	req.SerialNumber, err = s.nextSerial(ctx)
	if err != nil {
		l.Error("allocate serial number failed", zap.Error(err))
		return CreateResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CreateResult{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, req); err != nil {
		l.Error("create request failed", zap.String("serial_number", req.SerialNumber), zap.Error(err))
		return CreateResult{}, mapRepoError(err)
	}

	event := s.newEvent(ctx, events.RequestCreated, req, requestor.ID, req.approverIDs())
	if err := s.stage(ctx, tx, event); err != nil {
		return CreateResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return CreateResult{}, err
	}

	s.dispatch(ctx, event)
	metrics.RequestTransitionsTotal.WithLabelValues("create", "ok").Inc()
	l.Info("request created",
		zap.String("request_id", req.ID.String()),
		zap.String("serial_number", req.SerialNumber),
		zap.String("request_type", req.RequestType),
		zap.Int("approval_levels", len(req.Approvals)),
	)

	return CreateResult{Request: mapToResponse(*req), Warnings: warnings}, nil
}

func (s *service) GetByID(ctx context.Context, id string, viewer Viewer) (RequestResponse, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return RequestResponse{}, err
	}
	if !canView(req, viewer) {
		return RequestResponse{}, requesterrors.ErrNotAllowedToView
	}
	return mapToResponse(*req), nil
}

// List returns everything for admins and approvers; other roles only see what they submitted.
func (s *service) List(ctx context.Context, q ListRequestsQuery, viewer Viewer) ([]RequestResponse, error) {
	filter := ListFilter{
		RequestType:  q.RequestType,
		FinalStatus:  q.FinalStatus,
		RequestorID:  q.RequestorID,
		ApproverID:   q.ApproverID,
		TechnicianID: q.TechnicianID,
		CreatedFrom:  q.From,
		CreatedTo:    q.To,
		Oldest:       q.Oldest,
	}
	if filter.RequestType != "" {
		t, ok := NormalizeRequestType(filter.RequestType)
		if !ok {
			return nil, requesterrors.ErrInvalidRequestType
		}
		filter.RequestType = t
	}
	if !seesEverything(viewer.Role) {
		filter.RequestorID = viewer.ID
	}
	return s.list(ctx, filter)
}

func (s *service) ListForApprover(ctx context.Context, approverID string, from, to *time.Time) ([]RequestResponse, error) {
	return s.list(ctx, ListFilter{ApproverID: approverID, CreatedFrom: from, CreatedTo: to})
}

// ListForTechnician returns the technician's open jobs.
func (s *service) ListForTechnician(ctx context.Context, technicianID string) ([]RequestResponse, error) {
	return s.list(ctx, ListFilter{
		RequestType:         TypeMaintenance,
		TechnicianID:        technicianID,
		MaintenanceStatuses: []string{MaintenanceSubmitted, MaintenanceInProgress},
	})
}

func (s *service) Approve(ctx context.Context, id, approverID string, in DecisionInput) (RequestResponse, error) {
	var technician *user.Principal
	if in.TechnicianID != "" {
		p, err := s.resolveTechnician(ctx, in.TechnicianID)
		if err != nil {
			return RequestResponse{}, err
		}
		technician = &p
	}

	return s.mutate(ctx, "approve", id, func(req *Request, now time.Time) ([]events.RequestLifecycleEvent, error) {
		actor, err := uuid.Parse(approverID)
		if err != nil {
			return nil, requesterrors.ErrNotAuthorizedToApprove
		}
		fullyApproved, err := applyDecision(req, actor, StatusApproved, in, now)
		if err != nil {
			return nil, err
		}

		var out []events.RequestLifecycleEvent
		if technician != nil && req.IsMaintenance() {
			attachTechnicianOnApproval(req, uuid.MustParse(technician.ID), now)
			out = append(out, s.newEvent(ctx, events.TechnicianAssigned, req, approverID, []string{technician.ID}))
		}
		if fullyApproved {
			out = append(out, s.newEvent(ctx, events.RequestFullyApproved, req, approverID, []string{req.RequestorID.String()}))
		}
		return out, nil
	})
}

func (s *service) Reject(ctx context.Context, id, approverID string, in DecisionInput) (RequestResponse, error) {
	return s.mutate(ctx, "reject", id, func(req *Request, now time.Time) ([]events.RequestLifecycleEvent, error) {
		actor, err := uuid.Parse(approverID)
		if err != nil {
			return nil, requesterrors.ErrNotAuthorizedToApprove
		}
		in.TechnicianID = ""
		if _, err := applyDecision(req, actor, StatusRejected, in, now); err != nil {
			return nil, err
		}
		return []events.RequestLifecycleEvent{
			s.newEvent(ctx, events.RequestRejected, req, approverID, []string{req.RequestorID.String()}),
		}, nil
	})
}

func (s *service) AssignTechnician(ctx context.Context, id, actorID, technicianID string) (RequestResponse, error) {
	actor, err := s.resolve(ctx, actorID, requesterrors.ErrNotApproverRole)
	if err != nil {
		return RequestResponse{}, err
	}
	if actor.Role != user.RoleApprover {
		return RequestResponse{}, requesterrors.ErrNotApproverRole
	}

	technician, err := s.resolveTechnician(ctx, technicianID)
	if err != nil {
		return RequestResponse{}, err
	}

	return s.mutate(ctx, "assign_technician", id, func(req *Request, _ time.Time) ([]events.RequestLifecycleEvent, error) {
		if err := assignTechnician(req, uuid.MustParse(technician.ID)); err != nil {
			return nil, err
		}
		return []events.RequestLifecycleEvent{
			s.newEvent(ctx, events.TechnicianAssigned, req, actor.ID, []string{technician.ID}),
		}, nil
	})
}

func (s *service) AdvanceMaintenanceStatus(ctx context.Context, id, technicianID string) (RequestResponse, error) {
	return s.mutate(ctx, "advance_maintenance", id, func(req *Request, now time.Time) ([]events.RequestLifecycleEvent, error) {
		actor, err := uuid.Parse(technicianID)
		if err != nil {
			return nil, requesterrors.ErrNotAssignedTechnician
		}
		completed, err := advanceMaintenance(req, actor, now)
		if err != nil {
			return nil, err
		}
		if !completed {
			return nil, nil
		}
		return []events.RequestLifecycleEvent{
			s.newEvent(ctx, events.MaintenanceCompleted, req, technicianID, []string{req.RequestorID.String()}),
		}, nil
	})
}

func (s *service) Delete(ctx context.Context, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return requesterrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	metrics.RequestTransitionsTotal.WithLabelValues("delete", "ok").Inc()
	l.Info("request deleted", zap.String("request_id", id))
	return nil
}

// RenderDocument returns the PDF and a download file name.
func (s *service) RenderDocument(ctx context.Context, id string, viewer Viewer) ([]byte, string, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !canView(req, viewer) {
		return nil, "", requesterrors.ErrNotAllowedToView
	}

	pdf, err := s.renderer.Render(ctx, s.snapshot(ctx, req))
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render request document failed",
			zap.String("request_id", id), zap.Error(err))
		return nil, "", err
	}
	return pdf, req.SerialNumber + ".pdf", nil
}

// SyncSerialCounter raises this year's counter to the highest serial already stored,
// so requests imported from an older system never collide with new ones.
func (s *service) SyncSerialCounter(ctx context.Context) error {
	year := s.now().Year()
	prefix := fmt.Sprintf("%s%d-", serialPrefix, year)

	latest, err := s.repo.FindLatestBySerialPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}

	seq, err := strconv.ParseInt(strings.TrimPrefix(latest.SerialNumber, prefix), 10, 64)
	if err != nil {
		s.logger.Warn("ignoring unparsable serial number", zap.String("serial_number", latest.SerialNumber))
		return nil
	}
	return s.counter.EnsureAtLeast(ctx, strconv.Itoa(year), counter.RequestSerialCounter, seq)
}

type mutation func(req *Request, now time.Time) ([]events.RequestLifecycleEvent, error)

// mutate is the read-modify-write path shared by every state transition: lock the row,
// apply fn, persist, stage events, commit, then run in-process side effects.
func (s *service) mutate(ctx context.Context, action, id string, fn mutation) (RequestResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	req, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return RequestResponse{}, mapRepoError(err)
	}

	evs, err := fn(req, s.now())
	if err != nil {
		metrics.RequestTransitionsTotal.WithLabelValues(action, "rejected").Inc()
		l.Info("request transition refused",
			zap.String("action", action), zap.String("request_id", id), zap.Error(err))
		return RequestResponse{}, err
	}

	if err := qtx.Update(ctx, req); err != nil {
		l.Error("update request failed", zap.String("action", action), zap.String("request_id", id), zap.Error(err))
		return RequestResponse{}, mapRepoError(err)
	}
	for _, ev := range evs {
		if err := s.stage(ctx, tx, ev); err != nil {
			return RequestResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.dispatch(ctx, evs...)
	metrics.RequestTransitionsTotal.WithLabelValues(action, "ok").Inc()
	l.Info("request transition applied",
		zap.String("action", action),
		zap.String("request_id", id),
		zap.String("final_status", req.FinalStatus),
	)
	return mapToResponse(*req), nil
}

func (s *service) newEvent(ctx context.Context, eventType string, req *Request, actorID string, recipients []string) events.RequestLifecycleEvent {
	return events.RequestLifecycleEvent{
		EventType:    eventType,
		RequestID:    req.ID.String(),
		SerialNumber: req.SerialNumber,
		ActorID:      actorID,
		RecipientIDs: recipients,
		OccurredAt:   s.now().UTC(),
		TraceID:      contextutil.GetRequestID(ctx),
	}
}

// stage writes the event to the outbox inside tx. Without an outbox it is a no-op.
func (s *service) stage(ctx context.Context, tx *sql.Tx, ev events.RequestLifecycleEvent) error {
	if s.outbox == nil {
		return nil
	}
	if err := s.outbox.WithTx(tx).Enqueue(ctx, ev); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("stage outbox event failed",
			zap.String("event_type", ev.EventType), zap.Error(err))
		return err
	}
	return nil
}

// dispatch runs the in-process side effects after commit. Failures never reach the caller.
func (s *service) dispatch(ctx context.Context, evs ...events.RequestLifecycleEvent) {
	if s.outbox != nil || s.publisher == nil {
		return
	}
	l := contextutil.GetLogger(ctx, s.logger)
	for _, ev := range evs {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			metrics.SideEffectFailuresTotal.WithLabelValues(ev.EventType).Inc()
			l.Warn("post-commit side effect failed",
				zap.String("event_type", ev.EventType),
				zap.String("request_id", ev.RequestID),
				zap.Error(err),
			)
		}
	}
}

func (s *service) nextSerial(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.counter.GetNextValue(ctx, strconv.Itoa(year), counter.RequestSerialCounter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d-%04d", serialPrefix, year, seq), nil
}

func (s *service) find(ctx context.Context, id string) (*Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return req, nil
}

func (s *service) list(ctx context.Context, f ListFilter) ([]RequestResponse, error) {
	rows, err := s.repo.List(ctx, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list requests failed", zap.Error(err))
		return nil, err
	}
	out := make([]RequestResponse, len(rows))
	for i, r := range rows {
		out[i] = mapToResponse(r)
	}
	return out, nil
}

// resolve maps "no such user" onto notFound; other identity errors pass through.
func (s *service) resolve(ctx context.Context, id string, notFound error) (user.Principal, error) {
	p, err := s.identity.ResolvePrincipal(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			return user.Principal{}, notFound
		}
		return user.Principal{}, err
	}
	return p, nil
}

func (s *service) resolveTechnician(ctx context.Context, id string) (user.Principal, error) {
	if strings.TrimSpace(id) == "" {
		return user.Principal{}, requesterrors.ErrInvalidTechnicianID
	}
	p, err := s.resolve(ctx, id, requesterrors.ErrTechnicianNotFound)
	if err != nil {
		return user.Principal{}, err
	}
	if p.Role != user.RoleTechnician {
		return user.Principal{}, requesterrors.ErrNotTechnician
	}
	return p, nil
}

// buildApprovalSteps drops entries without an approver, keeps submission order
// and defaults a missing level to the entry's position.
func (s *service) buildApprovalSteps(ctx context.Context, requestID uuid.UUID, in []ApprovalInput) ([]ApprovalStep, error) {
	steps := make([]ApprovalStep, 0, len(in))
	seen := make(map[uuid.UUID]bool, len(in))

	for _, a := range in {
		raw := strings.TrimSpace(a.ApproverID)
		if raw == "" {
			continue
		}
		approverID, err := uuid.Parse(raw)
		if err != nil {
			return nil, requesterrors.ErrInvalidApproverID
		}
		if seen[approverID] {
			return nil, requesterrors.ErrDuplicateApprover
		}
		seen[approverID] = true

		level := a.Level
		if level <= 0 {
			level = len(steps) + 1
		}
		name, dept := strings.TrimSpace(a.ApproverName), strings.TrimSpace(a.ApproverDepartment)
		if name == "" || dept == "" {
			p, err := s.resolve(ctx, raw, requesterrors.ErrApproverNotFound)
			if err != nil {
				return nil, err
			}
			if name == "" {
				name = p.Name
			}
			if dept == "" {
				dept = p.Department
			}
		}

		steps = append(steps, ApprovalStep{
			ID:                 uuid.New(),
			RequestID:          requestID,
			Position:           len(steps),
			Level:              level,
			ApproverID:         approverID,
			ApproverName:       name,
			ApproverDepartment: dept,
			Status:             StatusPending,
		})
	}

	if len(steps) == 0 {
		return nil, requesterrors.ErrApprovalsRequired
	}
	return steps, nil
}

// storeAttachments uploads each file; a failed upload becomes a warning, not an error.
func (s *service) storeAttachments(ctx context.Context, req *Request, files []FileUpload) []string {
	var warnings []string
	if len(files) == 0 {
		return warnings
	}
	l := contextutil.GetLogger(ctx, s.logger)

	for _, f := range files {
		stored, err := s.store.Store(ctx, f.Data, f.MimeType, f.Name)
		if err != nil {
			metrics.SideEffectFailuresTotal.WithLabelValues("attachment_store").Inc()
			l.Warn("store attachment failed", zap.String("file_name", f.Name), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("attachment %q was not saved: %s", f.Name, err.Error()))
			continue
		}
		req.Attachments = append(req.Attachments, Attachment{
			ID:           uuid.New(),
			RequestID:    req.ID,
			Position:     len(req.Attachments),
			OriginalName: stored.OriginalName,
			FileName:     stored.FileName,
			URL:          stored.URL,
			MimeType:     stored.MimeType,
			Size:         stored.Size,
		})
	}
	return warnings
}

// applyTypeFields validates the type-specific payload and fills the matching columns.
func applyTypeFields(req *Request, in CreateRequestInput) error {
	details := in.Details
	if details == nil {
		details = map[string]any{}
	}

	switch req.RequestType {
	case TypeLeave:
		start, err := parseDate(in.LeaveStart, details["leave_start"])
		if err != nil {
			return requesterrors.ErrInvalidLeavePeriod
		}
		end, err := parseDate(in.LeaveEnd, details["leave_end"])
		if err != nil {
			return requesterrors.ErrInvalidLeavePeriod
		}
		if start != nil && end != nil && start.After(*end) {
			return requesterrors.ErrInvalidLeavePeriod
		}
		req.LeaveStart, req.LeaveEnd = start, end

	case TypePurchase:
		if len(in.Items) == 0 {
			return requesterrors.ErrItemsRequired
		}
		total := decimal.Zero
		for i, it := range in.Items {
			if strings.TrimSpace(it.Name) == "" || it.Quantity <= 0 || it.EstimatedCost.IsNegative() {
				return requesterrors.ErrInvalidItem
			}
			req.Items = append(req.Items, Item{
				ID:            uuid.New(),
				RequestID:     req.ID,
				Position:      i,
				Name:          strings.TrimSpace(it.Name),
				Quantity:      it.Quantity,
				EstimatedCost: it.EstimatedCost,
				Supplier:      strings.TrimSpace(it.Supplier),
				Reason:        strings.TrimSpace(it.Reason),
			})
			total = total.Add(it.EstimatedCost)
		}
		req.TotalEstimatedCost = total

	case TypeMaintenance:
		issue, _ := details["issue"].(string)
		if strings.TrimSpace(issue) == "" {
			return requesterrors.ErrIssueRequired
		}
		status := MaintenanceSubmitted
		req.MaintenanceStatus = &status
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return requesterrors.ErrInvalidDetails
	}
	req.Details = datatypes.JSON(raw)
	return nil
}

func resolvePriority(in CreateRequestInput) string {
	p := strings.TrimSpace(in.Priority)
	if p == "" {
		if v, ok := in.Details["priority"].(string); ok {
			p = strings.TrimSpace(v)
		}
	}
	if p == "" {
		return PriorityNormal
	}
	return strings.ToUpper(p)
}

// parseDate prefers the explicit field and falls back to the details map.
func parseDate(explicit string, fallback any) (*time.Time, error) {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		if v, ok := fallback.(string); ok {
			raw = strings.TrimSpace(v)
		}
	}
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func seesEverything(role string) bool {
	switch role {
	case user.RoleAdmin, user.RoleApprover, RoleSystem:
		return true
	}
	return false
}

func canView(req *Request, v Viewer) bool {
	if seesEverything(v.Role) {
		return true
	}
	if req.RequestorID.String() == v.ID {
		return true
	}
	if req.AssignedTechnicianID != nil && req.AssignedTechnicianID.String() == v.ID {
		return true
	}
	if id, err := uuid.Parse(v.ID); err == nil && req.stepFor(id) != nil {
		return true
	}
	return false
}
