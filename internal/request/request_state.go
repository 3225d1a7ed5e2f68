package request

import (
	"math"
	"strings"
	"time"

	requesterrors "e-approval/internal/request/errors"

	"github.com/google/uuid"
)

const (
	urgentSLAHours  = 4
	defaultSLAHours = 24
)

var requestTypeAliases = map[string]string{
	"LEAVE":           TypeLeave,
	"CUTI":            TypeLeave,
	"PURCHASE":        TypePurchase,
	"PEMBELIAN":       TypePurchase,
	"IT_SUPPORT":      TypeITSupport,
	"ITSUPPORT":       TypeITSupport,
	"MAINTENANCE":     TypeMaintenance,
	"PENYELENGGARAAN": TypeMaintenance,
}

// NormalizeRequestType maps client spellings ("it-support", "IT Support") onto the stored type.
func NormalizeRequestType(raw string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	t, ok := requestTypeAliases[key]
	return t, ok
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// SLAHoursFor is 4 for urgent work and 24 otherwise.
func SLAHoursFor(priority string) int {
	if strings.EqualFold(strings.TrimSpace(priority), PriorityUrgent) {
		return urgentSLAHours
	}
	return defaultSLAHours
}

// deriveFinalStatus: any rejection wins, all approved means approved, otherwise pending.
func deriveFinalStatus(steps []ApprovalStep) string {
	if len(steps) == 0 {
		return StatusPending
	}
	approved := 0
	for _, s := range steps {
		switch s.Status {
		case StatusRejected:
			return StatusRejected
		case StatusApproved:
			approved++
		}
	}
	if approved == len(steps) {
		return StatusApproved
	}
	return StatusPending
}

func (r *Request) stepFor(approverID uuid.UUID) *ApprovalStep {
	for i := range r.Approvals {
		if r.Approvals[i].ApproverID == approverID {
			return &r.Approvals[i]
		}
	}
	return nil
}

func (r *Request) approverIDs() []string {
	ids := make([]string, len(r.Approvals))
	for i, s := range r.Approvals {
		ids[i] = s.ApproverID.String()
	}
	return ids
}

// applyDecision records one approver's decision and recomputes the final status.
// It reports whether this call moved the request into APPROVED.
func applyDecision(r *Request, actorID uuid.UUID, decision string, in DecisionInput, now time.Time) (bool, error) {
	step := r.stepFor(actorID)
	if step == nil {
		return false, requesterrors.ErrNotAuthorizedToApprove
	}
	if r.FinalStatus != StatusPending {
		return false, requesterrors.ErrRequestFinalized
	}
	if step.Status != StatusPending {
		return false, requesterrors.ErrAlreadyProcessed
	}

	step.Status = decision
	step.Remark = strings.TrimSpace(in.Remark)
	if sig := strings.TrimSpace(in.Signature); sig != "" {
		step.Signature = &sig
	}
	at := now
	step.ActionDate = &at

	previous := r.FinalStatus
	r.FinalStatus = deriveFinalStatus(r.Approvals)
	return previous != StatusApproved && r.FinalStatus == StatusApproved, nil
}

// assignTechnician sets (or replaces) the technician and restarts maintenance tracking.
func assignTechnician(r *Request, technicianID uuid.UUID) error {
	if !r.IsMaintenance() {
		return requesterrors.ErrNotMaintenance
	}
	if r.MaintenanceStatus != nil && *r.MaintenanceStatus == MaintenanceCompleted {
		return requesterrors.ErrMaintenanceFinished
	}
	if r.FinalStatus == StatusRejected {
		return requesterrors.ErrRequestRejected
	}

	tid := technicianID
	status := MaintenanceSubmitted
	sla := SLAHoursFor(r.Priority)

	r.AssignedTechnicianID = &tid
	r.MaintenanceStatus = &status
	r.SLAHours = &sla
	r.StartedAt = nil
	r.CompletedAt = nil
	r.TimeToCompleteMinutes = nil
	return nil
}

// attachTechnicianOnApproval is the approve-with-technician path: it sets the technician and,
// when the job is still SUBMITTED, starts it.
func attachTechnicianOnApproval(r *Request, technicianID uuid.UUID, now time.Time) {
	tid := technicianID
	r.AssignedTechnicianID = &tid
	if r.SLAHours == nil {
		sla := SLAHoursFor(r.Priority)
		r.SLAHours = &sla
	}
	if r.MaintenanceStatus == nil || *r.MaintenanceStatus == MaintenanceSubmitted {
		status := MaintenanceInProgress
		started := now
		r.MaintenanceStatus = &status
		r.StartedAt = &started
	}
}

// advanceMaintenance moves SUBMITTED -> IN_PROGRESS -> COMPLETED for the assigned technician.
// It reports whether the job was completed by this call.
func advanceMaintenance(r *Request, actorID uuid.UUID, now time.Time) (bool, error) {
	if r.AssignedTechnicianID == nil || *r.AssignedTechnicianID != actorID {
		return false, requesterrors.ErrNotAssignedTechnician
	}

	current := MaintenanceSubmitted
	if r.MaintenanceStatus != nil {
		current = *r.MaintenanceStatus
	}

	switch current {
	case MaintenanceSubmitted:
		if r.FinalStatus == StatusRejected {
			return false, requesterrors.ErrRequestRejected
		}
		status := MaintenanceInProgress
		started := now
		r.MaintenanceStatus = &status
		r.StartedAt = &started
		return false, nil

	case MaintenanceInProgress:
		if r.FinalStatus != StatusApproved {
			return false, requesterrors.ErrNotFullyApproved
		}
		status := MaintenanceCompleted
		completed := now
		r.MaintenanceStatus = &status
		r.CompletedAt = &completed
		if r.StartedAt != nil {
			minutes := int(math.Round(completed.Sub(*r.StartedAt).Minutes()))
			r.TimeToCompleteMinutes = &minutes
		}
		r.FinalStatus = StatusCompleted
		return true, nil

	default:
		return false, requesterrors.ErrMaintenanceFinished
	}
}
