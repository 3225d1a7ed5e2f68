package request

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"e-approval/internal/document"

	"go.uber.org/zap"
)

func mapToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                 r.ID.String(),
		SerialNumber:       r.SerialNumber,
		RequestorID:        r.RequestorID.String(),
		StaffName:          r.StaffName,
		StaffDepartment:    r.StaffDepartment,
		RequestType:        r.RequestType,
		Priority:           r.Priority,
		SignatureStaff:     r.SignatureStaff,
		TotalEstimatedCost: r.TotalEstimatedCost.StringFixed(2),
		FinalStatus:        r.FinalStatus,
		Approvals:          make([]ApprovalResponse, len(r.Approvals)),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if len(r.Details) > 0 {
		resp.Details = json.RawMessage(r.Details)
	}
	if r.LeaveStart != nil {
		resp.LeaveStart = r.LeaveStart.Format("2006-01-02")
	}
	if r.LeaveEnd != nil {
		resp.LeaveEnd = r.LeaveEnd.Format("2006-01-02")
	}

	for i, a := range r.Approvals {
		resp.Approvals[i] = ApprovalResponse{
			Level:              a.Level,
			ApproverID:         a.ApproverID.String(),
			ApproverName:       a.ApproverName,
			ApproverDepartment: a.ApproverDepartment,
			Status:             a.Status,
			Remark:             a.Remark,
			Signature:          a.Signature,
			ActionDate:         a.ActionDate,
		}
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, ItemResponse{
			Name:          it.Name,
			Quantity:      it.Quantity,
			EstimatedCost: it.EstimatedCost.StringFixed(2),
			Supplier:      it.Supplier,
			Reason:        it.Reason,
		})
	}
	for _, at := range r.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			OriginalName: at.OriginalName,
			FileName:     at.FileName,
			URL:          at.URL,
			MimeType:     at.MimeType,
			Size:         at.Size,
		})
	}

	if r.IsMaintenance() {
		m := &MaintenanceResponse{
			SLAHours:              r.SLAHours,
			StartedAt:             r.StartedAt,
			CompletedAt:           r.CompletedAt,
			TimeToCompleteMinutes: r.TimeToCompleteMinutes,
		}
		if r.AssignedTechnicianID != nil {
			m.TechnicianID = r.AssignedTechnicianID.String()
		}
		if r.MaintenanceStatus != nil {
			m.Status = *r.MaintenanceStatus
		}
		resp.Maintenance = m
	}
	return resp
}

var detailLabels = map[string]string{
	"leave_type":  "Leave Type",
	"reason":      "Reason",
	"issue":       "Issue",
	"location":    "Location",
	"asset":       "Asset",
	"description": "Description",
	"category":    "Category",
}

// snapshot flattens a request for the renderer. The technician's name is looked up
// best-effort; the id is printed when the lookup fails.
func (s *service) snapshot(ctx context.Context, r *Request) document.Snapshot {
	snap := document.Snapshot{
		SerialNumber:       r.SerialNumber,
		RequestType:        r.RequestType,
		FinalStatus:        r.FinalStatus,
		StaffName:          r.StaffName,
		StaffDepartment:    r.StaffDepartment,
		CreatedAt:          r.CreatedAt,
		Fields:             detailFields(r),
		TotalEstimatedCost: r.TotalEstimatedCost.StringFixed(2),
	}

	for _, it := range r.Items {
		snap.Items = append(snap.Items, document.Item{
			Name:          it.Name,
			Quantity:      it.Quantity,
			EstimatedCost: it.EstimatedCost.StringFixed(2),
			Supplier:      it.Supplier,
			Reason:        it.Reason,
		})
	}
	for _, at := range r.Attachments {
		snap.Attachments = append(snap.Attachments, at.OriginalName)
	}
	for _, a := range r.Approvals {
		snap.Approvals = append(snap.Approvals, document.Approval{
			Level:              a.Level,
			ApproverName:       a.ApproverName,
			ApproverDepartment: a.ApproverDepartment,
			Status:             a.Status,
			Remark:             a.Remark,
			Signed:             a.Signature != nil && *a.Signature != "",
			ActionDate:         a.ActionDate,
		})
	}

	if r.IsMaintenance() {
		m := &document.Maintenance{
			Priority:              r.Priority,
			StartedAt:             r.StartedAt,
			CompletedAt:           r.CompletedAt,
			TimeToCompleteMinutes: r.TimeToCompleteMinutes,
		}
		if r.MaintenanceStatus != nil {
			m.Status = *r.MaintenanceStatus
		}
		if r.SLAHours != nil {
			m.SLAHours = *r.SLAHours
		}
		if r.AssignedTechnicianID != nil {
			m.TechnicianName = r.AssignedTechnicianID.String()
			if p, err := s.identity.ResolvePrincipal(ctx, m.TechnicianName); err == nil {
				m.TechnicianName = p.Name
			} else {
				s.logger.Debug("technician lookup for document failed", zap.Error(err))
			}
		}
		snap.Maintenance = m
	}
	return snap
}

func detailFields(r *Request) []document.Field {
	var fields []document.Field
	if r.Priority != "" {
		fields = append(fields, document.Field{Label: "Priority", Value: r.Priority})
	}
	if r.LeaveStart != nil && r.LeaveEnd != nil {
		fields = append(fields, document.Field{
			Label: "Leave Period",
			Value: fmt.Sprintf("%s to %s", r.LeaveStart.Format("02 Jan 2006"), r.LeaveEnd.Format("02 Jan 2006")),
		})
	}

	var details map[string]any
	if len(r.Details) == 0 || json.Unmarshal(r.Details, &details) != nil {
		return fields
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch k {
		case "priority", "leave_start", "leave_end":
			continue
		}
		v, ok := details[k].(string)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		label, ok := detailLabels[k]
		if !ok {
			label = strings.ReplaceAll(k, "_", " ")
		}
		fields = append(fields, document.Field{Label: label, Value: v})
	}
	return fields
}
