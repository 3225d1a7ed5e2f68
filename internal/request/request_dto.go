package request

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ApprovalInput struct {
	Level              int    `json:"level"`
	ApproverID         string `json:"approver_id"`
	ApproverName       string `json:"approver_name"`
	ApproverDepartment string `json:"approver_department"`
}

type ItemInput struct {
	Name          string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Supplier      string          `json:"supplier"`
	Reason        string          `json:"reason"`
}

// FileUpload is an attachment already read off the wire.
type FileUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

type CreateRequestInput struct {
	RequestType    string          `json:"request_type" binding:"required"`
	Details        map[string]any  `json:"details"`
	Items          []ItemInput     `json:"items" binding:"omitempty,dive"`
	Approvals      []ApprovalInput `json:"approvals"`
	Priority       string          `json:"priority" binding:"omitempty,max=20"`
	SignatureStaff string          `json:"signature_staff"`
	LeaveStart     string          `json:"leave_start" binding:"omitempty,datetime=2006-01-02"`
	LeaveEnd       string          `json:"leave_end" binding:"omitempty,datetime=2006-01-02"`
	Files          []FileUpload    `json:"-"`
}

type DecisionInput struct {
	Remark       string `json:"remark" binding:"max=2000"`
	Signature    string `json:"signature"`
	TechnicianID string `json:"technician_id" binding:"omitempty,uuid"`
}

type AssignTechnicianInput struct {
	TechnicianID string `json:"technician_id" binding:"required,uuid"`
}

type ListRequestsQuery struct {
	RequestType  string
	FinalStatus  string
	RequestorID  string
	ApproverID   string
	TechnicianID string
	From         *time.Time
	To           *time.Time
	Oldest       bool
}

// Viewer is who is asking to read a request.
type Viewer struct {
	ID   string
	Role string
}

type ApprovalResponse struct {
	Level              int        `json:"level"`
	ApproverID         string     `json:"approver_id"`
	ApproverName       string     `json:"approver_name"`
	ApproverDepartment string     `json:"approver_department"`
	Status             string     `json:"status"`
	Remark             string     `json:"remark,omitempty"`
	Signature          *string    `json:"signature,omitempty"`
	ActionDate         *time.Time `json:"action_date,omitempty"`
}

type ItemResponse struct {
	Name          string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	EstimatedCost string `json:"estimated_cost"`
	Supplier      string `json:"supplier,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type AttachmentResponse struct {
	OriginalName string `json:"original_name"`
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

type MaintenanceResponse struct {
	TechnicianID          string     `json:"technician_id,omitempty"`
	Status                string     `json:"status,omitempty"`
	SLAHours              *int       `json:"sla_hours,omitempty"`
	StartedAt             *time.Time `json:"started_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	TimeToCompleteMinutes *int       `json:"time_to_complete_minutes,omitempty"`
}

type RequestResponse struct {
	ID                 string               `json:"id"`
	SerialNumber       string               `json:"serial_number"`
	RequestorID        string               `json:"requestor_id"`
	StaffName          string               `json:"staff_name"`
	StaffDepartment    string               `json:"staff_department"`
	RequestType        string               `json:"request_type"`
	Details            json.RawMessage      `json:"details,omitempty"`
	Priority           string               `json:"priority,omitempty"`
	SignatureStaff     *string              `json:"signature_staff,omitempty"`
	LeaveStart         string               `json:"leave_start,omitempty"`
	LeaveEnd           string               `json:"leave_end,omitempty"`
	TotalEstimatedCost string               `json:"total_estimated_cost"`
	FinalStatus        string               `json:"final_status"`
	Approvals          []ApprovalResponse   `json:"approvals"`
	Items              []ItemResponse       `json:"items,omitempty"`
	Attachments        []AttachmentResponse `json:"attachments,omitempty"`
	Maintenance        *MaintenanceResponse `json:"maintenance,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type CreateResult struct {
	Request  RequestResponse
	Warnings []string
}
