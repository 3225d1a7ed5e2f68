package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TypeLeave       = "LEAVE"
	TypePurchase    = "PURCHASE"
	TypeITSupport   = "IT_SUPPORT"
	TypeMaintenance = "MAINTENANCE"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
)

const (
	MaintenanceSubmitted  = "SUBMITTED"
	MaintenanceInProgress = "IN_PROGRESS"
	MaintenanceCompleted  = "COMPLETED"
)

const (
	PriorityUrgent = "URGENT"
	PriorityNormal = "NORMAL"
)

type Request struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SerialNumber    string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_requests_serial_number"`
	RequestorID     uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_requestor"`
	StaffName       string    `gorm:"type:varchar(255);not null"`
	StaffDepartment string    `gorm:"type:varchar(120)"`
	RequestType     string    `gorm:"type:varchar(20);not null;index:idx_requests_type_status"`
	Details         datatypes.JSON
	SignatureStaff  *string `gorm:"type:text"`
	Priority        string  `gorm:"type:varchar(20)"`

	LeaveStart *time.Time
	LeaveEnd   *time.Time

	TotalEstimatedCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	FinalStatus string `gorm:"type:varchar(20);not null;default:PENDING;index:idx_requests_type_status"`

	AssignedTechnicianID  *uuid.UUID `gorm:"type:uuid;index:idx_requests_technician"`
	MaintenanceStatus     *string    `gorm:"type:varchar(20)"`
	SLAHours              *int
	StartedAt             *time.Time
	CompletedAt           *time.Time
	TimeToCompleteMinutes *int

	CreatedAt time.Time `gorm:"index:idx_requests_created_at"`
	UpdatedAt time.Time

	Approvals   []ApprovalStep `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Items       []Item         `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Attachments []Attachment   `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// ApprovalStep is one approver's position in the chain. Position keeps submission order.
type ApprovalStep struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID          uuid.UUID `gorm:"type:uuid;not null;index:idx_request_approvals_request"`
	Position           int       `gorm:"not null"`
	Level              int       `gorm:"not null"`
	ApproverID         uuid.UUID `gorm:"type:uuid;not null;index:idx_request_approvals_approver"`
	ApproverName       string    `gorm:"type:varchar(255)"`
	ApproverDepartment string    `gorm:"type:varchar(120)"`
	Status             string    `gorm:"type:varchar(20);not null;default:PENDING"`
	Remark             string    `gorm:"type:text"`
	Signature          *string   `gorm:"type:text"`
	ActionDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ApprovalStep) TableName() string { return "request_approvals" }

type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RequestID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_request_items_request"`
	Position      int             `gorm:"not null"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Quantity      int             `gorm:"not null"`
	EstimatedCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Supplier      string          `gorm:"type:varchar(255)"`
	Reason        string          `gorm:"type:text"`
}

func (Item) TableName() string { return "request_items" }

type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index:idx_request_attachments_request"`
	Position     int       `gorm:"not null"`
	OriginalName string    `gorm:"type:varchar(255)"`
	FileName     string    `gorm:"type:varchar(255)"`
	URL          string    `gorm:"type:text;not null"`
	MimeType     string    `gorm:"type:varchar(120)"`
	Size         int64
	CreatedAt    time.Time
}

func (Attachment) TableName() string { return "request_attachments" }

func (r *Request) IsMaintenance() bool {
	return r.RequestType == TypeMaintenance
}
