package document

import "time"

// Snapshot is the renderer's read-only view of a request at one moment.
type Snapshot struct {
	SerialNumber       string
	RequestType        string
	FinalStatus        string
	StaffName          string
	StaffDepartment    string
	CreatedAt          time.Time
	Fields             []Field
	Items              []Item
	TotalEstimatedCost string
	Attachments        []string
	Approvals          []Approval
	Maintenance        *Maintenance
}

type Field struct {
	Label string
	Value string
}

type Item struct {
	Name          string
	Quantity      int
	EstimatedCost string
	Supplier      string
	Reason        string
}

type Approval struct {
	Level              int
	ApproverName       string
	ApproverDepartment string
	Status             string
	Remark             string
	Signed             bool
	ActionDate         *time.Time
}

type Maintenance struct {
	Status                string
	Priority              string
	TechnicianName        string
	SLAHours              int
	StartedAt             *time.Time
	CompletedAt           *time.Time
	TimeToCompleteMinutes *int
}
