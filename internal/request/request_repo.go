package request

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Request, error)
	FindLatestBySerialPrefix(ctx context.Context, prefix string) (*Request, error)
	Update(ctx context.Context, r *Request) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Request, error)
}

type ListFilter struct {
	RequestType         string
	FinalStatus         string
	RequestorID         string
	ApproverID          string
	TechnicianID        string
	MaintenanceStatuses []string
	CreatedFrom         *time.Time
	CreatedTo           *time.Time
	Oldest              bool
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to a transaction opened on the same *sql.DB gorm wraps.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	tdb := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	tdb.Statement.ConnPool = tx
	return &repository{db: tdb}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.preload(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate row-locks the request on postgres so concurrent decisions serialize.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Request, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var req Request
	if err := q.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// FindLatestBySerialPrefix returns nil when no serial carries the prefix.
func (r *repository) FindLatestBySerialPrefix(ctx context.Context, prefix string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Select("id", "serial_number").
		Where("serial_number LIKE ?", prefix+"%").
		Order("LENGTH(serial_number) DESC").
		Order("serial_number DESC").
		Limit(1).
		Find(&req).Error
	if err != nil {
		return nil, err
	}
	if req.SerialNumber == "" {
		return nil, nil
	}
	return &req, nil
}

// Update writes the request row and the decision columns of its approval steps.
// Items and attachments are immutable after creation.
func (r *repository) Update(ctx context.Context, req *Request) error {
	db := r.db.WithContext(ctx)

	res := db.Model(req).Omit(clause.Associations).Select("*").Updates(req)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for i := range req.Approvals {
		step := &req.Approvals[i]
		err := db.Model(step).
			Select("status", "remark", "signature", "action_date", "updated_at").
			Updates(step).Error
		if err != nil {
			return fmt.Errorf("update approval level %d: %w", step.Level, err)
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	for _, child := range []any{&ApprovalStep{}, &Item{}, &Attachment{}} {
		if err := db.Where("request_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}

	res := db.Where("id = ?", id).Delete(&Request{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Request, error) {
	q := r.preload(r.db.WithContext(ctx).Model(&Request{}))

	if f.RequestType != "" {
		q = q.Where("request_type = ?", f.RequestType)
	}
	if f.FinalStatus != "" {
		q = q.Where("final_status = ?", f.FinalStatus)
	}
	if f.RequestorID != "" {
		q = q.Where("requestor_id = ?", f.RequestorID)
	}
	if f.TechnicianID != "" {
		q = q.Where("assigned_technician_id = ?", f.TechnicianID)
	}
	if len(f.MaintenanceStatuses) > 0 {
		q = q.Where("maintenance_status IN ?", f.MaintenanceStatuses)
	}
	if f.ApproverID != "" {
		q = q.Where(
			"EXISTS (SELECT 1 FROM request_approvals ra WHERE ra.request_id = requests.id AND ra.approver_id = ?)",
			f.ApproverID,
		)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at < ?", *f.CreatedTo)
	}

	if f.Oldest {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	var out []Request
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// loadChildren reads the chain after a locking read so only the request row is locked.
func (r *repository) loadChildren(ctx context.Context, req *Request) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("request_id = ?", req.ID).Order("position ASC").Find(&req.Approvals).Error; err != nil {
		return err
	}
	if err := db.Where("request_id = ?", req.ID).Order("position ASC").Find(&req.Items).Error; err != nil {
		return err
	}
	return db.Where("request_id = ?", req.ID).Order("position ASC").Find(&req.Attachments).Error
}
