package counter

import (
	"context"

	"gorm.io/gorm"
)

// RequestSerialCounter is the counter type backing REQ-<year>-<seq> serial numbers.
const RequestSerialCounter = "request_serial"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	// GetNextValue atomically increments the (scope, counterType) sequence and returns the new value.
	GetNextValue(ctx context.Context, scope string, counterType string) (int64, error)
	// EnsureAtLeast raises the stored value to floor without ever lowering it.
	EnsureAtLeast(ctx context.Context, scope string, counterType string, floor int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, scope string, counterType string) (int64, error) {
	var nextValue int64

	// single UPSERT so concurrent callers never observe the same value
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO serial_counters (scope, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (scope, counter_type) DO UPDATE
		SET last_value = serial_counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, scope, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

func (r *repository) EnsureAtLeast(ctx context.Context, scope string, counterType string, floor int64) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO serial_counters (scope, counter_type, last_value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (scope, counter_type) DO UPDATE
		SET last_value = CASE
			WHEN serial_counters.last_value < excluded.last_value THEN excluded.last_value
			ELSE serial_counters.last_value
		END,
		updated_at = CURRENT_TIMESTAMP
	`, scope, counterType, floor).Error
}
