package app

import (
	"fmt"

	"e-approval/internal/request"
	"e-approval/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tables written through raw SQL have no gorm model.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS serial_counters (
		scope        VARCHAR(50)  NOT NULL,
		counter_type VARCHAR(50)  NOT NULL,
		last_value   BIGINT       NOT NULL DEFAULT 0,
		updated_at   TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scope, counter_type)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id             UUID         PRIMARY KEY,
		request_id     VARCHAR(64),
		aggregate_type VARCHAR(50)  NOT NULL,
		aggregate_id   UUID         NOT NULL,
		event_type     VARCHAR(100) NOT NULL,
		topic          VARCHAR(255) NOT NULL,
		payload        JSONB        NOT NULL,
		status         VARCHAR(20)  NOT NULL DEFAULT 'pending',
		retry_count    INT          NOT NULL DEFAULT 0,
		next_retry_at  TIMESTAMPTZ,
		error_message  TEXT,
		processed_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, next_retry_at, created_at)`,
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&user.User{},
		&request.Request{},
		&request.ApprovalStep{},
		&request.Item{},
		&request.Attachment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	logger.Info("database schema up to date")
	return nil
}
