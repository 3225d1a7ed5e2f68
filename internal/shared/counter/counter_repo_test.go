package counter_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"e-approval/internal/shared/counter"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCounterDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:counter_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE serial_counters (
			scope TEXT NOT NULL,
			counter_type TEXT NOT NULL,
			last_value INTEGER NOT NULL,
			updated_at TIMESTAMP,
			PRIMARY KEY (scope, counter_type)
		)
	`).Error
	require.NoError(t, err)
	return db
}

func TestCounterRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()

	t.Run("success increments per scope", func(t *testing.T) {
		repo := counter.NewRepository(setupCounterDB(t))

		first, err := repo.GetNextValue(ctx, "2026", counter.RequestSerialCounter)
		assert.NoError(t, err)
		second, err := repo.GetNextValue(ctx, "2026", counter.RequestSerialCounter)
		assert.NoError(t, err)
		otherYear, err := repo.GetNextValue(ctx, "2027", counter.RequestSerialCounter)
		assert.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
		assert.Equal(t, int64(1), otherYear)
	})
}

func TestCounterRepository_EnsureAtLeast(t *testing.T) {
	ctx := context.Background()

	t.Run("success raises floor", func(t *testing.T) {
		repo := counter.NewRepository(setupCounterDB(t))

		assert.NoError(t, repo.EnsureAtLeast(ctx, "2026", counter.RequestSerialCounter, 41))
		next, err := repo.GetNextValue(ctx, "2026", counter.RequestSerialCounter)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), next)
	})

	t.Run("negative never lowers", func(t *testing.T) {
		repo := counter.NewRepository(setupCounterDB(t))

		assert.NoError(t, repo.EnsureAtLeast(ctx, "2026", counter.RequestSerialCounter, 10))
		assert.NoError(t, repo.EnsureAtLeast(ctx, "2026", counter.RequestSerialCounter, 3))
		next, err := repo.GetNextValue(ctx, "2026", counter.RequestSerialCounter)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), next)
	})
}
