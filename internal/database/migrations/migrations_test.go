package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testMigration(version int, name, table string) Migration {
	return Migration{
		Version: version,
		Name:    name,
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE " + table).Error
		},
	}
}

func TestMigrator_Up_AppliesInVersionOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	// Registered out of order on purpose
	migrator.Register(testMigration(3, "third", "t3"))
	migrator.Register(testMigration(1, "first", "t1"))
	migrator.Register(testMigration(2, "second", "t2"))

	require.NoError(t, migrator.Up(ctx))

	var records []Record
	require.NoError(t, db.Order("version").Find(&records).Error)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Version)
	assert.Equal(t, 2, records[1].Version)
	assert.Equal(t, 3, records[2].Version)

	for _, table := range []string{"t1", "t2", "t3"} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestMigrator_Up_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.Register(testMigration(1, "first", "t1"))

	require.NoError(t, migrator.Up(ctx))
	// A second run must not re-apply anything; re-creating t1 would fail.
	require.NoError(t, migrator.Up(ctx))

	current, err := migrator.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
}

func TestMigrator_Up_StopsAtFailure(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	migrator := NewMigrator(db, nil)
	migrator.Register(testMigration(1, "first", "t1"))
	migrator.Register(Migration{
		Version: 2,
		Name:    "broken",
		Up:      func(tx *gorm.DB) error { return boom },
	})
	migrator.Register(testMigration(3, "third", "t3"))

	err := migrator.Up(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// Migration 1 stays applied, 2 and 3 do not
	current, verr := migrator.CurrentVersion(ctx)
	require.NoError(t, verr)
	assert.Equal(t, 1, current)
	assert.False(t, db.Migrator().HasTable("t3"))
}

func TestMigrator_Rollback(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.Register(testMigration(1, "first", "t1"))
	migrator.Register(testMigration(2, "second", "t2"))
	migrator.Register(testMigration(3, "third", "t3"))

	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, migrator.Rollback(ctx, 1))

	current, err := migrator.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, current)

	assert.True(t, db.Migrator().HasTable("t1"))
	assert.False(t, db.Migrator().HasTable("t2"))
	assert.False(t, db.Migrator().HasTable("t3"))
}

func TestMigrator_Rollback_NilDownUnregistersOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.Register(testMigration(1, "first", "t1"))
	migrator.Register(Migration{
		Version: 2,
		Name:    "one-way",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE t2 (id INTEGER PRIMARY KEY)").Error
		},
	})

	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, migrator.Rollback(ctx, 1))

	current, err := migrator.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, current)

	// The schema change stays; only the record is gone.
	assert.True(t, db.Migrator().HasTable("t2"))
}

func TestMigrator_CurrentVersion_Empty(t *testing.T) {
	db := setupTestDB(t)

	migrator := NewMigrator(db, nil)
	current, err := migrator.CurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, current)
}

func TestMigrator_Statuses(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.Register(testMigration(1, "first", "t1"))
	migrator.Register(testMigration(2, "second", "t2"))

	statuses, err := migrator.Statuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Applied)
	assert.Nil(t, statuses[0].AppliedAt)

	require.NoError(t, migrator.Up(ctx))

	statuses, err = migrator.Statuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied)
		assert.NotNil(t, s.AppliedAt)
	}
}
