// Package migrations provides schema migration management for the beatbrain
// application database. Migrations are plain (version, name, up, down)
// records registered in a static ordered list and applied one transaction
// per version.
package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration represents a single database migration. Versions are strictly
// increasing integers; Up is required, Down is optional (nil means the
// migration cannot be undone and rollback skips its body).
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
	Down    func(tx *gorm.DB) error
}

// Record tracks applied migrations in the database.
type Record struct {
	Version   int       `gorm:"primarykey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for migration records.
func (Record) TableName() string {
	return "schema_migrations"
}

// Migrator applies versioned schema changes and tracks what has run.
type Migrator struct {
	db         *gorm.DB
	logger     *slog.Logger
	migrations []Migration
}

// NewMigrator creates a new Migrator instance.
func NewMigrator(db *gorm.DB, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		db:         db,
		logger:     logger,
		migrations: make([]Migration, 0),
	}
}

// Register adds a single migration to the registry without applying it.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
}

// RegisterAll adds multiple migrations to the registry without applying them.
func (m *Migrator) RegisterAll(migrations []Migration) {
	m.migrations = append(m.migrations, migrations...)
}

// Init creates the migration tracking table if it doesn't exist.
// Safe to call repeatedly.
func (m *Migrator) Init(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&Record{})
}

// CurrentVersion returns the maximum applied version, or 0 if none applied.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version *int
	err := m.db.WithContext(ctx).
		Model(&Record{}).
		Select("MAX(version)").
		Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

// Up applies all pending migrations in ascending version order. Pending
// means version > current. Each migration runs in its own transaction
// together with its tracking-row insert; the first failure aborts the run
// and rolls back only that migration, leaving earlier commits applied.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.Init(ctx); err != nil {
		return fmt.Errorf("initializing migrations table: %w", err)
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	pending := m.sorted()
	for _, migration := range pending {
		if migration.Version <= current {
			continue
		}

		m.logger.InfoContext(ctx, "applying migration",
			slog.Int("version", migration.Version),
			slog.String("name", migration.Name),
		)

		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// Rollback reverts applied migrations down to (and excluding) target.
// A negative target means one step back from the current version.
// Migrations are processed in descending version order; each Down plus its
// tracking-row delete commits per migration, so a failure leaves earlier
// rollbacks committed.
func (m *Migrator) Rollback(ctx context.Context, target int) error {
	if err := m.Init(ctx); err != nil {
		return fmt.Errorf("initializing migrations table: %w", err)
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		m.logger.InfoContext(ctx, "no migrations to rollback")
		return nil
	}
	if target < 0 {
		target = current - 1
	}

	byVersion := make(map[int]Migration, len(m.migrations))
	for _, migration := range m.migrations {
		byVersion[migration.Version] = migration
	}

	var records []Record
	if err := m.db.WithContext(ctx).
		Where("version > ? AND version <= ?", target, current).
		Order("version DESC").
		Find(&records).Error; err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	for _, record := range records {
		migration, ok := byVersion[record.Version]
		if !ok {
			return fmt.Errorf("migration definition not found for version %d", record.Version)
		}

		m.logger.InfoContext(ctx, "rolling back migration",
			slog.Int("version", migration.Version),
			slog.String("name", migration.Name),
		)

		if err := m.revert(ctx, migration); err != nil {
			return fmt.Errorf("rolling back migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// Status represents the status of a single registered migration.
type Status struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Statuses returns the applied state of all registered migrations in
// ascending version order.
func (m *Migrator) Statuses(ctx context.Context) ([]Status, error) {
	if err := m.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing migrations table: %w", err)
	}

	var records []Record
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting applied migrations: %w", err)
	}
	applied := make(map[int]Record, len(records))
	for _, record := range records {
		applied[record.Version] = record
	}

	statuses := make([]Status, 0, len(m.migrations))
	for _, migration := range m.sorted() {
		status := Status{
			Version: migration.Version,
			Name:    migration.Name,
		}
		if record, ok := applied[migration.Version]; ok {
			status.Applied = true
			status.AppliedAt = &record.AppliedAt
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// sorted returns the registered migrations in ascending version order,
// regardless of registration order.
func (m *Migrator) sorted() []Migration {
	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out
}

// apply runs a single migration and its tracking insert in one transaction.
func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		record := Record{
			Version:   migration.Version,
			Name:      migration.Name,
			AppliedAt: time.Now().UTC(),
		}
		return tx.Create(&record).Error
	})
}

// revert runs a migration's Down (when present) and deletes its tracking
// row in one transaction.
func (m *Migrator) revert(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if migration.Down != nil {
			if err := migration.Down(tx); err != nil {
				return err
			}
		}
		return tx.Where("version = ?", migration.Version).Delete(&Record{}).Error
	})
}
