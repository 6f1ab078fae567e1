// Package scheduler runs recurring maintenance jobs for beatbrain.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/beatbrain/beatbrain/internal/models"
)

// cronParser accepts 6-field expressions with a leading seconds field, and
// 5-field expressions without one.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// BackupScheduler triggers scheduled database backups and prunes old ones.
type BackupScheduler struct {
	mu sync.Mutex

	backups  backupJobs
	cronExpr string
	logger   *slog.Logger

	cron    *cron.Cron
	entryID cron.EntryID
	running bool
}

// backupJobs is the subset of the backup service the scheduler drives.
type backupJobs interface {
	CreateBackup(ctx context.Context) (*models.BackupMetadata, error)
	CleanupOldBackups(ctx context.Context) (int, error)
}

// NewBackupScheduler creates a scheduler that runs backups on cronExpr.
func NewBackupScheduler(backups backupJobs, cronExpr string) *BackupScheduler {
	return &BackupScheduler{
		backups:  backups,
		cronExpr: cronExpr,
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (s *BackupScheduler) WithLogger(logger *slog.Logger) *BackupScheduler {
	s.logger = logger
	return s
}

// Start validates the schedule and begins running it.
func (s *BackupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("backup scheduler already started")
	}

	s.cron = cron.New(cron.WithParser(cronParser))
	id, err := s.cron.AddFunc(s.cronExpr, s.runBackup)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.cronExpr, err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("backup scheduler started",
		slog.String("cron", s.cronExpr),
		slog.Time("next_run", s.cron.Entry(id).Next))
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("backup scheduler stopped")
}

// NextRun returns the time of the next scheduled backup, or the zero time
// when the scheduler is not running.
func (s *BackupScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *BackupScheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	meta, err := s.backups.CreateBackup(ctx)
	if err != nil {
		s.logger.Error("scheduled backup failed", slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled backup complete", slog.String("filename", meta.Filename))
	if _, err := s.backups.CleanupOldBackups(ctx); err != nil {
		s.logger.Warn("backup cleanup failed", slog.Any("error", err))
	}
}

// ValidateCron checks a backup schedule expression.
func ValidateCron(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}
