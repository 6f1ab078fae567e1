package service

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/version"
)

const backupFilePrefix = "beatbrain-backup-"

// BackupService creates and manages compressed snapshots of the application
// database.
type BackupService struct {
	db         *gorm.DB
	storageDir string
	retention  int
	logger     *slog.Logger
}

// NewBackupService creates a new backup service. retention is the number of
// backups to keep; zero or negative disables cleanup.
func NewBackupService(db *gorm.DB, storageDir string, retention int) *BackupService {
	return &BackupService{
		db:         db,
		storageDir: storageDir,
		retention:  retention,
		logger:     slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *BackupService) WithLogger(logger *slog.Logger) *BackupService {
	s.logger = logger
	return s
}

// Directory returns the backup storage directory.
func (s *BackupService) Directory() string {
	return s.storageDir
}

// CreateBackup snapshots the database with VACUUM INTO, compresses it, and
// writes a metadata sidecar.
func (s *BackupService) CreateBackup(ctx context.Context) (*models.BackupMetadata, error) {
	if err := os.MkdirAll(s.storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	timestamp := time.Now().UTC()
	baseName := backupFilePrefix + timestamp.Format("2006-01-02T15-04-05.000")
	dbPath := filepath.Join(s.storageDir, baseName+".db")
	gzPath := filepath.Join(s.storageDir, baseName+".db.gz")
	metaPath := filepath.Join(s.storageDir, baseName+".meta.json")

	if _, err := os.Stat(gzPath); err == nil {
		return nil, fmt.Errorf("backup already exists: %s", filepath.Base(gzPath))
	}

	// VACUUM INTO gives a consistent snapshot without blocking writers.
	s.logger.Debug("creating backup", slog.String("path", dbPath))
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", dbPath).Error; err != nil {
		return nil, fmt.Errorf("vacuum into backup: %w", err)
	}

	dbInfo, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup db: %w", err)
	}
	uncompressedSize := dbInfo.Size()

	if err := compressFile(dbPath, gzPath); err != nil {
		os.Remove(dbPath)
		return nil, fmt.Errorf("compressing backup: %w", err)
	}
	os.Remove(dbPath)

	gzInfo, err := os.Stat(gzPath)
	if err != nil {
		return nil, fmt.Errorf("stat compressed backup: %w", err)
	}

	checksum, err := fileChecksum(gzPath)
	if err != nil {
		return nil, fmt.Errorf("calculating checksum: %w", err)
	}

	tableCounts := s.tableCounts(ctx)

	metaFile := &models.BackupMetadataFile{
		AppVersion:     version.Version,
		DatabaseSize:   uncompressedSize,
		CompressedSize: gzInfo.Size(),
		Checksum:       checksum,
		CreatedAt:      timestamp,
		TableCounts:    tableCounts,
	}
	metaJSON, err := json.MarshalIndent(metaFile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0o644); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	meta := &models.BackupMetadata{
		Filename:       filepath.Base(gzPath),
		FilePath:       gzPath,
		CreatedAt:      timestamp,
		FileSize:       gzInfo.Size(),
		Checksum:       checksum,
		AppVersion:     version.Version,
		DatabaseSize:   uncompressedSize,
		CompressedSize: gzInfo.Size(),
		TableCounts:    tableCounts,
	}

	s.logger.Info("backup created",
		slog.String("filename", meta.Filename),
		slog.Int64("size", meta.FileSize))

	return meta, nil
}

// ListBackups returns all backups sorted newest first.
func (s *BackupService) ListBackups(ctx context.Context) ([]*models.BackupMetadata, error) {
	entries, err := os.ReadDir(s.storageDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.BackupMetadata{}, nil
		}
		return nil, err
	}

	var backups []*models.BackupMetadata
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".db.gz") {
			continue
		}
		meta, err := s.loadBackupMetadata(filepath.Join(s.storageDir, entry.Name()))
		if err != nil {
			s.logger.Warn("failed to load backup metadata",
				slog.String("filename", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}
		backups = append(backups, meta)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// DeleteBackup removes a backup file and its metadata sidecar.
func (s *BackupService) DeleteBackup(ctx context.Context, filename string) error {
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid filename")
	}

	backupPath := filepath.Join(s.storageDir, filename)
	metaPath := strings.TrimSuffix(backupPath, ".db.gz") + ".meta.json"

	if err := os.Remove(backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing backup file: %w", err)
	}
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove metadata file",
			slog.String("path", metaPath),
			slog.String("error", err.Error()))
	}

	s.logger.Info("backup deleted", slog.String("filename", filename))
	return nil
}

// RestoreBackup verifies a backup's checksum and installs it as the live
// database file. The caller must reopen the database afterwards.
func (s *BackupService) RestoreBackup(ctx context.Context, filename string) error {
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid filename")
	}

	backupPath := filepath.Join(s.storageDir, filename)
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	meta, err := s.loadBackupMetadata(backupPath)
	if err != nil {
		return fmt.Errorf("loading backup metadata: %w", err)
	}
	if meta.Checksum != "" {
		checksum, err := fileChecksum(backupPath)
		if err != nil {
			return fmt.Errorf("calculating checksum: %w", err)
		}
		if checksum != meta.Checksum {
			return fmt.Errorf("checksum mismatch: backup may be corrupted")
		}
	}

	// Snapshot the current database first so a bad restore can be undone.
	preRestore, err := s.CreateBackup(ctx)
	if err != nil {
		return fmt.Errorf("creating pre-restore backup: %w", err)
	}

	tempDB, err := os.CreateTemp(s.storageDir, "restore-*.db")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempDB.Name()
	tempDB.Close()

	if err := decompressFile(backupPath, tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("decompressing backup: %w", err)
	}
	if err := validateDatabase(tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("validating restored database: %w", err)
	}

	currentDBPath := s.databasePath()
	if currentDBPath == "" {
		os.Remove(tempPath)
		return fmt.Errorf("could not determine current database path")
	}

	oldPath := currentDBPath + ".old"
	os.Remove(oldPath)
	if err := os.Rename(currentDBPath, oldPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("backing up current database: %w", err)
	}
	if err := os.Rename(tempPath, currentDBPath); err != nil {
		os.Rename(oldPath, currentDBPath)
		return fmt.Errorf("installing restored database: %w", err)
	}
	os.Remove(oldPath)

	s.logger.Info("database restored",
		slog.String("from_backup", filename),
		slog.String("pre_restore_backup", preRestore.Filename))
	return nil
}

// CleanupOldBackups deletes the oldest backups beyond the retention limit
// and reports how many were removed.
func (s *BackupService) CleanupOldBackups(ctx context.Context) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= s.retention {
		return 0, nil
	}

	deleted := 0
	for i := s.retention; i < len(backups); i++ {
		if err := s.DeleteBackup(ctx, backups[i].Filename); err != nil {
			s.logger.Warn("failed to delete old backup",
				slog.String("filename", backups[i].Filename),
				slog.String("error", err.Error()))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("cleaned up old backups", slog.Int("deleted", deleted))
	}
	return deleted, nil
}

func (s *BackupService) tableCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	tables := []string{"playlists", "playlist_tracks", "app_settings", "user_preferences"}
	for _, table := range tables {
		var count int64
		if err := s.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			continue
		}
		counts[table] = int(count)
	}
	return counts
}

func (s *BackupService) loadBackupMetadata(backupPath string) (*models.BackupMetadata, error) {
	info, err := os.Stat(backupPath)
	if err != nil {
		return nil, err
	}

	metaPath := strings.TrimSuffix(backupPath, ".db.gz") + ".meta.json"
	var metaFile models.BackupMetadataFile
	if metaData, err := os.ReadFile(metaPath); err == nil {
		if err := json.Unmarshal(metaData, &metaFile); err != nil {
			s.logger.Warn("failed to parse metadata file",
				slog.String("path", metaPath),
				slog.String("error", err.Error()))
		}
	}

	createdAt := metaFile.CreatedAt
	if createdAt.IsZero() {
		createdAt = parseBackupTimestamp(filepath.Base(backupPath))
		if createdAt.IsZero() {
			createdAt = info.ModTime()
		}
	}

	return &models.BackupMetadata{
		Filename:       filepath.Base(backupPath),
		FilePath:       backupPath,
		CreatedAt:      createdAt,
		FileSize:       info.Size(),
		Checksum:       metaFile.Checksum,
		AppVersion:     metaFile.AppVersion,
		DatabaseSize:   metaFile.DatabaseSize,
		CompressedSize: metaFile.CompressedSize,
		TableCounts:    metaFile.TableCounts,
	}, nil
}

func (s *BackupService) databasePath() string {
	sqlDB, err := s.db.DB()
	if err != nil {
		return ""
	}

	var seq int
	var name, dbPath string
	row := sqlDB.QueryRow("PRAGMA database_list")
	if err := row.Scan(&seq, &name, &dbPath); err != nil {
		return ""
	}
	return dbPath
}

func compressFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	gzWriter := gzip.NewWriter(dstFile)
	defer gzWriter.Close()

	_, err = io.Copy(gzWriter, srcFile)
	return err
}

func decompressFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	gzReader, err := gzip.NewReader(srcFile)
	if err != nil {
		return err
	}
	defer gzReader.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, gzReader)
	return err
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

func validateDatabase(dbPath string) error {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	defer sqlDB.Close()

	var result string
	if err := db.Raw("PRAGMA integrity_check").Scan(&result).Error; err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database integrity check failed: %s", result)
	}
	return nil
}

var backupTimestampRe = regexp.MustCompile(regexp.QuoteMeta(backupFilePrefix) + `(\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.\d{3})\.db\.gz`)

func parseBackupTimestamp(filename string) time.Time {
	matches := backupTimestampRe.FindStringSubmatch(filename)
	if len(matches) != 2 {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02T15-04-05.000", matches[1])
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
