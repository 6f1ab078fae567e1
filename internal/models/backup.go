package models

import "time"

// BackupMetadata describes a single on-disk database backup.
type BackupMetadata struct {
	Filename       string         `json:"filename"`
	FilePath       string         `json:"file_path"`
	CreatedAt      time.Time      `json:"created_at"`
	FileSize       int64          `json:"file_size"`
	Checksum       string         `json:"checksum"`
	AppVersion     string         `json:"app_version"`
	DatabaseSize   int64          `json:"database_size"`
	CompressedSize int64          `json:"compressed_size"`
	TableCounts    map[string]int `json:"table_counts,omitempty"`
}

// BackupMetadataFile is the JSON sidecar written next to each backup.
type BackupMetadataFile struct {
	AppVersion     string         `json:"app_version"`
	DatabaseSize   int64          `json:"database_size"`
	CompressedSize int64          `json:"compressed_size"`
	Checksum       string         `json:"checksum"`
	CreatedAt      time.Time      `json:"created_at"`
	TableCounts    map[string]int `json:"table_counts"`
}
