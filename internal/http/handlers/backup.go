package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/service"
)

// BackupHandler handles database backup API endpoints.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Register registers the backup routes with the API.
func (h *BackupHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listBackups",
		Method:      "GET",
		Path:        "/api/v1/backups",
		Summary:     "List backups",
		Description: "Returns all backups, newest first",
		Tags:        []string{"Backups"},
	}, h.ListBackups)

	huma.Register(api, huma.Operation{
		OperationID: "createBackup",
		Method:      "POST",
		Path:        "/api/v1/backups",
		Summary:     "Create a backup",
		Description: "Snapshots the application database",
		Tags:        []string{"Backups"},
	}, h.CreateBackup)

	huma.Register(api, huma.Operation{
		OperationID: "deleteBackup",
		Method:      "DELETE",
		Path:        "/api/v1/backups/{filename}",
		Summary:     "Delete a backup",
		Tags:        []string{"Backups"},
	}, h.DeleteBackup)

	huma.Register(api, huma.Operation{
		OperationID: "restoreBackup",
		Method:      "POST",
		Path:        "/api/v1/backups/{filename}/restore",
		Summary:     "Restore a backup",
		Description: "Verifies the backup and installs it as the live database. Requires a restart afterwards",
		Tags:        []string{"Backups"},
	}, h.RestoreBackup)
}

// ListBackupsInput is the input for listing backups.
type ListBackupsInput struct{}

// ListBackupsOutput is the output for listing backups.
type ListBackupsOutput struct {
	Body struct {
		Backups []BackupResponse `json:"backups"`
	}
}

// ListBackups returns all backups.
func (h *BackupHandler) ListBackups(ctx context.Context, input *ListBackupsInput) (*ListBackupsOutput, error) {
	backups, err := h.backups.ListBackups(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list backups", err)
	}

	resp := &ListBackupsOutput{}
	resp.Body.Backups = make([]BackupResponse, len(backups))
	for i, b := range backups {
		resp.Body.Backups[i] = BackupFromModel(b)
	}
	return resp, nil
}

// CreateBackupInput is the input for creating a backup.
type CreateBackupInput struct{}

// CreateBackupOutput is the output for creating a backup.
type CreateBackupOutput struct {
	Status int
	Body   BackupResponse
}

// CreateBackup snapshots the application database.
func (h *BackupHandler) CreateBackup(ctx context.Context, input *CreateBackupInput) (*CreateBackupOutput, error) {
	meta, err := h.backups.CreateBackup(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create backup", err)
	}
	return &CreateBackupOutput{Status: 201, Body: BackupFromModel(meta)}, nil
}

// DeleteBackupInput is the input for deleting a backup.
type DeleteBackupInput struct {
	Filename string `path:"filename" doc:"Backup filename" minLength:"1" maxLength:"255"`
}

// DeleteBackupOutput is the output for deleting a backup.
type DeleteBackupOutput struct {
	Status int
}

// DeleteBackup removes a backup.
func (h *BackupHandler) DeleteBackup(ctx context.Context, input *DeleteBackupInput) (*DeleteBackupOutput, error) {
	if err := h.backups.DeleteBackup(ctx, input.Filename); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete backup", err)
	}
	return &DeleteBackupOutput{Status: 204}, nil
}

// RestoreBackupInput is the input for restoring a backup.
type RestoreBackupInput struct {
	Filename string `path:"filename" doc:"Backup filename" minLength:"1" maxLength:"255"`
}

// RestoreBackupOutput is the output for restoring a backup.
type RestoreBackupOutput struct {
	Body struct {
		Restored bool   `json:"restored"`
		Message  string `json:"message"`
	}
}

// RestoreBackup installs a backup as the live database.
func (h *BackupHandler) RestoreBackup(ctx context.Context, input *RestoreBackupInput) (*RestoreBackupOutput, error) {
	if err := h.backups.RestoreBackup(ctx, input.Filename); err != nil {
		return nil, huma.Error500InternalServerError("failed to restore backup", err)
	}

	resp := &RestoreBackupOutput{}
	resp.Body.Restored = true
	resp.Body.Message = "database restored; restart the application to reload"
	return resp, nil
}
