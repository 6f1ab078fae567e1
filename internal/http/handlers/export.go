package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/service"
)

// ExportHandler handles playlist export API endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Register registers the export routes with the API.
func (h *ExportHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "previewPlaylistExport",
		Method:      "GET",
		Path:        "/api/v1/playlists/{id}/export/preview",
		Summary:     "Preview M3U content",
		Description: "Renders the playlist as Extended M3U without writing a file",
		Tags:        []string{"Export"},
	}, h.Preview)

	huma.Register(api, huma.Operation{
		OperationID: "exportPlaylist",
		Method:      "POST",
		Path:        "/api/v1/playlists/{id}/export",
		Summary:     "Export a playlist to disk",
		Description: "Writes the playlist as an Extended M3U file",
		Tags:        []string{"Export"},
	}, h.Export)
}

// exportErr maps export failures onto HTTP errors.
func exportErr(playlistID int64, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return huma.Error404NotFound(fmt.Sprintf("playlist %d not found", playlistID))
	}
	if errors.Is(err, models.ErrEmptyPlaylist) {
		return huma.Error422UnprocessableEntity("playlist has no tracks to export")
	}
	return huma.Error500InternalServerError("failed to export playlist", err)
}

// PreviewInput is the input for previewing an export.
type PreviewInput struct {
	ID int64 `path:"id" doc:"Playlist ID" minimum:"1"`
}

// PreviewOutput is the output for previewing an export.
type PreviewOutput struct {
	Body struct {
		Content string `json:"content"`
	}
}

// Preview renders the playlist as M3U content.
func (h *ExportHandler) Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	content, err := h.exports.GenerateM3U(ctx, input.ID)
	if err != nil {
		return nil, exportErr(input.ID, err)
	}

	resp := &PreviewOutput{}
	resp.Body.Content = content
	return resp, nil
}

// ExportInput is the input for exporting a playlist.
type ExportInput struct {
	ID   int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	Body struct {
		Path string `json:"path" doc:"Destination file or directory" minLength:"1" maxLength:"4096"`
	}
}

// ExportOutput is the output for exporting a playlist.
type ExportOutput struct {
	Body service.ExportResult
}

// Export writes the playlist to an M3U file.
func (h *ExportHandler) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	result, err := h.exports.ExportToFile(ctx, input.ID, input.Body.Path)
	if err != nil {
		return nil, exportErr(input.ID, err)
	}
	return &ExportOutput{Body: *result}, nil
}
