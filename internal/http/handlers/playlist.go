package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/repository"
)

// PlaylistHandler handles playlist API endpoints.
type PlaylistHandler struct {
	repo repository.PlaylistRepository
}

// NewPlaylistHandler creates a new playlist handler.
func NewPlaylistHandler(repo repository.PlaylistRepository) *PlaylistHandler {
	return &PlaylistHandler{repo: repo}
}

// isValidationErr reports whether err stems from rejected input rather than
// a storage failure.
func isValidationErr(err error) bool {
	var ve models.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, sentinel := range []error{
		models.ErrNameRequired,
		models.ErrFilePathRequired,
		models.ErrSourceTrackIDRequired,
		models.ErrInvalidTrackSource,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Register registers the playlist routes with the API.
func (h *PlaylistHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listPlaylists",
		Method:      "GET",
		Path:        "/api/v1/playlists",
		Summary:     "List playlists",
		Description: "Returns all playlists with track counts, newest first",
		Tags:        []string{"Playlists"},
	}, h.ListPlaylists)

	huma.Register(api, huma.Operation{
		OperationID: "createPlaylist",
		Method:      "POST",
		Path:        "/api/v1/playlists",
		Summary:     "Create a playlist",
		Description: "Creates a playlist with an optional initial track list",
		Tags:        []string{"Playlists"},
	}, h.CreatePlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "getPlaylist",
		Method:      "GET",
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Get a playlist",
		Description: "Returns a playlist with its tracks in position order",
		Tags:        []string{"Playlists"},
	}, h.GetPlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "updatePlaylist",
		Method:      "PATCH",
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Update a playlist",
		Description: "Renames a playlist or changes its description",
		Tags:        []string{"Playlists"},
	}, h.UpdatePlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "deletePlaylist",
		Method:      "DELETE",
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Delete a playlist",
		Description: "Deletes a playlist and all its tracks",
		Tags:        []string{"Playlists"},
	}, h.DeletePlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "listPlaylistTracks",
		Method:      "GET",
		Path:        "/api/v1/playlists/{id}/tracks",
		Summary:     "List playlist tracks",
		Tags:        []string{"Playlists"},
	}, h.ListTracks)

	huma.Register(api, huma.Operation{
		OperationID: "addPlaylistTrack",
		Method:      "POST",
		Path:        "/api/v1/playlists/{id}/tracks",
		Summary:     "Append a track",
		Description: "Appends a track to the end of the playlist",
		Tags:        []string{"Playlists"},
	}, h.AddTrack)

	huma.Register(api, huma.Operation{
		OperationID: "movePlaylistTrack",
		Method:      "PATCH",
		Path:        "/api/v1/playlists/{id}/tracks/{trackId}",
		Summary:     "Move a track",
		Description: "Sets a track's position within the playlist",
		Tags:        []string{"Playlists"},
	}, h.MoveTrack)

	huma.Register(api, huma.Operation{
		OperationID: "removePlaylistTrack",
		Method:      "DELETE",
		Path:        "/api/v1/playlists/{id}/tracks/{trackId}",
		Summary:     "Remove a track",
		Tags:        []string{"Playlists"},
	}, h.RemoveTrack)

	huma.Register(api, huma.Operation{
		OperationID: "setPlaylistFilters",
		Method:      "PUT",
		Path:        "/api/v1/playlists/{id}/filters",
		Summary:     "Record generation filters",
		Description: "Stores the filter criteria the playlist was assembled from",
		Tags:        []string{"Playlists"},
	}, h.SetFilters)
}

// ListPlaylistsInput is the input for listing playlists.
type ListPlaylistsInput struct{}

// ListPlaylistsOutput is the output for listing playlists.
type ListPlaylistsOutput struct {
	Body struct {
		Playlists []PlaylistResponse `json:"playlists"`
	}
}

// ListPlaylists returns all playlists.
func (h *PlaylistHandler) ListPlaylists(ctx context.Context, input *ListPlaylistsInput) (*ListPlaylistsOutput, error) {
	playlists, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list playlists", err)
	}

	resp := &ListPlaylistsOutput{}
	resp.Body.Playlists = make([]PlaylistResponse, len(playlists))
	for i, p := range playlists {
		resp.Body.Playlists[i] = PlaylistFromModel(p)
	}
	return resp, nil
}

// CreatePlaylistInput is the input for creating a playlist.
type CreatePlaylistInput struct {
	Body CreatePlaylistRequest
}

// CreatePlaylistOutput is the output for creating a playlist.
type CreatePlaylistOutput struct {
	Status int
	Body   PlaylistDetailResponse
}

// CreatePlaylist creates a playlist with optional initial tracks.
func (h *PlaylistHandler) CreatePlaylist(ctx context.Context, input *CreatePlaylistInput) (*CreatePlaylistOutput, error) {
	source := input.Body.TrackSource
	if source == "" {
		source = models.TrackSourceMixxx
	}

	tracks := make([]repository.TrackInput, len(input.Body.Tracks))
	for i, t := range input.Body.Tracks {
		tracks[i] = t.ToInput()
	}

	id, err := h.repo.Create(ctx, input.Body.Name, input.Body.Description, source, tracks)
	if err != nil {
		if isValidationErr(err) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to create playlist", err)
	}

	return h.playlistDetail(ctx, id, 201)
}

// GetPlaylistInput is the input for getting a playlist.
type GetPlaylistInput struct {
	ID int64 `path:"id" doc:"Playlist ID" minimum:"1"`
}

// GetPlaylistOutput is the output for getting a playlist.
type GetPlaylistOutput struct {
	Body PlaylistDetailResponse
}

// GetPlaylist returns a playlist with its tracks.
func (h *PlaylistHandler) GetPlaylist(ctx context.Context, input *GetPlaylistInput) (*GetPlaylistOutput, error) {
	out, err := h.playlistDetail(ctx, input.ID, 200)
	if err != nil {
		return nil, err
	}
	return &GetPlaylistOutput{Body: out.Body}, nil
}

// UpdatePlaylistInput is the input for updating a playlist.
type UpdatePlaylistInput struct {
	ID   int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	Body UpdatePlaylistRequest
}

// UpdatePlaylistOutput is the output for updating a playlist.
type UpdatePlaylistOutput struct {
	Body PlaylistResponse
}

// UpdatePlaylist applies a partial playlist update.
func (h *PlaylistHandler) UpdatePlaylist(ctx context.Context, input *UpdatePlaylistInput) (*UpdatePlaylistOutput, error) {
	update := repository.PlaylistUpdate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	}
	if err := h.repo.Update(ctx, input.ID, update); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to update playlist", err)
	}

	playlist, err := h.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get playlist", err)
	}
	return &UpdatePlaylistOutput{Body: PlaylistFromModel(playlist)}, nil
}

// DeletePlaylistInput is the input for deleting a playlist.
type DeletePlaylistInput struct {
	ID int64 `path:"id" doc:"Playlist ID" minimum:"1"`
}

// DeletePlaylistOutput is the output for deleting a playlist.
type DeletePlaylistOutput struct {
	Status int
}

// DeletePlaylist deletes a playlist and its tracks.
func (h *PlaylistHandler) DeletePlaylist(ctx context.Context, input *DeletePlaylistInput) (*DeletePlaylistOutput, error) {
	if err := h.repo.Delete(ctx, input.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to delete playlist", err)
	}
	return &DeletePlaylistOutput{Status: 204}, nil
}

// ListTracksInput is the input for listing playlist tracks.
type ListTracksInput struct {
	ID int64 `path:"id" doc:"Playlist ID" minimum:"1"`
}

// ListTracksOutput is the output for listing playlist tracks.
type ListTracksOutput struct {
	Body struct {
		Tracks []PlaylistTrackResponse `json:"tracks"`
	}
}

// ListTracks returns a playlist's tracks in position order.
func (h *PlaylistHandler) ListTracks(ctx context.Context, input *ListTracksInput) (*ListTracksOutput, error) {
	if _, err := h.repo.GetByID(ctx, input.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to get playlist", err)
	}

	tracks, err := h.repo.GetTracks(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list tracks", err)
	}

	resp := &ListTracksOutput{}
	resp.Body.Tracks = make([]PlaylistTrackResponse, len(tracks))
	for i := range tracks {
		resp.Body.Tracks[i] = PlaylistTrackFromModel(&tracks[i])
	}
	return resp, nil
}

// AddTrackInput is the input for appending a track.
type AddTrackInput struct {
	ID   int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	Body TrackInputRequest
}

// AddTrackOutput is the output for appending a track.
type AddTrackOutput struct {
	Status int
	Body   PlaylistTrackResponse
}

// AddTrack appends a track to the end of a playlist.
func (h *PlaylistHandler) AddTrack(ctx context.Context, input *AddTrackInput) (*AddTrackOutput, error) {
	track, err := h.repo.AddTrack(ctx, input.ID, input.Body.ToInput())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", input.ID))
		}
		if isValidationErr(err) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to add track", err)
	}

	return &AddTrackOutput{Status: 201, Body: PlaylistTrackFromModel(track)}, nil
}

// MoveTrackInput is the input for moving a track.
type MoveTrackInput struct {
	ID      int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	TrackID int64 `path:"trackId" doc:"Playlist track ID" minimum:"1"`
	Body    struct {
		Position int `json:"position" doc:"New 0-based position" minimum:"0"`
	}
}

// MoveTrackOutput is the output for moving a track.
type MoveTrackOutput struct {
	Status int
}

// MoveTrack updates a track's position within a playlist.
func (h *PlaylistHandler) MoveTrack(ctx context.Context, input *MoveTrackInput) (*MoveTrackOutput, error) {
	if err := h.repo.UpdateTrackPosition(ctx, input.ID, input.TrackID, input.Body.Position); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("track %d not found in playlist %d", input.TrackID, input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to move track", err)
	}
	return &MoveTrackOutput{Status: 204}, nil
}

// RemoveTrackInput is the input for removing a track.
type RemoveTrackInput struct {
	ID      int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	TrackID int64 `path:"trackId" doc:"Playlist track ID" minimum:"1"`
}

// RemoveTrackOutput is the output for removing a track.
type RemoveTrackOutput struct {
	Status int
}

// RemoveTrack deletes a track from a playlist. Remaining tracks keep their
// positions.
func (h *PlaylistHandler) RemoveTrack(ctx context.Context, input *RemoveTrackInput) (*RemoveTrackOutput, error) {
	if err := h.repo.RemoveTrack(ctx, input.ID, input.TrackID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("track %d not found in playlist %d", input.TrackID, input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to remove track", err)
	}
	return &RemoveTrackOutput{Status: 204}, nil
}

// SetFiltersInput is the input for recording generation filters.
type SetFiltersInput struct {
	ID   int64 `path:"id" doc:"Playlist ID" minimum:"1"`
	Body models.TrackFilters
}

// SetFiltersOutput is the output for recording generation filters.
type SetFiltersOutput struct {
	Status int
}

// SetFilters stores the filter criteria a playlist was generated from.
func (h *PlaylistHandler) SetFilters(ctx context.Context, input *SetFiltersInput) (*SetFiltersOutput, error) {
	if err := h.repo.SetFilters(ctx, input.ID, input.Body); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to set filters", err)
	}
	return &SetFiltersOutput{Status: 204}, nil
}

func (h *PlaylistHandler) playlistDetail(ctx context.Context, id int64, status int) (*CreatePlaylistOutput, error) {
	playlist, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("playlist %d not found", id))
		}
		return nil, huma.Error500InternalServerError("failed to get playlist", err)
	}

	detail := PlaylistDetailResponse{
		PlaylistResponse: PlaylistFromModel(playlist),
		Tracks:           make([]PlaylistTrackResponse, len(playlist.Tracks)),
	}
	for i := range playlist.Tracks {
		detail.Tracks[i] = PlaylistTrackFromModel(&playlist.Tracks[i])
	}
	return &CreatePlaylistOutput{Status: status, Body: detail}, nil
}
