package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/library"
	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/pkg/musickey"
)

// LibraryHandler handles read-only Mixxx library API endpoints.
type LibraryHandler struct {
	reader *library.Reader
}

// NewLibraryHandler creates a new library handler.
func NewLibraryHandler(reader *library.Reader) *LibraryHandler {
	return &LibraryHandler{reader: reader}
}

// Register registers the library routes with the API.
func (h *LibraryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "connectLibrary",
		Method:      "POST",
		Path:        "/api/v1/library/connect",
		Summary:     "Connect to a Mixxx library",
		Description: "Opens the Mixxx database read-only. An empty path uses the platform default location",
		Tags:        []string{"Library"},
	}, h.Connect)

	huma.Register(api, huma.Operation{
		OperationID: "disconnectLibrary",
		Method:      "POST",
		Path:        "/api/v1/library/disconnect",
		Summary:     "Disconnect from the library",
		Tags:        []string{"Library"},
	}, h.Disconnect)

	huma.Register(api, huma.Operation{
		OperationID: "libraryStatus",
		Method:      "GET",
		Path:        "/api/v1/library/status",
		Summary:     "Get library connection status",
		Tags:        []string{"Library"},
	}, h.Status)

	huma.Register(api, huma.Operation{
		OperationID: "searchLibraryTracks",
		Method:      "GET",
		Path:        "/api/v1/library/tracks",
		Summary:     "Search library tracks",
		Description: "Searches tracks with optional BPM range, genre, key, artist, grouping, and crate filters",
		Tags:        []string{"Library"},
	}, h.SearchTracks)

	huma.Register(api, huma.Operation{
		OperationID: "getLibraryTrack",
		Method:      "GET",
		Path:        "/api/v1/library/tracks/{id}",
		Summary:     "Get a library track",
		Tags:        []string{"Library"},
	}, h.GetTrack)

	huma.Register(api, huma.Operation{
		OperationID: "listLibraryGenres",
		Method:      "GET",
		Path:        "/api/v1/library/genres",
		Summary:     "List distinct genres",
		Tags:        []string{"Library"},
	}, h.Genres)

	huma.Register(api, huma.Operation{
		OperationID: "listLibraryKeys",
		Method:      "GET",
		Path:        "/api/v1/library/keys",
		Summary:     "List distinct musical keys",
		Tags:        []string{"Library"},
	}, h.Keys)

	huma.Register(api, huma.Operation{
		OperationID: "listLibraryCrates",
		Method:      "GET",
		Path:        "/api/v1/library/crates",
		Summary:     "List crates with track counts",
		Tags:        []string{"Library"},
	}, h.Crates)

	huma.Register(api, huma.Operation{
		OperationID: "listLibraryPlaylists",
		Method:      "GET",
		Path:        "/api/v1/library/playlists",
		Summary:     "List Mixxx playlists",
		Tags:        []string{"Library"},
	}, h.Playlists)

	huma.Register(api, huma.Operation{
		OperationID: "listLibraryPlaylistTracks",
		Method:      "GET",
		Path:        "/api/v1/library/playlists/{id}/tracks",
		Summary:     "List a Mixxx playlist's tracks",
		Tags:        []string{"Library"},
	}, h.PlaylistTracks)

	huma.Register(api, huma.Operation{
		OperationID: "libraryStats",
		Method:      "GET",
		Path:        "/api/v1/library/stats",
		Summary:     "Get library statistics",
		Tags:        []string{"Library"},
	}, h.Stats)
}

// libraryErr maps reader failures onto HTTP errors.
func libraryErr(action string, err error) error {
	if errors.Is(err, library.ErrNotConnected) {
		return huma.Error409Conflict("no library connected")
	}
	if errors.Is(err, models.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError(action, err)
}

// ConnectInput is the input for connecting to a library.
type ConnectInput struct {
	Body struct {
		Path string `json:"path,omitempty" doc:"Path to mixxxdb.sqlite; empty uses the platform default" maxLength:"4096"`
	}
}

// ConnectOutput is the output for connecting to a library.
type ConnectOutput struct {
	Body library.ConnectResult
}

// Connect opens the Mixxx database read-only. Failure is reported in the
// result body rather than as a transport error so the client can show it.
func (h *LibraryHandler) Connect(ctx context.Context, input *ConnectInput) (*ConnectOutput, error) {
	result := h.reader.Connect(ctx, input.Body.Path)
	return &ConnectOutput{Body: *result}, nil
}

// DisconnectInput is the input for disconnecting.
type DisconnectInput struct{}

// DisconnectOutput is the output for disconnecting.
type DisconnectOutput struct {
	Status int
}

// Disconnect closes the library connection if one is open.
func (h *LibraryHandler) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	h.reader.Disconnect()
	return &DisconnectOutput{Status: 204}, nil
}

// StatusInput is the input for the status endpoint.
type StatusInput struct{}

// StatusOutput is the output for the status endpoint.
type StatusOutput struct {
	Body struct {
		Connected bool   `json:"connected"`
		Path      string `json:"path,omitempty"`
	}
}

// Status reports whether a library is connected and where.
func (h *LibraryHandler) Status(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	resp := &StatusOutput{}
	resp.Body.Connected = h.reader.Connected()
	resp.Body.Path = h.reader.Path()
	return resp, nil
}

// SearchTracksInput is the input for searching tracks.
type SearchTracksInput struct {
	BPMMin   *float64 `query:"bpm_min" doc:"Minimum BPM (inclusive)"`
	BPMMax   *float64 `query:"bpm_max" doc:"Maximum BPM (inclusive)"`
	Genre    string   `query:"genre" doc:"Exact genre match"`
	Key      string   `query:"key" doc:"Exact musical key match, traditional or Camelot notation"`
	Harmonic bool     `query:"harmonic" doc:"Widen the key filter to harmonically compatible keys on the Camelot wheel"`
	Artist   string   `query:"artist" doc:"Artist substring match"`
	Grouping string   `query:"grouping" doc:"Exact grouping match"`
	CrateID  *int64   `query:"crate_id" doc:"Restrict to one crate"`
	Limit    int      `query:"limit" default:"500" minimum:"1" maximum:"10000" doc:"Maximum rows returned"`
}

// SearchTracksOutput is the output for searching tracks.
type SearchTracksOutput struct {
	Body struct {
		Tracks []LibraryTrackResponse `json:"tracks"`
	}
}

// SearchTracks searches the connected library.
func (h *LibraryHandler) SearchTracks(ctx context.Context, input *SearchTracksInput) (*SearchTracksOutput, error) {
	filters := models.TrackFilters{
		BPMMin:   input.BPMMin,
		BPMMax:   input.BPMMax,
		Genre:    input.Genre,
		Key:      input.Key,
		Artist:   input.Artist,
		Grouping: input.Grouping,
		CrateID:  input.CrateID,
	}

	// Harmonic matching can't be an exact SQL match; query without the key
	// and keep compatible tracks afterwards.
	harmonic := input.Harmonic && input.Key != ""
	if harmonic {
		if _, err := musickey.ToCamelot(input.Key); err != nil {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("unrecognized key %q", input.Key))
		}
		filters.Key = ""
	}

	tracks, err := h.reader.SearchTracks(ctx, filters, input.Limit)
	if err != nil {
		return nil, libraryErr("failed to search tracks", err)
	}

	if harmonic {
		compatible := tracks[:0]
		for i := range tracks {
			if tracks[i].Key != nil && musickey.Compatible(input.Key, *tracks[i].Key) {
				compatible = append(compatible, tracks[i])
			}
		}
		tracks = compatible
	}

	resp := &SearchTracksOutput{}
	resp.Body.Tracks = make([]LibraryTrackResponse, len(tracks))
	for i := range tracks {
		resp.Body.Tracks[i] = LibraryTrackFromModel(&tracks[i])
	}
	return resp, nil
}

// GetTrackInput is the input for getting a track.
type GetTrackInput struct {
	ID int64 `path:"id" doc:"Library track ID" minimum:"1"`
}

// GetTrackOutput is the output for getting a track.
type GetTrackOutput struct {
	Body LibraryTrackResponse
}

// GetTrack returns a single library track.
func (h *LibraryHandler) GetTrack(ctx context.Context, input *GetTrackInput) (*GetTrackOutput, error) {
	track, err := h.reader.GetTrack(ctx, input.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("track %d not found", input.ID))
		}
		return nil, libraryErr("failed to get track", err)
	}
	return &GetTrackOutput{Body: LibraryTrackFromModel(track)}, nil
}

// GenresInput is the input for listing genres.
type GenresInput struct{}

// GenresOutput is the output for listing genres.
type GenresOutput struct {
	Body struct {
		Genres []string `json:"genres"`
	}
}

// Genres lists distinct genres in the library.
func (h *LibraryHandler) Genres(ctx context.Context, input *GenresInput) (*GenresOutput, error) {
	genres, err := h.reader.Genres(ctx)
	if err != nil {
		return nil, libraryErr("failed to list genres", err)
	}
	resp := &GenresOutput{}
	resp.Body.Genres = genres
	return resp, nil
}

// KeysInput is the input for listing keys.
type KeysInput struct{}

// KeysOutput is the output for listing keys.
type KeysOutput struct {
	Body struct {
		Keys []string `json:"keys"`
	}
}

// Keys lists distinct musical keys in the library.
func (h *LibraryHandler) Keys(ctx context.Context, input *KeysInput) (*KeysOutput, error) {
	keys, err := h.reader.Keys(ctx)
	if err != nil {
		return nil, libraryErr("failed to list keys", err)
	}
	resp := &KeysOutput{}
	resp.Body.Keys = keys
	return resp, nil
}

// CratesInput is the input for listing crates.
type CratesInput struct{}

// CratesOutput is the output for listing crates.
type CratesOutput struct {
	Body struct {
		Crates []CrateResponse `json:"crates"`
	}
}

// Crates lists the library's crates with track counts.
func (h *LibraryHandler) Crates(ctx context.Context, input *CratesInput) (*CratesOutput, error) {
	crates, err := h.reader.Crates(ctx)
	if err != nil {
		return nil, libraryErr("failed to list crates", err)
	}
	resp := &CratesOutput{}
	resp.Body.Crates = make([]CrateResponse, len(crates))
	for i, c := range crates {
		resp.Body.Crates[i] = CrateResponse{ID: c.ID, Name: c.Name, TrackCount: c.Count}
	}
	return resp, nil
}

// LibraryPlaylistsInput is the input for listing Mixxx playlists.
type LibraryPlaylistsInput struct{}

// LibraryPlaylistsOutput is the output for listing Mixxx playlists.
type LibraryPlaylistsOutput struct {
	Body struct {
		Playlists []LibraryPlaylistResponse `json:"playlists"`
	}
}

// Playlists lists the playlists stored in the Mixxx library.
func (h *LibraryHandler) Playlists(ctx context.Context, input *LibraryPlaylistsInput) (*LibraryPlaylistsOutput, error) {
	playlists, err := h.reader.Playlists(ctx)
	if err != nil {
		return nil, libraryErr("failed to list playlists", err)
	}
	resp := &LibraryPlaylistsOutput{}
	resp.Body.Playlists = make([]LibraryPlaylistResponse, len(playlists))
	for i, p := range playlists {
		resp.Body.Playlists[i] = LibraryPlaylistResponse{ID: p.ID, Name: p.Name}
	}
	return resp, nil
}

// LibraryPlaylistTracksInput is the input for listing a Mixxx playlist's tracks.
type LibraryPlaylistTracksInput struct {
	ID int64 `path:"id" doc:"Mixxx playlist ID" minimum:"1"`
}

// LibraryPlaylistTracksOutput is the output for listing a Mixxx playlist's tracks.
type LibraryPlaylistTracksOutput struct {
	Body struct {
		Tracks []LibraryTrackResponse `json:"tracks"`
	}
}

// PlaylistTracks lists a Mixxx playlist's tracks in position order.
func (h *LibraryHandler) PlaylistTracks(ctx context.Context, input *LibraryPlaylistTracksInput) (*LibraryPlaylistTracksOutput, error) {
	tracks, err := h.reader.PlaylistTracks(ctx, input.ID)
	if err != nil {
		return nil, libraryErr("failed to list playlist tracks", err)
	}
	resp := &LibraryPlaylistTracksOutput{}
	resp.Body.Tracks = make([]LibraryTrackResponse, len(tracks))
	for i := range tracks {
		resp.Body.Tracks[i] = LibraryTrackFromModel(&tracks[i])
	}
	return resp, nil
}

// LibraryStatsInput is the input for library statistics.
type LibraryStatsInput struct{}

// LibraryStatsOutput is the output for library statistics.
type LibraryStatsOutput struct {
	Body LibraryStatsResponse
}

// Stats summarizes the connected library.
func (h *LibraryHandler) Stats(ctx context.Context, input *LibraryStatsInput) (*LibraryStatsOutput, error) {
	stats, err := h.reader.GetStats(ctx)
	if err != nil {
		return nil, libraryErr("failed to get stats", err)
	}
	return &LibraryStatsOutput{Body: LibraryStatsResponse{
		TrackCount:  stats.TrackCount,
		ArtistCount: stats.ArtistCount,
		GenreCount:  stats.GenreCount,
		CrateCount:  stats.CrateCount,
		AverageBPM:  stats.AverageBPM,
	}}, nil
}
