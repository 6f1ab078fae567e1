package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/observability"
	"github.com/beatbrain/beatbrain/internal/repository"
)

// SettingsHandler handles runtime and persisted settings API endpoints.
type SettingsHandler struct {
	repo repository.SettingsRepository
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// Register registers the settings routes with the API.
func (h *SettingsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSettings",
		Method:      "GET",
		Path:        "/api/v1/settings",
		Summary:     "Get runtime settings",
		Description: "Returns current runtime settings",
		Tags:        []string{"Settings"},
	}, h.GetSettings)

	huma.Register(api, huma.Operation{
		OperationID: "updateSettings",
		Method:      "PUT",
		Path:        "/api/v1/settings",
		Summary:     "Update runtime settings",
		Description: "Updates runtime settings configuration",
		Tags:        []string{"Settings"},
	}, h.UpdateSettings)

	huma.Register(api, huma.Operation{
		OperationID: "getSearchFilters",
		Method:      "GET",
		Path:        "/api/v1/settings/search-filters",
		Summary:     "Get saved search filters",
		Description: "Returns the library search filters from the last session",
		Tags:        []string{"Settings"},
	}, h.GetSearchFilters)

	huma.Register(api, huma.Operation{
		OperationID: "saveSearchFilters",
		Method:      "PUT",
		Path:        "/api/v1/settings/search-filters",
		Summary:     "Save search filters",
		Tags:        []string{"Settings"},
	}, h.SaveSearchFilters)

	huma.Register(api, huma.Operation{
		OperationID: "getTrackFilters",
		Method:      "GET",
		Path:        "/api/v1/settings/track-filters",
		Summary:     "Get saved track filters",
		Description: "Returns the playlist-builder filters from the last session",
		Tags:        []string{"Settings"},
	}, h.GetTrackFilters)

	huma.Register(api, huma.Operation{
		OperationID: "saveTrackFilters",
		Method:      "PUT",
		Path:        "/api/v1/settings/track-filters",
		Summary:     "Save track filters",
		Tags:        []string{"Settings"},
	}, h.SaveTrackFilters)
}

// RuntimeSettings represents the runtime settings data.
type RuntimeSettings struct {
	LogLevel             string `json:"log_level"`
	EnableRequestLogging bool   `json:"enable_request_logging"`
}

// GetSettingsInput is the input for getting settings.
type GetSettingsInput struct{}

// GetSettingsOutput is the output for getting settings.
type GetSettingsOutput struct {
	Body struct {
		Settings RuntimeSettings `json:"settings"`
	}
}

// GetSettings returns current runtime settings.
func (h *SettingsHandler) GetSettings(ctx context.Context, input *GetSettingsInput) (*GetSettingsOutput, error) {
	resp := &GetSettingsOutput{}
	resp.Body.Settings = RuntimeSettings{
		LogLevel:             observability.GetLogLevel(),
		EnableRequestLogging: observability.IsRequestLoggingEnabled(),
	}
	return resp, nil
}

// UpdateSettingsInput is the input for updating settings.
type UpdateSettingsInput struct {
	Body struct {
		LogLevel             *string `json:"log_level,omitempty" enum:"debug,info,warn,error"`
		EnableRequestLogging *bool   `json:"enable_request_logging,omitempty"`
	}
}

// UpdateSettingsOutput is the output for updating settings.
type UpdateSettingsOutput struct {
	Body struct {
		Settings       RuntimeSettings `json:"settings"`
		AppliedChanges []string        `json:"applied_changes"`
	}
}

// UpdateSettings updates runtime settings. Log level changes take effect
// immediately for all loggers sharing the global level.
func (h *SettingsHandler) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	appliedChanges := []string{}

	if input.Body.LogLevel != nil {
		observability.SetLogLevel(*input.Body.LogLevel)
		appliedChanges = append(appliedChanges, "log_level")
	}
	if input.Body.EnableRequestLogging != nil {
		observability.SetRequestLogging(*input.Body.EnableRequestLogging)
		appliedChanges = append(appliedChanges, "enable_request_logging")
	}

	resp := &UpdateSettingsOutput{}
	resp.Body.Settings = RuntimeSettings{
		LogLevel:             observability.GetLogLevel(),
		EnableRequestLogging: observability.IsRequestLoggingEnabled(),
	}
	resp.Body.AppliedChanges = appliedChanges
	return resp, nil
}

// GetSearchFiltersInput is the input for getting saved search filters.
type GetSearchFiltersInput struct{}

// GetSearchFiltersOutput is the output for getting saved search filters.
type GetSearchFiltersOutput struct {
	Body struct {
		Filters models.SearchFilters `json:"filters"`
		Saved   bool                 `json:"saved"`
	}
}

// GetSearchFilters returns the persisted library search filters. A missing
// value yields zero-value filters with saved=false.
func (h *SettingsHandler) GetSearchFilters(ctx context.Context, input *GetSearchFiltersInput) (*GetSearchFiltersOutput, error) {
	raw, ok, err := h.repo.Get(ctx, models.SettingKeySearchFilters)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get search filters", err)
	}

	resp := &GetSearchFiltersOutput{}
	if !ok {
		return resp, nil
	}

	filters, err := models.DecodeSearchFilters(raw)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to decode search filters", err)
	}
	resp.Body.Filters = filters
	resp.Body.Saved = true
	return resp, nil
}

// SaveSearchFiltersInput is the input for saving search filters.
type SaveSearchFiltersInput struct {
	Body models.SearchFilters
}

// SaveSearchFiltersOutput is the output for saving search filters.
type SaveSearchFiltersOutput struct {
	Status int
}

// SaveSearchFilters persists the library search filters.
func (h *SettingsHandler) SaveSearchFilters(ctx context.Context, input *SaveSearchFiltersInput) (*SaveSearchFiltersOutput, error) {
	if err := h.repo.SaveSearchFilters(ctx, input.Body); err != nil {
		return nil, huma.Error500InternalServerError("failed to save search filters", err)
	}
	return &SaveSearchFiltersOutput{Status: 204}, nil
}

// GetTrackFiltersInput is the input for getting saved track filters.
type GetTrackFiltersInput struct{}

// GetTrackFiltersOutput is the output for getting saved track filters.
type GetTrackFiltersOutput struct {
	Body struct {
		Filters models.TrackFilters `json:"filters"`
		Saved   bool                `json:"saved"`
	}
}

// GetTrackFilters returns the persisted playlist-builder filters.
func (h *SettingsHandler) GetTrackFilters(ctx context.Context, input *GetTrackFiltersInput) (*GetTrackFiltersOutput, error) {
	raw, ok, err := h.repo.TrackFilters(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get track filters", err)
	}

	resp := &GetTrackFiltersOutput{}
	if !ok {
		return resp, nil
	}

	filters, err := models.DecodeTrackFilters(raw)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to decode track filters", err)
	}
	resp.Body.Filters = filters
	resp.Body.Saved = true
	return resp, nil
}

// SaveTrackFiltersInput is the input for saving track filters.
type SaveTrackFiltersInput struct {
	Body models.TrackFilters
}

// SaveTrackFiltersOutput is the output for saving track filters.
type SaveTrackFiltersOutput struct {
	Status int
}

// SaveTrackFilters persists the playlist-builder filters.
func (h *SettingsHandler) SaveTrackFilters(ctx context.Context, input *SaveTrackFiltersInput) (*SaveTrackFiltersOutput, error) {
	if err := h.repo.SaveTrackFilters(ctx, input.Body); err != nil {
		return nil, huma.Error500InternalServerError("failed to save track filters", err)
	}
	return &SaveTrackFiltersOutput{Status: 204}, nil
}
