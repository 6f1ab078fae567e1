package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beatbrain/beatbrain/internal/repository"
)

// PreferencesHandler handles category-scoped user preference endpoints.
type PreferencesHandler struct {
	repo repository.PreferencesRepository
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(repo repository.PreferencesRepository) *PreferencesHandler {
	return &PreferencesHandler{repo: repo}
}

// Register registers the preference routes with the API.
func (h *PreferencesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getPreferences",
		Method:      "GET",
		Path:        "/api/v1/preferences/{category}",
		Summary:     "Get a preference category",
		Description: "Returns all key/value pairs in one category",
		Tags:        []string{"Preferences"},
	}, h.GetCategory)

	huma.Register(api, huma.Operation{
		OperationID: "getPreference",
		Method:      "GET",
		Path:        "/api/v1/preferences/{category}/{key}",
		Summary:     "Get a preference",
		Tags:        []string{"Preferences"},
	}, h.GetPreference)

	huma.Register(api, huma.Operation{
		OperationID: "setPreference",
		Method:      "PUT",
		Path:        "/api/v1/preferences/{category}/{key}",
		Summary:     "Set a preference",
		Description: "Upserts a preference; the newest write wins",
		Tags:        []string{"Preferences"},
	}, h.SetPreference)
}

// GetCategoryInput is the input for getting a preference category.
type GetCategoryInput struct {
	Category string `path:"category" doc:"Preference category" minLength:"1" maxLength:"255"`
}

// GetCategoryOutput is the output for getting a preference category.
type GetCategoryOutput struct {
	Body struct {
		Category    string            `json:"category"`
		Preferences map[string]string `json:"preferences"`
	}
}

// GetCategory returns all preferences in a category.
func (h *PreferencesHandler) GetCategory(ctx context.Context, input *GetCategoryInput) (*GetCategoryOutput, error) {
	prefs, err := h.repo.GetAll(ctx, input.Category)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get preferences", err)
	}

	resp := &GetCategoryOutput{}
	resp.Body.Category = input.Category
	resp.Body.Preferences = prefs
	return resp, nil
}

// GetPreferenceInput is the input for getting a single preference.
type GetPreferenceInput struct {
	Category string `path:"category" doc:"Preference category" minLength:"1" maxLength:"255"`
	Key      string `path:"key" doc:"Preference key" minLength:"1" maxLength:"255"`
}

// GetPreferenceOutput is the output for getting a single preference.
type GetPreferenceOutput struct {
	Body struct {
		Category string `json:"category"`
		Key      string `json:"key"`
		Value    string `json:"value"`
	}
}

// GetPreference returns one preference value.
func (h *PreferencesHandler) GetPreference(ctx context.Context, input *GetPreferenceInput) (*GetPreferenceOutput, error) {
	value, ok, err := h.repo.Get(ctx, input.Category, input.Key)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get preference", err)
	}
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("preference %s/%s not found", input.Category, input.Key))
	}

	resp := &GetPreferenceOutput{}
	resp.Body.Category = input.Category
	resp.Body.Key = input.Key
	resp.Body.Value = value
	return resp, nil
}

// SetPreferenceInput is the input for setting a preference.
type SetPreferenceInput struct {
	Category string `path:"category" doc:"Preference category" minLength:"1" maxLength:"255"`
	Key      string `path:"key" doc:"Preference key" minLength:"1" maxLength:"255"`
	Body     struct {
		Value string `json:"value" doc:"Preference value"`
	}
}

// SetPreferenceOutput is the output for setting a preference.
type SetPreferenceOutput struct {
	Status int
}

// SetPreference upserts a preference.
func (h *PreferencesHandler) SetPreference(ctx context.Context, input *SetPreferenceInput) (*SetPreferenceOutput, error) {
	if err := h.repo.Set(ctx, input.Category, input.Key, input.Body.Value); err != nil {
		return nil, huma.Error500InternalServerError("failed to set preference", err)
	}
	return &SetPreferenceOutput{Status: 204}, nil
}
