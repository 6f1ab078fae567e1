package models

import (
	"encoding/json"
	"fmt"
)

// TrackFilters describes how a set of library tracks is selected for the
// playlist builder. All fields are optional; zero values mean "no filter".
// Persisted as JSON text under the trackFilters setting key and on the
// playlist row that was generated from it.
type TrackFilters struct {
	BPMMin   *float64 `json:"bpmMin,omitempty"`
	BPMMax   *float64 `json:"bpmMax,omitempty"`
	Genre    string   `json:"genre,omitempty"`
	Key      string   `json:"key,omitempty"`
	CrateID  *int64   `json:"crateId,omitempty"`
	Artist   string   `json:"artist,omitempty"`
	Grouping string   `json:"grouping,omitempty"`
}

// IsZero reports whether no filter fields are set.
func (f TrackFilters) IsZero() bool {
	return f.BPMMin == nil && f.BPMMax == nil && f.CrateID == nil &&
		f.Genre == "" && f.Key == "" && f.Artist == "" && f.Grouping == ""
}

// Encode serializes the filters as JSON for storage.
func (f TrackFilters) Encode() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding track filters: %w", err)
	}
	return string(data), nil
}

// DecodeTrackFilters deserializes a stored filter payload.
func DecodeTrackFilters(s string) (TrackFilters, error) {
	var f TrackFilters
	if s == "" {
		return f, nil
	}
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return TrackFilters{}, fmt.Errorf("decoding track filters: %w", err)
	}
	return f, nil
}

// SearchFilters describes the library browser's free-text search state.
// Persisted as JSON text under the searchFilters setting key.
type SearchFilters struct {
	Query  string `json:"query,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// Encode serializes the filters as JSON for storage.
func (f SearchFilters) Encode() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding search filters: %w", err)
	}
	return string(data), nil
}

// DecodeSearchFilters deserializes a stored search filter payload.
func DecodeSearchFilters(s string) (SearchFilters, error) {
	var f SearchFilters
	if s == "" {
		return f, nil
	}
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return SearchFilters{}, fmt.Errorf("decoding search filters: %w", err)
	}
	return f, nil
}
