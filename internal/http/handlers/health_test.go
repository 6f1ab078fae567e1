package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_GetVersion(t *testing.T) {
	handler := NewHealthHandler("1.2.3")

	resp, err := handler.GetVersion(context.Background(), &VersionInput{})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", resp.Body.Version)
}

func TestHealthHandler_GetHealth_NoDependencies(t *testing.T) {
	handler := NewHealthHandler("1.2.3")

	resp, err := handler.GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)

	assert.Equal(t, "healthy", resp.Body.Status)
	assert.Equal(t, "1.2.3", resp.Body.Version)
	assert.Equal(t, "unknown", resp.Body.Database.Status)
	assert.False(t, resp.Body.Library.Connected)
	assert.Greater(t, resp.Body.CPU.Cores, 0)
	assert.NotEmpty(t, resp.Body.Uptime)
}

func TestHealthHandler_GetHealth_WithDB(t *testing.T) {
	db := setupHandlerDB(t)
	handler := NewHealthHandler("dev").WithDB(db)

	resp, err := handler.GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)

	assert.Equal(t, "healthy", resp.Body.Status)
	assert.Equal(t, "ok", resp.Body.Database.Status)
	assert.Equal(t, "ok", resp.Body.Checks["database"])
}
