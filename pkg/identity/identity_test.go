package identity

import (
	"path/filepath"
	"testing"

	"github.com/attribkit/attribution-sdk/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInstallState_LoadMissingFile tests that a missing state file means a
// fresh install, not an error.
func TestInstallState_LoadMissingFile(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	s := NewInstallState(statePath, file.NewFileService())

	require.NoError(t, s.Load())
	assert.Empty(t, s.GetInstallID())
	assert.Empty(t, s.GetAppVersion())
}

// TestInstallState_EnsureInstallID tests ID generation and persistence across
// reloads.
func TestInstallState_EnsureInstallID(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	fileClient := file.NewFileService()

	s := NewInstallState(statePath, fileClient)
	require.NoError(t, s.Load())

	installID, fresh, err := s.EnsureInstallID()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NotEmpty(t, installID)
	assert.False(t, s.GetInstallDate().IsZero())

	// The second call returns the same ID without regenerating.
	again, fresh, err := s.EnsureInstallID()
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, installID, again)

	// A new instance backed by the same file sees the persisted ID.
	reloaded := NewInstallState(statePath, fileClient)
	require.NoError(t, reloaded.Load())
	loadedID, fresh, err := reloaded.EnsureInstallID()
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, installID, loadedID)
}

// TestInstallState_SaveAppVersion tests version persistence.
func TestInstallState_SaveAppVersion(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	fileClient := file.NewFileService()

	s := NewInstallState(statePath, fileClient)
	require.NoError(t, s.Load())
	_, _, err := s.EnsureInstallID()
	require.NoError(t, err)

	require.NoError(t, s.SaveAppVersion("2.1.0"))

	reloaded := NewInstallState(statePath, fileClient)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "2.1.0", reloaded.GetAppVersion())
	assert.Equal(t, s.GetInstallID(), reloaded.GetInstallID())
}
