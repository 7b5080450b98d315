package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statePayload struct {
	InstallID  string `json:"install_id"`
	AppVersion string `json:"app_version"`
}

// TestFileService_JsonRoundTrip tests atomic JSON persistence and reload.
func TestFileService_JsonRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileService()

	in := statePayload{InstallID: "abc-123", AppVersion: "1.0.0"}
	require.NoError(t, fs.WriteJsonFile(path, in))

	// No temp file is left behind after a successful write.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	var out statePayload
	require.NoError(t, fs.ReadJsonFile(path, &out))
	assert.Equal(t, in, out)
}

// TestFileService_ReadJsonFile_Missing tests that a missing file surfaces as
// an os.IsNotExist error, which callers treat as a fresh state.
func TestFileService_ReadJsonFile_Missing(t *testing.T) {
	fs := NewFileService()

	var out statePayload
	err := fs.ReadJsonFile(filepath.Join(t.TempDir(), "absent.json"), &out)
	assert.True(t, os.IsNotExist(err))
}

// TestFileService_ReadYamlFile tests YAML parsing into a struct.
func TestFileService_ReadYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: sampler\ncount: 3\n"), 0600))

	var out struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}
	fs := NewFileService()
	require.NoError(t, fs.ReadYamlFile(path, &out))
	assert.Equal(t, "sampler", out.Name)
	assert.Equal(t, 3, out.Count)
}
