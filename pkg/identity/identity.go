package identity

import (
	"os"
	"time"

	"github.com/attribkit/attribution-sdk/pkg/file"
	"github.com/google/uuid"
)

// Identity holds the persisted install state of the SDK inside the host
// application.
type Identity struct {
	InstallID   string    `json:"install_id,omitempty"`
	AppVersion  string    `json:"app_version,omitempty"`
	InstallDate time.Time `json:"install_date,omitempty"`
}

// InstallStateInterface defines methods for managing the persisted install
// state.
type InstallStateInterface interface {
	Load() error
	GetInstallID() string
	GetAppVersion() string
	GetInstallDate() time.Time
	EnsureInstallID() (installID string, fresh bool, err error)
	SaveAppVersion(version string) error
}

// InstallState manages the install identity and its associated file
// operations.
type InstallState struct {
	StateFile string
	Identity  Identity
	fileOps   file.FileOperations
}

// NewInstallState initializes a new InstallState instance backed by the given
// file.
func NewInstallState(filePath string, fileOps file.FileOperations) InstallStateInterface {
	return &InstallState{
		StateFile: filePath,
		fileOps:   fileOps,
		Identity:  Identity{},
	}
}

// Load reads the install state from the file. A missing file means a fresh
// install and is not an error.
func (s *InstallState) Load() error {
	err := s.fileOps.ReadJsonFile(s.StateFile, &s.Identity)
	if err != nil {
		if os.IsNotExist(err) {
			s.Identity = Identity{}
			return nil
		}
		return err
	}

	return nil
}

// GetInstallID returns the current install ID, empty if never installed.
func (s *InstallState) GetInstallID() string {
	return s.Identity.InstallID
}

// GetAppVersion returns the last host application version seen by the SDK.
func (s *InstallState) GetAppVersion() string {
	return s.Identity.AppVersion
}

// GetInstallDate returns when the install was first recorded.
func (s *InstallState) GetInstallDate() time.Time {
	return s.Identity.InstallDate
}

// EnsureInstallID returns the install ID, generating and persisting a new one
// on first run. fresh reports whether this call created the ID.
func (s *InstallState) EnsureInstallID() (string, bool, error) {
	if s.Identity.InstallID != "" {
		return s.Identity.InstallID, false, nil
	}

	s.Identity.InstallID = uuid.New().String()
	s.Identity.InstallDate = time.Now()
	if err := s.fileOps.WriteJsonFile(s.StateFile, s.Identity); err != nil {
		return "", false, err
	}
	return s.Identity.InstallID, true, nil
}

// SaveAppVersion records the host application version and writes the state
// back to the file.
func (s *InstallState) SaveAppVersion(version string) error {
	s.Identity.AppVersion = version
	return s.fileOps.WriteJsonFile(s.StateFile, s.Identity)
}
