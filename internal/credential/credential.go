package credential

import (
	internal_errors "github.com/pluely/gateway/internal/errors"
)

// Model identifies a provider/model pair exposed by the backend.
type Model struct {
	Provider    string `json:"provider"`
	Name        string `json:"name"`
	Id          string `json:"id"`
	Model       string `json:"model"`
	Description string `json:"description"`
	Modality    string `json:"modality"`
	IsAvailable bool   `json:"isAvailable"`
}

type Credentials struct {
	LicenseKey    string
	InstanceId    string
	SelectedModel *Model
}

// Hints returns the provider and model routing hints of the selected model.
// Both are empty when no model is selected.
func (c *Credentials) Hints() (string, string) {
	if c == nil || c.SelectedModel == nil {
		return "", ""
	}

	return c.SelectedModel.Provider, c.SelectedModel.Model
}

type Store interface {
	GetCredentials() (*Credentials, error)
}

// StaticStore serves credentials held in memory. A nil Credentials means the
// user has not activated a license.
type StaticStore struct {
	Credentials *Credentials
}

func NewStaticStore(c *Credentials) *StaticStore {
	return &StaticStore{
		Credentials: c,
	}
}

func (s *StaticStore) GetCredentials() (*Credentials, error) {
	if s == nil || s.Credentials == nil {
		return nil, internal_errors.NewNotAuthenticatedError("No license found. Please activate your license first.")
	}

	copied := *s.Credentials
	return &copied, nil
}

func validate(licenseKey, instanceId string) error {
	if len(licenseKey) == 0 {
		return internal_errors.NewNotAuthenticatedError("License key not found")
	}

	if len(instanceId) == 0 {
		return internal_errors.NewNotAuthenticatedError("Instance ID not found")
	}

	return nil
}
