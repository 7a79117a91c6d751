package credential

import (
	"encoding/json"
	"fmt"
	"os"

	internal_errors "github.com/pluely/gateway/internal/errors"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	licenseKeyField    = "license_key"
	instanceIdField    = "instance_id"
	selectedModelField = "selected_pluely_model"
)

// FileStore reads the JSON storage file written by the desktop client on
// license activation. The file is read on every lookup.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

func (fs *FileStore) GetCredentials() (*Credentials, error) {
	if _, err := os.Stat(fs.path); err != nil {
		return nil, internal_errors.NewNotAuthenticatedError("No license found. Please activate your license first.")
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(fs.path), koanfjson.Parser()); err != nil {
		return nil, internal_errors.NewDecodeError(fmt.Sprintf("Failed to parse storage file: %v", err))
	}

	licenseKey := k.String(licenseKeyField)
	instanceId := k.String(instanceIdField)
	if err := validate(licenseKey, instanceId); err != nil {
		return nil, err
	}

	return &Credentials{
		LicenseKey:    licenseKey,
		InstanceId:    instanceId,
		SelectedModel: parseModel(k.String(selectedModelField)),
	}, nil
}

// parseModel decodes the selected model stored as a JSON string. A malformed
// value is treated as no selection.
func parseModel(raw string) *Model {
	if len(raw) == 0 {
		return nil
	}

	m := &Model{}
	if err := json.Unmarshal([]byte(raw), m); err != nil {
		return nil
	}

	return m
}
