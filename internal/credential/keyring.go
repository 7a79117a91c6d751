package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	internal_errors "github.com/pluely/gateway/internal/errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "pluely"

// KeyringStore keeps credentials in the operating system keyring.
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{
		service: keyringService,
	}
}

func (ks *KeyringStore) get(key string) (string, error) {
	val, err := keyring.Get(ks.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}

	return val, err
}

func (ks *KeyringStore) GetCredentials() (*Credentials, error) {
	licenseKey, err := ks.get(licenseKeyField)
	if err != nil {
		return nil, internal_errors.NewNotAuthenticatedError(fmt.Sprintf("Failed to read keyring: %v", err))
	}

	if len(licenseKey) == 0 {
		return nil, internal_errors.NewNotAuthenticatedError("No license found. Please activate your license first.")
	}

	instanceId, err := ks.get(instanceIdField)
	if err != nil {
		return nil, internal_errors.NewNotAuthenticatedError(fmt.Sprintf("Failed to read keyring: %v", err))
	}

	if err := validate(licenseKey, instanceId); err != nil {
		return nil, err
	}

	selected, _ := ks.get(selectedModelField)

	return &Credentials{
		LicenseKey:    licenseKey,
		InstanceId:    instanceId,
		SelectedModel: parseModel(selected),
	}, nil
}

func (ks *KeyringStore) SaveCredentials(c *Credentials) error {
	if c == nil {
		return errors.New("credentials are empty")
	}

	if err := validate(c.LicenseKey, c.InstanceId); err != nil {
		return err
	}

	if err := keyring.Set(ks.service, licenseKeyField, c.LicenseKey); err != nil {
		return err
	}

	if err := keyring.Set(ks.service, instanceIdField, c.InstanceId); err != nil {
		return err
	}

	if c.SelectedModel == nil {
		err := keyring.Delete(ks.service, selectedModelField)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}

		return nil
	}

	bs, err := json.Marshal(c.SelectedModel)
	if err != nil {
		return err
	}

	return keyring.Set(ks.service, selectedModelField, string(bs))
}

func (ks *KeyringStore) DeleteCredentials() error {
	for _, key := range []string{licenseKeyField, instanceIdField, selectedModelField} {
		err := keyring.Delete(ks.service, key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
	}

	return nil
}
