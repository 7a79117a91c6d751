package device

import (
	"errors"

	"github.com/denisbrodbeck/machineid"
)

const appId = "pluely"

// Identity yields a stable identifier for this installation.
type Identity interface {
	DeviceId() (string, error)
}

// MachineIdentity derives the id from the operating system machine id, hashed
// with the application id so the raw value never leaves the device.
type MachineIdentity struct{}

func NewMachineIdentity() *MachineIdentity {
	return &MachineIdentity{}
}

func (mi *MachineIdentity) DeviceId() (string, error) {
	return machineid.ProtectedID(appId)
}

type StaticIdentity struct {
	id string
}

func NewStaticIdentity(id string) *StaticIdentity {
	return &StaticIdentity{
		id: id,
	}
}

func (si *StaticIdentity) DeviceId() (string, error) {
	if len(si.id) == 0 {
		return "", errors.New("device id is empty")
	}

	return si.id, nil
}
