package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/devices"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

// DeviceStatus is a mounted removable volume and the keys found on it.
type DeviceStatus struct {
	devices.Device
	Keys keystore.Paths
}

// ListDevices enumerates removable volumes using the configured mount
// prefixes and reports which key files each one carries. Volumes that cannot
// be searched are listed without keys.
func ListDevices(ctx context.Context) ([]DeviceStatus, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	list, err := devices.List(ctx, config.Devices.MountPrefixes)
	if err != nil {
		return nil, err
	}

	statuses := make([]DeviceStatus, 0, len(list))
	for _, d := range list {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		status := DeviceStatus{Device: d}
		if paths, err := keystore.FindKeys(d.MountPoint); err == nil {
			status.Keys = paths
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ResolveDevice returns the mount point of the removable volume named
// nameOrPath.
//
// Returns ErrDeviceNotFound if no mounted volume matches.
func ResolveDevice(ctx context.Context, nameOrPath string) (string, error) {
	config, err := loadConfig()
	if err != nil {
		return "", err
	}

	d, ok, err := devices.Find(ctx, config.Devices.MountPrefixes, nameOrPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", kerrors.ErrDeviceNotFound, nameOrPath)
	}
	return d.MountPoint, nil
}
