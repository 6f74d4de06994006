package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/workflows"
)

// resolveKeyDir returns the directory holding key files, taken either from
// the directory flag named dirFlag or from the mount point of --device.
// Exactly one of the two must be set.
func resolveKeyDir(ctx context.Context, dirFlag, dir, device string) (string, error) {
	switch {
	case dir != "" && device != "", dir == "" && device == "":
		return "", fmt.Errorf("exactly one of --%s or --device is required", dirFlag)
	case dir != "":
		return dir, nil
	}

	mount, err := workflows.ResolveDevice(ctx, device)
	if err != nil {
		return "", err
	}
	Logger.Debugf("Device %s is mounted at %s", device, mount)
	return mount, nil
}
