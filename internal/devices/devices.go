package devices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/disk"
)

// Device is a mounted removable volume that may hold a private key.
type Device struct {
	Name       string
	MountPoint string
	FSType     string
	TotalBytes uint64
	FreeBytes  uint64
}

// partitionLister is swapped in tests.
var partitionLister = func(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

// usageReader is swapped in tests.
var usageReader = func(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// DefaultMountPrefixes returns the mount point prefixes under which the
// current OS places removable media.
func DefaultMountPrefixes() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/Volumes"}
	case "windows":
		// Every drive except the system drive counts.
		return nil
	default:
		return []string{"/media", "/mnt", "/run/media"}
	}
}

// List returns mounted partitions whose mount point lies under one of
// prefixes. With no prefixes every partition other than the system drive is
// returned. The result is sorted by mount point; an empty result is not an error.
func List(ctx context.Context, prefixes []string) ([]Device, error) {
	partitions, err := partitionLister(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	systemDrive := systemDrive()
	seen := make(map[string]bool)
	var devices []Device

	for _, p := range partitions {
		if p.Mountpoint == "" || seen[p.Mountpoint] {
			continue
		}
		if len(prefixes) == 0 {
			if strings.EqualFold(filepath.Clean(p.Mountpoint), systemDrive) {
				continue
			}
		} else if !underAny(p.Mountpoint, prefixes) {
			continue
		}
		seen[p.Mountpoint] = true

		d := Device{
			Name:       deviceName(p),
			MountPoint: p.Mountpoint,
			FSType:     p.Fstype,
		}
		// Usage is informational; a volume that cannot be queried is still listed.
		if usage, err := usageReader(ctx, p.Mountpoint); err == nil && usage != nil {
			d.TotalBytes = usage.Total
			d.FreeBytes = usage.Free
		}
		devices = append(devices, d)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].MountPoint < devices[j].MountPoint
	})
	return devices, nil
}

// Find returns the device whose name or mount point equals nameOrPath.
func Find(ctx context.Context, prefixes []string, nameOrPath string) (Device, bool, error) {
	devices, err := List(ctx, prefixes)
	if err != nil {
		return Device{}, false, err
	}
	for _, d := range devices {
		if d.Name == nameOrPath || d.MountPoint == nameOrPath {
			return d, true, nil
		}
	}
	return Device{}, false, nil
}

// underAny reports whether mountPoint equals a prefix or lies beneath one.
// "/mnt" matches "/mnt/usb" but not "/mntdata".
func underAny(mountPoint string, prefixes []string) bool {
	clean := filepath.Clean(mountPoint)
	for _, prefix := range prefixes {
		prefix = filepath.Clean(prefix)
		if clean == prefix || strings.HasPrefix(clean, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// deviceName prefers the volume label (last element of the mount point) and
// falls back to the device node.
func deviceName(p disk.PartitionStat) string {
	base := filepath.Base(p.Mountpoint)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return p.Device
	}
	return base
}

func systemDrive() string {
	if runtime.GOOS != "windows" {
		return "/"
	}
	if drive := os.Getenv("SystemDrive"); drive != "" {
		return filepath.Clean(drive + `\`)
	}
	return `C:\`
}
