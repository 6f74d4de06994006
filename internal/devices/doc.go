// Package devices lists mounted removable volumes so the user can pick the
// drive that holds their encrypted private key.
//
// Detection is by mount point rather than by bus type: on Linux volumes
// under /media, /mnt or /run/media are treated as removable, on macOS those
// under /Volumes, and on Windows every drive except the system drive. The
// prefixes are configurable.
package devices
