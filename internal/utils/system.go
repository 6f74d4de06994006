package utils

import (
	"os"
	"os/user"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	return os.Hostname()
}

// CurrentUser returns "user@host" for audit records, degrading to whichever
// half is known, or "unknown".
func CurrentUser() string {
	username, userErr := GetUsername()
	hostname, hostErr := GetHostname()
	switch {
	case userErr == nil && hostErr == nil:
		return username + "@" + hostname
	case userErr == nil:
		return username
	case hostErr == nil:
		return "unknown@" + hostname
	default:
		return "unknown"
	}
}
