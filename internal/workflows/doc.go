// Package workflows provides high-level orchestration for pinsign commands.
//
// Workflows tie the core packages (keys, keystore, signature, devices)
// to configuration and the audit trail. Each workflow implements one
// command's logic, independent of CLI concerns like flag parsing, PIN
// prompts, spinners and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads the PIN and wraps it in a keys.Pin
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration
//   - Locating key files and documents
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Generate: creates and stores a PIN-protected key pair
//   - Sign: appends a signature container to a document
//   - Verify: checks the signatures of one or more documents
//   - FindKeys, KeyInfo: locate and describe key files
//   - ListDevices, ResolveDevice: removable media
//   - Inspect: parses a container without verifying it
//   - Log: reads and filters the audit trail
//   - ConfigInit, ConfigShow: configuration file
//
// Workflows never clear the PIN they are given. The caller that created it
// clears it.
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package so the
// CLI can pick a message with errors.Is():
//
//	result, err := workflows.Sign(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidPin) {
//	    // Tell the user the PIN was wrong
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// The context is checked between steps; key generation and RSA operations
// themselves are not interruptible.
package workflows
