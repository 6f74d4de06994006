package cmd

import (
	"errors"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/ui"
)

// ErrVerificationFailed is returned, already reported, by verify when any
// document is not validly signed.
var ErrVerificationFailed = errors.New("one or more documents failed verification")

// formatError turns a workflow error into the final message shown to the user.
func formatError(err error) string {
	cross := ui.Error.Sprint("✗") + " "
	arrow := ui.Info.Sprint("→") + " "

	switch {
	case errors.Is(err, errPinMismatch):
		return cross + "The PINs entered do not match"

	case errors.Is(err, kerrors.ErrInvalidPinFormat):
		return cross + "The PIN must contain digits only and cannot be empty"

	case errors.Is(err, kerrors.ErrInvalidPin):
		return cross + "Incorrect PIN\n" +
			arrow + "The private key could not be unlocked"

	case errors.Is(err, kerrors.ErrCorruptKey):
		return cross + "The private key could not be read\n" +
			arrow + "The PIN may be wrong, or " + ui.Path.Sprint("encrypted_private_key.pk") + " is damaged"

	case errors.Is(err, kerrors.ErrWeakKeySize):
		return cross + err.Error()

	case errors.Is(err, kerrors.ErrKeyExists):
		return cross + "Key files already exist\n" +
			arrow + "To replace them, run again with " + ui.Flag.Sprint("--force")

	case errors.Is(err, kerrors.ErrPrivateKeyNotFound):
		return cross + "No " + ui.Path.Sprint("encrypted_private_key.pk") + " found\n" +
			arrow + "Check " + ui.Flag.Sprint("--key-dir") + " or run " + ui.Code.Sprint("pinsign devices")

	case errors.Is(err, kerrors.ErrPublicKeyNotFound):
		return cross + "No " + ui.Path.Sprint("public_key.pubk") + " found\n" +
			arrow + "Pass " + ui.Flag.Sprint("--public-key") + " or " + ui.Flag.Sprint("--key-dir")

	case errors.Is(err, kerrors.ErrKeyNotFound):
		return cross + "No key files found\n" +
			arrow + "Run " + ui.Code.Sprint("pinsign find <dir>") + " to search a directory"

	case errors.Is(err, kerrors.ErrDeviceNotFound):
		return cross + err.Error() + "\n" +
			arrow + "Run " + ui.Code.Sprint("pinsign devices") + " to list mounted removable media"

	case errors.Is(err, kerrors.ErrMultipleSignatures):
		return cross + "The document already carries a signature"

	case errors.Is(err, kerrors.ErrMalformedSignature):
		return cross + "The signature block is malformed: " + err.Error()

	case errors.Is(err, kerrors.ErrNoSignature):
		return ui.Warning.Sprint("⚠") + " The document is not signed"

	case errors.Is(err, kerrors.ErrReconstructionMismatch):
		return cross + "Signing produced output that would not verify; nothing was written"

	case errors.Is(err, kerrors.ErrNoFilesFound):
		return cross + err.Error()

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return cross + err.Error() + "\n" +
			arrow + "Fix the file or run " + ui.Code.Sprint("pinsign config init --force")

	case errors.Is(err, kerrors.ErrConfigExists):
		return cross + "A configuration file already exists\n" +
			arrow + "To overwrite it, run " + ui.Code.Sprint("pinsign config init --force")

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return cross + err.Error()

	case errors.Is(err, kerrors.ErrIO):
		return cross + err.Error()

	default:
		return cross + err.Error()
	}
}

// reportedError marks an error whose message has already been shown to the
// user. The process still exits non-zero, but main does not print it again.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return reportedError{err: err}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// fatalIfEntropyFailure terminates the process when the system random source
// has failed. Nothing else can be done safely once that happens.
func fatalIfEntropyFailure(err error, cleanup func()) {
	if errors.Is(err, kerrors.ErrEntropyFailure) {
		cleanup()
		Logger.Fatalf("%v", err)
	}
}
