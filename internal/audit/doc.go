// Package audit records an append-only trail of pinsign operations.
//
// Every key generation, signing and verification is written as one JSON
// object per line to configs.PinsignSettings.AuditLogPath. Each entry carries
// a random UUID, a UTC timestamp with microseconds, the user@host that ran
// it, and operation details: the document, the key path, the public key
// fingerprint and the verdict. PINs and key material are never recorded.
//
// # Usage
//
//	entry := audit.NewEntry(audit.OpSign)
//	entry.Document = path
//	entry.Fingerprint = fp
//	audit.Log(entry)
//
// # Failure Handling
//
// Logging is best-effort and never returns an error. Concurrent writers are
// serialised with an advisory lock on a sibling ".lock" file.
//
// ReadEntries and ParseEntries skip malformed lines so a partially written
// tail does not hide the rest of the log.
package audit
