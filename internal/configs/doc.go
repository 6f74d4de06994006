// Package configs manages pinsign's configuration file and on-disk locations.
//
// # Locations
//
// Settings are resolved once at startup into PinsignSettings:
//
//   - ConfigPath: $PINSIGN_CONFIG_DIR/config.toml, or os.UserConfigDir()/pinsign/config.toml
//   - AuditLogPath: $PINSIGN_DATA_DIR/audit.jsonl, or $XDG_DATA_HOME/pinsign/audit.jsonl
//     (~/.local/share/pinsign when XDG_DATA_HOME is unset)
//
// # Configuration File
//
//	[keys]
//	bits = 4096
//
//	[signing]
//	output_suffix = "_signed"
//
//	[devices]
//	mount_prefixes = ["/media", "/mnt", "/run/media"]
//
//	[audit]
//	enabled = true
//
// A missing file yields DefaultConfig. Keys missing from the file keep their
// defaults. Unknown keys, key sizes below keys.MinKeyBits and an empty output
// suffix are rejected with ErrInvalidConfig.
//
// Files are written through a temporary file and rename so a crash never
// leaves a truncated config behind.
package configs
