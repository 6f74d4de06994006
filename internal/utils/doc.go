// Package utils provides shared helpers for the pinsign CLI.
//
// # Documents
//
//   - ResolveDocuments: expands paths, directories and ** globs into files
//   - SignedOutputPath: default output name for a signed copy
//
// # Terminal and I/O
//
//   - ReadPin: hidden PIN prompt
//   - ReadPinFromStdin: PIN piped on stdin
//
// # System
//
//   - GetUsername, GetHostname, CurrentUser
//
// # Strings
//
//   - FormatPaths
package utils
